package utils

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type rqIDKey struct{}

type accountIDKey struct{}

func GetRequestIDFromCtx(ctx context.Context) string {
	rqID, ok := ctx.Value(rqIDKey{}).(string)
	if !ok {
		return ""
	}
	return rqID
}

func CreateCtxWithRqID(ctx context.Context, rqID string) context.Context {
	if rqID == "" {
		rqID = uuid.NewString()
	}
	return context.WithValue(ctx, rqIDKey{}, rqID)
}

// CreateRequestCtx builds request context reusing an incoming X-Request-ID when present.
func CreateRequestCtx(r *http.Request) context.Context {
	return CreateCtxWithRqID(r.Context(), r.Header.Get(RequestIDHeader))
}

// WithAccountID stores the account resolved by the auth middleware.
// Only the transport layer reads it back, services receive the id as a parameter.
func WithAccountID(ctx context.Context, accountID int64) context.Context {
	return context.WithValue(ctx, accountIDKey{}, accountID)
}

func GetAccountIDFromCtx(ctx context.Context) (int64, bool) {
	accountID, ok := ctx.Value(accountIDKey{}).(int64)
	return accountID, ok
}
