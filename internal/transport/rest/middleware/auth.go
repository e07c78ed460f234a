package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/golang-jwt/jwt/v5"
)

const accountIDClaim = "id"

var ErrInvalidToken = errors.New("invalid token")

// Auth verifies an HS256 bearer token and stores the account id from its "id" claim in the request context.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				writeUnauthorized(w, "Token não fornecido")
				return
			}

			accountID, err := ParseAccountID(token, secret)
			if err != nil {
				slog.Warn(
					"rejected bearer token",
					slog.String("rqID", utils.GetRequestIDFromCtx(r.Context())),
					slog.String("err", err.Error()),
				)
				writeUnauthorized(w, "Token inválido")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithAccountID(r.Context(), accountID)))
		})
	}
}

func ParseAccountID(token, secret string) (int64, error) {
	parsed, err := jwt.Parse(
		token,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	// JSON numbers decode as float64
	id, ok := claims[accountIDClaim].(float64)
	if !ok || id <= 0 || id != float64(int64(id)) {
		return 0, fmt.Errorf("%w: bad %q claim", ErrInvalidToken, accountIDClaim)
	}

	return int64(id), nil
}

// SignToken issues a token in the shape Auth accepts.
func SignToken(secret string, accountID int64, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{accountIDClaim: accountID}
	if ttl > 0 {
		claims["exp"] = time.Now().Add(ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func extractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
