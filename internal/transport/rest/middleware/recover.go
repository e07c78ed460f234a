package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/KotFed0t/carteira_acoes/utils"
)

func Recover() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					slog.Error(
						"Panic recovered in http handler",
						slog.String("rqID", utils.GetRequestIDFromCtx(r.Context())),
						slog.String("path", r.URL.Path),
						slog.Any("panic", rec),
						slog.String("stacktrace", string(debug.Stack())),
					)
					w.Header().Set("Content-Type", "application/json; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"Erro interno do servidor"}`))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
