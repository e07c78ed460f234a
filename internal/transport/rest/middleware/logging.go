package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/KotFed0t/carteira_acoes/utils"
)

// Logging assigns the request id (reusing X-Request-ID when sent) and logs every request.
func Logging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := utils.CreateRequestCtx(r)
			rqID := utils.GetRequestIDFromCtx(ctx)
			w.Header().Set(utils.RequestIDHeader, rqID)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			slog.Debug("start request", slog.String("rqID", rqID), slog.String("method", r.Method), slog.String("path", r.URL.Path))

			next.ServeHTTP(rw, r.WithContext(ctx))

			slog.Info(
				"http request",
				slog.String("rqID", rqID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("query", r.URL.RawQuery),
				slog.Int("status", rw.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.wroteHeader = true
	}
	return rw.ResponseWriter.Write(b)
}
