package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KotFed0t/carteira_acoes/config"
	"github.com/KotFed0t/carteira_acoes/internal/transport/rest"
)

type HttpServer struct {
	srv *http.Server
	cfg *config.Config
}

func New(cfg *config.Config, ctrl *rest.Controller) *HttpServer {
	return &HttpServer{
		cfg: cfg,
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
			Handler:      NewHandler(cfg, ctrl),
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start serves in the background. A listen failure is sent to errCh.
func (s *HttpServer) Start(errCh chan<- error) {
	go func() {
		slog.Info("http server started", slog.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped with error", slog.String("err", err.Error()))
			errCh <- fmt.Errorf("http server: listen: %w", err)
		}
	}()
}

// Stop waits for in-flight requests up to the configured shutdown timeout.
func (s *HttpServer) Stop() {
	slog.Info("start stopping http server")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown error", slog.String("err", err.Error()))
		return
	}

	slog.Info("http server stopped")
}
