package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/bloom-backend/internal/domain/bloom"
	"github.com/yanqian/bloom-backend/internal/domain/chatbot"
	"github.com/yanqian/bloom-backend/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	bloom   bloom.Service
	chatbot chatbot.Service
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, bloomSvc bloom.Service, chatbotSvc chatbot.Service) *App {
	return &App{
		cfg:     cfg,
		logger:  logger.With("component", "bootstrap"),
		server:  server,
		bloom:   bloomSvc,
		chatbot: chatbotSvc,
	}
}

// WarmUp loads the forecast model and the reference table before serving.
// A missing forecast artifact is logged; the forecast endpoint reports it per request.
func (a *App) WarmUp(ctx context.Context) {
	if err := a.bloom.WarmUp(ctx); err != nil {
		a.logger.Error("forecast model not loaded at startup", "error", err)
	}
	if err := a.chatbot.WarmUp(ctx); err != nil {
		a.logger.Warn("chatbot warm-up failed", "error", err)
	}
}

// Run warms up, starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	a.WarmUp(ctx)

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
