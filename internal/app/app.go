package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/talentwire/linkedin-mcp-bridge/internal/config"
	"github.com/talentwire/linkedin-mcp-bridge/internal/http/health"
	"github.com/talentwire/linkedin-mcp-bridge/internal/timeutil"
)

// App controls the proxy HTTP server lifecycle.
type App struct {
	baseCtx         context.Context
	server          *http.Server
	health          *health.Handler
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New initializes the HTTP server with health endpoints mounted alongside the
// proxy handler.
func New(baseCtx context.Context, serverCfg config.ServerConfig, handler http.Handler, healthHandler *health.Handler, logger *slog.Logger, shutdownTimeout time.Duration) (*App, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is nil")
	}
	if baseCtx == nil {
		return nil, fmt.Errorf("base context is nil")
	}
	if healthHandler == nil {
		healthHandler = health.New(nil)
	}

	readTimeout := timeutil.ParseDurationOrDefault(serverCfg.ReadTimeout, 15*time.Second)
	writeTimeout := timeutil.ParseDurationOrDefault(serverCfg.WriteTimeout, 60*time.Second)
	idleTimeout := timeutil.ParseDurationOrDefault(serverCfg.IdleTimeout, 60*time.Second)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.HandleFunc("GET /api/health", healthHandler.Health)
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Readyz)

	srv := &http.Server{
		Addr:         serverCfg.Listen,
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	if shutdownTimeout == 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &App{
		baseCtx:         baseCtx,
		server:          srv,
		health:          healthHandler,
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.health.SetReady()
		if a.logger != nil {
			a.logger.Info("http server started", "addr", a.server.Addr)
		}
		errCh <- a.server.ListenAndServe()
	}()

	for {
		select {
		case <-ctx.Done():
			if a.logger != nil {
				a.logger.Info("shutdown requested")
			}
			return a.shutdown()
		case err := <-errCh:
			if err == nil || errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			if a.logger != nil {
				a.logger.Error("http server error", "error", err)
			}
			return err
		}
	}
}

func (a *App) shutdown() error {
	a.health.SetNotReady()
	ctx, cancel := context.WithTimeout(a.baseCtx, a.shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
