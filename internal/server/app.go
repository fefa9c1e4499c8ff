// Package server assembles the long-running HTTP variant and owns its lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/JakeFAU/gplay-api/internal/api"
	"github.com/JakeFAU/gplay-api/internal/config"
	"github.com/JakeFAU/gplay-api/internal/dispatcher"
	"github.com/JakeFAU/gplay-api/internal/logging"
	"github.com/JakeFAU/gplay-api/internal/playstore"
)

// App contains the application's dependencies.
type App struct {
	cfg        config.Config
	logger     *zap.Logger
	client     *playstore.Client
	dispatch   *dispatcher.Dispatcher
	apiServer  *api.Server
	ownsLogger bool
}

// Build creates the application's dependencies from cfg. A nil logger is
// replaced by one built from cfg.Logging and installed as the zap global.
func Build(cfg config.Config, logger *zap.Logger) (*App, error) {
	owns := false
	if logger == nil {
		var err error
		logger, err = logging.New(cfg.Logging.Development)
		if err != nil {
			return nil, fmt.Errorf("logger init failed: %w", err)
		}
		zap.ReplaceGlobals(logger)
		owns = true
	}

	// Log only non-sensitive config fields.
	logger.Info("building application dependencies",
		zap.Int("server_port", cfg.Server.Port),
		zap.String("scraper_base_url", cfg.Scraper.BaseURL),
		zap.Float64("throttle_rps", cfg.Scraper.ThrottleRPS),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled),
	)

	client := playstore.New(cfg.Playstore(), logger)
	dispatch := dispatcher.New(client, logger)
	return &App{
		cfg:        cfg,
		logger:     logger,
		client:     client,
		dispatch:   dispatch,
		apiServer:  api.NewServer(dispatch, cfg, logger),
		ownsLogger: owns,
	}, nil
}

// Dispatcher exposes the dispatcher for one-shot CLI calls.
func (a *App) Dispatcher() *dispatcher.Dispatcher {
	return a.dispatch
}

// Handler returns the HTTP handler of the server variant.
func (a *App) Handler() http.Handler {
	return a.apiServer.Handler()
}

// Run listens on the configured port and blocks until ctx is canceled or
// SIGINT/SIGTERM arrives, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", a.cfg.Server.Port, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run over an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: a.cfg.ReadHeaderTimeout(),
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server started", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server error", zap.Error(err))
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}
	a.logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
	}
	a.Close()
	return runErr
}

// Close flushes the logger if Build created it.
func (a *App) Close() {
	a.logger.Info("shutdown complete")
	if !a.ownsLogger {
		return
	}
	// Sync on stderr-backed loggers reports EINVAL on some platforms; nothing to act on.
	_ = a.logger.Sync()
}
