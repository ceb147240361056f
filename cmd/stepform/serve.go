package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-stepform/internal/config"
	"github.com/goliatone/go-stepform/internal/logging"
	"github.com/goliatone/go-stepform/internal/server"
	"github.com/goliatone/go-stepform/pkg/renderers/jsonview"
	"github.com/goliatone/go-stepform/pkg/renderers/vanilla"
	"github.com/goliatone/go-stepform/pkg/schema"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form over HTTP",
		Long: `Serve the form one step at a time. Navigation state is kept per browser
session in memory or Redis; POST /admin/reload re-reads the source.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func runServe(ctx context.Context, a *app) error {
	logger := logging.WithComponent(a.logger, "server")

	form, err := a.loadForm(ctx)
	if err != nil {
		return err
	}

	handler, closeStore, err := buildServer(a, form)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "base_path", a.cfg.Server.BasePath, "store", a.cfg.Server.Store)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "err", err)
			return srv.Close()
		}
		return nil
	}
}

// buildServer wires the configured store, renderers, theme and reloader. The
// returned func releases the store.
func buildServer(a *app, form schema.FormConfig) (http.Handler, func(), error) {
	html, err := vanilla.New()
	if err != nil {
		return nil, nil, err
	}
	renderOpts, err := a.renderOptions()
	if err != nil {
		return nil, nil, err
	}
	basePath := a.cfg.Server.BasePath
	renderOpts.Stylesheets = append([]string{basePath + "/assets/stepform.css"}, renderOpts.Stylesheets...)

	store, closeStore := newStore(a.cfg.Server)
	opts := []server.Option{
		server.WithStore(store),
		server.WithLogger(logging.WithComponent(a.logger, "server")),
		server.WithInterpreter(a.interpreter()),
		server.WithBasePath(basePath),
		server.WithCookieName(a.cfg.Server.Cookie),
		server.WithRenderOptions(renderOpts),
		server.WithAssets(vanilla.AssetsFS()),
		server.WithReloader(a.loadForm),
	}
	if a.cfg.Server.Metrics {
		opts = append(opts, server.WithMetrics(server.NewMetrics()))
	}

	srv, err := server.New(form, html, jsonview.New(), opts...)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return srv.Handler(), closeStore, nil
}

func newStore(cfg config.ServerConfig) (server.Store, func()) {
	if cfg.Store != config.StoreRedis {
		return server.NewMemoryStore(), func() {}
	}
	store := server.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		server.WithTTL(cfg.SessionTTL),
		server.WithPrefix(cfg.Redis.Prefix),
	)
	return store, func() { _ = store.Close() }
}
