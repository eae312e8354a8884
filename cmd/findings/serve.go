package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/spf13/cobra"

	"findings.ee105.org/internal/app"
	"findings.ee105.org/internal/appconf"
	"findings.ee105.org/internal/logging"
	"findings.ee105.org/internal/restapi"
	"findings.ee105.org/internal/webui"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	var preload bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, c.cfg, logging.NewStructuredLogger(cmd.OutOrStdout(), logging.ParseLevel(c.cfg.LogLevel)), preload)
		},
	}

	flags := cmd.Flags()
	flags.IntP("port", "p", 4000, "HTTP listen port")
	flags.StringSlice("api-keys", nil, "comma separated API keys; empty disables key checks")
	flags.Int("rate-limit", 5, "API requests per second per key, also uploads per minute per client")
	flags.String("plots-dir", "", "directory of figure CSVs for the green bond dashboard")
	flags.Duration("cache-ttl", 0, "how long the default dataset is cached; 0 keeps it until restart")
	flags.Duration("refresh-interval", 0, "reload the default dataset in the background; 0 disables")
	flags.BoolVar(&preload, "preload", true, "fetch the default dataset before serving")
	c.bind(cmd, "port", "port")
	c.bind(cmd, "api_keys", "api-keys")
	c.bind(cmd, "rate_limit", "rate-limit")
	c.bind(cmd, "greenbonds.plots_dir", "plots-dir")
	c.bind(cmd, "dataset.cache_ttl", "cache-ttl")
	c.bind(cmd, "dataset.refresh_interval", "refresh-interval")
	return cmd
}

// newHandler wires the API and the pages onto one router behind the shared middleware.
func newHandler(application *app.Application, uploads webui.Limiter) (http.Handler, *restapi.RestAPI) {
	router := httprouter.New()

	api := restapi.NewRestAPI(application)
	api.SetRoutes(router)
	webui.New(application, uploads).SetRoutes(router)

	var handler http.Handler = router
	handler = restapi.CompressionMiddleware(handler)
	handler = restapi.SecurityHeaders(handler)
	handler = restapi.NewRequestLoggingMiddleware(application.Logger)(handler)
	return handler, api
}

func serve(ctx context.Context, cfg *appconf.Config, logger *slog.Logger, preload bool) error {
	application, err := app.New(cfg, logger)
	if err != nil {
		return exitError(ExitError, "findings: %v", err)
	}

	uploads := restapi.NewRateLimiter(cfg.RateLimit, time.Minute, restapi.KeyByClientIP)
	defer uploads.Stop()
	handler, api := newHandler(application, uploads)
	defer api.Close()

	if preload {
		// The CO₂ page reports the failure itself; the green bond dashboard does not need the data.
		if _, err := application.CO2Source.Load(ctx, false); err != nil {
			logging.LogError(logger, "default dataset preload failed", err,
				slog.String("location", cfg.Dataset.URL))
		}
	}
	application.CO2Source.Start()
	defer application.CO2Source.Shutdown()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return exitError(ExitError, "findings: %v", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return exitError(ExitError, "findings: shutdown: %v", err)
	}
	logger.Info("server stopped")
	return nil
}
