package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/eventgen/internal/handlers"
	"github.com/telhawk-systems/eventgen/internal/logging"
	"github.com/telhawk-systems/eventgen/internal/render"
	"github.com/telhawk-systems/eventgen/internal/server"
	"github.com/telhawk-systems/eventgen/internal/sink"
	"github.com/telhawk-systems/eventgen/internal/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the event generator HTTP service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("eventgen"))
	logging.SetDefault(logger)

	slog.Info("Starting event generator",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.Bool("sink_configured", cfg.Sink.URL != "" && cfg.Sink.Token != ""),
	)

	shutdownTracing, err := tracing.Init(cmd.Context(), cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Warn("tracer shutdown", slog.String("error", err.Error()))
		}
	}()

	sinkClient := sink.New(cfg.Sink.URL, cfg.Sink.Token, cfg.Sink.ProbeTimeout, cfg.Sink.SendTimeout)
	generator := handlers.NewGenerator(sinkClient, render.New())

	proxy, err := handlers.NewHTTPBinProxy(cfg.Proxy)
	if err != nil {
		return fmt.Errorf("init httpbin proxy: %w", err)
	}

	router := server.NewRouter(generator, proxy)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
