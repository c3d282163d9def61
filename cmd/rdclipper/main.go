package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jadeaffenjaeger/rdclipper/internal/clipboard"
	"github.com/jadeaffenjaeger/rdclipper/internal/config"
	"github.com/jadeaffenjaeger/rdclipper/internal/debrid/realdebrid"
	"github.com/jadeaffenjaeger/rdclipper/internal/http/rest"
	"github.com/jadeaffenjaeger/rdclipper/internal/logctx"
	"github.com/jadeaffenjaeger/rdclipper/internal/telemetry"
	"github.com/jadeaffenjaeger/rdclipper/internal/watch"
	"golang.org/x/sync/errgroup"
)

const serviceName = "rdclipper"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	logger := slog.New(logctx.NewTraceHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}),
	))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("rdclipper starting...", "log_level", cfg.LogLevel)

	if err := run(logctx.WithLogger(ctx, logger), cfg); err != nil {
		slog.Error("fatal error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logctx.LoggerFromContext(ctx)

	// =========================================================================
	// Start Telemetry
	tel, err := telemetry.New(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: serviceName,
	})
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}
	defer tel.Shutdown(context.Background())

	// =========================================================================
	// Start Debrid Client
	rd := realdebrid.NewClient(cfg.APIToken)

	if err := rd.Authenticate(ctx); err != nil {
		return fmt.Errorf("authentication error: %w", err)
	}

	domains, err := rd.Domains(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch supported hosts: %w", err)
	}

	logger.Info("fetched supported hosts", "host_count", len(domains))

	// =========================================================================
	// Start Clipboard
	clip, err := clipboard.NewSystem()
	if err != nil {
		return err
	}

	// Whatever is on the clipboard at startup must not be auto-submitted.
	if err := clip.Set(""); err != nil {
		logger.Warn("failed to clear clipboard at startup", "err", err)
	}

	// =========================================================================
	// Open Output
	out, err := os.OpenFile(cfg.OutputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer out.Close()

	// =========================================================================
	// Start Monitor + Status Server
	monitor := watch.NewMonitor(clip, rd, watch.NewHostSet(domains), out, cfg.PollInterval, tel)

	server := &http.Server{
		Addr:         cfg.Web.BindAddress,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		Handler:      rest.NewStatusHandler(tel).Routes(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	logger.Info("clipboard monitor running",
		"output", cfg.OutputPath,
		"poll_interval", cfg.PollInterval.String(),
		"status_addr", cfg.Web.BindAddress,
	)

	wg, ctx := errgroup.WithContext(ctx)

	wg.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("status server error: %w", err)
		}

		return nil
	})

	wg.Go(func() error {
		// The monitor returns only after its final flush, so waiting on the
		// group guarantees no collected link is lost at shutdown.
		monitor.Run(ctx)

		return nil
	})

	wg.Go(func() error {
		<-ctx.Done()
		logger.Info("start shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to gracefully shutdown the status server", "err", err)

			if err = server.Close(); err != nil {
				return fmt.Errorf("could not stop status server: %w", err)
			}
		}

		return nil
	})

	return wg.Wait()
}
