package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/xparky/portal/internal/adapters/drive"
	"github.com/xparky/portal/internal/adapters/http/api"
	"github.com/xparky/portal/internal/adapters/http/site"
	"github.com/xparky/portal/internal/adapters/http/swagger"
	app "github.com/xparky/portal/internal/app"
	"github.com/xparky/portal/internal/config"
	"github.com/xparky/portal/internal/demo"
	"github.com/xparky/portal/pkg/logger"
	"github.com/xparky/portal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			// The logger itself may be the broken part at this point.
			os.Stderr.WriteString("failed to flush logs: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Create and start the service with configuration options
	svc, err := buildService(ctx, cfg, loggerInstance)
	if err != nil {
		os.Stderr.WriteString("failed to build service: " + err.Error() + "\n")
		return
	}
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register the API docs under /api-docs
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc, cfg.MaxLeaderboardLimit)
	apiServer.Register(ctx, mux)

	// The embedded front end owns the root; every API path above is more
	// specific and wins over it.
	site.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.Bool("demo", cfg.Demo),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildService assembles the portal service from configuration. Demo mode
// swaps the Drive adapter for the built-in dataset, folder ids included.
func buildService(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, error) {
	if cfg.Demo {
		dataset := demo.NewDataset()
		log.Info(ctx, "running in demo mode; Drive access disabled")
		return app.New(
			app.WithLogger(log),
			app.WithDataSource(dataset),
			app.WithFolders(dataset.ClassroomFolderID(), dataset.EvalFormsFolderID(), dataset.CertificatesFolderID()),
			app.WithRoster(dataset.RosterSpreadsheetID(), cfg.RosterPosition),
			app.WithCacheTTL(cfg.CacheTTL),
		), nil
	}

	tokens, err := buildTokenSource(cfg)
	if err != nil {
		return nil, err
	}

	source := drive.New(
		drive.WithTokenSource(tokens),
		drive.WithLogger(log),
	)

	return app.New(
		app.WithLogger(log),
		app.WithDataSource(source),
		app.WithFolders(cfg.ClassroomFolderID, cfg.EvalFormsFolderID, cfg.CertificatesFolderID),
		app.WithRoster(cfg.RosterSpreadsheetID, cfg.RosterPosition),
		app.WithCacheTTL(cfg.CacheTTL),
	), nil
}

// buildTokenSource loads service account credentials. Inline JSON wins over
// the key file when both are configured.
func buildTokenSource(cfg *config.Config) (drive.TokenSource, error) {
	if cfg.CredentialsJSON != "" {
		creds, err := drive.ParseCredentials([]byte(cfg.CredentialsJSON))
		if err != nil {
			return nil, err
		}
		return drive.NewJWTTokenSource(creds)
	}

	creds, err := drive.LoadCredentialsFile(cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}
	return drive.NewJWTTokenSource(creds)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
