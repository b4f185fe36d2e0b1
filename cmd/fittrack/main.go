package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/fittrack/internal/config"
	"github.com/meltforce/fittrack/internal/ingest/alpha"
	"github.com/meltforce/fittrack/internal/logging"
	fitmcp "github.com/meltforce/fittrack/internal/mcp"
	"github.com/meltforce/fittrack/internal/metrics"
	fitserver "github.com/meltforce/fittrack/internal/server"
	"github.com/meltforce/fittrack/internal/storage"
	"github.com/meltforce/fittrack/internal/tracker"
	"github.com/prometheus/client_golang/prometheus"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()
	log.Info("FitTrack starting", "version", Version, "driver", cfg.Database.Driver)

	ctx := context.Background()
	repo, err := openRepository(ctx, cfg, log, *migrateOnly)
	if err != nil {
		log.Error("storage setup failed", "error", err)
		os.Exit(1)
	}
	if repo == nil {
		log.Info("migrate-only: exiting")
		return
	}
	defer repo.Close()

	var m *metrics.Instrumentation
	var opts []tracker.Option
	var importedSets prometheus.Counter
	if cfg.Metrics.Enabled {
		m = metrics.New()
		opts = append(opts, tracker.WithCreatedCounter(m.CounterWorkoutsCreated))
		importedSets = m.CounterImportedSets
	}
	svc := tracker.New(repo, cfg.Service.Latency, log, opts...)
	alphaProvider := alpha.NewProvider(svc, log, importedSets)

	mcpServer := fitmcp.New(svc, Version, log)
	mcpHTTP := server.NewStreamableHTTPServer(mcpServer)

	srv := fitserver.New(svc, alphaProvider, cfg.Auth.APIKey, log, fitserver.Options{
		Metrics:     m,
		MetricsPath: cfg.Metrics.Path,
		MCP:         mcpHTTP,
		SessionTTL:  cfg.Service.SessionTTL,
		MaxSessions: cfg.Service.MaxSessions,
	})

	// Listener: tsnet when enabled, plain TCP otherwise
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := mcpHTTP.Shutdown(shutdownCtx); err != nil {
		log.Error("mcp shutdown error", "error", err)
	}
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	srv.Sessions().CloseAll()
	log.Info("server stopped")
}

// openRepository returns the configured store. With migrateOnly it applies
// the Postgres migrations and returns a nil repository.
func openRepository(ctx context.Context, cfg *config.Config, log *slog.Logger, migrateOnly bool) (storage.Repository, error) {
	if cfg.Database.Driver == config.DriverMemory {
		if migrateOnly {
			log.Info("memory driver has no migrations")
			return nil, nil
		}
		log.Info("using in-memory store with sample data")
		return storage.NewMemory(), nil
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, cfg.Database.Migrations); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	log.Info("migrations applied")
	if migrateOnly {
		return nil, nil
	}

	db, err := storage.New(ctx, dsn, cfg.Database.ProfileID)
	if err != nil {
		return nil, fmt.Errorf("connecting database: %w", err)
	}
	log.Info("database connected")
	return db, nil
}
