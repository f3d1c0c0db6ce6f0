package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/socialgraph/internal/api"
	"github.com/persistorai/socialgraph/internal/config"
	"github.com/persistorai/socialgraph/internal/db"
	"github.com/persistorai/socialgraph/internal/service"
	"github.com/persistorai/socialgraph/internal/telemetry"
	"github.com/persistorai/socialgraph/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, WebSocket change feed and metrics listener",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithDatabase(flags.databaseURL, flags.sqlitePath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, newLogger(cfg.LogLevel, true))
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	shutdownTracing, err := telemetry.Init(ctx, telemetry.Options{
		ServiceName:    "socialgraph",
		ServiceVersion: config.Version,
		Exporter:       cfg.TraceExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.WithError(err).Warn("flushing traces")
		}
	}()

	hub := ws.NewHub(log)

	// Postgres publishes changes through NOTIFY; SQLite has no such channel,
	// so the services hand changes to a worker that feeds the hub.
	var worker *service.ChangeWorker
	var changes service.ChangeEnqueuer
	if cfg.Backend() == config.BackendSQLite {
		worker = service.NewChangeWorker(hub, log, cfg.ChangeBuffer)
		changes = worker
	}

	opts := appOptions{migrate: true, maxConns: cfg.DBMaxConns, changes: changes}
	opts.tuning(cfg)

	a, err := openApp(ctx, &globalFlags{databaseURL: cfg.DatabaseURL.Value(), sqlitePath: cfg.SQLitePath}, log, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	info := api.HealthInfo{Version: config.Version, Backend: a.backend}
	if a.pool != nil {
		info.SchemaVersion = db.SchemaVersion()

		if err := db.NewChangeListener(a.pool, hub, log).Start(ctx); err != nil {
			return err
		}
	}

	router := api.NewRouter(ctx, &api.RouterDeps{
		Log:         log,
		Hub:         hub,
		Users:       a.users,
		Friendships: a.friendships,
		Analytics:   a.analytics,
		Recommender: a.engine,
		Admin:       a.admin,
		SchemaCheck: a.schemaCheck(),
		Info:        info,
		CORSOrigins: cfg.CORSOrigins,
		HSTS:        cfg.EnableHSTS,
	})

	apiSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if worker != nil {
		g.Go(func() error {
			worker.Run(gctx)
			return nil
		})
	}

	g.Go(func() error { return listen(apiSrv, log, "api") })
	g.Go(func() error { return listen(metricsSrv, log, "metrics") })

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		hub.Shutdown()

		return errors.Join(apiSrv.Shutdown(sctx), metricsSrv.Shutdown(sctx))
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("server stopped")

	return nil
}

func listen(srv *http.Server, log *logrus.Logger, name string) error {
	log.WithFields(logrus.Fields{"listener": name, "addr": srv.Addr}).Info("listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s listener: %w", name, err)
	}

	return nil
}
