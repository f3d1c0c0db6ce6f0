package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/persistorai/socialgraph/internal/analytics"
	"github.com/persistorai/socialgraph/internal/config"
	"github.com/persistorai/socialgraph/internal/db"
	"github.com/persistorai/socialgraph/internal/db/migrations"
	"github.com/persistorai/socialgraph/internal/dbpool"
	"github.com/persistorai/socialgraph/internal/domain"
	"github.com/persistorai/socialgraph/internal/recommend"
	"github.com/persistorai/socialgraph/internal/service"
	"github.com/persistorai/socialgraph/internal/snapshot"
	"github.com/persistorai/socialgraph/internal/sqlitestore"
	"github.com/persistorai/socialgraph/internal/store"
)

// appOptions tunes how openApp wires the services.
type appOptions struct {
	// migrate applies pending Postgres migrations instead of only checking
	// the schema.
	migrate   bool
	maxConns  int
	changes   service.ChangeEnqueuer
	rank      analytics.RankOptions
	recommend recommend.Options
}

// app is the composition root shared by serve and the one-shot commands.
type app struct {
	log     *logrus.Logger
	backend string
	pool    *dbpool.Pool
	store   domain.Store
	closeFn func()

	users       *service.UserService
	friendships *service.FriendshipService
	admin       *service.AdminService
	analytics   *analytics.Service
	engine      *recommend.Engine
}

func newLogger(level string, jsonFormat bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if jsonFormat {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

// openApp connects to the selected backend and builds every service on top
// of it. Callers must call Close.
func openApp(ctx context.Context, flags *globalFlags, log *logrus.Logger, opts appOptions) (*app, error) {
	a := &app{log: log}

	switch {
	case flags.sqlitePath != "" && flags.databaseURL != "":
		return nil, fmt.Errorf("set only one of --database-url and --sqlite")
	case flags.sqlitePath != "":
		s, err := sqlitestore.Open(ctx, flags.sqlitePath, log)
		if err != nil {
			return nil, err
		}
		a.backend = config.BackendSQLite
		a.store = s
		a.closeFn = func() {
			if err := s.Close(); err != nil {
				log.WithError(err).Warn("closing sqlite store")
			}
		}
	case flags.databaseURL != "":
		pool, err := openPostgres(ctx, flags.databaseURL, log, opts)
		if err != nil {
			return nil, err
		}
		a.backend = config.BackendPostgres
		a.pool = pool
		a.store = store.New(store.Base{Pool: pool, Log: log})
		a.closeFn = pool.Close
	default:
		return nil, fmt.Errorf("no database configured: pass --sqlite PATH or set DATABASE_URL")
	}

	a.users = service.NewUserService(a.store, opts.changes, log)
	a.friendships = service.NewFriendshipService(a.store, opts.changes, log)
	a.admin = service.NewAdminService(a.store, opts.changes, log)
	a.analytics = analytics.NewService(snapshot.NewBuilder(a.store, log), opts.rank, log)
	a.engine = recommend.NewEngine(a.store, opts.recommend, log)

	return a, nil
}

func openPostgres(ctx context.Context, url string, log *logrus.Logger, opts appOptions) (*dbpool.Pool, error) {
	poolOpts := dbpool.Options{}
	if opts.maxConns > 0 {
		poolOpts.MaxConns = int32(opts.maxConns) //nolint:gosec // validated to 1..100.
	}

	pool, err := dbpool.NewPool(ctx, url, poolOpts)
	if err != nil {
		return nil, err
	}

	if opts.migrate {
		err = db.RunMigrations(ctx, pool, log, migrations.FS)
	} else if err = db.CheckSchema(ctx, pool); err != nil {
		err = fmt.Errorf("%w (run `socialgraph migrate`)", err)
	}

	if err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// schemaCheck returns the readiness schema check for the backend.
func (a *app) schemaCheck() func(ctx context.Context) error {
	if a.pool == nil {
		return nil
	}
	return func(ctx context.Context) error { return db.CheckSchema(ctx, a.pool) }
}

// Close releases the store.
func (a *app) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// tuning copies the RANK_* and RECOMMEND_* settings into opts.
func (o *appOptions) tuning(cfg *config.Config) {
	o.rank = analytics.RankOptions{
		Damping:       cfg.RankDamping,
		MaxIterations: cfg.RankMaxIterations,
		Tolerance:     cfg.RankTolerance,
	}
	o.recommend = recommend.Options{Alpha: cfg.RecommendAlpha, Beta: cfg.RecommendBeta}
}

// withApp opens an app for a one-shot command, tuned from the environment.
func withApp(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadAnalytics()
	if err != nil {
		return err
	}

	var opts appOptions
	opts.tuning(cfg)

	a, err := openApp(ctx, flags, newLogger(flags.logLevel, false), opts)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}
