// Package bootstrap brings up the infrastructure every bot needs before it
// can serve updates: logging, the database pool and the schema.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/bankbot/core/config"
	coredatabase "github.com/m3rciful/bankbot/core/database"
	"github.com/m3rciful/bankbot/core/logger"
)

const defaultConnectTimeout = 30 * time.Second

// Options selects the configuration and, for tests, replaces the steps.
type Options struct {
	Config   *coreconfig.Config
	Database coredatabase.Config
	// ConnectTimeout bounds the wait for Postgres; 0 means 30s.
	ConnectTimeout time.Duration

	LoggerInit func(*coreconfig.Config) error
	Connect    func(context.Context, coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(coredatabase.Config) error
}

// Result is the infrastructure handed to the application.
type Result struct {
	DB *sqlx.DB
}

// Run initializes the logger, connects to Postgres and migrates the schema.
// The pool is closed again if migrations fail.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config")
	}
	initLogger, connect, migrate := opts.LoggerInit, opts.Connect, opts.Migrate
	if initLogger == nil {
		initLogger = logger.InitLogger
	}
	if connect == nil {
		connect = coredatabase.Connect
	}
	if migrate == nil {
		migrate = coredatabase.RunMigrations
	}
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	if err := initLogger(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	db, err := connect(connectCtx, opts.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database: %w", err)
	}
	if err := migrate(opts.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: migrations: %w", err)
	}
	return &Result{DB: db}, nil
}
