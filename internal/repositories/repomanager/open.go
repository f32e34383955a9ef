package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/samber/oops"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/metalex84/loginkeeper/internal/config"
	"github.com/metalex84/loginkeeper/internal/dbx"
	"github.com/metalex84/loginkeeper/internal/logging"
)

type migrator interface {
	RunMigrations(ctx context.Context) error
}

// Open connects to the account store selected by cfg.DatabaseDriver,
// retrying the initial ping, and brings the schema up to date.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger) (RepositoryManager, error) {
	goose.SetLogger(gooseLogger{ctx: ctx, log: log})

	opts := dbx.OpenOptions{Retries: cfg.ConnectRetries, Timeout: cfg.ConnectTimeout}

	var (
		m   RepositoryManager
		err error
	)

	switch cfg.DatabaseDriver {
	case config.DriverMemory:
		log.Warn(ctx, "using in-memory account store; accounts are lost on exit")
		return NewInMemoryRepositoryManager(), nil

	case config.DriverPostgres:
		var db *sql.DB
		if db, err = dbx.Open(ctx, "pgx", cfg.DatabaseDSN, opts); err == nil {
			m = NewPostgresRepositoryManager(db)
		}

	case config.DriverSQLite:
		var db *sql.DB
		if db, err = dbx.Open(ctx, "sqlite", cfg.DatabaseDSN, opts); err == nil {
			// one writer at a time avoids SQLITE_BUSY inside transactions
			db.SetMaxOpenConns(1)
			m = NewSQLiteRepositoryManager(db)
		}

	case config.DriverGORM:
		m, err = openGorm(ctx, cfg.DatabaseDSN, opts)

	default:
		return nil, oops.Code("UNKNOWN_DRIVER").With("driver", cfg.DatabaseDriver).
			Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}

	if err != nil {
		return nil, oops.Code("DATABASE_UNREACHABLE").With("driver", cfg.DatabaseDriver).Wrap(err)
	}

	if mg, ok := m.(migrator); ok {
		if err := mg.RunMigrations(ctx); err != nil {
			_ = m.Close()
			return nil, err
		}
	}

	log.Debug(ctx, "account store ready", "driver", cfg.DatabaseDriver)
	return m, nil
}

func openGorm(ctx context.Context, dsn string, opts dbx.OpenOptions) (*GormRepositoryManager, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if err := dbx.Ping(ctx, sqlDB, opts); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return NewGormRepositoryManager(gdb), nil
}

// gooseLogger routes goose output into the structured logger.
type gooseLogger struct {
	ctx context.Context
	log logging.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Debug(g.ctx, fmt.Sprintf(format, v...), "component", "goose")
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(g.ctx, fmt.Sprintf(format, v...), "component", "goose")
	os.Exit(1)
}
