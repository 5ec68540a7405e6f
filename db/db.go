package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"strings"
	"time"

	//nolint:revive,nolintlint // Idiomatic way of loading DB libraries.
	_ "github.com/glebarez/go-sqlite"

	"go.hackfix.me/purr/db/migrator"
	"go.hackfix.me/purr/db/queries"
	"go.hackfix.me/purr/db/types"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps sql.DB with additional context and migration functionality.
type DB struct {
	*sql.DB
	ctx        context.Context
	timeNow    func() time.Time
	path       string
	migrations []*migrator.Migration
}

var _ types.Transactor = (*DB)(nil)

// Init applies all pending migrations and records the application version
// that created the database. It's safe to call on an initialized database.
func (d *DB) Init(appVersion string, logger *slog.Logger) error {
	dblogger := logger.With("path", d.path)
	dblogger.Debug("initializing database")

	err := migrator.RunMigrations(d, d.migrations, migrator.MigrationUp, "all", dblogger)
	if err != nil {
		return err
	}

	version, err := queries.Version(d.NewContext(), d)
	if err != nil {
		return fmt.Errorf("failed reading database version: %w", err)
	}
	if version.Valid {
		dblogger.Debug("database already initialized", "version", version.V)
		return nil
	}

	_, err = d.ExecContext(d.NewContext(), `INSERT INTO _meta (version) VALUES (?)`, appVersion)
	if err != nil {
		return fmt.Errorf("failed inserting into _meta: %w", err)
	}

	dblogger.Info("database initialized")

	return nil
}

// NewContext returns the main database context. Queries are canceled when it
// is done.
func (d *DB) NewContext() context.Context {
	return d.ctx
}

// Open creates and configures a new SQLite database connection with migrations support.
func Open(ctx context.Context, path string, timeNow func() time.Time) (_ *DB, rerr error) {
	sqliteDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed opening SQLite database: %w", err)
	}
	defer func() {
		if rerr != nil {
			_ = sqliteDB.Close()
		}
	}()

	if strings.Contains(path, "mode=memory") || strings.Contains(path, ":memory:") {
		// See https://github.com/mattn/go-sqlite3#faq
		sqliteDB.SetMaxIdleConns(10)
		sqliteDB.SetConnMaxLifetime(time.Duration(math.Inf(1)))
	}

	d := &DB{DB: sqliteDB, ctx: ctx, path: path, timeNow: timeNow}

	// Enable foreign key enforcement
	_, err = d.Exec(`PRAGMA foreign_keys = ON;`)
	if err != nil {
		return nil, fmt.Errorf("failed enabling foreign key enforcement: %w", err)
	}

	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed getting migrations directory: %w", err)
	}
	migrations, err := migrator.LoadMigrations(migrationsDir)
	if err != nil {
		return nil, err
	}
	d.migrations = migrations

	return d, nil
}

// TimeNow returns the current system time.
func (d *DB) TimeNow() time.Time {
	return d.timeNow()
}
