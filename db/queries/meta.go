package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.hackfix.me/purr/db/types"
)

// GetAllTables returns the names of all tables in the database that contain
// application data.
func GetAllTables(ctx context.Context, d types.Querier) (tables map[string]struct{}, rerr error) {
	rows, err := d.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = fmt.Errorf("failed closing tables rows: %w", err)
		}
	}()

	tables = make(map[string]struct{})
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, err
		}

		// Exclude internal tables
		if !strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "sqlite_") {
			tables[name] = struct{}{}
		}
	}

	return tables, rows.Err()
}

// Version returns the application version the database was initialized with.
// If the returned sql.Null value is invalid, the database hasn't been
// initialized.
func Version(ctx context.Context, d types.Querier) (sql.Null[string], error) {
	var version sql.Null[string]
	err := d.QueryRowContext(ctx, `SELECT version FROM _meta`).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return version, err
	}

	return version, nil
}
