package migrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"slices"
	"strconv"

	"go.hackfix.me/purr/db/types"
)

// Direction is the direction migrations are run in.
type Direction uint8

const (
	MigrationUp Direction = iota
	MigrationDown
)

func (d Direction) String() string {
	if d == MigrationDown {
		return "down"
	}
	return "up"
}

// Migration is a single schema change.
type Migration struct {
	ID   int
	Name string
	Up   string
	Down string
}

var fileRx = regexp.MustCompile(`^(\d+)-([\w-]+)\.(up|down)\.sql$`)

// LoadMigrations reads all migration files in the root of fsys, and returns
// them ordered by ID. Every migration must have both an up and a down file.
func LoadMigrations(fsys fs.FS) ([]*Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed reading migrations directory: %w", err)
	}

	byID := map[int]*Migration{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		m := fileRx.FindStringSubmatch(entry.Name())
		if m == nil {
			return nil, fmt.Errorf("invalid migration file name '%s'", entry.Name())
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("invalid migration ID in '%s': %w", entry.Name(), err)
		}

		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed reading migration file '%s': %w", entry.Name(), err)
		}

		mig, ok := byID[id]
		if !ok {
			mig = &Migration{ID: id, Name: m[2]}
			byID[id] = mig
		} else if mig.Name != m[2] {
			return nil, fmt.Errorf("migration %d has conflicting names '%s' and '%s'", id, mig.Name, m[2])
		}

		if m[3] == "up" {
			mig.Up = string(data)
		} else {
			mig.Down = string(data)
		}
	}

	migrations := make([]*Migration, 0, len(byID))
	for _, mig := range byID {
		if mig.Up == "" || mig.Down == "" {
			return nil, fmt.Errorf("migration %d-%s must have both up and down files", mig.ID, mig.Name)
		}
		migrations = append(migrations, mig)
	}
	slices.SortFunc(migrations, func(a, b *Migration) int { return a.ID - b.ID })

	return migrations, nil
}

// Plan returns the migrations to run, in order, to go from the applied state to
// the target migration ID. Going down, the target migration itself is kept.
func Plan(migrations []*Migration, applied map[int]struct{}, dir Direction, target int) []*Migration {
	var plan []*Migration
	switch dir {
	case MigrationUp:
		for _, mig := range migrations {
			if _, ok := applied[mig.ID]; !ok && mig.ID <= target {
				plan = append(plan, mig)
			}
		}
	case MigrationDown:
		for i := len(migrations) - 1; i >= 0; i-- {
			mig := migrations[i]
			if _, ok := applied[mig.ID]; ok && mig.ID > target {
				plan = append(plan, mig)
			}
		}
	}

	return plan
}

// RunMigrations runs migrations in the given direction up to the target
// migration ID, or "all" of them. Each migration is applied atomically.
func RunMigrations(
	d types.Transactor, migrations []*Migration, dir Direction, to string, logger *slog.Logger,
) error {
	ctx := d.NewContext()

	_, err := d.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (
		id         INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed creating migrations history table: %w", err)
	}

	target, err := parseTarget(migrations, dir, to)
	if err != nil {
		return err
	}

	applied, err := appliedMigrations(ctx, d)
	if err != nil {
		return err
	}

	for _, mig := range Plan(migrations, applied, dir, target) {
		mlogger := logger.With("id", mig.ID, "name", mig.Name, "direction", dir.String())
		mlogger.Debug("running migration")

		if err = runMigration(ctx, d, mig, dir); err != nil {
			return err
		}

		mlogger.Info("ran migration")
	}

	return nil
}

// runMigration runs a single migration and records it in the history table,
// in one transaction.
func runMigration(ctx context.Context, d types.Transactor, mig *Migration, dir Direction) (rerr error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed starting migration transaction: %w", err)
	}
	defer func() {
		if rerr == nil {
			return
		}
		if err := tx.Rollback(); err != nil {
			rerr = errors.Join(rerr, fmt.Errorf("failed rolling back migration %d-%s: %w", mig.ID, mig.Name, err))
		}
	}()

	if dir == MigrationUp {
		if _, err = tx.ExecContext(ctx, mig.Up); err != nil {
			return fmt.Errorf("failed applying migration %d-%s: %w", mig.ID, mig.Name, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO _migrations (id, name, applied_at) VALUES (?, ?, ?)`,
			mig.ID, mig.Name, d.TimeNow().UTC())
	} else {
		if _, err = tx.ExecContext(ctx, mig.Down); err != nil {
			return fmt.Errorf("failed reverting migration %d-%s: %w", mig.ID, mig.Name, err)
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM _migrations WHERE id = ?`, mig.ID)
	}
	if err != nil {
		return fmt.Errorf("failed updating migrations history: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed committing migration %d-%s: %w", mig.ID, mig.Name, err)
	}

	return nil
}

func parseTarget(migrations []*Migration, dir Direction, to string) (int, error) {
	if to == "all" {
		if dir == MigrationDown || len(migrations) == 0 {
			return 0, nil
		}
		return migrations[len(migrations)-1].ID, nil
	}

	target, err := strconv.Atoi(to)
	if err != nil || target < 0 {
		return 0, fmt.Errorf("invalid migration target '%s'", to)
	}

	return target, nil
}

func appliedMigrations(ctx context.Context, d types.Querier) (applied map[int]struct{}, rerr error) {
	rows, err := d.QueryContext(ctx, `SELECT id FROM _migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed loading migrations history: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = fmt.Errorf("failed closing migrations rows: %w", err)
		}
	}()

	applied = map[int]struct{}{}
	for rows.Next() {
		var id int
		if err = rows.Scan(&id); err != nil {
			return nil, types.ScanError{ModelName: "migration", Err: err}
		}
		applied[id] = struct{}{}
	}

	return applied, rows.Err()
}
