package models

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.hackfix.me/purr/db/types"
	"go.hackfix.me/purr/models"
)

// Cat is the database record of a cat.
type Cat struct {
	ID        uint64
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
}

// Model returns the API representation of the cat.
func (c *Cat) Model() *models.Cat {
	return &models.Cat{ID: strconv.FormatUint(c.ID, 10), Name: c.Name}
}

// Save stores the cat as a new record in the database, and assigns its ID.
func (c *Cat) Save(ctx context.Context, d types.Querier) error {
	timeNow := d.TimeNow().UTC()
	res, err := d.ExecContext(ctx,
		`INSERT INTO cats (id, created_at, updated_at, name) VALUES (NULL, ?, ?, ?)`,
		timeNow, timeNow, c.Name)
	if err != nil {
		return fmt.Errorf("failed saving cat with name '%s': %w", c.Name, err)
	}

	c.ID, err = lastInsertID(res)
	if err != nil {
		return err
	}
	c.CreatedAt = timeNow
	c.UpdatedAt = timeNow

	return nil
}

// Load the cat data from the database by its ID.
func (c *Cat) Load(ctx context.Context, d types.Querier) error {
	if c.ID == 0 {
		return types.InvalidInputError{Msg: "cat ID must be set"}
	}

	cats, err := Cats(ctx, d, &types.Filter{Where: "c.id = ?", Args: []any{c.ID}})
	if err != nil {
		return err
	}

	if len(cats) == 0 {
		return types.NoResultError{ModelName: "cat", ID: fmt.Sprintf("ID %d", c.ID)}
	}
	*c = *cats[0]

	return nil
}

// Delete removes the cat from the database. It returns an error if the cat
// doesn't exist.
func (c *Cat) Delete(ctx context.Context, d types.Querier) error {
	if c.ID == 0 {
		return types.InvalidInputError{Msg: "cat ID must be set"}
	}

	filterStr := fmt.Sprintf("ID %d", c.ID)
	res, err := d.ExecContext(ctx, `DELETE FROM cats WHERE id = ?`, c.ID)
	if err != nil {
		return fmt.Errorf("failed deleting cat with %s: %w", filterStr, err)
	}

	var n int64
	if n, err = res.RowsAffected(); err != nil {
		return fmt.Errorf("failed getting affected rows: %w", err)
	} else if n == 0 {
		return types.NoResultError{ModelName: "cat", ID: filterStr}
	}

	return nil
}

// Cats returns cats from the database in creation order. An optional filter can
// be passed to limit the results.
func Cats(ctx context.Context, d types.Querier, filter *types.Filter) (cats []*Cat, rerr error) {
	query := `SELECT c.id, c.created_at, c.updated_at, c.name
		FROM cats c %s
		ORDER BY c.id ASC`

	where := "1=1"
	args := []any{}
	if filter != nil {
		if filter.Where != "" {
			where = filter.Where
		}
		args = append(args, filter.Args...)
	}

	query = fmt.Sprintf(query, fmt.Sprintf("WHERE %s", where))
	if filter != nil && filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, types.LoadError{ModelName: "cats", Err: err}
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = fmt.Errorf("failed closing cats rows: %w", err)
		}
	}()

	cats = make([]*Cat, 0)
	for rows.Next() {
		var c Cat
		err = rows.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Name)
		if err != nil {
			return nil, types.ScanError{ModelName: "cat", Err: err}
		}
		cats = append(cats, &c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating over cats rows: %w", err)
	}

	return cats, nil
}
