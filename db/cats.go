package db

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	dbmodels "go.hackfix.me/purr/db/models"
	"go.hackfix.me/purr/db/types"
	"go.hackfix.me/purr/models"
)

// Create stores a new cat named name. Cat IDs are assigned sequentially,
// starting from 1, and are never reused.
func (d *DB) Create(ctx context.Context, name string) (*models.Cat, error) {
	cat := &dbmodels.Cat{Name: name}
	if err := cat.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("failed saving cat: %w", err)
	}

	return cat.Model(), nil
}

// Get returns the cat with the given ID. It returns a types.NoResultError if it
// doesn't exist.
func (d *DB) Get(ctx context.Context, id string) (*models.Cat, error) {
	catID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	cat := &dbmodels.Cat{ID: catID}
	if err = cat.Load(ctx, d); err != nil {
		return nil, err
	}

	return cat.Model(), nil
}

// List returns the cats matching filter, ordered by ID.
func (d *DB) List(ctx context.Context, filter models.CatFilter) ([]*models.Cat, error) {
	f := types.NewFilter("1=1")
	if filter.Name != "" {
		f = f.And(types.NewFilter(`LOWER(c.name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(filter.Name))+"%"))
	}
	f.Limit = filter.Limit

	cats, err := dbmodels.Cats(ctx, d, f)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Cat, len(cats))
	for i, c := range cats {
		out[i] = c.Model()
	}

	return out, nil
}

// Delete removes the cat with the given ID. It returns a types.NoResultError if
// it doesn't exist.
func (d *DB) Delete(ctx context.Context, id string) error {
	catID, err := parseID(id)
	if err != nil {
		return err
	}

	return (&dbmodels.Cat{ID: catID}).Delete(ctx, d)
}

// parseID converts a cat ID to its database representation. IDs that can't
// exist are reported as missing.
func parseID(id string) (uint64, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, types.NoResultError{ModelName: "cat", ID: fmt.Sprintf("ID '%s'", id)}
	}

	return n, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
