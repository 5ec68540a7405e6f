// Package service implements the cat operations shared by the web API and the
// CLI. Operations that touch a single cat are returned as effects, so callers
// decide when and how to run them.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.hackfix.me/purr/db/types"
	"go.hackfix.me/purr/effect"
	"go.hackfix.me/purr/models"
)

// CatStore persists cats.
type CatStore interface {
	// Create stores a new cat. IDs are assigned sequentially from "1".
	Create(ctx context.Context, name string) (*models.Cat, error)
	// Get returns a types.NoResultError if the cat doesn't exist.
	Get(ctx context.Context, id string) (*models.Cat, error)
	// List returns cats ordered by ID.
	List(ctx context.Context, filter models.CatFilter) ([]*models.Cat, error)
	// Delete returns a types.NoResultError if the cat doesn't exist.
	Delete(ctx context.Context, id string) error
}

// Cats provides operations on cats.
type Cats struct {
	store CatStore
}

// NewCats returns a new Cats service backed by store.
func NewCats(store CatStore) *Cats {
	return &Cats{store: store}
}

// List returns the cats matching filter.
func (s *Cats) List(ctx context.Context, filter models.CatFilter) ([]*models.Cat, error) {
	cats, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed listing cats: %w", err)
	}

	return cats, nil
}

// Create returns an Effect that stores a new cat named name and succeeds
// with it. The stored record is checked against models.CatSchema, and a
// record that doesn't match it fails the Effect with a *schema.ParseError.
func (s *Cats) Create(name string) effect.Effect[*models.Cat] {
	created := effect.Suspend(func(ctx context.Context) (*models.Cat, error) {
		return s.store.Create(ctx, name)
	})

	return effect.FlatMap(created, decodeCat)
}

// Get returns an Effect that succeeds with the cat with the given ID, or fails
// with effect.ErrNoSuchElement if it doesn't exist.
func (s *Cats) Get(id string) effect.Effect[*models.Cat] {
	found := effect.Suspend(func(ctx context.Context) (*models.Cat, error) {
		return s.store.Get(ctx, id)
	})

	return effect.FlatMap(effect.MapError(found, absent), decodeCat)
}

// Delete returns an Effect that removes the cat with the given ID, or fails
// with effect.ErrNoSuchElement if it doesn't exist.
func (s *Cats) Delete(id string) effect.Effect[models.CatRef] {
	deleted := effect.Suspend(func(ctx context.Context) (models.CatRef, error) {
		if err := s.store.Delete(ctx, id); err != nil {
			return models.CatRef{}, err
		}
		return models.CatRef{ID: id}, nil
	})

	return effect.MapError(deleted, absent)
}

func decodeCat(c *models.Cat) effect.Effect[*models.Cat] {
	return effect.FlatMap(effect.FromNullable(c), func(c *models.Cat) effect.Effect[*models.Cat] {
		return effect.Try(func() (*models.Cat, error) {
			cat, err := models.CatSchema.Decode(c.Record())
			if err != nil {
				return nil, err
			}
			return &cat, nil
		})
	})
}

func absent(err error) error {
	var nerr types.NoResultError
	if errors.As(err, &nerr) {
		return fmt.Errorf("%w: %s", effect.ErrNoSuchElement, nerr.Error())
	}
	return err
}
