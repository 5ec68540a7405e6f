// Package redis implements the cat store on top of Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	backend "github.com/redis/go-redis/v9"

	"go.hackfix.me/purr/db/types"
	"go.hackfix.me/purr/models"
)

// Store keeps cats in Redis. Each cat is stored as JSON under its own key, and
// a sorted set scored by ID keeps the listing order. IDs come from a counter,
// so concurrent creates never share an ID.
type Store struct {
	client *backend.Client
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the prefix of all keys used by the store.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "purr:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(id string) string {
	return s.prefix + "cat:" + id
}

func (s *Store) indexKey() string {
	return s.prefix + "cats"
}

func (s *Store) seqKey() string {
	return s.prefix + "cats:seq"
}

// Ping checks that the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed connecting to redis: %w", err)
	}
	return nil
}

// Create stores a new cat named name.
func (s *Store) Create(ctx context.Context, name string) (*models.Cat, error) {
	seq, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed assigning cat ID: %w", err)
	}

	cat := &models.Cat{ID: strconv.FormatInt(seq, 10), Name: name}
	data, err := json.Marshal(cat)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cat: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(cat.ID), data, 0)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: float64(seq), Member: cat.ID})
	if _, err = pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to save cat to redis: %w", err)
	}

	return cat, nil
}

// Get returns the cat with the given ID. It returns a types.NoResultError if it
// doesn't exist.
func (s *Store) Get(ctx context.Context, id string) (*models.Cat, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, types.NoResultError{ModelName: "cat", ID: fmt.Sprintf("ID '%s'", id)}
		}
		return nil, fmt.Errorf("failed to get cat from redis: %w", err)
	}

	var cat models.Cat
	if err = json.Unmarshal([]byte(val), &cat); err != nil {
		return nil, types.ScanError{ModelName: "cat", Err: err}
	}

	return &cat, nil
}

// List returns the cats matching filter, ordered by ID.
func (s *Store) List(ctx context.Context, filter models.CatFilter) ([]*models.Cat, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, types.LoadError{ModelName: "cats", Err: err}
	}

	cats := make([]*models.Cat, 0, len(ids))
	if len(ids) == 0 {
		return cats, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, types.LoadError{ModelName: "cats", Err: err}
	}

	for _, val := range vals {
		str, ok := val.(string)
		if !ok {
			// Deleted after the index was read.
			continue
		}
		var cat models.Cat
		if err = json.Unmarshal([]byte(str), &cat); err != nil {
			return nil, types.ScanError{ModelName: "cat", Err: err}
		}
		if !filter.Matches(&cat) {
			continue
		}
		cats = append(cats, &cat)
		if filter.Limit > 0 && len(cats) == filter.Limit {
			break
		}
	}

	return cats, nil
}

// Delete removes the cat with the given ID. It returns a types.NoResultError if
// it doesn't exist.
func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete cat from redis: %w", err)
	}

	if del.Val() == 0 {
		return types.NoResultError{ModelName: "cat", ID: fmt.Sprintf("ID '%s'", id)}
	}

	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
