package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.hackfix.me/purr/db/types"
	"go.hackfix.me/purr/models"
	"go.hackfix.me/purr/service"
	stypes "go.hackfix.me/purr/web/server/types"
)

var _ service.CatStore = (*Client)(nil)

// Create adds a new cat on the server.
func (c *Client) Create(ctx context.Context, name string) (*models.Cat, error) {
	var cat models.Cat
	err := c.do(ctx, http.MethodPost, "/cats", nil, models.NewCat{Name: name}, &cat)
	if err != nil {
		return nil, err
	}

	return &cat, nil
}

// Get returns the cat with the given ID. It returns a types.NoResultError if it
// doesn't exist.
func (c *Client) Get(ctx context.Context, id string) (*models.Cat, error) {
	var cat models.Cat
	err := c.do(ctx, http.MethodGet, "/cats/"+url.PathEscape(id), nil, nil, &cat)
	if err != nil {
		return nil, notFound(id, err)
	}

	return &cat, nil
}

// List returns the cats matching filter.
func (c *Client) List(ctx context.Context, filter models.CatFilter) ([]*models.Cat, error) {
	query := url.Values{}
	if filter.Name != "" {
		query.Set("name", filter.Name)
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var cats []*models.Cat
	if err := c.do(ctx, http.MethodGet, "/cats", query, nil, &cats); err != nil {
		return nil, err
	}

	return cats, nil
}

// Delete removes the cat with the given ID. It returns a types.NoResultError if
// it doesn't exist.
func (c *Client) Delete(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, "/cats/"+url.PathEscape(id), nil, nil, nil)
	return notFound(id, err)
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	var health stypes.Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &health); err != nil {
		return err
	}
	if health.Status != "ok" {
		return fmt.Errorf("unexpected server status '%s'", health.Status)
	}

	return nil
}

func notFound(id string, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return types.NoResultError{ModelName: "cat", ID: fmt.Sprintf("ID '%s'", id)}
	}
	return err
}
