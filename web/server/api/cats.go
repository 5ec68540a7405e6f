package api

import (
	"context"

	"go.hackfix.me/purr/models"
	"go.hackfix.me/purr/schema"
	"go.hackfix.me/purr/web/server/handler"
)

type catsListRequest struct {
	Filter models.CatFilter
}

type catsCreateRequest struct {
	Cat models.NewCat
}

type catRequest struct {
	ID string
}

func catIDParam() handler.Binding {
	return handler.PathParam("id", schema.String(), func(r *catRequest, id string) {
		r.ID = id
	})
}

// CatsList returns the cats matching the query parameters.
func (h *Handler) CatsList(ctx context.Context, req *catsListRequest) (any, error) {
	cats, err := h.cats.List(ctx, req.Filter)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []*models.Cat{}
	}

	return cats, nil
}

// CatsCreate stores a new cat.
func (h *Handler) CatsCreate(_ context.Context, req *catsCreateRequest) (any, error) {
	return h.cats.Create(req.Cat.Name), nil
}

// CatsGet returns a single cat.
func (h *Handler) CatsGet(_ context.Context, req *catRequest) (any, error) {
	return h.cats.Get(req.ID), nil
}

// CatsDelete removes a cat.
func (h *Handler) CatsDelete(_ context.Context, req *catRequest) (any, error) {
	return h.cats.Delete(req.ID), nil
}
