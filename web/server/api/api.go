package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"go.hackfix.me/purr/models"
	"go.hackfix.me/purr/schema"
	"go.hackfix.me/purr/service"
	"go.hackfix.me/purr/web/server/api/util"
	"go.hackfix.me/purr/web/server/handler"
	"go.hackfix.me/purr/web/server/middleware"
	"go.hackfix.me/purr/web/server/types"
)

// Handler is the API endpoint handler.
type Handler struct {
	cats        *service.Cats
	logger      *slog.Logger
	errLvl      types.ErrorLevel
	metrics     *middleware.Metrics
	querySchema schema.Schema[models.CatQuery]
}

// Options configures the API handlers.
type Options struct {
	Logger     *slog.Logger
	ErrorLevel types.ErrorLevel
	// Metrics is optional. If set, the exit of every handler result is counted.
	Metrics *middleware.Metrics
}

// SetupHandlers configures the web API handlers. It fails if a request schema
// can't be compiled.
func SetupHandlers(cats *service.Cats, opts Options) (*http.ServeMux, error) {
	h, err := newHandler(cats, opts)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	h.routes(mux)

	return mux, nil
}

func newHandler(cats *service.Cats, opts Options) (*Handler, error) {
	querySchema, err := models.NewCatQuerySchema()
	if err != nil {
		return nil, fmt.Errorf("failed loading request schemas: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errLvl := opts.ErrorLevel
	if errLvl == "" {
		errLvl = types.ErrorLevelFull
	}

	return &Handler{
		cats:        cats,
		logger:      logger,
		errLvl:      errLvl,
		metrics:     opts.Metrics,
		querySchema: querySchema,
	}, nil
}

func (h *Handler) routes(mux *http.ServeMux) {
	mux.Handle("GET /cats", handler.Handle(h.CatsList, h.pipeline().Bind(
		handler.QueryParams(h.querySchema, func(r *catsListRequest, q models.CatQuery) {
			r.Filter.Name = q.Name
		}),
		handler.OptionalQuery("limit", models.LimitSchema, func(r *catsListRequest, n int) {
			r.Filter.Limit = n
		}),
	)))
	mux.Handle("POST /cats", handler.Handle(h.CatsCreate, h.pipeline().
		Status(http.StatusCreated).
		Bind(handler.Body(models.NewCatSchema, func(r *catsCreateRequest, c models.NewCat) {
			r.Cat = c
		}))))
	mux.Handle("GET /cats/{id}", handler.Handle(h.CatsGet, h.pipeline().Bind(catIDParam())))
	mux.Handle("DELETE /cats/{id}", handler.Handle(h.CatsDelete, h.pipeline().Bind(catIDParam())))
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("/", h.NotFound)
}

// pipeline returns a new Pipeline with the handler's error reporting.
func (h *Handler) pipeline() *handler.Pipeline {
	p := handler.NewPipeline().Logger(h.logger).ErrorLevel(h.errLvl)
	if h.metrics != nil {
		p = p.OnExit(h.metrics.ObserveExit)
	}
	return p
}

// Health reports that the server is up.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	if err := util.WriteJSON(w, http.StatusOK, types.Health{Status: "ok"}); err != nil {
		h.logger.Error("failed writing response", "error", err.Error())
	}
}

// NotFound responds to requests that don't match any route.
func (h *Handler) NotFound(w http.ResponseWriter, _ *http.Request) {
	body := types.Message{Message: "Resource not found"}
	if err := util.WriteJSON(w, http.StatusNotFound, body); err != nil {
		h.logger.Error("failed writing response", "error", err.Error())
	}
}
