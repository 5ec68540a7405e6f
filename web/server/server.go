package server

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	actx "go.hackfix.me/purr/app/context"
	"go.hackfix.me/purr/service"
	"go.hackfix.me/purr/web/server/api"
	"go.hackfix.me/purr/web/server/middleware"
	"go.hackfix.me/purr/web/server/types"
)

// Server is a wrapper around http.Server with some custom behavior.
type Server struct {
	*http.Server
	logger *slog.Logger
}

// Options configures the web server.
type Options struct {
	// Address is the [host]:port the server listens on.
	Address      string
	ErrorLevel   types.ErrorLevel
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// New returns a new web Server instance that serves the cats in the
// application store.
func New(appCtx *actx.Context, opts Options) (*Server, error) {
	logger := appCtx.Logger.With("component", "web-server")

	handler, err := SetupHandlers(service.NewCats(appCtx.Store), opts.ErrorLevel, logger)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		Server: &http.Server{
			Handler:           handler,
			Addr:              opts.Address,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       opts.ReadTimeout,
			WriteTimeout:      opts.WriteTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		logger: logger,
	}

	return srv, nil
}

// ListenAndServe starts the HTTP server. It stores the actual listen address,
// which is convenient when the address is dynamically determined by the
// system (e.g. ':0').
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	s.Addr = ln.Addr().String()
	s.logger.Info("started listener", "address", s.Addr)

	//nolint:wrapcheck // This is fine.
	return s.Serve(ln)
}

// SetupHandlers configures the server HTTP handlers.
func SetupHandlers(cats *service.Cats, errLvl types.ErrorLevel, logger *slog.Logger) (http.Handler, error) {
	metrics := middleware.NewMetrics()

	apiMux, err := api.SetupHandlers(cats, api.Options{
		Logger:     logger,
		ErrorLevel: errLvl,
		Metrics:    metrics,
	})
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("/", apiMux)

	return middleware.Chain(
		chimw.RequestID,
		middleware.Logger(logger),
		chimw.Recoverer,
		metrics.Middleware(),
		mux,
	), nil
}
