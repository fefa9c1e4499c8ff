package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/JakeFAU/gplay-api/internal/config"
	"github.com/JakeFAU/gplay-api/internal/dispatcher"
	"github.com/JakeFAU/gplay-api/internal/httpio"
	"github.com/JakeFAU/gplay-api/internal/metrics"
	"github.com/JakeFAU/gplay-api/internal/playstore"
)

// RootMessage is returned by GET /.
const RootMessage = "Google Play Scraper API is running!"

// Dispatcher runs one named operation.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, params playstore.Params) (any, error)
}

// Server wires HTTP handlers to the dispatcher.
type Server struct {
	router     chi.Router
	dispatcher Dispatcher
	cfg        config.Config
	logger     *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(d Dispatcher, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("api")
	s := &Server{
		dispatcher: d,
		cfg:        cfg,
		logger:     logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(metrics.Middleware)
	r.Use(recoverMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	if timeout := cfg.RequestTimeout(); timeout > 0 {
		r.Use(timeoutMiddleware(timeout))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpio.WriteError(w, http.StatusNotFound, httpio.MsgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpio.WriteError(w, http.StatusMethodNotAllowed, httpio.MsgMethodInvalid)
	})

	r.Get("/", s.root)
	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Post("/scraper/{method}", s.dispatchByName)
	for _, op := range dispatcher.Operations() {
		r.Post("/"+string(op), s.dispatchFixed(string(op)))
	}

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	httpio.WriteJSON(w, http.StatusOK, map[string]any{
		"message": RootMessage,
		"methods": dispatcher.OperationNames(),
	})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	httpio.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	// Stateless: ready as soon as the router exists.
	httpio.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) dispatchByName(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, chi.URLParam(r, "method"))
}

func (s *Server) dispatchFixed(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.dispatch(w, r, name)
	}
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, name string) {
	params, err := httpio.ReadParams(r, s.cfg.Server.BodyLimitBytes)
	if err != nil {
		s.logger.Info("rejected request body",
			zap.String("operation", name),
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(err),
		)
		httpio.WriteDispatchError(w, err, false)
		return
	}
	result, err := s.dispatcher.Dispatch(r.Context(), name, params)
	if err != nil {
		httpio.WriteDispatchError(w, err, s.cfg.Errors.ExposeInternalDetails)
		return
	}
	httpio.WriteJSON(w, http.StatusOK, result)
}
