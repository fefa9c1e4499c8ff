// Package edge is the request-scoped handler variant for serverless hosts.
// Each cold start builds one handler; it keeps no state between requests.
//
// Unlike the server variant it answers GET as well as POST on every
// operation route (GET reads params from the query string) and always
// emits permissive CORS headers, answering OPTIONS on any path itself.
package edge

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/gplay-api/internal/config"
	"github.com/JakeFAU/gplay-api/internal/dispatcher"
	"github.com/JakeFAU/gplay-api/internal/httpio"
	"github.com/JakeFAU/gplay-api/internal/playstore"
)

// WelcomeMessage is returned by GET /.
const WelcomeMessage = "Welcome to Google Play Scraper API"

// Dispatcher runs one named operation.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, params playstore.Params) (any, error)
}

// Options tunes the handler.
type Options struct {
	BodyLimitBytes        int64
	ExposeInternalDetails bool
	Logger                *zap.Logger
}

type handler struct {
	dispatcher Dispatcher
	opts       Options
}

// New returns the edge handler over d.
func New(d Dispatcher, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	opts.Logger = opts.Logger.Named("edge")
	if opts.BodyLimitBytes <= 0 {
		opts.BodyLimitBytes = 10 << 20
	}
	h := &handler{dispatcher: d, opts: opts}

	r := chi.NewRouter()
	r.Use(corsHeaders)
	r.Use(requestLog(opts.Logger))
	r.Use(recoverJSON(opts.Logger))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpio.WriteError(w, http.StatusNotFound, httpio.MsgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpio.WriteError(w, http.StatusMethodNotAllowed, httpio.MsgMethodInvalid)
	})

	r.Get("/", h.root)
	r.Get("/scraper/{method}", h.dispatchByName)
	r.Post("/scraper/{method}", h.dispatchByName)
	for _, op := range dispatcher.Operations() {
		fixed := h.dispatchFixed(string(op))
		r.Get("/"+string(op), fixed)
		r.Post("/"+string(op), fixed)
	}
	return r
}

// NewFromConfig wires the playstore client and dispatcher from cfg.
func NewFromConfig(cfg config.Config, logger *zap.Logger) http.Handler {
	client := playstore.New(cfg.Playstore(), logger)
	return New(dispatcher.New(client, logger), Options{
		BodyLimitBytes:        cfg.Server.BodyLimitBytes,
		ExposeInternalDetails: cfg.Errors.ExposeInternalDetails,
		Logger:                logger,
	})
}

func (h *handler) root(w http.ResponseWriter, _ *http.Request) {
	endpoints := make([]string, 0, len(dispatcher.Operations()))
	for _, name := range dispatcher.OperationNames() {
		endpoints = append(endpoints, "/"+name)
	}
	httpio.WriteJSON(w, http.StatusOK, map[string]any{
		"message":   WelcomeMessage,
		"endpoints": endpoints,
	})
}

func (h *handler) dispatchByName(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, chi.URLParam(r, "method"))
}

func (h *handler) dispatchFixed(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.dispatch(w, r, name)
	}
}

func (h *handler) dispatch(w http.ResponseWriter, r *http.Request, name string) {
	params, err := h.readParams(r)
	if err != nil {
		httpio.WriteDispatchError(w, err, false)
		return
	}
	result, err := h.dispatcher.Dispatch(r.Context(), name, params)
	if err != nil {
		httpio.WriteDispatchError(w, err, h.opts.ExposeInternalDetails)
		return
	}
	httpio.WriteJSON(w, http.StatusOK, result)
}

func (h *handler) readParams(r *http.Request) (playstore.Params, error) {
	if r.Method == http.MethodGet {
		return httpio.QueryParams(r.URL.Query()), nil
	}
	return httpio.ReadParams(r, h.opts.BodyLimitBytes)
}

// corsHeaders stamps every response with a permissive CORS policy and
// answers OPTIONS on any path with 204, before routing.
func corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		hdr.Set("Access-Control-Allow-Origin", "*")
		hdr.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		hdr.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverJSON turns a panic below it into a JSON 500 so the caller still
// gets a body; the CORS headers are already set by then.
func recoverJSON(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.Any("error", rec),
						zap.String("path", r.URL.Path),
					)
					httpio.WriteError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func requestLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("edge request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}
