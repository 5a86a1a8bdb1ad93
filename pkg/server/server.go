package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/metrics"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/usecase/favorites"
	"github.com/m-mizutani/namer/pkg/usecase/session"
	"github.com/m-mizutani/namer/pkg/usecase/suggest"
	"github.com/m-mizutani/namer/pkg/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// Server is the JSON API over one suggestion session.
type Server struct {
	suggest   *suggest.Session
	favorites *favorites.Store
	session   *session.Context
	gatherer  prometheus.Gatherer

	router chi.Router
}

type Option func(*Server)

// WithMetrics serves gatherer on /metrics.
func WithMetrics(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

func New(sg *suggest.Session, favs *favorites.Store, sess *session.Context, opts ...Option) *Server {
	s := &Server{
		suggest:   sg,
		favorites: favs,
		session:   sess,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(withLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.getState)
		r.Post("/generate", s.generate)
		r.Post("/reset", s.reset)
		r.Post("/saved/view", s.showSaved)

		r.Route("/cards/{handle}", func(r chi.Router) {
			r.Get("/", s.getCard)
			r.Post("/analysis", s.analyze)
			r.Post("/avatar", s.avatar)
			r.Post("/avatar/retry", s.retryAvatar)
		})

		r.Get("/favorites", s.listFavorites)
		r.Post("/favorites/toggle", s.toggleFavorite)

		r.Get("/session", s.getSession)
		r.Post("/session", s.signIn)
		r.Delete("/session", s.signOut)
	})

	if s.gatherer != nil {
		r.Handle("/metrics", metrics.Handler(s.gatherer))
	}

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logging.From(ctx).Info("starting API server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return goerr.Wrap(err, "API server stopped", goerr.V("addr", addr))
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return goerr.Wrap(err, "failed to shut down API server")
	}
	return nil
}

// withLogger puts a request scoped logger into the context.
func withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.From(r.Context()).With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		next.ServeHTTP(w, r.WithContext(logging.With(r.Context(), logger)))
	})
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeEmptyPrompt    = "EMPTY_PROMPT"
	codeStaleRound     = "STALE_ROUND"
	codeInvalidIdea    = "INVALID_IDEA"
	codeInvalidEmail   = "INVALID_EMAIL"
	codeUnknownHandle  = "UNKNOWN_HANDLE"
	codeCancelled      = "CANCELLED"
	codeInternal       = "INTERNAL_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// handleError maps use case errors to a response. Unexpected errors are
// logged and hidden behind a generic message.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrEmptyPrompt):
		writeError(w, http.StatusBadRequest, codeEmptyPrompt, "prompt is empty")
	case errors.Is(err, model.ErrStaleRound):
		writeError(w, http.StatusConflict, codeStaleRound, "a newer request replaced this one")
	case errors.Is(err, model.ErrInvalidIdea):
		writeError(w, http.StatusBadRequest, codeInvalidIdea, err.Error())
	case errors.Is(err, model.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, codeInvalidEmail, "email is required")
	case errors.Is(err, model.ErrUnknownHandle):
		writeError(w, http.StatusNotFound, codeUnknownHandle, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, codeCancelled, "request was cancelled")
	default:
		logging.From(r.Context()).Error("request failed", logging.ErrAttr(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "failed to decode request body")
	}
	return nil
}
