// Package server exposes the solver over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/piwi3910/PalletCut/internal/cache"
	"github.com/piwi3910/PalletCut/internal/engine"
)

// MaxBatch caps the number of problems in one batch request.
const MaxBatch = 256

// Config configures a Server.
type Config struct {
	Addr         string
	MemoryBudget int64 // per solve, 0 selects the engine default
	Cache        cache.Cache
	Logger       *log.Logger
	// RequestTimeout bounds each request. Zero means two minutes.
	RequestTimeout time.Duration
}

// Server serves solve requests.
type Server struct {
	cfg    Config
	router chi.Router
}

func New(cfg Config) *Server {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 2 * time.Minute
	}
	s := &Server{cfg: cfg}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Post("/batch", s.handleBatch)
		r.Post("/compare", s.handleCompare)
		r.Post("/gcode", s.handleGCode)
		r.Get("/render/{L}/{W}/{l}/{w}", s.handleRender)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return log.WithContext(context.Background(), s.cfg.Logger) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.cfg.Logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// requestLogger attaches the server logger to the request context and logs
// every request once it is done.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		logger := s.cfg.Logger.With("req", middleware.GetReqID(r.Context()))
		ctx := log.WithContext(r.Context(), logger)

		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.Debug("request",
			"method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Microsecond))
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusOf maps solver errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidParameters):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrMemoryExhausted):
		return http.StatusInsufficientStorage
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
