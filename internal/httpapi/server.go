// Package httpapi serves the autosuggest endpoint over HTTP. It plays the
// part of the serverless HTTP trigger: each request becomes an
// invoke.Request, and errors the function propagates are translated into
// status codes here, at the platform edge.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jpl-au/suggest/internal/invoke"
	"github.com/jpl-au/suggest/internal/metrics"
	"github.com/jpl-au/suggest/internal/store"
	"github.com/jpl-au/suggest/internal/suggest"
)

// Options configures the HTTP server.
type Options struct {
	Addr        string
	AllowOrigin string // Access-Control-Allow-Origin value; empty disables the header
}

// Server routes HTTP requests to the resolver.
type Server struct {
	handler *invoke.Handler
	logger  *zap.Logger
	opts    Options
}

// NewServer creates a Server over r.
func NewServer(r invoke.Resolver, logger *zap.Logger, opts Options) *Server {
	return &Server{
		handler: invoke.New(instrumented{r}, "http:suggest"),
		logger:  logger,
		opts:    opts,
	}
}

// instrumented records lookup and error metrics around a resolver.
type instrumented struct {
	invoke.Resolver
}

func (i instrumented) ResolveDetail(ctx context.Context, raw string) (suggest.Resolution, error) {
	res, err := i.Resolver.ResolveDetail(ctx, raw)
	if err != nil {
		metrics.ObserveError(err)
		return res, err
	}
	metrics.ObserveLookup(res.Table)
	return res, nil
}

// Router builds the chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Use(s.requestLogger)

	r.Get("/", s.suggest)
	r.Get("/suggest", s.suggest)
	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) suggest(w http.ResponseWriter, r *http.Request) {
	if s.opts.AllowOrigin != "" {
		w.Header().Set("Access-Control-Allow-Origin", s.opts.AllowOrigin)
	}

	req := invoke.Request{QueryStringParameters: map[string]string{
		invoke.QueryParam: r.URL.Query().Get(invoke.QueryParam),
	}}

	resp, err := s.handler.Invoke(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write([]byte(resp.Body))
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps resolver failures onto status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrInvalidQuery):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrIndexUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	fields := []zap.Field{
		zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
		zap.String("kind", metrics.ErrorKind(err)),
		zap.Error(err),
	}
	if status >= 500 {
		s.logger.Error("suggest failed", fields...)
	} else {
		s.logger.Info("suggest rejected", fields...)
	}

	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  metrics.ErrorKind(err),
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
		)
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("suggest HTTP server listening", zap.String("addr", s.opts.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var _ invoke.Resolver = (*suggest.Resolver)(nil)
