// Package server implements the diagram preview server.
//
// The server renders diagrams on request so that documentation authors can
// iterate on a builder without re-running the full pipeline:
//
//	GET /healthz                    liveness probe
//	GET /diagrams                   registry listing as JSON
//	GET /diagrams/{name}.{format}   rendered diagram, e.g. /diagrams/e.svg
//
// A request without an extension is rendered as SVG. Renders go through the
// same [pipeline.Runner] the CLI uses, including its render cache.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mlopsdiagrams/pkg/buildinfo"
	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
	"github.com/matzehuels/mlopsdiagrams/pkg/observability"
	"github.com/matzehuels/mlopsdiagrams/pkg/output"
	"github.com/matzehuels/mlopsdiagrams/pkg/pipeline"
)

// DefaultAddr is used when no address is configured.
const DefaultAddr = "127.0.0.1:8080"

// Server serves rendered diagrams over HTTP.
type Server struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger
	addr   string
	router chi.Router

	// mu serializes renders; the render cache is used sequentially.
	mu sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithOptions sets the base pipeline options of every render. Only,
// Format and OutDir are replaced per request.
func WithOptions(opts pipeline.Options) Option {
	return func(s *Server) { s.opts = opts }
}

// New creates a server rendering through runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		logger: logger,
		addr:   DefaultAddr,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.buildRouter()
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.addr }

// ServeHTTP delegates to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/diagrams", s.handleList)
	r.Get("/diagrams/{file}", s.handleDiagram)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("preview server listening", "addr", s.addr, "version", buildinfo.Version)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	s.logger.Info("preview server stopped")
	return nil
}

// logRequests logs each request and reports it to the server hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed.Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	output.FormatPNG:     "image/png",
	output.FormatSVG:     "image/svg+xml",
	output.FormatJPG:     "image/jpeg",
	output.FormatJPEG:    "image/jpeg",
	output.FormatPDF:     "application/pdf",
	output.FormatDOT:     "text/vnd.graphviz; charset=utf-8",
	output.FormatMermaid: "text/plain; charset=utf-8",
}

// ContentType returns the response content type of format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: middleware.GetReqID(r.Context()),
	})
}
