// Package http exposes a Tracer as a JSON API.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/irobinett3/traceTM-iansntm/internal/logging"
	"github.com/irobinett3/traceTM-iansntm/internal/presentation/graph"
	"github.com/irobinett3/traceTM-iansntm/internal/runtime"
	"github.com/irobinett3/traceTM-iansntm/internal/sanitize"
	"github.com/irobinett3/traceTM-iansntm/internal/validator"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	"github.com/irobinett3/traceTM-iansntm/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed openapi.yaml
var openAPISpec []byte

// OpenAPISpec returns the embedded API description.
func OpenAPISpec() []byte {
	return openAPISpec
}

// maxBodyBytes bounds trace request bodies.
const maxBodyBytes = 1 << 20

// TraceRequest is the body of POST /machines/{name}/trace.
type TraceRequest struct {
	Input    string `json:"input"`
	MaxDepth int    `json:"max_depth,omitempty"`
}

// MachineResponse is the body of GET /machines/{name}.
type MachineResponse struct {
	*domain.Machine
	Unreachable []string `json:"unreachable,omitempty"`
}

// ErrorResponse is written for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves the tracer routes.
type Server struct {
	Tracer   ports.Tracer
	Version  string
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts GET /metrics for the given gatherer.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = strings.TrimSpace(v)
	}
}

// NewHandler creates a new HTTP handler for the tracer.
func NewHandler(tracer ports.Tracer, opts ...Option) http.Handler {
	s := &Server{Tracer: tracer, Version: "unknown"}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(openAPISpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.ListMachines)
		r.Get("/{name}", s.GetMachine)
		r.Get("/{name}/graph", s.GetGraph)
		r.Post("/{name}/trace", s.Trace)
	})

	r.Route("/results", func(r chi.Router) {
		r.Get("/", s.ListResults)
		r.Get("/{id}", s.GetResult)
		r.Delete("/{id}", s.DeleteResult)
	})

	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>tmtrace API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "tmtrace-http",
		"version": s.Version,
	})
}

// ListMachines handles GET /machines.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	names, err := s.Tracer.Machines(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, names)
}

// GetMachine handles GET /machines/{name}.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	m, err := s.machine(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, MachineResponse{Machine: m, Unreachable: validator.Unreachable(m)})
}

// GetGraph handles GET /machines/{name}/graph. An optional ?result=<id>
// highlights the states that result visited.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	m, err := s.machine(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var overlay *graph.GraphOverlay
	if id := r.URL.Query().Get("result"); id != "" {
		res, err := s.Tracer.Result(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		overlay = graph.OverlayFromResult(res)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(graph.GenerateMermaid(m, overlay)))
}

// Trace handles POST /machines/{name}/trace.
func (s *Server) Trace(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var body TraceRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.logger.Warn("trace: invalid request body", "error", err)
		s.writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if body.MaxDepth < 0 {
		s.writeError(w, http.StatusBadRequest, errors.New("max_depth must not be negative"))
		return
	}
	input, err := sanitize.Input(body.Input)
	if err != nil {
		s.logger.Warn("trace: input rejected", "error", err, "size", len(body.Input))
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.Tracer.TraceDepth(r.Context(), name, input, body.MaxDepth)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("trace served", "machine", name, "id", res.ID, "accepted", res.Accepted)
	s.writeJSON(w, http.StatusOK, res)
}

// ListResults handles GET /results.
func (s *Server) ListResults(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.Tracer.Results(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []domain.Summary{}
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

// GetResult handles GET /results/{id}.
func (s *Server) GetResult(w http.ResponseWriter, r *http.Request) {
	res, err := s.Tracer.Result(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// DeleteResult handles DELETE /results/{id}.
func (s *Server) DeleteResult(w http.ResponseWriter, r *http.Request) {
	if err := s.Tracer.DeleteResult(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) machine(r *http.Request) (*domain.Machine, error) {
	name, err := pathParam(r, "name")
	if err != nil {
		return nil, err
	}
	return s.Tracer.Machine(r.Context(), name)
}

// pathParam unescapes a route segment so nested machine names can be sent as a%2Fb.
func pathParam(r *http.Request, key string) (string, error) {
	v, err := url.PathUnescape(chi.URLParam(r, key))
	if err != nil {
		return "", &domain.ValidationError{Key: key, Reason: "invalid escape", Value: chi.URLParam(r, key)}
	}
	return v, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	s.writeError(w, status, err)
}

func statusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrMachineNotFound), errors.Is(err, domain.ErrResultNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoStore):
		return http.StatusNotImplemented
	case errors.Is(err, runtime.ErrFrontierExhausted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrMalformedMachine), errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
