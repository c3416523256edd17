// Package api - Thin HTTP layer over the deficit engine
// The API is ONLY responsible for: input decoding, engine orchestration, output serialization.
// The API NEVER performs cost logic.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	"gear-cost/core/deficit"
	"gear-cost/core/output"
	"gear-cost/internal/errors"
	"gear-cost/internal/logging"
	"gear-cost/internal/metrics"
)

// Server is the API server
type Server struct {
	engine   *deficit.Engine
	mux      *http.ServeMux
	handler  http.Handler
	version  string
	logger   *zap.Logger
	metrics  *metrics.Collector
	limiter  *clientLimiter
	gzip     bool
	maxBody  int64
	registry *output.Registry
}

// Option configures a Server
type Option func(*Server)

// WithVersion sets the version reported by /version and /health
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithLogger sets the request logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics records request metrics and serves them on /metrics
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) { s.metrics = c }
}

// WithRateLimit enables per-client token bucket limiting. A non-positive
// rate disables it.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = newClientLimiter(perSecond, burst)
	}
}

// WithGzip toggles response compression
func WithGzip(enabled bool) Option {
	return func(s *Server) { s.gzip = enabled }
}

// WithMaxBodyBytes caps request bodies
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// NewServer creates an API server over engine
func NewServer(engine *deficit.Engine, opts ...Option) *Server {
	s := &Server{
		engine:   engine,
		mux:      http.NewServeMux(),
		version:  "dev",
		maxBody:  1 << 20,
		registry: output.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger).Named("api")

	s.registerRoutes()

	var h http.Handler = s.instrument(s.mux)
	h = s.rateLimit(h)
	h = withRequestID(h)
	if s.gzip {
		h = gzhttp.GzipHandler(h)
	}
	s.handler = h
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoint
	s.mux.HandleFunc("POST /deficit", s.handleDeficit)

	// Reference data
	s.mux.HandleFunc("GET /tiers", s.handleTiers)
	s.mux.HandleFunc("GET /bundles", s.handleBundles)
	s.mux.HandleFunc("GET /layout", s.handleLayout)

	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// handleDeficit handles POST /deficit
func (s *Server) handleDeficit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var formatter output.Formatter
	if name := r.URL.Query().Get("format"); name != "" && name != string(output.FormatJSON) {
		f, err := s.registry.Get(name)
		if err != nil {
			s.writeError(w, r, CodeUnsupported, err.Error(), nil, http.StatusBadRequest)
			return
		}
		formatter = f
		if f.Format() == output.FormatTable {
			formatter = output.NewTableFormatter(true)
		}
	}

	var req deficit.Request
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, r, CodeRequestTooLarge, err.Error(), nil, http.StatusRequestEntityTooLarge)
			return
		}
		s.writeError(w, r, CodeInvalidJSON, err.Error(), nil, http.StatusBadRequest)
		return
	}

	if err := deficit.ValidateRequest(req); err != nil {
		s.writeError(w, r, CodeValidation, err.Error(), errors.Details(err), http.StatusBadRequest)
		return
	}

	report, err := s.engine.Compute(req)
	switch {
	case err == nil:
	case errors.IsType(err, errors.TypeNotFound):
		s.writeError(w, r, CodeUnknownTier, err.Error(), errors.Details(err), http.StatusUnprocessableEntity)
		return
	case errors.IsType(err, errors.TypeInput):
		s.writeError(w, r, CodeValidation, err.Error(), errors.Details(err), http.StatusBadRequest)
		return
	default:
		s.logger.Error("deficit calculation failed",
			zap.String("request_id", RequestID(r.Context())), zap.Error(err))
		s.writeError(w, r, CodeInternal, "calculation failed", nil, http.StatusInternalServerError)
		return
	}

	result := &output.Result{
		Report:  report,
		Request: &req,
		Metadata: output.Metadata{
			Timestamp: start.UTC().Format(time.RFC3339),
			Duration:  time.Since(start).String(),
			Version:   s.version,
			Source:    s.engine.Reference().Source,
			RequestID: RequestID(r.Context()),
		},
	}

	if formatter == nil {
		s.writeJSON(w, result, http.StatusOK)
		return
	}

	var buf bytes.Buffer
	if err := formatter.Render(&buf, result); err != nil {
		s.writeError(w, r, CodeInternal, err.Error(), nil, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType(formatter.Format()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleTiers handles GET /tiers
func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	ref := s.engine.Reference()
	s.writeJSON(w, TiersResponse{
		Tiers:     ref.Ladder.Tiers(),
		Resources: ref.Ladder.Resources(),
		Default:   deficit.StartTier(ref),
		Source:    ref.Source.Ladder,
	}, http.StatusOK)
}

// handleBundles handles GET /bundles[?category=X]
func (s *Server) handleBundles(w http.ResponseWriter, r *http.Request) {
	ref := s.engine.Reference()
	category := r.URL.Query().Get("category")
	bundles := bundleInfos(ref.Catalog, category)
	if category != "" && len(bundles) == 0 {
		s.writeError(w, r, CodeNotFound, "unknown bundle category: "+category,
			map[string]interface{}{"categories": ref.Catalog.Categories()}, http.StatusNotFound)
		return
	}
	s.writeJSON(w, BundlesResponse{
		Categories: ref.Catalog.Categories(),
		Bundles:    bundles,
		Source:     ref.Source.Catalog,
	}, http.StatusOK)
}

// handleLayout handles GET /layout
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, layout(), http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ref := s.engine.Reference()
	s.writeJSON(w, HealthResponse{
		Status:  "healthy",
		Version: s.version,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Source:  ref.Source,
		Tiers:   ref.Ladder.Len(),
		Bundles: ref.Catalog.Len(),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, VersionResponse{
		Version:    s.version,
		Engine:     "gear-cost",
		APIVersion: "v1",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code, message string, details map[string]interface{}, status int) {
	s.writeJSON(w, ErrorResponse{Error: ErrorBody{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: RequestID(r.Context()),
	}}, status)
}

func contentType(f output.Format) string {
	switch f {
	case output.FormatCSV:
		return "text/csv; charset=utf-8"
	case output.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
