// Package server exposes the allocator and the planning layer over HTTP.
//
// Endpoints:
//   - GET  /                  - Liveness text
//   - GET  /healthz           - Health check
//   - POST /api/optimize      - Raw first-fit allocation of {cuts, stock}
//   - GET  /api/test-optimize - Allocation of the built-in sample
//   - POST /api/plan          - Labeled cut plan with kerf, trim and groups
//   - POST /api/export/{kind} - Cut plan as pdf, xlsx or labels
//   - POST /api/estimate      - Purchase estimate
//   - GET  /metrics           - Prometheus metrics
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/piwi3910/LineCut/internal/config"
	"github.com/piwi3910/LineCut/internal/engine"
	"github.com/piwi3910/LineCut/internal/export"
	"github.com/piwi3910/LineCut/internal/model"
	"github.com/piwi3910/LineCut/internal/telemetry"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// MaxRequestBodySize bounds every request body (1 MiB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// MaxCuts bounds the number of cuts (after quantity expansion) per request.
	MaxCuts = 10000

	// MaxStock bounds the number of stock pieces (after expansion) per request.
	MaxStock = 10000

	// RunningMessage is the body of GET /.
	RunningMessage = "LineCut API is running"
)

// sampleCuts and sampleStock drive GET /api/test-optimize.
var (
	sampleCuts  = []float64{1200, 800, 800, 500}
	sampleStock = []float64{2500, 3000}
)

// ============================================================================
// SERVER
// ============================================================================

// Server is the LineCut HTTP API.
type Server struct {
	cfg      config.ServerConfig
	settings model.CutSettings
	version  string

	router  *http.ServeMux
	logger  *zap.Logger
	metrics *telemetry.Metrics
	auth    Authenticator
	limiter *rate.Limiter
}

// New creates a server from cfg. Requests without settings use defaults.
// A non-empty AuthToken installs a BearerAuthenticator; a positive RateLimit
// installs a shared limiter.
func New(cfg config.ServerConfig, defaults model.CutSettings, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		settings: defaults,
		version:  "dev",
		router:   http.NewServeMux(),
		logger:   logger,
		metrics:  telemetry.NewMetrics(),
	}
	if cfg.AuthToken != "" {
		s.auth = BearerAuthenticator{Token: cfg.AuthToken}
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	s.setupRoutes()
	return s
}

// WithAuthenticator replaces the authenticator. nil disables authentication.
func (s *Server) WithAuthenticator(a Authenticator) *Server {
	s.auth = a
	return s
}

// WithVersion sets the version reported by /healthz.
func (s *Server) WithVersion(v string) *Server {
	s.version = v
	return s
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *telemetry.Metrics {
	return s.metrics
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /{$}", s.handleRoot)
	s.router.HandleFunc("GET /healthz", s.handleHealth)

	s.router.HandleFunc("POST /api/optimize", s.handleOptimize)
	s.router.HandleFunc("GET /api/test-optimize", s.handleTestOptimize)
	s.router.HandleFunc("POST /api/plan", s.handlePlan)
	s.router.HandleFunc("POST /api/export/{kind}", s.handleExport)
	s.router.HandleFunc("POST /api/estimate", s.handleEstimate)

	s.router.Handle("GET /metrics", s.metrics.Handler())
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	chain := []Middleware{
		RecoveryMiddleware(s.logger),
		RequestIDMiddleware(),
		LoggingMiddleware(s.logger, s.metrics),
	}
	if len(s.cfg.CORSOrigins) > 0 {
		chain = append(chain, CORSMiddleware(NewCORSConfig(s.cfg.CORSOrigins)))
	}
	if s.limiter != nil {
		chain = append(chain, RateLimitMiddleware(s.limiter))
	}
	if s.auth != nil {
		chain = append(chain, AuthMiddleware(s.auth, s.logger))
	}
	return Chain(chain...)(s.router)
}

// ============================================================================
// REQUEST TYPES
// ============================================================================

// OptimizeRequest is the body of POST /api/optimize. Pointers tell an absent
// or null field apart from an empty list.
type OptimizeRequest struct {
	Cuts  *[]float64 `json:"cuts"`
	Stock *[]float64 `json:"stock"`
}

// PlanRequest is the body of POST /api/plan and /api/export/{kind}.
type PlanRequest struct {
	Parts    *[]model.Part      `json:"parts"`
	Stock    *[]model.StockBar  `json:"stock"`
	Settings *model.CutSettings `json:"settings,omitempty"`
}

// EstimateRequest is the body of POST /api/estimate.
type EstimateRequest struct {
	Parts        []model.Part `json:"parts"`
	BarLength    float64      `json:"bar_length"`
	KerfWidth    *float64     `json:"kerf_width,omitempty"`
	WastePercent float64      `json:"waste_percent"`
	PricePerBar  float64      `json:"price_per_bar"`
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, RunningMessage)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

// handleOptimize runs the raw allocator. Cuts that fit nowhere are reported
// in waste, never as an error.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Cuts == nil || req.Stock == nil {
		writeError(w, http.StatusBadRequest, model.ErrMissingInput.Error())
		return
	}
	cuts, stock := *req.Cuts, *req.Stock
	if len(cuts) > MaxCuts || len(stock) > MaxStock {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("At most %d cuts and %d stock pieces per request", MaxCuts, MaxStock))
		return
	}
	if err := errors.Join(model.ValidateLengths("cut", cuts), model.ValidateLengths("stock", stock)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.allocate(r.Context(), cuts, stock))
}

func (s *Server) handleTestOptimize(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.allocate(r.Context(), sampleCuts, sampleStock))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.planFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// exportKinds maps the {kind} path value to a writer, content type and
// download name.
var exportKinds = map[string]struct {
	write       func(io.Writer, model.CutPlan) error
	contentType string
	filename    string
}{
	"pdf":    {export.WritePDF, "application/pdf", "cutlist.pdf"},
	"xlsx":   {export.WriteXLSX, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "cutlist.xlsx"},
	"labels": {export.WriteLabels, "application/pdf", "labels.pdf"},
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind, ok := exportKinds[r.PathValue("kind")]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown export format %q", r.PathValue("kind")))
		return
	}
	plan, ok := s.planFromRequest(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := kind.write(&buf, plan); err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("export failed", zap.String("kind", r.PathValue("kind")), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	w.Header().Set("Content-Type", kind.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", kind.filename))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Parts) == 0 {
		writeError(w, http.StatusBadRequest, "Missing parts data")
		return
	}
	normalizeQuantities(req.Parts)

	errs := []error{model.ValidateLengths("bar length", []float64{req.BarLength})}
	for _, p := range req.Parts {
		errs = append(errs, p.Validate())
	}
	if req.WastePercent < 0 || req.PricePerBar < 0 {
		errs = append(errs, errors.New("waste_percent and price_per_bar must not be negative"))
	}
	kerf := s.settings.KerfWidth
	if req.KerfWidth != nil {
		kerf = *req.KerfWidth
		if kerf < 0 {
			errs = append(errs, errors.New("kerf_width must not be negative"))
		}
	}
	if err := errors.Join(errs...); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, model.CalculatePurchaseEstimate(req.Parts, req.BarLength, kerf, req.WastePercent, req.PricePerBar))
}

// ============================================================================
// ALLOCATION
// ============================================================================

func (s *Server) allocate(ctx context.Context, cuts, stock []float64) model.AllocationResult {
	_, span := telemetry.Tracer().Start(ctx, "engine.Allocate")
	defer span.End()

	start := time.Now()
	result := engine.Allocate(cuts, stock)

	placed := len(cuts) - len(result.Waste)
	s.metrics.ObserveAllocation("raw", time.Since(start), placed, len(result.Waste))
	span.SetAttributes(
		attribute.Int("linecut.cuts", len(cuts)),
		attribute.Int("linecut.stock", len(stock)),
		attribute.Int("linecut.waste", len(result.Waste)),
		attribute.Int("linecut.pieces_used", result.PiecesUsed()),
	)
	return result
}

// planFromRequest decodes and validates a PlanRequest and runs the planner.
// On failure it has already written the response.
func (s *Server) planFromRequest(w http.ResponseWriter, r *http.Request) (model.CutPlan, bool) {
	var req PlanRequest
	if !s.decode(w, r, &req) {
		return model.CutPlan{}, false
	}
	if req.Parts == nil || req.Stock == nil {
		writeError(w, http.StatusBadRequest, model.ErrMissingInput.Error())
		return model.CutPlan{}, false
	}
	parts, stocks := *req.Parts, *req.Stock
	normalizeQuantities(parts)
	for i := range stocks {
		if stocks[i].Quantity == 0 {
			stocks[i].Quantity = 1
		}
	}

	settings := s.settings
	if req.Settings != nil {
		settings = *req.Settings
	}
	if err := model.ValidatePlanInput(parts, stocks, settings); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return model.CutPlan{}, false
	}
	if partsExceed(parts, MaxCuts) || stockExceeds(stocks, MaxStock) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("At most %d cuts and %d stock pieces per request", MaxCuts, MaxStock))
		return model.CutPlan{}, false
	}

	_, span := telemetry.Tracer().Start(r.Context(), "engine.Optimize")
	defer span.End()

	start := time.Now()
	plan := engine.New(settings).Optimize(parts, stocks)
	s.metrics.ObserveAllocation("plan", time.Since(start), plan.CutCount(), len(plan.Unplaced))

	span.SetAttributes(
		attribute.Int("linecut.parts", len(parts)),
		attribute.Int("linecut.bars", len(plan.Bars)),
		attribute.Int("linecut.unplaced", len(plan.Unplaced)),
	)
	return plan, true
}

// normalizeQuantities treats an omitted quantity as one piece.
func normalizeQuantities(parts []model.Part) {
	for i := range parts {
		if parts[i].Quantity == 0 {
			parts[i].Quantity = 1
		}
	}
}

// partsExceed reports whether the expanded part count passes limit. It stops
// as soon as the running total does, so huge quantities cannot wrap the sum.
func partsExceed(parts []model.Part, limit int) bool {
	n := 0
	for _, p := range parts {
		if p.Quantity > limit-n {
			return true
		}
		n += p.Quantity
	}
	return false
}

func stockExceeds(stocks []model.StockBar, limit int) bool {
	n := 0
	for _, b := range stocks {
		if b.Quantity > limit-n {
			return true
		}
		n += b.Quantity
	}
	return false
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", zap.String("addr", ln.Addr().String()), zap.String("version", s.version))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("server shutting down", zap.Duration("timeout", timeout))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// ============================================================================
// HELPERS
// ============================================================================

// decode reads a JSON body bounded by MaxRequestBodySize. On failure it writes
// a 400 or 413 and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds maximum size of %d bytes", MaxRequestBodySize))
			return false
		}
		s.logger.Debug("invalid request body", zap.Error(err), zap.String("request_id", RequestIDFromContext(r.Context())))
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
