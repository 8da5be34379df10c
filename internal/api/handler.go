package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vitalcheck/vitalcheck/internal/auth"
	"github.com/vitalcheck/vitalcheck/internal/metrics"
	"github.com/vitalcheck/vitalcheck/internal/scoring"
)

// msgAssessFailed is the only detail a client sees for unexpected errors.
const msgAssessFailed = "An error occurred during health assessment"

// Defaults used when Options leaves a field zero.
const (
	DefaultMaxBodyBytes   = 64 << 10
	DefaultRequestTimeout = 30 * time.Second
)

// Options configures the handler returned by New.
type Options struct {
	// Assess scores one input. Defaults to scoring.Assess.
	Assess func(scoring.Input) scoring.Result

	// Metrics receives observations and is served at /metrics. Nil disables both.
	Metrics *metrics.Registry

	// Guard protects POST /api/assess. Nil leaves it open.
	Guard *auth.Guard

	// AllowedOrigins for CORS. Empty means "*".
	AllowedOrigins []string

	MaxBodyBytes   int64
	RequestTimeout time.Duration

	// UIDir is served for every path outside /api and /metrics when set.
	UIDir string

	// Version is reported by the health endpoint.
	Version string
}

// Handler serves the vitalcheck HTTP API.
type Handler struct {
	assess  func(scoring.Input) scoring.Result
	metrics *metrics.Registry
	maxBody int64
	version string
	router  chi.Router
}

// New creates a Handler and registers all routes.
func New(opts Options) *Handler {
	h := &Handler{
		assess:  opts.Assess,
		metrics: opts.Metrics,
		maxBody: opts.MaxBodyBytes,
		version: opts.Version,
	}
	if h.assess == nil {
		h.assess = scoring.Assess
	}
	if h.maxBody <= 0 {
		h.maxBody = DefaultMaxBodyBytes
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	authHeader := auth.DefaultHeader
	if opts.Guard != nil {
		if s := opts.Guard.Settings(); s.Header != "" {
			authHeader = s.Header
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP, requestID, accessLog, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", authHeader, HeaderRequestID},
		ExposedHeaders: []string{HeaderRequestID},
		MaxAge:         300,
	}))

	r.Route("/api", func(ar chi.Router) {
		ar.Use(middleware.Timeout(timeout))
		ar.NotFound(notFound)
		ar.MethodNotAllowed(methodNotAllowed)

		ar.Get("/v1/health", h.health)
		ar.Group(func(pr chi.Router) {
			if opts.Guard != nil {
				pr.Use(opts.Guard.Middleware)
			}
			pr.Post("/assess", h.assessHandler)
		})
	})

	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}

	if opts.UIDir != "" {
		r.Handle("/*", staticHandler(opts.UIDir))
		slog.Info("api: serving UI static files", "dir", opts.UIDir)
	} else {
		r.NotFound(notFound)
	}
	r.MethodNotAllowed(methodNotAllowed)

	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, HealthResponse{Status: "ok", Version: h.version})
}

// assessHandler serves POST /api/assess.
func (h *Handler) assessHandler(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFrom(r.Context())

	in, err := DecodeAssessRequest(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		h.reject(w, reqID, err)
		return
	}

	res, err := h.run(in)
	if err != nil {
		h.fail(w, reqID, err)
		return
	}

	// Encode before writing so an encoding failure can still become a 500.
	body, err := json.Marshal(res)
	if err != nil {
		h.fail(w, reqID, fmt.Errorf("encode result: %w", err))
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveAssessment(string(res.Status), res.OverallScore)
	}
	slog.Debug("api: assessment complete",
		"request_id", reqID, "score", res.OverallScore, "status", res.Status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(append(body, '\n')) //nolint:errcheck
}

// run calls the scorer, turning a panic into an error.
func (h *Handler) run(in scoring.Input) (res scoring.Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("assess panicked: %v", p)
		}
	}()
	return h.assess(in), nil
}

// reject answers a request that failed validation.
func (h *Handler) reject(w http.ResponseWriter, reqID string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.observeRejection(metrics.ReasonInvalidBody)
		jsonErr(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		h.fail(w, reqID, err)
		return
	}

	switch ve.Kind {
	case KindMissing:
		h.observeRejection(metrics.ReasonMissingField)
	case KindInvalid:
		h.observeRejection(metrics.ReasonInvalidField)
	default:
		h.observeRejection(metrics.ReasonInvalidBody)
	}
	slog.Debug("api: assessment rejected",
		"request_id", reqID, "field", ve.Field, "err", err)
	jsonErr(w, http.StatusBadRequest, ve.Error())
}

// fail logs err in full and answers with the generic 500 message.
func (h *Handler) fail(w http.ResponseWriter, reqID string, err error) {
	if h.metrics != nil {
		h.metrics.ObserveFailure()
	}
	slog.Error("api: assessment error", "request_id", reqID, "err", err)
	jsonErr(w, http.StatusInternalServerError, msgAssessFailed)
}

func (h *Handler) observeRejection(reason string) {
	if h.metrics != nil {
		h.metrics.ObserveRejection(reason)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	jsonErr(w, http.StatusNotFound, "not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
}

// staticHandler serves dir, falling back to index.html for unknown paths so
// a single-page client can route on its own.
func staticHandler(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if _, err := os.Stat(p); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	})
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
