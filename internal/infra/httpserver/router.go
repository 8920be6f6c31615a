package httpserver

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	appanomaly "github.com/bryanwahyu/climate-anomaly/internal/application/anomaly"
	domain "github.com/bryanwahyu/climate-anomaly/internal/domain/anomaly"
	"github.com/bryanwahyu/climate-anomaly/internal/middleware"
)

// Probability keys in the JSON body.
const (
	KeyLessEqual = "P(X ≤ x)"
	KeyGreater   = "P(X > x)"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/analyze.html"))

// Options untuk router; field nil/kosong berarti fitur dimatikan.
type Options struct {
	Defaults       domain.Input
	Log            logrus.FieldLogger
	Metrics        *middleware.Metrics
	Gatherer       prometheus.Gatherer
	MetricsPath    string
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	HealthCheckers map[string]middleware.HealthChecker

	// TrustProxyHeaders takes the client address from X-Forwarded-For /
	// X-Real-IP. Only enable behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

type Router struct {
	svc      *appanomaly.Service
	defaults domain.Input
	log      logrus.FieldLogger
}

func NewRouter(svc *appanomaly.Service, opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &Router{svc: svc, defaults: opts.Defaults, log: log}
	mux := chi.NewRouter()

	if opts.TrustProxyHeaders {
		mux.Use(chimw.RealIP)
	}
	mux.Use(middleware.Logging(log))
	mux.Use(chimw.Recoverer)
	if opts.Metrics != nil {
		mux.Use(opts.Metrics.Middleware)
	}
	if len(opts.AllowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/healthz", middleware.LivenessHandler)
	mux.Get("/readyz", middleware.ReadinessHandler)
	if opts.Gatherer != nil && opts.MetricsPath != "" {
		mux.Handle(opts.MetricsPath, promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	mux.Group(func(rt chi.Router) {
		if opts.RateLimiter != nil {
			rt.Use(middleware.RateLimit(opts.RateLimiter))
		}
		rt.Get("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/analyze_html", r.wrap(r.handleAnalyzeHTML))
		rt.Get("/analyze.png", r.wrap(r.handleAnalyzePNG))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, domain.ErrDomain) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			r.log.WithError(err).WithField("path", req.URL.Path).Error("analysis failed")
			if errors.Is(err, domain.ErrRender) {
				http.Error(w, "chart rendering failed", http.StatusInternalServerError)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

type analyzeResponse struct {
	Mu            float64            `json:"mu"`
	Sigma         float64            `json:"sigma"`
	X             float64            `json:"X"`
	ZScore        float64            `json:"z_score"`
	Probabilities map[string]float64 `json:"probabilities"`
	Plot          string             `json:"plot"`
}

type analyzePage struct {
	Mu, Sigma, X         float64
	ZScore               float64
	PLessEqual, PGreater float64
	Plot                 template.URL
}

func (r *Router) analyze(req *http.Request) (domain.Result, error) {
	in, err := middleware.ParseAnalysisInput(req.URL.Query(), r.defaults)
	if err != nil {
		return domain.Result{}, err
	}
	return r.svc.Analyze(req.Context(), in)
}

// GET /analyze?mu=&sigma=&X=
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	res, err := r.analyze(req)
	if err != nil {
		return err
	}

	body := analyzeResponse{
		Mu:     res.Input.Mu,
		Sigma:  res.Input.Sigma,
		X:      res.Input.X,
		ZScore: res.ZScore,
		Probabilities: map[string]float64{
			KeyLessEqual: res.Probabilities.LessEqual,
			KeyGreater:   res.Probabilities.Greater,
		},
		Plot: appanomaly.PlotDataURI(res.Chart),
	}

	// encode ke buffer dulu supaya error tidak menghasilkan respons setengah jadi
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(buf.Bytes())
	return err
}

// GET /analyze_html?mu=&sigma=&X=
func (r *Router) handleAnalyzeHTML(w http.ResponseWriter, req *http.Request) error {
	res, err := r.analyze(req)
	if err != nil {
		return err
	}

	page := analyzePage{
		Mu:         res.Input.Mu,
		Sigma:      res.Input.Sigma,
		X:          res.Input.X,
		ZScore:     res.ZScore,
		PLessEqual: res.Probabilities.LessEqual,
		PGreater:   res.Probabilities.Greater,
		// data: URI dianggap unsafe oleh html/template kalau tidak ditandai
		Plot: template.URL(appanomaly.PlotDataURI(res.Chart)),
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, page); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write(buf.Bytes())
	return err
}

// GET /analyze.png?mu=&sigma=&X=
func (r *Router) handleAnalyzePNG(w http.ResponseWriter, req *http.Request) error {
	res, err := r.analyze(req)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Chart)))
	_, err = w.Write(res.Chart)
	return err
}
