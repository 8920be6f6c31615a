package anomaly

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	domain "github.com/bryanwahyu/climate-anomaly/internal/domain/anomaly"
)

// Outcome labels reported to the Observer.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid"
	OutcomeRenderError = "render_error"
	OutcomeCanceled    = "canceled"
)

// Observer menerima hasil setiap analisis (metrics, dsb).
type Observer interface {
	ObserveAnalysis(outcome string, zScore float64, elapsed time.Duration)
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Service implements the analyze use-case.
// Service holds no per-request state and is safe for concurrent use.
type Service struct {
	Renderer domain.ChartRenderer
	Observer Observer
	Clock    Clock
	Log      logrus.FieldLogger
}

// NewService wires a Service with a system clock and a discarding observer.
func NewService(renderer domain.ChartRenderer, log logrus.FieldLogger) *Service {
	return &Service{
		Renderer: renderer,
		Observer: nopObserver{},
		Clock:    SystemClock{},
		Log:      log,
	}
}

// Analyze validates the input, computes z-score and tail probabilities,
// then renders the chart. Inputs whose distribution can't be drawn are
// rejected with ErrDomain before rendering. On any error no Result is returned.
func (s *Service) Analyze(ctx context.Context, in domain.Input) (domain.Result, error) {
	start := s.now()

	res, err := domain.Evaluate(in)
	if err == nil {
		err = in.CheckPlottable()
	}
	if err != nil {
		s.observe(OutcomeInvalid, 0, start)
		return domain.Result{}, err
	}

	png, err := s.Renderer.Render(ctx, in)
	if err != nil {
		outcome := OutcomeRenderError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = OutcomeCanceled
		}
		s.observe(outcome, res.ZScore, start)
		s.logger().WithError(err).WithFields(logrus.Fields{
			"mu": in.Mu, "sigma": in.Sigma, "x": in.X,
		}).Warn("chart render failed")
		return domain.Result{}, err
	}
	res.Chart = png

	s.observe(OutcomeOK, res.ZScore, start)
	s.logger().WithFields(logrus.Fields{
		"mu":      in.Mu,
		"sigma":   in.Sigma,
		"x":       in.X,
		"z_score": res.ZScore,
		"p_gt":    res.Probabilities.Greater,
	}).Debug("analysis complete")
	return res, nil
}

// PlotDataURI encodes PNG bytes as an inline data URI.
func PlotDataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func (s *Service) observe(outcome string, z float64, start time.Time) {
	if s.Observer == nil {
		return
	}
	s.Observer.ObserveAnalysis(outcome, z, s.now().Sub(start))
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Service) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

type nopObserver struct{}

func (nopObserver) ObserveAnalysis(string, float64, time.Duration) {}
