package anomaly

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// MinSamples is the lowest density resolution accepted for a chart.
	MinSamples = 100
	// DefaultSamples matches the resolution of the reference plots.
	DefaultSamples = 200
	// SpanSigmas is the half-width, in standard deviations, of the sampled window.
	SpanSigmas = 4.0

	// peak densities outside this band can't be scaled onto a chart axis
	minPlotPeak = 1e-300
	maxPlotPeak = 1e300
)

// ZScore returns (x - mu) / sigma.
func ZScore(mu, sigma, x float64) (float64, error) {
	in := Input{Mu: mu, Sigma: sigma, X: x}
	if err := in.Validate(); err != nil {
		return 0, err
	}
	return in.zscore(), nil
}

// CumulativeProbabilities returns P(X ≤ x) and its complement under N(mu, sigma).
func CumulativeProbabilities(mu, sigma, x float64) (Probabilities, error) {
	in := Input{Mu: mu, Sigma: sigma, X: x}
	if err := in.Validate(); err != nil {
		return Probabilities{}, err
	}
	return in.probabilities(), nil
}

func density(mu, sigma, x float64) float64 {
	return normal(mu, sigma).Prob(x)
}

func normal(mu, sigma float64) distuv.Normal {
	return distuv.Normal{Mu: mu, Sigma: sigma}
}

func (in Input) zscore() float64 {
	return (in.X - in.Mu) / in.Sigma
}

// distuv.Normal.CDF is erfc based, stable deep into both tails.
func (in Input) probabilities() Probabilities {
	le := normal(in.Mu, in.Sigma).CDF(in.X)
	return Probabilities{LessEqual: le, Greater: 1 - le}
}

// Evaluate computes the z-score and tail probabilities for a validated input.
func Evaluate(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	return Result{
		Input:         in,
		ZScore:        in.zscore(),
		Probabilities: in.probabilities(),
	}, nil
}

// CheckPlottable reports whether the distribution of a valid input can be
// drawn: the x-axis span (window plus X) is finite, MinSamples points over
// the window are distinct floats, and the peak density is representable.
// Failures wrap ErrDomain.
func (in Input) CheckPlottable() error {
	lo, hi := in.Window()
	if span := math.Max(hi, in.X) - math.Min(lo, in.X); math.IsInf(span, 0) || math.IsNaN(span) {
		return errors.Wrapf(ErrDomain, "plot range overflows for mu=%g sigma=%g X=%g", in.Mu, in.Sigma, in.X)
	}
	step := (hi - lo) / float64(MinSamples-1)
	if !(lo+step > lo) || !(hi-step < hi) {
		return errors.Wrapf(ErrDomain, "sigma=%g is too small to resolve around mu=%g", in.Sigma, in.Mu)
	}
	if peak := density(in.Mu, in.Sigma, in.Mu); !(peak >= minPlotPeak && peak <= maxPlotPeak) {
		return errors.Wrapf(ErrDomain, "density peak %g for sigma=%g cannot be plotted", peak, in.Sigma)
	}
	return nil
}

// Curve is a sampled density: Ys[i] = pdf(Xs[i]).
type Curve struct {
	Xs []float64
	Ys []float64
}

// SampleDensity samples n evenly spaced points over [mu-4sigma, mu+4sigma].
// n below MinSamples is raised to MinSamples.
func SampleDensity(in Input, n int) Curve {
	if n < MinSamples {
		n = MinSamples
	}
	lo, hi := in.Window()
	step := (hi - lo) / float64(n-1)
	dist := normal(in.Mu, in.Sigma)

	c := Curve{Xs: make([]float64, n), Ys: make([]float64, n)}
	for i := 0; i < n; i++ {
		x := lo + float64(i)*step
		if i == n-1 {
			x = hi
		}
		c.Xs[i] = x
		c.Ys[i] = dist.Prob(x)
	}
	return c
}

// Window returns the sampled interval [mu-4sigma, mu+4sigma].
func (in Input) Window() (float64, float64) {
	return in.Mu - SpanSigmas*in.Sigma, in.Mu + SpanSigmas*in.Sigma
}

// Tail returns the sampled points with x >= threshold, in order.
func (c Curve) Tail(threshold float64) Curve {
	var out Curve
	for i, x := range c.Xs {
		if x >= threshold {
			out.Xs = append(out.Xs, x)
			out.Ys = append(out.Ys, c.Ys[i])
		}
	}
	return out
}

// Peak returns the largest sampled density.
func (c Curve) Peak() float64 {
	var m float64
	for _, y := range c.Ys {
		if y > m {
			m = y
		}
	}
	return m
}

// Len reports the number of sampled points.
func (c Curve) Len() int { return len(c.Xs) }
