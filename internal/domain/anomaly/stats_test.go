package anomaly

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZScore_ReferenceExample(t *testing.T) {
	z, err := ZScore(0.5, 0.2, 0.9)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, z, 1e-12)
}

func TestZScore_AtMeanIsZero(t *testing.T) {
	for _, tc := range []struct{ mu, sigma float64 }{
		{0, 1}, {0.5, 0.2}, {-12.3, 4.5}, {1e6, 1e-3},
	} {
		z, err := ZScore(tc.mu, tc.sigma, tc.mu)
		require.NoError(t, err)
		assert.Equal(t, 0.0, z)
	}
}

func TestZScore_InvalidSigma(t *testing.T) {
	tests := []struct {
		name  string
		sigma float64
	}{
		{"zero", 0},
		{"negative", -0.2},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, err := ZScore(0.5, tt.sigma, 0.9)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDomain))
			assert.Equal(t, 0.0, z)
		})
	}
}

func TestZScore_NonFiniteMuOrX(t *testing.T) {
	_, err := ZScore(math.NaN(), 1, 0)
	assert.ErrorIs(t, err, ErrDomain)
	_, err = ZScore(0, 1, math.Inf(-1))
	assert.ErrorIs(t, err, ErrDomain)
}

func TestCumulativeProbabilities_ReferenceExample(t *testing.T) {
	p, err := CumulativeProbabilities(0.5, 0.2, 0.9)
	require.NoError(t, err)
	assert.InDelta(t, 0.9772498680518208, p.LessEqual, 1e-9)
	assert.InDelta(t, 0.0227501319481792, p.Greater, 1e-9)
}

func TestCumulativeProbabilities_Complementary(t *testing.T) {
	for _, x := range []float64{-10, -2.5, -0.1, 0, 0.3, 1, 4, 9.9} {
		p, err := CumulativeProbabilities(0, 1, x)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, p.LessEqual+p.Greater, 1e-9)
		assert.GreaterOrEqual(t, p.LessEqual, 0.0)
		assert.LessOrEqual(t, p.LessEqual, 1.0)
		assert.GreaterOrEqual(t, p.Greater, 0.0)
		assert.LessOrEqual(t, p.Greater, 1.0)
	}
}

func TestCumulativeProbabilities_Monotonic(t *testing.T) {
	prev := -1.0
	for x := -3.0; x <= 4.0; x += 0.01 {
		p, err := CumulativeProbabilities(0.5, 0.7, x)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.LessEqual, prev, "x=%v", x)
		prev = p.LessEqual
	}
}

func TestCumulativeProbabilities_Symmetric(t *testing.T) {
	mu, sigma := 3.0, 1.5
	for _, d := range []float64{0, 0.1, 1, 2.5, 7} {
		lo, err := CumulativeProbabilities(mu, sigma, mu-d)
		require.NoError(t, err)
		hi, err := CumulativeProbabilities(mu, sigma, mu+d)
		require.NoError(t, err)
		assert.InDelta(t, lo.LessEqual, 1-hi.LessEqual, 1e-12, "d=%v", d)
	}
}

// Known standard normal values, accurate to well under 1e-9.
func TestCumulativeProbabilities_StandardNormalTable(t *testing.T) {
	tests := []struct {
		z    float64
		want float64
	}{
		{0, 0.5},
		{1, 0.8413447460685429},
		{-1.96, 0.024997895148220435},
		{3, 0.9986501019683699},
		{-5, 2.866515718791939e-07},
		{-8, 6.22096057427178e-16},
	}
	for _, tt := range tests {
		p, err := CumulativeProbabilities(0, 1, tt.z)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, p.LessEqual, 1e-9, "z=%v", tt.z)
	}
}

func TestEvaluate(t *testing.T) {
	res, err := Evaluate(Input{Mu: 0.5, Sigma: 0.2, X: 0.9})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.ZScore, 1e-12)
	assert.InDelta(t, 0.97725, res.Probabilities.LessEqual, 1e-5)
	assert.Nil(t, res.Chart)

	_, err = Evaluate(Input{Mu: 0.5, Sigma: 0, X: 0.9})
	assert.ErrorIs(t, err, ErrDomain)
}

func TestDensity_PeakAtMean(t *testing.T) {
	assert.InDelta(t, 1/math.Sqrt(2*math.Pi), density(0, 1, 0), 1e-12)
	assert.Greater(t, density(0.5, 0.2, 0.5), density(0.5, 0.2, 0.9))
}

func TestSampleDensity(t *testing.T) {
	in := Input{Mu: 0.5, Sigma: 0.2, X: 0.9}
	c := SampleDensity(in, DefaultSamples)

	require.Equal(t, DefaultSamples, c.Len())
	assert.InDelta(t, -0.3, c.Xs[0], 1e-12)
	assert.InDelta(t, 1.3, c.Xs[c.Len()-1], 1e-12)
	for i := 1; i < c.Len(); i++ {
		assert.Greater(t, c.Xs[i], c.Xs[i-1])
	}
	assert.InDelta(t, density(0.5, 0.2, 0.5), c.Peak(), 1e-2)
}

func TestSampleDensity_EnforcesMinimum(t *testing.T) {
	c := SampleDensity(Input{Mu: 0, Sigma: 1}, 10)
	assert.Equal(t, MinSamples, c.Len())
}

func TestCurveTail(t *testing.T) {
	c := SampleDensity(Input{Mu: 0, Sigma: 1}, 101)

	tail := c.Tail(2)
	require.NotZero(t, tail.Len())
	for _, x := range tail.Xs {
		assert.GreaterOrEqual(t, x, 2.0)
	}
	assert.Equal(t, c.Xs[c.Len()-1], tail.Xs[tail.Len()-1])

	assert.Zero(t, c.Tail(10).Len())
	assert.Equal(t, c.Len(), c.Tail(-10).Len())
}

func TestCheckPlottable(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		wantErr string
	}{
		{"reference", Input{Mu: 0.5, Sigma: 0.2, X: 0.9}, ""},
		{"narrow but resolvable", Input{Mu: 0, Sigma: 1e-200, X: 0}, ""},
		{"x far outside window", Input{Mu: 0, Sigma: 1, X: 1e12}, ""},
		{"window collapses at large mu", Input{Mu: 1e15, Sigma: 1e-3, X: 1e15}, "too small to resolve"},
		{"subnormal sigma", Input{Mu: 0, Sigma: 1e-320, X: 0}, "cannot be plotted"},
		{"window overflows", Input{Mu: 0, Sigma: 1e308, X: 0}, "plot range overflows"},
		{"x and window overflow together", Input{Mu: -1e308, Sigma: 1, X: 1e308}, "plot range overflows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.in.Validate())
			err := tt.in.CheckPlottable()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrDomain)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
