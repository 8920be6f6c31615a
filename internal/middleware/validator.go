package middleware

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/bryanwahyu/climate-anomaly/internal/domain/anomaly"
)

// Query parameter names for the analyze endpoints.
const (
	ParamMu    = "mu"
	ParamSigma = "sigma"
	ParamX     = "X"
)

// ParseAnalysisInput reads mu, sigma and X from the query.
// Omitted parameters take the value from defaults; a parameter that is
// present but empty or not a number is an error wrapping anomaly.ErrDomain.
// "x" is accepted as an alias for "X".
func ParseAnalysisInput(q url.Values, defaults anomaly.Input) (anomaly.Input, error) {
	in := defaults
	var err error

	if in.Mu, err = floatParam(q, defaults.Mu, ParamMu); err != nil {
		return anomaly.Input{}, err
	}
	if in.Sigma, err = floatParam(q, defaults.Sigma, ParamSigma); err != nil {
		return anomaly.Input{}, err
	}
	if in.X, err = floatParam(q, defaults.X, ParamX, strings.ToLower(ParamX)); err != nil {
		return anomaly.Input{}, err
	}

	if err := in.Validate(); err != nil {
		return anomaly.Input{}, err
	}
	return in, nil
}

func floatParam(q url.Values, def float64, names ...string) (float64, error) {
	for _, name := range names {
		if !q.Has(name) {
			continue
		}
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			return 0, errors.Wrapf(anomaly.ErrDomain, "%s is empty", name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, errors.Wrapf(anomaly.ErrDomain, "%s is not a number: %q", name, raw)
		}
		return v, nil
	}
	return def, nil
}
