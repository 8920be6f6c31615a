package anomaly

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		wantErr string
	}{
		{"valid", Input{Mu: 0.5, Sigma: 0.2, X: 0.9}, ""},
		{"negative mu and x", Input{Mu: -4, Sigma: 1, X: -9}, ""},
		{"zero sigma", Input{Mu: 0.5, Sigma: 0, X: 0.9}, "sigma must be > 0"},
		{"negative sigma", Input{Mu: 0.5, Sigma: -1, X: 0.9}, "sigma must be > 0"},
		{"nan mu", Input{Mu: math.NaN(), Sigma: 1, X: 0}, "mu must be a finite number"},
		{"inf x", Input{Mu: 0, Sigma: 1, X: math.Inf(1)}, "X must be a finite number"},
		{"nan sigma", Input{Mu: 0, Sigma: math.NaN(), X: 0}, "sigma must be a finite number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrDomain)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInputWindow(t *testing.T) {
	lo, hi := Input{Mu: 10, Sigma: 2}.Window()
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 18.0, hi)
}
