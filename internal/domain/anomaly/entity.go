package anomaly

import (
	"math"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Input parameter untuk satu analisis. Dipakai by value, jadi immutable.
type Input struct {
	Mu    float64 `json:"mu" validate:"finite"`
	Sigma float64 `json:"sigma" validate:"finite,gt=0"`
	X     float64 `json:"X" validate:"finite"`
}

// Probabilities value object
type Probabilities struct {
	LessEqual float64 // P(X ≤ x)
	Greater   float64 // P(X > x)
}

// Result hasil analisis, diturunkan deterministik dari Input.
type Result struct {
	Input         Input
	ZScore        float64
	Probabilities Probabilities
	Chart         []byte
}

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.Float64 {
			return false
		}
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

// Validate checks the input against the normal model's domain.
func (in Input) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "gt":
			return errors.Wrapf(ErrDomain, "%s must be > 0, got %v", fieldName(fe.Field()), fe.Value())
		case "finite":
			return errors.Wrapf(ErrDomain, "%s must be a finite number, got %v", fieldName(fe.Field()), fe.Value())
		}
		return errors.Wrapf(ErrDomain, "%s failed %q check", fieldName(fe.Field()), fe.Tag())
	}
	return errors.Wrap(ErrDomain, err.Error())
}

func fieldName(f string) string {
	switch f {
	case "Mu":
		return "mu"
	case "Sigma":
		return "sigma"
	}
	return f
}
