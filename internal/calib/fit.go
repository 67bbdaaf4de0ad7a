package calib

import "fmt"

// FitKind selects one of the closed set of fitted functional forms that
// appear in the calibration measurements.
type FitKind string

const (
	// FitRational is c0*(1+c1*x)/(1+c2*x), the form used for
	// heavy-flavor scale factors.
	FitRational FitKind = "rational"
	// FitPoly is a polynomial with ascending coefficients, the form
	// used for light-flavor scale factor bands.
	FitPoly FitKind = "poly"
)

// FitFunc is a fitted function of jet momentum, reduced to its shape and
// coefficients so tables can be embedded or loaded from a file.
type FitFunc struct {
	Kind   FitKind
	Coeffs []float64
}

// Validate checks the coefficient count against the fit shape.
func (f FitFunc) Validate() error {
	switch f.Kind {
	case FitRational:
		if len(f.Coeffs) != 3 {
			return fmt.Errorf("rational fit needs 3 coefficients, got %d: %w", len(f.Coeffs), ErrConfiguration)
		}
	case FitPoly:
		if len(f.Coeffs) == 0 {
			return fmt.Errorf("polynomial fit needs at least 1 coefficient: %w", ErrConfiguration)
		}
	default:
		return fmt.Errorf("unknown fit kind %q: %w", f.Kind, ErrConfiguration)
	}
	return nil
}

// Eval evaluates the fitted function at x.
func (f FitFunc) Eval(x float64) float64 {
	switch f.Kind {
	case FitRational:
		return f.Coeffs[0] * (1 + f.Coeffs[1]*x) / (1 + f.Coeffs[2]*x)
	case FitPoly:
		// Horner's rule over ascending coefficients.
		v := 0.0
		for i := len(f.Coeffs) - 1; i >= 0; i-- {
			v = v*x + f.Coeffs[i]
		}
		return v
	}
	return 0
}
