// Package engine combines per-jet calibration curves into event-level
// correction weights.
package engine

import (
	"fmt"
	"math"

	"github.com/quarkline/jetweight/internal/calib"
	"github.com/quarkline/jetweight/internal/event"
)

// Shift selects which envelope of a calibration curve is evaluated.
type Shift string

const (
	ShiftDefault Shift = "default"
	ShiftUp      Shift = "up"
	ShiftDown    Shift = "down"
)

func ParseShift(s string) (Shift, error) {
	switch Shift(s) {
	case ShiftDefault, ShiftUp, ShiftDown:
		return Shift(s), nil
	}
	return "", fmt.Errorf("unknown systematic shift %q: %w", s, calib.ErrConfiguration)
}

// Engine turns a jet collection into one multiplicative event weight.
// It owns an immutable FlavorSet and two shift settings: the heavy
// shift applies to b and c jets, the light shift to light jets only.
// Engines are stateless across calls and safe for unlimited concurrent
// use.
type Engine struct {
	set   *calib.FlavorSet
	heavy Shift
	light Shift
}

func New(set *calib.FlavorSet, heavy, light Shift) (*Engine, error) {
	if set == nil {
		return nil, fmt.Errorf("nil flavor set: %w", calib.ErrConfiguration)
	}
	if _, err := ParseShift(string(heavy)); err != nil {
		return nil, err
	}
	if _, err := ParseShift(string(light)); err != nil {
		return nil, err
	}
	return &Engine{set: set, heavy: heavy, light: light}, nil
}

func (e *Engine) HeavyShift() Shift { return e.heavy }
func (e *Engine) LightShift() Shift { return e.light }

// LookupPair exposes the calibration pair for one flavor, for curve
// inspection endpoints.
func (e *Engine) LookupPair(f calib.Flavor) (calib.Pair, error) { return e.set.Lookup(f) }

// JetFactor records one jet's contribution to the event weight, kept
// for the compute response and the weighted-event payload.
type JetFactor struct {
	Pt         float64      `json:"pt"`
	Flavor     calib.Flavor `json:"flavor"`
	Tagged     bool         `json:"tagged"`
	Scale      float64      `json:"scale"`
	Efficiency float64      `json:"efficiency"`
	Factor     float64      `json:"factor"`
}

// Weight returns the product of every jet's contribution factor. An
// empty collection yields exactly 1.0; the result does not depend on
// jet order.
func (e *Engine) Weight(jets []event.Jet) (float64, error) {
	w := 1.0
	for i, j := range jets {
		f, err := e.jetFactor(j)
		if err != nil {
			return 0, fmt.Errorf("jet %d: %w", i, err)
		}
		w *= f.Factor
	}
	return w, nil
}

// Factors returns the per-jet breakdown alongside the event weight.
func (e *Engine) Factors(jets []event.Jet) ([]JetFactor, float64, error) {
	factors := make([]JetFactor, 0, len(jets))
	w := 1.0
	for i, j := range jets {
		f, err := e.jetFactor(j)
		if err != nil {
			return nil, 0, fmt.Errorf("jet %d: %w", i, err)
		}
		factors = append(factors, f)
		w *= f.Factor
	}
	return factors, w, nil
}

func (e *Engine) jetFactor(j event.Jet) (JetFactor, error) {
	if j.Pt < 0 || math.IsNaN(j.Pt) || math.IsInf(j.Pt, 0) {
		return JetFactor{}, fmt.Errorf("jet pt %g: %w", j.Pt, calib.ErrDomain)
	}
	pair, err := e.set.Lookup(j.Flavor)
	if err != nil {
		return JetFactor{}, err
	}

	shift := e.heavy
	if j.Flavor == calib.FlavorLight {
		shift = e.light
	}

	s := shiftedValue(pair.Scale, j.Pt, shift)
	eff := pair.Eff.Value(j.Pt)

	f := JetFactor{Pt: j.Pt, Flavor: j.Flavor, Tagged: j.Tagged, Scale: s, Efficiency: eff}
	switch {
	case j.Tagged:
		f.Factor = s
	case eff >= 1:
		// A saturated simulated efficiency leaves no untagged
		// probability to rescale; the factor is exactly 1.
		f.Factor = 1
	default:
		// Ratio of data-side to simulation-side probability that the
		// jet stays untagged.
		f.Factor = (1 - s*eff) / (1 - eff)
	}
	return f, nil
}

func shiftedValue(c calib.Curve, pt float64, shift Shift) float64 {
	switch shift {
	case ShiftUp:
		return c.ValuePlus(pt)
	case ShiftDown:
		return c.ValueMinus(pt)
	}
	return c.Value(pt)
}
