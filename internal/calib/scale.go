package calib

import "fmt"

// ContinuousScale is a fitted nominal scale factor plus a binned table of
// absolute uncertainties. Momentum outside [ptMin, ptMax] is clamped to
// the nearest boundary before evaluation: the measurement does not extend
// past its domain, so the curve saturates rather than extrapolates.
type ContinuousScale struct {
	fn       FitFunc
	ptMin    float64
	ptMax    float64
	errEdges []float64
	errs     []float64
}

// NewContinuousScale builds a heavy-flavor style scale curve. errEdges
// are the lower edges of the uncertainty bins and must be strictly
// increasing; errs holds one non-negative absolute uncertainty per bin.
func NewContinuousScale(fn FitFunc, ptMin, ptMax float64, errEdges, errs []float64) (*ContinuousScale, error) {
	if err := fn.Validate(); err != nil {
		return nil, err
	}
	if ptMin >= ptMax {
		return nil, fmt.Errorf("scale domain [%g, %g] is empty: %w", ptMin, ptMax, ErrConfiguration)
	}
	if err := checkEdges(errEdges); err != nil {
		return nil, err
	}
	if len(errs) != len(errEdges) {
		return nil, fmt.Errorf("%d uncertainty bins for %d edges: %w", len(errs), len(errEdges), ErrConfiguration)
	}
	for i, e := range errs {
		if e < 0 {
			return nil, fmt.Errorf("negative uncertainty %g in bin %d: %w", e, i, ErrConfiguration)
		}
	}
	return &ContinuousScale{fn: fn, ptMin: ptMin, ptMax: ptMax, errEdges: errEdges, errs: errs}, nil
}

func (s *ContinuousScale) clamp(pt float64) float64 {
	if pt < s.ptMin {
		return s.ptMin
	}
	if pt > s.ptMax {
		return s.ptMax
	}
	return pt
}

func (s *ContinuousScale) uncertainty(pt float64) float64 {
	return s.errs[findBin(s.errEdges, pt)]
}

func (s *ContinuousScale) Value(pt float64) float64 {
	return s.fn.Eval(s.clamp(pt))
}

func (s *ContinuousScale) ValuePlus(pt float64) float64 {
	pt = s.clamp(pt)
	return s.fn.Eval(pt) + s.uncertainty(pt)
}

// ValueMinus floors the lower envelope at zero: a scale factor is a
// ratio of probabilities and can never go negative.
func (s *ContinuousScale) ValueMinus(pt float64) float64 {
	pt = s.clamp(pt)
	v := s.fn.Eval(pt) - s.uncertainty(pt)
	if v < 0 {
		return 0
	}
	return v
}

// BandedScale holds three independently fitted curves: the central value
// and the upper/lower envelope, as published for light-flavor mistag
// scale factors. Each band is evaluated directly at pt; the lower band
// is bounded at fit time, so no extra floor applies here.
type BandedScale struct {
	central FitFunc
	up      FitFunc
	down    FitFunc
}

func NewBandedScale(central, up, down FitFunc) (*BandedScale, error) {
	for _, f := range []FitFunc{central, up, down} {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}
	return &BandedScale{central: central, up: up, down: down}, nil
}

func (s *BandedScale) Value(pt float64) float64      { return s.central.Eval(pt) }
func (s *BandedScale) ValuePlus(pt float64) float64  { return s.up.Eval(pt) }
func (s *BandedScale) ValueMinus(pt float64) float64 { return s.down.Eval(pt) }
