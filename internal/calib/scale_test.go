package calib

import (
	"errors"
	"math"
	"testing"
)

func testContinuousScale(t *testing.T) *ContinuousScale {
	t.Helper()
	s, err := NewContinuousScale(
		FitFunc{Kind: FitRational, Coeffs: []float64{0.901615, 0.552628, 0.547195}},
		30, 670,
		[]float64{30, 100, 300},
		[]float64{0.05, 0.03, 0.08},
	)
	if err != nil {
		t.Fatalf("NewContinuousScale: %v", err)
	}
	return s
}

func TestContinuousScaleEnvelope(t *testing.T) {
	s := testContinuousScale(t)
	for pt := 10.0; pt <= 1000; pt += 7.3 {
		v, plus, minus := s.Value(pt), s.ValuePlus(pt), s.ValueMinus(pt)
		if plus < v || v < minus {
			t.Fatalf("envelope ordering broken at pt=%g: %g / %g / %g", pt, plus, v, minus)
		}
		if minus < 0 {
			t.Fatalf("lower envelope negative at pt=%g: %g", pt, minus)
		}
	}
}

func TestContinuousScaleClamps(t *testing.T) {
	s := testContinuousScale(t)
	if got, want := s.Value(5), s.Value(30); got != want {
		t.Errorf("below-domain value %g, want clamped %g", got, want)
	}
	if got, want := s.Value(5000), s.Value(670); got != want {
		t.Errorf("above-domain value %g, want clamped %g", got, want)
	}
	if got, want := s.ValuePlus(5000), s.ValuePlus(670); got != want {
		t.Errorf("above-domain plus %g, want clamped %g", got, want)
	}
}

func TestContinuousScaleMinusFloor(t *testing.T) {
	// Tiny nominal with a large uncertainty would go negative without
	// the floor.
	s, err := NewContinuousScale(
		FitFunc{Kind: FitPoly, Coeffs: []float64{0.02}},
		20, 600,
		[]float64{20},
		[]float64{0.5},
	)
	if err != nil {
		t.Fatalf("NewContinuousScale: %v", err)
	}
	if got := s.ValueMinus(100); got != 0 {
		t.Errorf("expected floored 0, got %g", got)
	}
}

func TestContinuousScaleValidation(t *testing.T) {
	fn := FitFunc{Kind: FitPoly, Coeffs: []float64{1}}
	tests := []struct {
		name  string
		build func() error
	}{
		{"empty domain", func() error {
			_, err := NewContinuousScale(fn, 100, 100, []float64{20}, []float64{0.1})
			return err
		}},
		{"non-increasing edges", func() error {
			_, err := NewContinuousScale(fn, 20, 600, []float64{20, 20, 50}, []float64{0.1, 0.1, 0.1})
			return err
		}},
		{"length mismatch", func() error {
			_, err := NewContinuousScale(fn, 20, 600, []float64{20, 50}, []float64{0.1})
			return err
		}},
		{"negative uncertainty", func() error {
			_, err := NewContinuousScale(fn, 20, 600, []float64{20}, []float64{-0.1})
			return err
		}},
		{"bad fit", func() error {
			_, err := NewContinuousScale(FitFunc{Kind: FitRational, Coeffs: []float64{1}}, 20, 600, []float64{20}, []float64{0.1})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.build(); !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestBandedScaleBands(t *testing.T) {
	s, err := NewBandedScale(
		FitFunc{Kind: FitPoly, Coeffs: []float64{1.1}},
		FitFunc{Kind: FitPoly, Coeffs: []float64{1.3}},
		FitFunc{Kind: FitPoly, Coeffs: []float64{0.9}},
	)
	if err != nil {
		t.Fatalf("NewBandedScale: %v", err)
	}
	if s.Value(50) != 1.1 || s.ValuePlus(50) != 1.3 || s.ValueMinus(50) != 0.9 {
		t.Errorf("band values wrong: %g / %g / %g", s.Value(50), s.ValuePlus(50), s.ValueMinus(50))
	}
}

func TestEmbeddedScalesEnvelope(t *testing.T) {
	// Every embedded tagger must satisfy the envelope invariant across
	// the measured domain.
	for tagger, fits := range lightScaleFits {
		band, err := NewBandedScale(fits.central, fits.up, fits.down)
		if err != nil {
			t.Fatalf("tagger %s: %v", tagger, err)
		}
		for pt := 20.0; pt <= 800; pt += 10 {
			v, plus, minus := band.Value(pt), band.ValuePlus(pt), band.ValueMinus(pt)
			if plus < v || v < minus || minus < 0 {
				t.Fatalf("tagger %s light envelope broken at pt=%g: %g / %g / %g", tagger, pt, plus, v, minus)
			}
		}
	}
	for tagger, fit := range heavyScaleFits {
		s, err := NewContinuousScale(fit, heavyPtMin, heavyPtMax, heavyErrEdges, heavyScaleErrs[tagger])
		if err != nil {
			t.Fatalf("tagger %s: %v", tagger, err)
		}
		for pt := 20.0; pt <= 800; pt += 5 {
			v, plus, minus := s.Value(pt), s.ValuePlus(pt), s.ValueMinus(pt)
			if plus < v || v < minus || minus < 0 {
				t.Fatalf("tagger %s heavy envelope broken at pt=%g: %g / %g / %g", tagger, pt, plus, v, minus)
			}
			if math.IsNaN(v) {
				t.Fatalf("tagger %s heavy value NaN at pt=%g", tagger, pt)
			}
		}
	}
}
