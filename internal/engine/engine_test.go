package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/quarkline/jetweight/internal/calib"
	"github.com/quarkline/jetweight/internal/event"
)

// testSet builds a FlavorSet with flat curves so expected weights can
// be computed by hand. Heavy scales carry a 0.02 absolute uncertainty;
// the light band spans ±0.10 around its central value.
func testSet(t *testing.T, bScale, bEff, cScale, cEff, lScale, lEff float64) *calib.FlavorSet {
	t.Helper()
	mkHeavy := func(v float64) calib.Curve {
		s, err := calib.NewContinuousScale(
			calib.FitFunc{Kind: calib.FitPoly, Coeffs: []float64{v}},
			20, 800, []float64{20}, []float64{0.02},
		)
		if err != nil {
			t.Fatalf("heavy scale: %v", err)
		}
		return s
	}
	mkEff := func(v float64) calib.Curve {
		e, err := calib.NewEfficiencyTable([]float64{20}, []float64{v})
		if err != nil {
			t.Fatalf("efficiency: %v", err)
		}
		return e
	}
	light, err := calib.NewBandedScale(
		calib.FitFunc{Kind: calib.FitPoly, Coeffs: []float64{lScale}},
		calib.FitFunc{Kind: calib.FitPoly, Coeffs: []float64{lScale + 0.10}},
		calib.FitFunc{Kind: calib.FitPoly, Coeffs: []float64{lScale - 0.10}},
	)
	if err != nil {
		t.Fatalf("light scale: %v", err)
	}

	set, err := calib.NewSet(calib.TaggerCSVT, calib.ChannelMuon, map[calib.Flavor]calib.Pair{
		calib.FlavorB:     {Scale: mkHeavy(bScale), Eff: mkEff(bEff)},
		calib.FlavorC:     {Scale: mkHeavy(cScale), Eff: mkEff(cEff)},
		calib.FlavorLight: {Scale: light, Eff: mkEff(lEff)},
	})
	if err != nil {
		t.Fatalf("NewSet: %v", err)
	}
	return set
}

func testEngine(t *testing.T, set *calib.FlavorSet, heavy, light Shift) *Engine {
	t.Helper()
	eng, err := New(set, heavy, light)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng
}

func TestWeightTaggedHeavyJet(t *testing.T) {
	// One tagged b jet contributes exactly its scale factor.
	set := testSet(t, 0.95, 0.80, 0.95, 0.05, 1.10, 0.02)
	eng := testEngine(t, set, ShiftDefault, ShiftDefault)

	w, err := eng.Weight([]event.Jet{{Pt: 50, Flavor: calib.FlavorB, Tagged: true}})
	if err != nil {
		t.Fatalf("Weight: %v", err)
	}
	if math.Abs(w-0.95) > 1e-12 {
		t.Errorf("got %g, want 0.95", w)
	}
}

func TestWeightUntaggedLightJet(t *testing.T) {
	set := testSet(t, 0.95, 0.80, 0.95, 0.05, 1.10, 0.02)
	eng := testEngine(t, set, ShiftDefault, ShiftDefault)

	w, err := eng.Weight([]event.Jet{{Pt: 50, Flavor: calib.FlavorLight, Tagged: false}})
	if err != nil {
		t.Fatalf("Weight: %v", err)
	}
	want := (1 - 1.10*0.02) / (1 - 0.02)
	if math.Abs(w-want) > 1e-12 {
		t.Errorf("got %g, want %g", w, want)
	}
	if math.Abs(w-0.99796) > 1e-4 {
		t.Errorf("got %g, expected about 0.99796", w)
	}
}

func TestWeightSaturatedEfficiencyGuard(t *testing.T) {
	// eff=1 leaves no untagged probability to rescale; factor is 1 by
	// contract.
	set := testSet(t, 0.95, 1.0, 0.95, 0.05, 1.10, 0.02)
	eng := testEngine(t, set, ShiftDefault, ShiftDefault)

	w, err := eng.Weight([]event.Jet{{Pt: 50, Flavor: calib.FlavorB, Tagged: false}})
	if err != nil {
		t.Fatalf("Weight: %v", err)
	}
	if w != 1.0 {
		t.Errorf("got %g, want exactly 1.0", w)
	}
}

func TestWeightEmptyCollection(t *testing.T) {
	set := testSet(t, 0.95, 0.80, 0.95, 0.05, 1.10, 0.02)
	eng := testEngine(t, set, ShiftDefault, ShiftDefault)

	w, err := eng.Weight(nil)
	if err != nil {
		t.Fatalf("Weight: %v", err)
	}
	if w != 1.0 {
		t.Errorf("got %g, want exactly 1.0", w)
	}
}

func TestWeightPermutationInvariant(t *testing.T) {
	set := testSet(t, 0.93, 0.60, 0.91, 0.12, 1.08, 0.015)
	eng := testEngine(t, set, ShiftDefault, ShiftDefault)

	jets := []event.Jet{
		{Pt: 42, Flavor: calib.FlavorB, Tagged: true},
		{Pt: 66, Flavor: calib.FlavorC, Tagged: false},
		{Pt: 110, Flavor: calib.FlavorLight, Tagged: false},
		{Pt: 31, Flavor: calib.FlavorLight, Tagged: true},
	}
	reversed := []event.Jet{jets[3], jets[2], jets[1], jets[0]}

	w1, err := eng.Weight(jets)
	if err != nil {
		t.Fatalf("Weight: %v", err)
	}
	w2, err := eng.Weight(reversed)
	if err != nil {
		t.Fatalf("Weight reversed: %v", err)
	}
	if math.Abs(w1-w2) > 1e-12 {
		t.Errorf("order changed weight: %g vs %g", w1, w2)
	}
}

func TestWeightFactorizes(t *testing.T) {
	// The multi-jet weight equals the product of single-jet weights.
	set := testSet(t, 0.93, 0.60, 0.91, 0.12, 1.08, 0.015)
	eng := testEngine(t, set, ShiftDefault, ShiftDefault)

	jets := []event.Jet{
		{Pt: 42, Flavor: calib.FlavorB, Tagged: true},
		{Pt: 66, Flavor: calib.FlavorC, Tagged: false},
		{Pt: 110, Flavor: calib.FlavorLight, Tagged: false},
	}

	whole, err := eng.Weight(jets)
	if err != nil {
		t.Fatalf("Weight: %v", err)
	}
	product := 1.0
	for _, j := range jets {
		w, err := eng.Weight([]event.Jet{j})
		if err != nil {
			t.Fatalf("single-jet Weight: %v", err)
		}
		product *= w
	}
	if math.Abs(whole-product) > 1e-12 {
		t.Errorf("whole %g != product %g", whole, product)
	}
}

func TestHeavyShiftMonotone(t *testing.T) {
	// Shifting heavy Up must never decrease a tagged heavy jet's factor.
	set := testSet(t, 0.95, 0.80, 0.95, 0.05, 1.10, 0.02)
	def := testEngine(t, set, ShiftDefault, ShiftDefault)
	up := testEngine(t, set, ShiftUp, ShiftDefault)
	down := testEngine(t, set, ShiftDown, ShiftDefault)

	for _, flavor := range []calib.Flavor{calib.FlavorB, calib.FlavorC} {
		jet := []event.Jet{{Pt: 75, Flavor: flavor, Tagged: true}}
		wDef, _ := def.Weight(jet)
		wUp, _ := up.Weight(jet)
		wDown, _ := down.Weight(jet)
		if wUp < wDef {
			t.Errorf("%s: up %g < default %g", flavor, wUp, wDef)
		}
		if wDown > wDef {
			t.Errorf("%s: down %g > default %g", flavor, wDown, wDef)
		}
	}
}

func TestShiftScoping(t *testing.T) {
	// The heavy shift must not touch light jets and vice versa.
	set := testSet(t, 0.95, 0.80, 0.95, 0.05, 1.10, 0.02)
	def := testEngine(t, set, ShiftDefault, ShiftDefault)
	heavyUp := testEngine(t, set, ShiftUp, ShiftDefault)
	lightUp := testEngine(t, set, ShiftDefault, ShiftUp)

	lightJet := []event.Jet{{Pt: 60, Flavor: calib.FlavorLight, Tagged: true}}
	w1, _ := def.Weight(lightJet)
	w2, _ := heavyUp.Weight(lightJet)
	if w1 != w2 {
		t.Errorf("heavy shift moved a light jet: %g vs %g", w1, w2)
	}

	bJet := []event.Jet{{Pt: 60, Flavor: calib.FlavorB, Tagged: true}}
	w3, _ := def.Weight(bJet)
	w4, _ := lightUp.Weight(bJet)
	if w3 != w4 {
		t.Errorf("light shift moved a b jet: %g vs %g", w3, w4)
	}

	w5, _ := lightUp.Weight(lightJet)
	if w5 <= w1 {
		t.Errorf("light up shift did not raise tagged light factor: %g vs %g", w5, w1)
	}
}

func TestWeightDomainErrors(t *testing.T) {
	set := testSet(t, 0.95, 0.80, 0.95, 0.05, 1.10, 0.02)
	eng := testEngine(t, set, ShiftDefault, ShiftDefault)

	for _, pt := range []float64{-5, math.NaN(), math.Inf(1)} {
		_, err := eng.Weight([]event.Jet{{Pt: pt, Flavor: calib.FlavorB, Tagged: true}})
		if !errors.Is(err, calib.ErrDomain) {
			t.Errorf("pt=%g: expected domain error, got %v", pt, err)
		}
	}
}

func TestNewEngineValidation(t *testing.T) {
	set := testSet(t, 0.95, 0.80, 0.95, 0.05, 1.10, 0.02)
	if _, err := New(nil, ShiftDefault, ShiftDefault); !errors.Is(err, calib.ErrConfiguration) {
		t.Errorf("expected configuration error for nil set, got %v", err)
	}
	if _, err := New(set, "sideways", ShiftDefault); !errors.Is(err, calib.ErrConfiguration) {
		t.Errorf("expected configuration error for bad shift, got %v", err)
	}
}

func TestFactorsBreakdown(t *testing.T) {
	set := testSet(t, 0.95, 0.80, 0.95, 0.05, 1.10, 0.02)
	eng := testEngine(t, set, ShiftDefault, ShiftDefault)

	jets := []event.Jet{
		{Pt: 50, Flavor: calib.FlavorB, Tagged: true},
		{Pt: 50, Flavor: calib.FlavorLight, Tagged: false},
	}
	factors, w, err := eng.Factors(jets)
	if err != nil {
		t.Fatalf("Factors: %v", err)
	}
	if len(factors) != 2 {
		t.Fatalf("got %d factors, want 2", len(factors))
	}
	if factors[0].Factor != 0.95 {
		t.Errorf("tagged b factor %g, want 0.95", factors[0].Factor)
	}
	product := factors[0].Factor * factors[1].Factor
	if math.Abs(w-product) > 1e-12 {
		t.Errorf("weight %g != factor product %g", w, product)
	}
}
