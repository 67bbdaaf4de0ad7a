package calib

import (
	"errors"
	"math"
	"testing"
)

func TestFitRationalEval(t *testing.T) {
	f := FitFunc{Kind: FitRational, Coeffs: []float64{0.9, 0.5, 0.4}}
	got := f.Eval(100)
	want := 0.9 * (1 + 0.5*100) / (1 + 0.4*100)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("got %g, want %g", got, want)
	}
}

func TestFitPolyEval(t *testing.T) {
	tests := []struct {
		name   string
		coeffs []float64
		x      float64
		want   float64
	}{
		{"constant", []float64{1.1}, 250, 1.1},
		{"linear", []float64{1, 0.5}, 10, 6},
		{"cubic", []float64{1, 2, 3, 4}, 2, 1 + 4 + 12 + 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FitFunc{Kind: FitPoly, Coeffs: tt.coeffs}
			if got := f.Eval(tt.x); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %g, want %g", got, tt.want)
			}
		})
	}
}

func TestFitValidate(t *testing.T) {
	tests := []struct {
		name    string
		fn      FitFunc
		wantErr bool
	}{
		{"rational ok", FitFunc{Kind: FitRational, Coeffs: []float64{1, 2, 3}}, false},
		{"rational short", FitFunc{Kind: FitRational, Coeffs: []float64{1, 2}}, true},
		{"poly ok", FitFunc{Kind: FitPoly, Coeffs: []float64{1}}, false},
		{"poly empty", FitFunc{Kind: FitPoly, Coeffs: nil}, true},
		{"unknown kind", FitFunc{Kind: "spline", Coeffs: []float64{1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn.Validate()
			if tt.wantErr && !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFindBinMonotone(t *testing.T) {
	edges := []float64{20, 30, 50, 100}
	prev := 0
	for pt := 0.0; pt <= 200; pt += 0.5 {
		bin := findBin(edges, pt)
		if bin < prev {
			t.Fatalf("bin lookup decreased at pt=%g: %d after %d", pt, bin, prev)
		}
		prev = bin
	}
}

func TestFindBinSaturation(t *testing.T) {
	edges := []float64{20, 30, 50, 100}
	tests := []struct {
		pt   float64
		want int
	}{
		{5, 0},    // below first edge
		{20, 0},   // on first edge
		{29.9, 0}, // inside first bin
		{30, 1},   // on an interior edge
		{99.9, 2},
		{100, 3}, // on last edge
		{5000, 3},
	}
	for _, tt := range tests {
		if got := findBin(edges, tt.pt); got != tt.want {
			t.Errorf("findBin(%g) = %d, want %d", tt.pt, got, tt.want)
		}
	}
}
