package calib

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is an externally supplied calibration table, overriding the
// embedded constants. The layout mirrors the embedded tables: per
// tagger, a heavy-flavor fit with binned uncertainties, a banded
// light-flavor fit, and efficiency tables per channel and flavor.
type File struct {
	Taggers map[string]TaggerSpec `yaml:"taggers"`
}

type TaggerSpec struct {
	HeavyScale   HeavyScaleSpec                  `yaml:"heavy_scale"`
	CErrorFactor float64                         `yaml:"c_error_factor"`
	LightScale   LightScaleSpec                  `yaml:"light_scale"`
	Efficiencies map[string]map[string]TableSpec `yaml:"efficiencies"`
}

type FitSpec struct {
	Kind   string    `yaml:"kind"`
	Coeffs []float64 `yaml:"coeffs"`
}

type HeavyScaleSpec struct {
	Fit        FitSpec   `yaml:"fit"`
	PtMin      float64   `yaml:"pt_min"`
	PtMax      float64   `yaml:"pt_max"`
	ErrorEdges []float64 `yaml:"error_edges"`
	Errors     []float64 `yaml:"errors"`
}

type LightScaleSpec struct {
	Central FitSpec `yaml:"central"`
	Up      FitSpec `yaml:"up"`
	Down    FitSpec `yaml:"down"`
}

type TableSpec struct {
	Edges  []float64 `yaml:"edges"`
	Values []float64 `yaml:"values"`
}

// LoadFile parses a calibration file. Structural validation happens
// when a FlavorSet is assembled via Set.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse calibration file: %w", err)
	}
	if len(f.Taggers) == 0 {
		return nil, fmt.Errorf("calibration file declares no taggers: %w", ErrConfiguration)
	}
	return &f, nil
}

func (fs FitSpec) fitFunc() FitFunc {
	return FitFunc{Kind: FitKind(fs.Kind), Coeffs: fs.Coeffs}
}

// Set assembles a FlavorSet for one tagger/channel from the file,
// enforcing the same construction-time validation as the embedded
// tables.
func (f *File) Set(tagger Tagger, channel Channel) (*FlavorSet, error) {
	spec, ok := f.Taggers[string(tagger)]
	if !ok {
		return nil, fmt.Errorf("calibration file has no tagger %q: %w", tagger, ErrConfiguration)
	}
	effs, ok := spec.Efficiencies[string(channel)]
	if !ok {
		return nil, fmt.Errorf("calibration file has no efficiencies for channel %q: %w", channel, ErrConfiguration)
	}

	hs := spec.HeavyScale
	bScale, err := NewContinuousScale(hs.Fit.fitFunc(), hs.PtMin, hs.PtMax, hs.ErrorEdges, hs.Errors)
	if err != nil {
		return nil, fmt.Errorf("heavy scale for tagger %q: %w", tagger, err)
	}

	cFactor := spec.CErrorFactor
	if cFactor == 0 {
		cFactor = charmErrFactor
	}
	cErrs := make([]float64, len(hs.Errors))
	for i, e := range hs.Errors {
		cErrs[i] = cFactor * e
	}
	cScale, err := NewContinuousScale(hs.Fit.fitFunc(), hs.PtMin, hs.PtMax, hs.ErrorEdges, cErrs)
	if err != nil {
		return nil, fmt.Errorf("charm scale for tagger %q: %w", tagger, err)
	}

	lScale, err := NewBandedScale(spec.LightScale.Central.fitFunc(), spec.LightScale.Up.fitFunc(), spec.LightScale.Down.fitFunc())
	if err != nil {
		return nil, fmt.Errorf("light scale for tagger %q: %w", tagger, err)
	}

	pairs := make(map[Flavor]Pair, len(Flavors))
	scales := map[Flavor]Curve{FlavorB: bScale, FlavorC: cScale, FlavorLight: lScale}
	for _, fl := range Flavors {
		tbl, ok := effs[string(fl)]
		if !ok {
			return nil, fmt.Errorf("calibration file has no %q efficiency for channel %q: %w", fl, channel, ErrConfiguration)
		}
		eff, err := NewEfficiencyTable(tbl.Edges, tbl.Values)
		if err != nil {
			return nil, fmt.Errorf("efficiency table for flavor %q: %w", fl, err)
		}
		pairs[fl] = Pair{Scale: scales[fl], Eff: eff}
	}
	return NewSet(tagger, channel, pairs)
}
