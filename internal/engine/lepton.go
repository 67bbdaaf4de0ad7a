package engine

import (
	"fmt"
	"math"

	"github.com/quarkline/jetweight/internal/calib"
)

// Lepton trigger/ID/isolation corrections: a luminosity-weighted average
// over run-period tables. The module keeps no per-run state; the period
// list and its luminosity weights are fixed at construction and the muon
// eta is passed explicitly per call, so evaluation stays pure.

// PeriodLumi names one run period together with the integrated
// luminosity it should be weighted by, e.g. {"MuonRunA", 1.5}.
type PeriodLumi struct {
	Name string  `json:"name" yaml:"name"`
	Lumi float64 `json:"lumi" yaml:"lumi"`
}

type leptonTable struct {
	muID       [3]float64
	muIDErr    [3]float64
	muTrig     [3]float64
	muTrigErr  [3]float64
	muIso      [3]float64
	muIsoErr   [3]float64
	eleTrig    float64
	eleTrigErr float64
}

// Per-period correction tables, three muon eta bins each.
var leptonTables = map[string]leptonTable{
	"MuonRunA": {
		muID:       [3]float64{0.9939, 0.9902, 0.9970},
		muIDErr:    [3]float64{0.0006, 0.0009, 0.0007},
		muTrig:     [3]float64{0.9815, 0.9657, 0.9962},
		muTrigErr:  [3]float64{0.0008, 0.0013, 0.0011},
		muIso:      [3]float64{0.9994, 0.9988, 1.0002},
		muIsoErr:   [3]float64{0.0004, 0.0006, 0.0005},
		eleTrig:    0.9861,
		eleTrigErr: 0.0012,
	},
	"MuonRunB": {
		muID:       [3]float64{0.9928, 0.9889, 0.9958},
		muIDErr:    [3]float64{0.0005, 0.0008, 0.0006},
		muTrig:     [3]float64{0.9789, 0.9621, 0.9933},
		muTrigErr:  [3]float64{0.0007, 0.0012, 0.0010},
		muIso:      [3]float64{0.9991, 0.9984, 0.9999},
		muIsoErr:   [3]float64{0.0003, 0.0005, 0.0004},
		eleTrig:    0.9847,
		eleTrigErr: 0.0010,
	},
	"MuonRunC": {
		muID:       [3]float64{0.9921, 0.9875, 0.9949},
		muIDErr:    [3]float64{0.0005, 0.0007, 0.0006},
		muTrig:     [3]float64{0.9761, 0.9594, 0.9911},
		muTrigErr:  [3]float64{0.0006, 0.0011, 0.0009},
		muIso:      [3]float64{0.9989, 0.9981, 0.9996},
		muIsoErr:   [3]float64{0.0003, 0.0004, 0.0004},
		eleTrig:    0.9836,
		eleTrigErr: 0.0009,
	},
}

// LeptonCorrections evaluates lumi-weighted lepton correction factors.
// An instance built from an empty period list is a no-op whose weights
// are all exactly 1.
type LeptonCorrections struct {
	periods   []string
	lumi      []float64
	totalLumi float64
	shift     Shift
}

// NewLeptonCorrections validates the period list against the embedded
// tables. Unknown period names and non-positive luminosities are
// configuration failures.
func NewLeptonCorrections(list []PeriodLumi, shift Shift) (*LeptonCorrections, error) {
	if _, err := ParseShift(string(shift)); err != nil {
		return nil, err
	}
	l := &LeptonCorrections{shift: shift}
	for _, p := range list {
		if _, ok := leptonTables[p.Name]; !ok {
			return nil, fmt.Errorf("unknown run period %q: %w", p.Name, calib.ErrConfiguration)
		}
		if p.Lumi <= 0 {
			return nil, fmt.Errorf("non-positive luminosity %g for period %q: %w", p.Lumi, p.Name, calib.ErrConfiguration)
		}
		l.periods = append(l.periods, p.Name)
		l.lumi = append(l.lumi, p.Lumi)
		l.totalLumi += p.Lumi
	}
	return l, nil
}

// Enabled reports whether any period is configured.
func (l *LeptonCorrections) Enabled() bool { return l.totalLumi > 0 }

// MuonEtaBin maps |eta| to the three-bin muon table layout:
// barrel (<0.9), overlap (<1.2), endcap.
func MuonEtaBin(eta float64) int {
	switch a := math.Abs(eta); {
	case a < 0.9:
		return 0
	case a < 1.2:
		return 1
	default:
		return 2
	}
}

func (l *LeptonCorrections) average(pick func(leptonTable) (float64, float64)) float64 {
	if !l.Enabled() {
		return 1
	}
	sum := 0.0
	for i, name := range l.periods {
		v, e := pick(leptonTables[name])
		switch l.shift {
		case ShiftUp:
			v += e
		case ShiftDown:
			v -= e
		}
		sum += l.lumi[i] * v
	}
	return sum / l.totalLumi
}

func (l *LeptonCorrections) MuonIDWeight(eta float64) float64 {
	bin := MuonEtaBin(eta)
	return l.average(func(t leptonTable) (float64, float64) { return t.muID[bin], t.muIDErr[bin] })
}

func (l *LeptonCorrections) MuonTrigWeight(eta float64) float64 {
	bin := MuonEtaBin(eta)
	return l.average(func(t leptonTable) (float64, float64) { return t.muTrig[bin], t.muTrigErr[bin] })
}

func (l *LeptonCorrections) MuonIsoWeight(eta float64) float64 {
	bin := MuonEtaBin(eta)
	return l.average(func(t leptonTable) (float64, float64) { return t.muIso[bin], t.muIsoErr[bin] })
}

// MuonWeight is the product of ID, trigger, and isolation corrections.
func (l *LeptonCorrections) MuonWeight(eta float64) float64 {
	return l.MuonIDWeight(eta) * l.MuonTrigWeight(eta) * l.MuonIsoWeight(eta)
}

func (l *LeptonCorrections) ElectronTrigWeight() float64 {
	return l.average(func(t leptonTable) (float64, float64) { return t.eleTrig, t.eleTrigErr })
}

// Weight is the total lepton correction: muon times electron factors.
func (l *LeptonCorrections) Weight(eta float64) float64 {
	return l.MuonWeight(eta) * l.ElectronTrigWeight()
}
