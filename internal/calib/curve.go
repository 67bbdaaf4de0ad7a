// Package calib represents pre-fitted flavor-tagging calibration curves:
// data/MC scale factors with systematic envelopes, and tagging efficiency
// tables measured in simulation. All curves are immutable after
// construction and safe for concurrent reads.
package calib

import "fmt"

// Flavor is the true flavor category of a jet.
type Flavor string

const (
	FlavorB     Flavor = "b"
	FlavorC     Flavor = "c"
	FlavorLight Flavor = "light"
)

// Flavors lists every category a FlavorSet must cover.
var Flavors = []Flavor{FlavorB, FlavorC, FlavorLight}

func ParseFlavor(s string) (Flavor, error) {
	switch Flavor(s) {
	case FlavorB, FlavorC, FlavorLight:
		return Flavor(s), nil
	}
	return "", fmt.Errorf("unknown flavor %q: %w", s, ErrConfiguration)
}

// Tagger identifies the tagging algorithm together with its working point.
type Tagger string

const (
	TaggerCSVL Tagger = "csvl"
	TaggerCSVM Tagger = "csvm"
	TaggerCSVT Tagger = "csvt"
)

func ParseTagger(s string) (Tagger, error) {
	switch Tagger(s) {
	case TaggerCSVL, TaggerCSVM, TaggerCSVT:
		return Tagger(s), nil
	}
	return "", fmt.Errorf("unknown tagger %q: %w", s, ErrConfiguration)
}

// Channel is the object-selection category. It affects which efficiency
// tables apply; scale factors are channel-independent.
type Channel string

const (
	ChannelElectron Channel = "electron"
	ChannelMuon     Channel = "muon"
)

func ParseChannel(s string) (Channel, error) {
	switch Channel(s) {
	case ChannelElectron, ChannelMuon:
		return Channel(s), nil
	}
	return "", fmt.Errorf("unknown channel %q: %w", s, ErrConfiguration)
}

// Curve is a calibration curve over jet momentum. Value returns the
// nominal curve; ValuePlus and ValueMinus return the upper and lower
// systematic envelope. Implementations are pure and never block.
//
// Invariant: ValuePlus(pt) >= Value(pt) >= ValueMinus(pt) >= 0 for every
// pt inside the curve's domain.
type Curve interface {
	Value(pt float64) float64
	ValuePlus(pt float64) float64
	ValueMinus(pt float64) float64
}
