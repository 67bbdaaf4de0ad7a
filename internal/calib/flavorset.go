package calib

import "fmt"

// Pair is the scale-factor curve and efficiency curve for one flavor.
type Pair struct {
	Scale Curve
	Eff   Curve
}

// FlavorSet groups exactly one (scale, efficiency) pair per flavor
// category. It is selected once by the (tagger, channel) combination and
// never rebuilt mid-run.
type FlavorSet struct {
	tagger  Tagger
	channel Channel
	pairs   map[Flavor]Pair
}

// NewSet builds a FlavorSet from explicit curves. Every flavor category
// must be present with both curves; a missing entry is a setup defect.
func NewSet(tagger Tagger, channel Channel, pairs map[Flavor]Pair) (*FlavorSet, error) {
	cp := make(map[Flavor]Pair, len(Flavors))
	for _, f := range Flavors {
		p, ok := pairs[f]
		if !ok {
			return nil, fmt.Errorf("no calibration pair for flavor %q: %w", f, ErrConfiguration)
		}
		if p.Scale == nil {
			return nil, fmt.Errorf("nil scale curve for flavor %q: %w", f, ErrConfiguration)
		}
		if p.Eff == nil {
			return nil, fmt.Errorf("nil efficiency curve for flavor %q: %w", f, ErrConfiguration)
		}
		cp[f] = p
	}
	if len(pairs) != len(Flavors) {
		return nil, fmt.Errorf("%d calibration pairs for %d flavors: %w", len(pairs), len(Flavors), ErrConfiguration)
	}
	return &FlavorSet{tagger: tagger, channel: channel, pairs: cp}, nil
}

func (s *FlavorSet) Tagger() Tagger   { return s.tagger }
func (s *FlavorSet) Channel() Channel { return s.channel }

// Lookup returns the calibration pair for a flavor. An unknown flavor is
// a configuration failure, not a data condition.
func (s *FlavorSet) Lookup(f Flavor) (Pair, error) {
	p, ok := s.pairs[f]
	if !ok {
		return Pair{}, fmt.Errorf("no calibration pair for flavor %q: %w", f, ErrConfiguration)
	}
	return p, nil
}
