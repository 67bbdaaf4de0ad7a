// Package event defines the per-event input records supplied by the
// external event-data provider. The weighting core reads these records
// and never mutates or stores them.
package event

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/quarkline/jetweight/internal/calib"
)

// Jet is one detected object in an event: its transverse momentum, its
// true flavor category, and the binary tagger decision.
type Jet struct {
	Pt     float64      `json:"pt"`
	Flavor calib.Flavor `json:"flavor"`
	Tagged bool         `json:"tagged"`
}

// Validate rejects unphysical momentum and unknown flavor categories.
func (j Jet) Validate() error {
	if j.Pt < 0 || math.IsNaN(j.Pt) || math.IsInf(j.Pt, 0) {
		return fmt.Errorf("jet pt %g: %w", j.Pt, calib.ErrDomain)
	}
	if _, err := calib.ParseFlavor(string(j.Flavor)); err != nil {
		return err
	}
	return nil
}

// Event is one simulated collision event as delivered on the stream or
// posted to the API.
type Event struct {
	ID        uuid.UUID `json:"event_id"`
	RunNumber int       `json:"run_number,omitempty"`
	Source    string    `json:"source,omitempty"`
	MuonEta   float64   `json:"muon_eta,omitempty"`
	Jets      []Jet     `json:"jets"`
}

// Validate checks every jet; an empty jet collection is valid and
// yields a neutral weight downstream.
func (e Event) Validate() error {
	for i, j := range e.Jets {
		if err := j.Validate(); err != nil {
			return fmt.Errorf("jet %d: %w", i, err)
		}
	}
	return nil
}
