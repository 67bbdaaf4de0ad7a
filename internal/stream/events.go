package stream

import (
	"time"

	"github.com/quarkline/jetweight/internal/event"
)

// WeightedEvent is published after an event's correction weight has
// been computed.
type WeightedEvent struct {
	EventID      string    `json:"event_id"`
	Source       string    `json:"source,omitempty"`
	RunNumber    int       `json:"run_number,omitempty"`
	NJets        int       `json:"njets"`
	BtagWeight   float64   `json:"btag_weight"`
	LeptonWeight float64   `json:"lepton_weight"`
	TotalWeight  float64   `json:"total_weight"`
	HeavyShift   string    `json:"heavy_shift"`
	LightShift   string    `json:"light_shift"`
	ComputedAt   time.Time `json:"computed_at"`
}

// RejectedEvent is published when an event cannot be weighted, e.g. a
// jet with unphysical momentum.
type RejectedEvent struct {
	EventID string `json:"event_id"`
	Reason  string `json:"reason"`
}

// EventPayload is the inbound record on SubjectEventReceived; it mirrors
// event.Event so external producers can publish directly.
type EventPayload = event.Event

// StatsEvent summarizes the running weighting totals, published
// periodically by the pipeline.
type StatsEvent struct {
	Events    int       `json:"events"`
	Jets      int       `json:"jets"`
	Rejected  int       `json:"rejected"`
	AvgWeight float64   `json:"avg_weight"`
	MinWeight float64   `json:"min_weight"`
	MaxWeight float64   `json:"max_weight"`
	Timestamp time.Time `json:"timestamp"`
}
