package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WeightRecord is one persisted weight computation.
type WeightRecord struct {
	EventID      uuid.UUID `json:"event_id"`
	Source       string    `json:"source,omitempty"`
	RunNumber    int       `json:"run_number"`
	NJets        int       `json:"njets"`
	TaggedJets   int       `json:"tagged_jets"`
	BtagWeight   float64   `json:"btag_weight"`
	LeptonWeight float64   `json:"lepton_weight"`
	TotalWeight  float64   `json:"total_weight"`
	HeavyShift   string    `json:"heavy_shift"`
	LightShift   string    `json:"light_shift"`
	ComputedAt   time.Time `json:"computed_at"`
}

// RecordFilter narrows ListRecords.
type RecordFilter struct {
	Source string
	Limit  int
}

// Stats aggregates persisted records.
type Stats struct {
	Events    int     `json:"events"`
	Jets      int     `json:"jets"`
	AvgWeight float64 `json:"avg_weight"`
	MinWeight float64 `json:"min_weight"`
	MaxWeight float64 `json:"max_weight"`
}

type Store interface {
	SaveRecord(ctx context.Context, rec *WeightRecord) error
	GetRecord(ctx context.Context, eventID uuid.UUID) (*WeightRecord, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]*WeightRecord, error)
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}
