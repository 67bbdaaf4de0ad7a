// Package pipeline consumes events, computes their correction weights,
// persists the results, and republishes them for downstream
// accumulators.
package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quarkline/jetweight/internal/config"
	"github.com/quarkline/jetweight/internal/engine"
	"github.com/quarkline/jetweight/internal/event"
	"github.com/quarkline/jetweight/internal/provider"
	"github.com/quarkline/jetweight/internal/store"
	"github.com/quarkline/jetweight/internal/stream"
)

type Pipeline struct {
	store    store.Store
	stream   stream.Client
	provider provider.Client
	engine   *engine.Engine
	lepton   *engine.LeptonCorrections
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *Metrics

	statsMu sync.Mutex
	stats   runningStats

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

type runningStats struct {
	events   int
	jets     int
	rejected int
	sum      float64
	min      float64
	max      float64
}

// Stats is a snapshot of the in-memory totals since process start.
type Stats struct {
	Events    int     `json:"events"`
	Jets      int     `json:"jets"`
	Rejected  int     `json:"rejected"`
	AvgWeight float64 `json:"avg_weight"`
	MinWeight float64 `json:"min_weight"`
	MaxWeight float64 `json:"max_weight"`
}

func New(s store.Store, sc stream.Client, pc provider.Client, eng *engine.Engine, lep *engine.LeptonCorrections, cfg *config.Config, m *Metrics, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		store:    s,
		stream:   sc,
		provider: pc,
		engine:   eng,
		lepton:   lep,
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
		stats:    runningStats{min: math.Inf(1), max: math.Inf(-1)},
		stopCh:   make(chan struct{}),
	}
}

func (p *Pipeline) Start(ctx context.Context) {
	p.wg.Add(1)
	go p.statsLoop(ctx)
	if p.provider != nil {
		p.wg.Add(1)
		go p.pollLoop(ctx)
	}
}

func (p *Pipeline) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.wg.Wait()
}

// SetupSubscriptions attaches the stream consumer. Safe to skip when no
// stream is configured.
func (p *Pipeline) SetupSubscriptions() {
	if p.stream == nil {
		return
	}
	if err := p.stream.Subscribe(stream.SubjectEventReceived, p.onEvent); err != nil {
		p.logger.Warn("failed to subscribe to events", "error", err)
	}
}

func (p *Pipeline) onEvent(subject string, data []byte) {
	var ev event.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		p.logger.Warn("malformed event payload", "subject", subject, "error", err)
		return
	}
	if _, err := p.ProcessEvent(context.Background(), ev); err != nil {
		p.logger.Warn("failed to weight event", "event_id", ev.ID, "error", err)
	}
}

// ProcessEvent computes the btag and lepton weights for one event,
// persists the record when a store is attached, and publishes the
// weighted event. Rejections are published and counted, then returned
// as errors.
func (p *Pipeline) ProcessEvent(ctx context.Context, ev event.Event) (*store.WeightRecord, error) {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}

	factors, btagWeight, err := p.engine.Factors(ev.Jets)
	if err != nil {
		p.recordRejection(ev, err)
		return nil, err
	}

	leptonWeight := 1.0
	if p.lepton != nil && p.lepton.Enabled() {
		leptonWeight = p.lepton.Weight(ev.MuonEta)
	}
	total := btagWeight * leptonWeight

	tagged := 0
	for _, f := range factors {
		if f.Tagged {
			tagged++
		}
		if p.metrics != nil {
			p.metrics.ObserveJet(string(f.Flavor), f.Tagged)
		}
	}

	rec := &store.WeightRecord{
		EventID:      ev.ID,
		Source:       ev.Source,
		RunNumber:    ev.RunNumber,
		NJets:        len(ev.Jets),
		TaggedJets:   tagged,
		BtagWeight:   btagWeight,
		LeptonWeight: leptonWeight,
		TotalWeight:  total,
		HeavyShift:   string(p.engine.HeavyShift()),
		LightShift:   string(p.engine.LightShift()),
		ComputedAt:   time.Now().UTC(),
	}

	if p.store != nil {
		if err := p.store.SaveRecord(ctx, rec); err != nil {
			p.logger.Error("failed to persist weight record", "event_id", ev.ID, "error", err)
		}
	}

	if p.stream != nil {
		weighted := stream.WeightedEvent{
			EventID:      ev.ID.String(),
			Source:       ev.Source,
			RunNumber:    ev.RunNumber,
			NJets:        len(ev.Jets),
			BtagWeight:   btagWeight,
			LeptonWeight: leptonWeight,
			TotalWeight:  total,
			HeavyShift:   rec.HeavyShift,
			LightShift:   rec.LightShift,
			ComputedAt:   rec.ComputedAt,
		}
		if err := p.stream.Publish(stream.SubjectEventWeighted(ev.ID.String()), weighted); err != nil {
			p.logger.Warn("failed to publish weighted event", "event_id", ev.ID, "error", err)
		}
	}

	if p.metrics != nil {
		p.metrics.ObserveEvent(ev.Source, StatusWeighted, total)
	}
	p.accumulate(len(ev.Jets), total)
	return rec, nil
}

func (p *Pipeline) recordRejection(ev event.Event, cause error) {
	if p.metrics != nil {
		p.metrics.ObserveEvent(ev.Source, StatusRejected, 0)
	}
	p.statsMu.Lock()
	p.stats.rejected++
	p.statsMu.Unlock()

	if p.stream != nil {
		rej := stream.RejectedEvent{EventID: ev.ID.String(), Reason: cause.Error()}
		if err := p.stream.Publish(stream.SubjectEventRejected(ev.ID.String()), rej); err != nil {
			p.logger.Warn("failed to publish rejection", "event_id", ev.ID, "error", err)
		}
	}
}

func (p *Pipeline) accumulate(jets int, weight float64) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.stats.events++
	p.stats.jets += jets
	p.stats.sum += weight
	if weight < p.stats.min {
		p.stats.min = weight
	}
	if weight > p.stats.max {
		p.stats.max = weight
	}
}

// Snapshot returns the totals accumulated since start.
func (p *Pipeline) Snapshot() Stats {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	s := Stats{
		Events:   p.stats.events,
		Jets:     p.stats.jets,
		Rejected: p.stats.rejected,
	}
	if p.stats.events > 0 {
		s.AvgWeight = p.stats.sum / float64(p.stats.events)
		s.MinWeight = p.stats.min
		s.MaxWeight = p.stats.max
	}
	return s
}

func (p *Pipeline) statsLoop(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.cfg.StatsInterval())
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.publishStats()
		}
	}
}

func (p *Pipeline) publishStats() {
	if p.stream == nil {
		return
	}
	s := p.Snapshot()
	ev := stream.StatsEvent{
		Events:    s.Events,
		Jets:      s.Jets,
		Rejected:  s.Rejected,
		AvgWeight: s.AvgWeight,
		MinWeight: s.MinWeight,
		MaxWeight: s.MaxWeight,
		Timestamp: time.Now().UTC(),
	}
	if err := p.stream.Publish(stream.SubjectStats, ev); err != nil {
		p.logger.Warn("failed to publish stats", "error", err)
	}
}

func (p *Pipeline) pollLoop(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.cfg.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollProvider(ctx)
		}
	}
}

func (p *Pipeline) pollProvider(ctx context.Context) {
	events, err := p.provider.NextEvents(ctx, p.cfg.Provider.BatchSize)
	if err != nil {
		p.logger.Error("failed to fetch events from provider", "error", err)
		return
	}
	for _, ev := range events {
		if _, err := p.ProcessEvent(ctx, ev); err != nil {
			p.logger.Warn("failed to weight event", "event_id", ev.ID, "error", err)
			continue
		}
		if err := p.provider.Ack(ctx, ev.ID.String()); err != nil {
			p.logger.Warn("failed to ack event", "event_id", ev.ID, "error", err)
		}
	}
}
