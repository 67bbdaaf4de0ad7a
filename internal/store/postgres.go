package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const recordColumns = `event_id, source, run_number, njets, tagged_jets,
	btag_weight, lepton_weight, total_weight,
	heavy_shift, light_shift, computed_at`

func (s *PostgresStore) SaveRecord(ctx context.Context, rec *WeightRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO jetweight_records (event_id, source, run_number, njets, tagged_jets,
			btag_weight, lepton_weight, total_weight,
			heavy_shift, light_shift, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (event_id) DO UPDATE SET
			btag_weight = EXCLUDED.btag_weight,
			lepton_weight = EXCLUDED.lepton_weight,
			total_weight = EXCLUDED.total_weight,
			heavy_shift = EXCLUDED.heavy_shift,
			light_shift = EXCLUDED.light_shift,
			computed_at = EXCLUDED.computed_at`,
		rec.EventID, rec.Source, rec.RunNumber, rec.NJets, rec.TaggedJets,
		rec.BtagWeight, rec.LeptonWeight, rec.TotalWeight,
		rec.HeavyShift, rec.LightShift, rec.ComputedAt,
	)
	return err
}

func (s *PostgresStore) GetRecord(ctx context.Context, eventID uuid.UUID) (*WeightRecord, error) {
	rec := &WeightRecord{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM jetweight_records WHERE event_id = $1`, eventID,
	).Scan(
		&rec.EventID, &rec.Source, &rec.RunNumber, &rec.NJets, &rec.TaggedJets,
		&rec.BtagWeight, &rec.LeptonWeight, &rec.TotalWeight,
		&rec.HeavyShift, &rec.LightShift, &rec.ComputedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *PostgresStore) ListRecords(ctx context.Context, filter RecordFilter) ([]*WeightRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM jetweight_records WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Source != "" {
		n++
		query += fmt.Sprintf(" AND source = $%d", n)
		args = append(args, filter.Source)
	}
	query += " ORDER BY computed_at DESC"
	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*WeightRecord
	for rows.Next() {
		rec := &WeightRecord{}
		if err := rows.Scan(
			&rec.EventID, &rec.Source, &rec.RunNumber, &rec.NJets, &rec.TaggedJets,
			&rec.BtagWeight, &rec.LeptonWeight, &rec.TotalWeight,
			&rec.HeavyShift, &rec.LightShift, &rec.ComputedAt,
		); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *PostgresStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(njets), 0),
			COALESCE(AVG(total_weight), 0),
			COALESCE(MIN(total_weight), 0),
			COALESCE(MAX(total_weight), 0)
		FROM jetweight_records`,
	).Scan(&stats.Events, &stats.Jets, &stats.AvgWeight, &stats.MinWeight, &stats.MaxWeight)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
