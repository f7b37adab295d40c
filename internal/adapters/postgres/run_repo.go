package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/samirrijal/geostory/internal/core/domain"
)

// RunRepo implements ports.RunRepository on the pipeline_runs table.
// Only counts and outcomes are stored; article text never reaches the
// database.
type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) Insert(ctx context.Context, run *domain.PipelineRun) error {
	row := r.db.Pool.QueryRow(ctx, `
		INSERT INTO pipeline_runs
			(target_lat, target_lon, radius_km, catalog_size, nearby_count,
			 fetched_ok, analyzed_ok, status, error, started_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, run.Target.Lat, run.Target.Lon, run.RadiusKm, run.CatalogSize, run.NearbyCount,
		run.FetchedOK, run.AnalyzedOK, run.Status, nilIfEmpty(run.Error),
		run.StartedAt, run.Duration.Milliseconds())
	return row.Scan(&run.ID)
}

func (r *RunRepo) ListRecent(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, target_lat, target_lon, radius_km, catalog_size, nearby_count,
		       fetched_ok, analyzed_ok, status, error, started_at, duration_ms
		FROM pipeline_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.PipelineRun
	for rows.Next() {
		var run domain.PipelineRun
		var errMsg sql.NullString
		var durationMs int64
		if err := rows.Scan(
			&run.ID, &run.Target.Lat, &run.Target.Lon, &run.RadiusKm,
			&run.CatalogSize, &run.NearbyCount, &run.FetchedOK, &run.AnalyzedOK,
			&run.Status, &errMsg, &run.StartedAt, &durationMs,
		); err != nil {
			return nil, err
		}
		run.Error = errMsg.String
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
