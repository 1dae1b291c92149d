package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadscope/leadscope-engine/pkg/apperrors"
	"github.com/leadscope/leadscope-engine/pkg/models"
)

// RadarRepository persists radar definitions.
type RadarRepository interface {
	Create(ctx context.Context, radar *models.Radar) error
	Get(ctx context.Context, id uuid.UUID) (*models.Radar, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Radar, error)

	// ListEnabled returns every enabled radar across all clients. The
	// scheduler uses this to decide what is due.
	ListEnabled(ctx context.Context) ([]*models.Radar, error)

	Update(ctx context.Context, radar *models.Radar) error

	// UpdateLastRun stamps the radar's last run time. Called at the end of
	// every run, including runs that saved nothing.
	UpdateLastRun(ctx context.Context, id uuid.UUID, at time.Time) error

	Delete(ctx context.Context, id uuid.UUID) error
}

type radarRepository struct {
	pool *pgxpool.Pool
}

// NewRadarRepository creates a RadarRepository backed by PostgreSQL.
func NewRadarRepository(pool *pgxpool.Pool) RadarRepository {
	return &radarRepository{pool: pool}
}

var _ RadarRepository = (*radarRepository)(nil)

const radarColumns = `
	id, client_id, name, radar_type, target_identifier, additional_targets,
	post_count, enabled, filter_competitors, min_score_threshold,
	max_qualified_extractions, message_template, schedule_unit,
	schedule_interval, last_run_at, created_at, updated_at`

func (r *radarRepository) Create(ctx context.Context, radar *models.Radar) error {
	query := `
		INSERT INTO radars (
			client_id, name, radar_type, target_identifier, additional_targets,
			post_count, enabled, filter_competitors, min_score_threshold,
			max_qualified_extractions, message_template, schedule_unit, schedule_interval
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		radar.ClientID, radar.Name, radar.Type, radar.TargetIdentifier, radar.AdditionalTargets,
		radar.PostCount, radar.Enabled, radar.FilterCompetitors, radar.MinScoreThreshold,
		radar.MaxQualifiedExtractions, radar.MessageTemplate, radar.ScheduleUnit, radar.ScheduleInterval,
	).Scan(&radar.ID, &radar.CreatedAt, &radar.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create radar: %w", err)
	}
	return nil
}

func (r *radarRepository) Get(ctx context.Context, id uuid.UUID) (*models.Radar, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+radarColumns+` FROM radars WHERE id = $1`, id)
	radar, err := scanRadar(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get radar: %w", err)
	}
	return radar, nil
}

func (r *radarRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Radar, error) {
	return r.list(ctx, `SELECT `+radarColumns+` FROM radars WHERE client_id = $1 ORDER BY created_at`, clientID)
}

func (r *radarRepository) ListEnabled(ctx context.Context) ([]*models.Radar, error) {
	return r.list(ctx, `SELECT `+radarColumns+` FROM radars WHERE enabled ORDER BY created_at`)
}

func (r *radarRepository) list(ctx context.Context, query string, args ...any) ([]*models.Radar, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list radars: %w", err)
	}
	defer rows.Close()

	var radars []*models.Radar
	for rows.Next() {
		radar, err := scanRadar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan radar: %w", err)
		}
		radars = append(radars, radar)
	}
	return radars, rows.Err()
}

func (r *radarRepository) Update(ctx context.Context, radar *models.Radar) error {
	query := `
		UPDATE radars SET
			name = $2, radar_type = $3, target_identifier = $4, additional_targets = $5,
			post_count = $6, enabled = $7, filter_competitors = $8, min_score_threshold = $9,
			max_qualified_extractions = $10, message_template = $11,
			schedule_unit = $12, schedule_interval = $13, updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		radar.ID, radar.Name, radar.Type, radar.TargetIdentifier, radar.AdditionalTargets,
		radar.PostCount, radar.Enabled, radar.FilterCompetitors, radar.MinScoreThreshold,
		radar.MaxQualifiedExtractions, radar.MessageTemplate, radar.ScheduleUnit, radar.ScheduleInterval,
	)
	if err != nil {
		return fmt.Errorf("failed to update radar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *radarRepository) UpdateLastRun(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE radars SET last_run_at = $2, updated_at = now() WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("failed to update last run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *radarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM radars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete radar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanRadar(row rowScanner) (*models.Radar, error) {
	var radar models.Radar
	err := row.Scan(
		&radar.ID, &radar.ClientID, &radar.Name, &radar.Type, &radar.TargetIdentifier,
		&radar.AdditionalTargets, &radar.PostCount, &radar.Enabled, &radar.FilterCompetitors,
		&radar.MinScoreThreshold, &radar.MaxQualifiedExtractions, &radar.MessageTemplate,
		&radar.ScheduleUnit, &radar.ScheduleInterval, &radar.LastRunAt,
		&radar.CreatedAt, &radar.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &radar, nil
}
