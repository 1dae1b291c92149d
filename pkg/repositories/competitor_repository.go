package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadscope/leadscope-engine/pkg/apperrors"
	"github.com/leadscope/leadscope-engine/pkg/models"
)

// CompetitorRepository persists the per-client competitor list used to
// filter out competitor employees before scoring.
type CompetitorRepository interface {
	Create(ctx context.Context, competitor *models.Competitor) error
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Competitor, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type competitorRepository struct {
	pool *pgxpool.Pool
}

// NewCompetitorRepository creates a CompetitorRepository backed by PostgreSQL.
func NewCompetitorRepository(pool *pgxpool.Pool) CompetitorRepository {
	return &competitorRepository{pool: pool}
}

var _ CompetitorRepository = (*competitorRepository)(nil)

func (r *competitorRepository) Create(ctx context.Context, competitor *models.Competitor) error {
	query := `
		INSERT INTO competitors (client_id, company_name, company_url, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		competitor.ClientID, competitor.CompanyName, competitor.CompanyURL, competitor.Notes,
	).Scan(&competitor.ID, &competitor.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create competitor: %w", err)
	}
	return nil
}

func (r *competitorRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Competitor, error) {
	query := `
		SELECT id, client_id, company_name, company_url, notes, created_at
		FROM competitors
		WHERE client_id = $1
		ORDER BY company_name`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitors: %w", err)
	}
	defer rows.Close()

	var competitors []models.Competitor
	for rows.Next() {
		var c models.Competitor
		if err := rows.Scan(&c.ID, &c.ClientID, &c.CompanyName, &c.CompanyURL, &c.Notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan competitor: %w", err)
		}
		competitors = append(competitors, c)
	}
	return competitors, rows.Err()
}

func (r *competitorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM competitors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete competitor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
