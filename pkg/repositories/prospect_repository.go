// Package repositories contains the PostgreSQL persistence layer.
// Each repository is an interface over pgx with a single implementation,
// so services can be tested against in-memory fakes.
package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadscope/leadscope-engine/pkg/apperrors"
	"github.com/leadscope/leadscope-engine/pkg/models"
)

// ProspectRepository persists qualified reactors.
type ProspectRepository interface {
	// Upsert inserts or updates a prospect keyed on
	// (client_id, reactor_urn, post_url). Last write wins on non-key fields.
	Upsert(ctx context.Context, prospect *models.Prospect) error

	// Get fetches one prospect by identity key.
	Get(ctx context.Context, clientID uuid.UUID, reactorURN, postURL string) (*models.Prospect, error)

	// ListByClient returns all prospects for a client, newest first.
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Prospect, error)

	// ListReactorKeys returns the identity keys (reactor URNs and profile
	// URLs) already saved for a client, so reruns can skip scoring known
	// reactors.
	ListReactorKeys(ctx context.Context, clientID uuid.UUID) (map[string]struct{}, error)

	// UpdateMessage stores a generated outreach message on a prospect.
	UpdateMessage(ctx context.Context, id uuid.UUID, message string) error

	// UpdateScoring replaces the scoring payload after a rescore.
	UpdateScoring(ctx context.Context, id uuid.UUID, relevant bool, scoring models.ScoringResult) error

	// Delete removes one prospect.
	Delete(ctx context.Context, id uuid.UUID) error
}

type prospectRepository struct {
	pool *pgxpool.Pool
}

// NewProspectRepository creates a ProspectRepository backed by PostgreSQL.
func NewProspectRepository(pool *pgxpool.Pool) ProspectRepository {
	return &prospectRepository{pool: pool}
}

var _ ProspectRepository = (*prospectRepository)(nil)

const prospectColumns = `
	id, client_id, source_target, post_url, post_date,
	reactor_name, reactor_urn, profile_url, profile_picture_url,
	headline, reaction_type, prospect_relevant, relevance_score,
	scoring, enriched_profile, enriched_company, personalized_message,
	created_at, updated_at`

func (r *prospectRepository) Upsert(ctx context.Context, prospect *models.Prospect) error {
	scoring, err := json.Marshal(prospect.Scoring)
	if err != nil {
		return fmt.Errorf("failed to marshal scoring: %w", err)
	}
	profile, err := marshalNullable(prospect.EnrichedProfile)
	if err != nil {
		return fmt.Errorf("failed to marshal enriched profile: %w", err)
	}
	company, err := marshalNullable(prospect.EnrichedCompany)
	if err != nil {
		return fmt.Errorf("failed to marshal enriched company: %w", err)
	}

	query := `
		INSERT INTO prospects (
			client_id, source_target, post_url, post_date,
			reactor_name, reactor_urn, profile_url, profile_picture_url,
			headline, reaction_type, prospect_relevant, relevance_score,
			scoring, enriched_profile, enriched_company, personalized_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (client_id, reactor_urn, post_url) DO UPDATE SET
			source_target = EXCLUDED.source_target,
			post_date = EXCLUDED.post_date,
			reactor_name = EXCLUDED.reactor_name,
			profile_url = EXCLUDED.profile_url,
			profile_picture_url = EXCLUDED.profile_picture_url,
			headline = EXCLUDED.headline,
			reaction_type = EXCLUDED.reaction_type,
			prospect_relevant = EXCLUDED.prospect_relevant,
			relevance_score = EXCLUDED.relevance_score,
			scoring = EXCLUDED.scoring,
			enriched_profile = COALESCE(EXCLUDED.enriched_profile, prospects.enriched_profile),
			enriched_company = COALESCE(EXCLUDED.enriched_company, prospects.enriched_company),
			updated_at = now()
		RETURNING id, created_at, updated_at`

	err = r.pool.QueryRow(ctx, query,
		prospect.ClientID, prospect.SourceTarget, prospect.PostURL, prospect.PostDate,
		prospect.ReactorName, prospect.ReactorURN, prospect.ProfileURL, prospect.ProfilePictureURL,
		prospect.Headline, prospect.ReactionType, prospect.Relevant, prospect.RelevanceScore,
		scoring, profile, company, prospect.PersonalizedMessage,
	).Scan(&prospect.ID, &prospect.CreatedAt, &prospect.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert prospect: %w", err)
	}
	return nil
}

func (r *prospectRepository) Get(ctx context.Context, clientID uuid.UUID, reactorURN, postURL string) (*models.Prospect, error) {
	query := `SELECT ` + prospectColumns + `
		FROM prospects
		WHERE client_id = $1 AND reactor_urn = $2 AND post_url = $3`

	row := r.pool.QueryRow(ctx, query, clientID, reactorURN, postURL)
	prospect, err := scanProspect(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get prospect: %w", err)
	}
	return prospect, nil
}

func (r *prospectRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Prospect, error) {
	query := `SELECT ` + prospectColumns + `
		FROM prospects
		WHERE client_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prospects: %w", err)
	}
	defer rows.Close()

	var prospects []*models.Prospect
	for rows.Next() {
		prospect, err := scanProspect(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prospect: %w", err)
		}
		prospects = append(prospects, prospect)
	}
	return prospects, rows.Err()
}

func (r *prospectRepository) ListReactorKeys(ctx context.Context, clientID uuid.UUID) (map[string]struct{}, error) {
	query := `SELECT DISTINCT reactor_urn, profile_url FROM prospects WHERE client_id = $1`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reactor keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var urn, profileURL string
		if err := rows.Scan(&urn, &profileURL); err != nil {
			return nil, fmt.Errorf("failed to scan reactor key: %w", err)
		}
		if urn != "" {
			keys[urn] = struct{}{}
		}
		// Profile URL keys cover prospects saved without a URN
		if profileURL != "" {
			keys[profileURL] = struct{}{}
		}
	}
	return keys, rows.Err()
}

func (r *prospectRepository) UpdateMessage(ctx context.Context, id uuid.UUID, message string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE prospects SET personalized_message = $2, updated_at = now() WHERE id = $1`,
		id, message,
	)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *prospectRepository) UpdateScoring(ctx context.Context, id uuid.UUID, relevant bool, scoring models.ScoringResult) error {
	payload, err := json.Marshal(scoring)
	if err != nil {
		return fmt.Errorf("failed to marshal scoring: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE prospects
		 SET prospect_relevant = $2, relevance_score = $3, scoring = $4, updated_at = now()
		 WHERE id = $1`,
		id, relevant, scoring.TotalScore, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to update scoring: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *prospectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM prospects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prospect: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProspect(row rowScanner) (*models.Prospect, error) {
	var (
		prospect models.Prospect
		scoring  []byte
		profile  []byte
		company  []byte
	)
	err := row.Scan(
		&prospect.ID, &prospect.ClientID, &prospect.SourceTarget, &prospect.PostURL, &prospect.PostDate,
		&prospect.ReactorName, &prospect.ReactorURN, &prospect.ProfileURL, &prospect.ProfilePictureURL,
		&prospect.Headline, &prospect.ReactionType, &prospect.Relevant, &prospect.RelevanceScore,
		&scoring, &profile, &company, &prospect.PersonalizedMessage,
		&prospect.CreatedAt, &prospect.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(scoring) > 0 {
		if err := json.Unmarshal(scoring, &prospect.Scoring); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scoring: %w", err)
		}
	}
	if len(profile) > 0 {
		prospect.EnrichedProfile = &models.ProfileDetail{}
		if err := json.Unmarshal(profile, prospect.EnrichedProfile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal enriched profile: %w", err)
		}
	}
	if len(company) > 0 {
		prospect.EnrichedCompany = &models.CompanyDetail{}
		if err := json.Unmarshal(company, prospect.EnrichedCompany); err != nil {
			return nil, fmt.Errorf("failed to unmarshal enriched company: %w", err)
		}
	}
	return &prospect, nil
}

// marshalNullable marshals v to JSON, mapping nil pointers to SQL NULL.
func marshalNullable(v any) ([]byte, error) {
	switch t := v.(type) {
	case *models.ProfileDetail:
		if t == nil {
			return nil, nil
		}
	case *models.CompanyDetail:
		if t == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}
