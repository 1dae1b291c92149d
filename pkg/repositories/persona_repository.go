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

// PersonaRepository persists the per-client buyer persona. Each client has
// at most one.
type PersonaRepository interface {
	GetByClient(ctx context.Context, clientID uuid.UUID) (*models.PersonaProfile, error)
	Upsert(ctx context.Context, persona *models.PersonaProfile) error
}

type personaRepository struct {
	pool *pgxpool.Pool
}

// NewPersonaRepository creates a PersonaRepository backed by PostgreSQL.
func NewPersonaRepository(pool *pgxpool.Pool) PersonaRepository {
	return &personaRepository{pool: pool}
}

var _ PersonaRepository = (*personaRepository)(nil)

func (r *personaRepository) GetByClient(ctx context.Context, clientID uuid.UUID) (*models.PersonaProfile, error) {
	query := `
		SELECT id, client_id, company_name, company_description, website,
		       products_services, target_persona, outreach_strategy,
		       created_at, updated_at
		FROM persona_profiles
		WHERE client_id = $1`

	var (
		persona  models.PersonaProfile
		products []byte
		target   []byte
		strategy []byte
	)
	err := r.pool.QueryRow(ctx, query, clientID).Scan(
		&persona.ID, &persona.ClientID, &persona.CompanyName, &persona.CompanyDescription,
		&persona.Website, &products, &target, &strategy,
		&persona.CreatedAt, &persona.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get persona: %w", err)
	}

	if len(products) > 0 {
		if err := json.Unmarshal(products, &persona.ProductsServices); err != nil {
			return nil, fmt.Errorf("failed to unmarshal products/services: %w", err)
		}
	}
	if len(target) > 0 {
		if err := json.Unmarshal(target, &persona.TargetPersona); err != nil {
			return nil, fmt.Errorf("failed to unmarshal target persona: %w", err)
		}
	}
	if len(strategy) > 0 {
		if err := json.Unmarshal(strategy, &persona.OutreachStrategy); err != nil {
			return nil, fmt.Errorf("failed to unmarshal outreach strategy: %w", err)
		}
	}
	return &persona, nil
}

func (r *personaRepository) Upsert(ctx context.Context, persona *models.PersonaProfile) error {
	products, err := json.Marshal(persona.ProductsServices)
	if err != nil {
		return fmt.Errorf("failed to marshal products/services: %w", err)
	}
	target, err := json.Marshal(persona.TargetPersona)
	if err != nil {
		return fmt.Errorf("failed to marshal target persona: %w", err)
	}
	strategy, err := json.Marshal(persona.OutreachStrategy)
	if err != nil {
		return fmt.Errorf("failed to marshal outreach strategy: %w", err)
	}

	query := `
		INSERT INTO persona_profiles (
			client_id, company_name, company_description, website,
			products_services, target_persona, outreach_strategy
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (client_id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			company_description = EXCLUDED.company_description,
			website = EXCLUDED.website,
			products_services = EXCLUDED.products_services,
			target_persona = EXCLUDED.target_persona,
			outreach_strategy = EXCLUDED.outreach_strategy,
			updated_at = now()
		RETURNING id, created_at, updated_at`

	err = r.pool.QueryRow(ctx, query,
		persona.ClientID, persona.CompanyName, persona.CompanyDescription, persona.Website,
		products, target, strategy,
	).Scan(&persona.ID, &persona.CreatedAt, &persona.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert persona: %w", err)
	}
	return nil
}
