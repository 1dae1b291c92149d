package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadscope/leadscope-engine/pkg/apperrors"
	"github.com/leadscope/leadscope-engine/pkg/models"
)

// CompanyCacheRepository caches company lookups so enrichment only hits the
// data API once per company. Keyed by URN when known, lowercased name
// otherwise.
type CompanyCacheRepository interface {
	Get(ctx context.Context, key string) (*models.CompanyDetail, error)
	Save(ctx context.Context, key string, detail *models.CompanyDetail) error
}

type companyCacheRepository struct {
	pool *pgxpool.Pool
}

// NewCompanyCacheRepository creates a CompanyCacheRepository backed by
// PostgreSQL.
func NewCompanyCacheRepository(pool *pgxpool.Pool) CompanyCacheRepository {
	return &companyCacheRepository{pool: pool}
}

var _ CompanyCacheRepository = (*companyCacheRepository)(nil)

// CompanyCacheKey derives the cache key for a company: URN preferred,
// lowercased name otherwise.
func CompanyCacheKey(urn, name string) string {
	if urn != "" {
		return urn
	}
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *companyCacheRepository) Get(ctx context.Context, key string) (*models.CompanyDetail, error) {
	if key == "" {
		return nil, apperrors.ErrNotFound
	}

	query := `
		SELECT urn, name, industry, employee_size, headquarters, website, description
		FROM company_details
		WHERE cache_key = $1`

	var detail models.CompanyDetail
	err := r.pool.QueryRow(ctx, query, key).Scan(
		&detail.URN, &detail.Name, &detail.Industry, &detail.EmployeeSize,
		&detail.Headquarters, &detail.Website, &detail.Description,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cached company: %w", err)
	}
	return &detail, nil
}

func (r *companyCacheRepository) Save(ctx context.Context, key string, detail *models.CompanyDetail) error {
	if key == "" {
		return fmt.Errorf("empty company cache key")
	}

	query := `
		INSERT INTO company_details (
			cache_key, urn, name, industry, employee_size, headquarters, website, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (cache_key) DO UPDATE SET
			urn = EXCLUDED.urn,
			name = EXCLUDED.name,
			industry = EXCLUDED.industry,
			employee_size = EXCLUDED.employee_size,
			headquarters = EXCLUDED.headquarters,
			website = EXCLUDED.website,
			description = EXCLUDED.description,
			fetched_at = now()`

	_, err := r.pool.Exec(ctx, query,
		key, detail.URN, detail.Name, detail.Industry, detail.EmployeeSize,
		detail.Headquarters, detail.Website, detail.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to save cached company: %w", err)
	}
	return nil
}
