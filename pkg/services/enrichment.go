package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/leadscope/leadscope-engine/pkg/apperrors"
	"github.com/leadscope/leadscope-engine/pkg/linkedin"
	"github.com/leadscope/leadscope-engine/pkg/models"
	"github.com/leadscope/leadscope-engine/pkg/repositories"
)

// Enricher attaches full profile and company records to qualified
// candidates. Every lookup is best effort: a failed or partial enrichment
// never discards the candidate.
type Enricher struct {
	data         DataClient
	companyCache repositories.CompanyCacheRepository
	logger       *zap.Logger
}

// NewEnricher creates an Enricher.
func NewEnricher(data DataClient, companyCache repositories.CompanyCacheRepository, logger *zap.Logger) *Enricher {
	return &Enricher{
		data:         data,
		companyCache: companyCache,
		logger:       logger.Named("enricher"),
	}
}

// Enrich fetches the candidate's profile and current company. The profile
// URL is upgraded to its canonical form when the lookup returns one.
func (e *Enricher) Enrich(ctx context.Context, candidate *models.ScoredCandidate) *models.EnrichedCandidate {
	enriched := &models.EnrichedCandidate{ScoredCandidate: *candidate}

	username := linkedin.UsernameFromProfileURL(candidate.ProfileURL)
	if username == "" {
		username = candidate.ReactorURN
	}
	if username == "" {
		return enriched
	}

	profile, err := e.data.ProfileDetail(ctx, username)
	if err != nil {
		e.logger.Warn("profile enrichment failed",
			zap.String("username", username),
			zap.Error(err),
		)
		return enriched
	}
	enriched.EnrichedProfile = profile
	if profile.ProfileURL != "" {
		enriched.ProfileURL = profile.ProfileURL
	}

	urn, name := profile.CurrentEmployer()
	if company := e.lookupCompany(ctx, urn, name); company != nil {
		enriched.EnrichedCompany = company
	}

	return enriched
}

// lookupCompany resolves a company through the cache first, hitting the
// data API only on a miss.
func (e *Enricher) lookupCompany(ctx context.Context, urn, name string) *models.CompanyDetail {
	key := repositories.CompanyCacheKey(urn, name)
	if key == "" {
		return nil
	}

	cached, err := e.companyCache.Get(ctx, key)
	if err == nil {
		return cached
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		e.logger.Warn("company cache lookup failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	identifier := urn
	if identifier == "" {
		identifier = name
	}
	company, err := e.data.CompanyDetail(ctx, identifier)
	if err != nil {
		e.logger.Warn("company enrichment failed",
			zap.String("identifier", identifier),
			zap.Error(err),
		)
		return nil
	}

	if err := e.companyCache.Save(ctx, key, company); err != nil {
		e.logger.Warn("failed to cache company",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return company
}
