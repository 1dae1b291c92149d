package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leadscope/leadscope-engine/pkg/models"
)

// RescoreProspects re-evaluates every saved prospect of a client against
// the current persona. Used after a persona edit, without re-fetching
// anything from the data API.
func (s *RadarService) RescoreProspects(ctx context.Context, clientID uuid.UUID, threshold float64) (int, error) {
	persona, err := s.personas.GetByClient(ctx, clientID)
	if err != nil {
		return 0, fmt.Errorf("failed to load persona: %w", err)
	}

	prospects, err := s.prospects.ListByClient(ctx, clientID)
	if err != nil {
		return 0, fmt.Errorf("failed to list prospects: %w", err)
	}

	if threshold <= 0 {
		threshold = s.defaultThreshold
	}

	rescored := 0
	for _, p := range prospects {
		if s.stopped() {
			break
		}

		reaction := reactionFromProspect(p)
		result := s.scorer.Score(ctx, &reaction, persona)
		relevant := result.TotalScore >= threshold

		if err := s.prospects.UpdateScoring(ctx, p.ID, relevant, result); err != nil {
			s.logger.Warn("failed to update rescored prospect",
				zap.String("prospect_id", p.ID.String()),
				zap.Error(err),
			)
			continue
		}
		rescored++
	}

	s.logger.Info("rescore complete",
		zap.String("client_id", clientID.String()),
		zap.Int("rescored", rescored),
		zap.Int("total", len(prospects)),
	)
	return rescored, nil
}

// RescoreProspect re-evaluates one saved prospect by identity key and
// persists the new score.
func (s *RadarService) RescoreProspect(ctx context.Context, clientID uuid.UUID, reactorURN, postURL string, threshold float64) (*models.ScoringResult, error) {
	prospect, err := s.prospects.Get(ctx, clientID, reactorURN, postURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load prospect: %w", err)
	}

	persona, err := s.personas.GetByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load persona: %w", err)
	}

	if threshold <= 0 {
		threshold = s.defaultThreshold
	}

	reaction := reactionFromProspect(prospect)
	result := s.scorer.Score(ctx, &reaction, persona)
	relevant := result.TotalScore >= threshold

	if err := s.prospects.UpdateScoring(ctx, prospect.ID, relevant, result); err != nil {
		return nil, fmt.Errorf("failed to update prospect scoring: %w", err)
	}
	return &result, nil
}

func reactionFromProspect(p *models.Prospect) models.RawReaction {
	return models.RawReaction{
		SourceTarget: p.SourceTarget,
		PostURL:      p.PostURL,
		PostDate:     p.PostDate,
		ReactorName:  p.ReactorName,
		ReactorURN:   p.ReactorURN,
		ProfileURL:   p.ProfileURL,
		Headline:     p.Headline,
		ReactionType: p.ReactionType,
	}
}
