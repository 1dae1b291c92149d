package scoring

import (
	"context"

	"go.uber.org/zap"

	"github.com/leadscope/leadscope-engine/pkg/llm"
	"github.com/leadscope/leadscope-engine/pkg/models"
)

// scoringTemperature keeps the judge near-deterministic.
const scoringTemperature = 0.3

// PersonaScorer scores candidates against a buyer persona. It prefers the
// LLM judge and falls back to the deterministic scorer on any failure, so
// Score never returns an error and a scoring outage never drops candidates.
type PersonaScorer struct {
	client   llm.LLMClient
	fallback *FallbackScorer
	logger   *zap.Logger
}

// NewPersonaScorer creates a scorer. A nil client means fallback-only mode.
func NewPersonaScorer(client llm.LLMClient, logger *zap.Logger) *PersonaScorer {
	return &PersonaScorer{
		client:   client,
		fallback: NewFallbackScorer(),
		logger:   logger.Named("scorer"),
	}
}

// Score evaluates one candidate against the persona.
func (s *PersonaScorer) Score(ctx context.Context, reaction *models.RawReaction, persona *models.PersonaProfile) models.ScoringResult {
	if s.client == nil {
		return s.fallback.Score(reaction, persona)
	}

	prompt := buildScoringPrompt(reaction, persona)
	response, err := s.client.GenerateResponse(ctx, prompt, scoringSystemMessage, scoringTemperature)
	if err != nil {
		s.logger.Warn("llm scoring failed, using fallback",
			zap.String("reactor", reaction.ReactorName),
			zap.Error(err),
		)
		return s.fallback.Score(reaction, persona)
	}

	result, err := llm.ParseJSONResponse[models.ScoringResult](response)
	if err != nil {
		s.logger.Warn("llm scoring response unparsable, using fallback",
			zap.String("reactor", reaction.ReactorName),
			zap.Error(err),
		)
		return s.fallback.Score(reaction, persona)
	}

	clampResult(&result)
	return result
}

// clampResult forces every score into [0,1]. Models occasionally return
// percentages or negatives despite the schema.
func clampResult(r *models.ScoringResult) {
	fields := []*float64{
		&r.TotalScore,
		&r.Breakdown.JobTitleMatch,
		&r.Breakdown.CompanyMatch,
		&r.Breakdown.LocationMatch,
		&r.Breakdown.EngagementLevel,
		&r.Breakdown.PersonaAlignment,
		&r.Breakdown.PainPointsMatch,
		&r.Breakdown.CharacteristicsMatch,
	}
	for _, f := range fields {
		if *f > 1.0 && *f <= 100.0 {
			*f = *f / 100.0
		}
		if *f < 0 {
			*f = 0
		}
		if *f > 1.0 {
			*f = 1.0
		}
	}
}
