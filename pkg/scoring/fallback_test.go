package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leadscope/leadscope-engine/pkg/models"
)

func testPersona() *models.PersonaProfile {
	return &models.PersonaProfile{
		CompanyName: "LeadScope",
		TargetPersona: models.TargetPersona{
			JobTitles:          []string{"VP of Sales", "Head of Revenue"},
			CompanyTypes:       []string{"SaaS"},
			Industries:         []string{"software"},
			GeographicLocation: "",
			PainPoints:         []string{"pipeline visibility"},
		},
	}
}

func TestFallbackScorerExactTitle(t *testing.T) {
	scorer := NewFallbackScorer()
	reaction := &models.RawReaction{
		Headline:     "VP of Sales at Globex SaaS",
		ReactionType: "COMMENT",
	}

	result := scorer.Score(reaction, testPersona())

	assert.True(t, result.UsedFallback)
	assert.Equal(t, 1.0, result.Breakdown.JobTitleMatch)
	assert.Equal(t, 1.0, result.Breakdown.CompanyMatch)
	assert.Equal(t, 1.0, result.Breakdown.EngagementLevel)
	assert.Greater(t, result.TotalScore, 0.6)
	assert.LessOrEqual(t, result.TotalScore, 1.0)
}

func TestFallbackScorerSeniorityKeyword(t *testing.T) {
	scorer := NewFallbackScorer()
	reaction := &models.RawReaction{
		Headline:     "Founder at Hooli",
		ReactionType: "like",
	}

	result := scorer.Score(reaction, testPersona())
	assert.Equal(t, 0.4, result.Breakdown.JobTitleMatch)
}

func TestFallbackScorerEmptyHeadline(t *testing.T) {
	scorer := NewFallbackScorer()
	reaction := &models.RawReaction{ReactionType: "like"}

	result := scorer.Score(reaction, testPersona())

	assert.True(t, result.UsedFallback)
	assert.Equal(t, 0.0, result.Breakdown.JobTitleMatch)
	assert.Equal(t, 0.0, result.Breakdown.CompanyMatch)
	assert.GreaterOrEqual(t, result.TotalScore, 0.0)
}

func TestFallbackScorerNoLocationConstraint(t *testing.T) {
	scorer := NewFallbackScorer()
	reaction := &models.RawReaction{
		Headline:     "Head of Revenue at Acme",
		ReactionType: "love",
	}

	result := scorer.Score(reaction, testPersona())
	assert.Equal(t, 0.5, result.Breakdown.LocationMatch)
}

func TestFallbackScorerEngagementTiers(t *testing.T) {
	scorer := NewFallbackScorer()
	persona := testPersona()

	score := func(reactionType string) float64 {
		r := &models.RawReaction{Headline: "VP of Sales at Acme", ReactionType: reactionType}
		return scorer.Score(r, persona).Breakdown.EngagementLevel
	}

	comment := score("COMMENT")
	repost := score("REPOST")
	share := score("SHARE")
	like := score("LIKE")

	assert.Greater(t, comment, repost, "comments signal more intent than reposts")
	assert.Equal(t, repost, share)
	assert.Greater(t, repost, like, "reposts signal more intent than likes")
	assert.Greater(t, like, 0.0)
	assert.Equal(t, 0.0, score("something-new"), "unknown reaction types carry no weight")
}

func TestFallbackScorerFuzzyTitleTier(t *testing.T) {
	scorer := NewFallbackScorer()
	persona := &models.PersonaProfile{
		TargetPersona: models.TargetPersona{JobTitles: []string{"Heads of Revenues"}},
	}
	reaction := &models.RawReaction{
		Headline:     "Head of Revenue",
		ReactionType: "LIKE",
	}

	result := scorer.Score(reaction, persona)
	assert.Equal(t, 0.45, result.Breakdown.JobTitleMatch, "near-miss title lands in the fuzzy tier")
}

func TestFallbackScorerFuzzyLocationTier(t *testing.T) {
	scorer := NewFallbackScorer()
	persona := &models.PersonaProfile{
		TargetPersona: models.TargetPersona{GeographicLocation: "Paris, France"},
	}
	reaction := &models.RawReaction{
		Headline:     "CTO at Startup | Paris, France 🇫🇷",
		ReactionType: "LIKE",
	}
	// Exact containment wins outright
	assert.Equal(t, 1.0, scorer.Score(reaction, persona).Breakdown.LocationMatch)

	near := &models.RawReaction{
		Headline:     "CTO at Startup, Paris France",
		ReactionType: "LIKE",
	}
	assert.Equal(t, 0.5, scorer.Score(near, persona).Breakdown.LocationMatch)
}
