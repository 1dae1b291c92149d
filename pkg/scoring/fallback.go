package scoring

import (
	"fmt"
	"strings"

	"github.com/leadscope/leadscope-engine/pkg/models"
)

// Fallback scoring weights. Criteria the headline can't speak to (persona
// alignment, pain points, characteristics) carry no weight here; the LLM
// path covers those.
const (
	weightJobTitle   = 0.30
	weightCompany    = 0.25
	weightLocation   = 0.15
	weightEngagement = 0.15
)

// seniorityKeywords signal decision-making roles even when the exact title
// doesn't match the persona.
var seniorityKeywords = []string{
	"chief", "ceo", "cto", "cfo", "coo", "cmo", "cro",
	"vp", "vice president", "head of", "director",
	"founder", "co-founder", "owner", "president", "partner",
}

// Engagement tiers: a comment is the strongest buying signal, a repost
// still took effort, a reaction is the weakest. Scaled so a comment earns
// the full engagement weight.
const (
	engagementComment  = 1.0
	engagementRepost   = 0.67
	engagementReaction = 0.33
)

// FallbackScorer scores candidates deterministically from the headline and
// reaction alone. Used when the LLM is disabled or fails; the pipeline must
// never lose a candidate to a scoring outage.
type FallbackScorer struct{}

// NewFallbackScorer creates a deterministic scorer.
func NewFallbackScorer() *FallbackScorer {
	return &FallbackScorer{}
}

// Score produces a weighted heuristic score in [0,1].
func (s *FallbackScorer) Score(reaction *models.RawReaction, persona *models.PersonaProfile) models.ScoringResult {
	headline := strings.ToLower(reaction.Headline)

	breakdown := models.ScoreBreakdown{
		JobTitleMatch:   scoreJobTitle(headline, persona),
		CompanyMatch:    scoreCompany(headline, persona),
		LocationMatch:   scoreLocation(headline, persona),
		EngagementLevel: scoreEngagement(reaction.ReactionType),
	}

	total := weightJobTitle*breakdown.JobTitleMatch +
		weightCompany*breakdown.CompanyMatch +
		weightLocation*breakdown.LocationMatch +
		weightEngagement*breakdown.EngagementLevel
	if total > 1.0 {
		total = 1.0
	}

	return models.ScoringResult{
		TotalScore: total,
		Reasoning: fmt.Sprintf(
			"Heuristic score from headline signals: title %.2f, company %.2f, location %.2f, engagement %.2f.",
			breakdown.JobTitleMatch, breakdown.CompanyMatch, breakdown.LocationMatch, breakdown.EngagementLevel,
		),
		Breakdown:      breakdown,
		Recommendation: recommendation(total),
		UsedFallback:   true,
	}
}

func scoreJobTitle(headline string, persona *models.PersonaProfile) float64 {
	if headline == "" {
		return 0
	}

	best := 0.0
	for _, title := range persona.TargetPersona.JobTitles {
		t := strings.ToLower(strings.TrimSpace(title))
		if t == "" {
			continue
		}
		if strings.Contains(headline, t) {
			return 1.0
		}
		// Partial credit when most of the title's words appear
		words := strings.Fields(t)
		matched := 0
		for _, w := range words {
			if len(w) > 2 && strings.Contains(headline, w) {
				matched++
			}
		}
		if len(words) > 0 && matched*2 >= len(words) {
			if 0.6 > best {
				best = 0.6
			}
		}

		// Near-miss titles ("Head of Sales" vs "Sales Lead") via similarity
		if Ratio(t, headline) > 0.6 && 0.45 > best {
			best = 0.45
		}
	}

	if best == 0 {
		for _, kw := range seniorityKeywords {
			if strings.Contains(headline, kw) {
				return 0.4
			}
		}
	}
	return best
}

func scoreCompany(headline string, persona *models.PersonaProfile) float64 {
	employer := ExtractEmployer(headline)
	if employer == "" {
		return 0
	}

	for _, ct := range persona.TargetPersona.CompanyTypes {
		if ct != "" && strings.Contains(headline, strings.ToLower(ct)) {
			return 1.0
		}
	}
	for _, ind := range persona.TargetPersona.Industries {
		if ind != "" && strings.Contains(headline, strings.ToLower(ind)) {
			return 0.8
		}
	}
	// Having an identifiable employer at all is weak positive signal
	return 0.3
}

func scoreLocation(headline string, persona *models.PersonaProfile) float64 {
	loc := strings.ToLower(strings.TrimSpace(persona.TargetPersona.GeographicLocation))
	if loc == "" {
		// No geographic constraint means everywhere qualifies
		return 0.5
	}
	if strings.Contains(headline, loc) {
		return 1.0
	}
	// Fuzzy match per headline segment so "Paris, Île-de-France" still
	// hits a persona location of "Paris, France"
	for _, seg := range strings.Split(headline, ",") {
		if Ratio(strings.TrimSpace(seg), loc) > 0.7 {
			return 0.5
		}
	}
	return 0
}

func scoreEngagement(reactionType string) float64 {
	rt := strings.ToUpper(reactionType)
	switch {
	case strings.Contains(rt, "COMMENT"):
		return engagementComment
	case strings.Contains(rt, "REPOST"), strings.Contains(rt, "SHARE"):
		return engagementRepost
	case strings.Contains(rt, "LIKE"), strings.Contains(rt, "PRAISE"):
		return engagementReaction
	default:
		return 0
	}
}

func recommendation(total float64) string {
	switch {
	case total >= 0.7:
		return "strong candidate"
	case total >= 0.5:
		return "worth a look"
	default:
		return "weak match"
	}
}
