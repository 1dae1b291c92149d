package scoring

import (
	"fmt"
	"strings"

	"github.com/leadscope/leadscope-engine/pkg/models"
)

const scoringSystemMessage = `You are a B2B lead qualification analyst. You assess whether a LinkedIn member who engaged with a post matches a buyer persona. You respond with a single JSON object and nothing else.`

// buildScoringPrompt renders the persona and candidate into the judge prompt.
// The response schema mirrors models.ScoringResult.
func buildScoringPrompt(reaction *models.RawReaction, persona *models.PersonaProfile) string {
	var b strings.Builder

	b.WriteString("Assess how well this LinkedIn member matches our target buyer persona.\n\n")

	b.WriteString("## Our company\n")
	writeField(&b, "Name", persona.CompanyName)
	writeField(&b, "What we do", persona.CompanyDescription)
	writeField(&b, "Products/services", strings.Join(persona.ProductsServices, ", "))
	writeField(&b, "What we offer", persona.OutreachStrategy.WhatOffers)
	writeField(&b, "Value proposition", persona.OutreachStrategy.ValueProposition)

	b.WriteString("\n## Target persona\n")
	writeField(&b, "Job titles", strings.Join(persona.TargetPersona.JobTitles, ", "))
	writeField(&b, "Company types", strings.Join(persona.TargetPersona.CompanyTypes, ", "))
	writeField(&b, "Industries", strings.Join(persona.TargetPersona.Industries, ", "))
	writeField(&b, "Company size", persona.TargetPersona.CompanySize)
	writeField(&b, "Location", persona.TargetPersona.GeographicLocation)
	writeField(&b, "Pain points", strings.Join(persona.TargetPersona.PainPoints, "; "))
	writeField(&b, "Characteristics", strings.Join(persona.TargetPersona.Characteristics, "; "))
	writeField(&b, "Ideal buying signals", strings.Join(persona.OutreachStrategy.IdealSignals, "; "))

	b.WriteString("\n## The member\n")
	writeField(&b, "Name", reaction.ReactorName)
	writeField(&b, "Headline", reaction.Headline)
	writeField(&b, "Reaction", reaction.ReactionType)
	writeField(&b, "Reacted to post by", reaction.SourceTarget)
	if reaction.PostText != "" {
		writeField(&b, "Post excerpt", truncate(reaction.PostText, 500))
	}

	b.WriteString(`
## Instructions
- Score each criterion from 0.0 to 1.0. Be lenient: a headline is a thin signal, so give benefit of the doubt on criteria the headline cannot speak to (use 0.5 for unknowable criteria rather than 0). Partial matches should score 0.4 to 0.6.
- Weight the total roughly as: job title ~30%, company/industry fit ~25%, pain points and characteristics ~20%, location ~15%, engagement ~10%. Engaging with this content is itself a positive signal.
- total_score must be between 0.0 and 1.0 and consistent with the breakdown.

Respond with exactly this JSON structure:
{
  "total_score": 0.0,
  "reasoning": "one or two sentences",
  "breakdown": {
    "job_title_match": 0.0,
    "company_match": 0.0,
    "location_match": 0.0,
    "engagement_level": 0.0,
    "persona_alignment": 0.0,
    "pain_points_match": 0.0,
    "characteristics_match": 0.0
  },
  "strengths": ["..."],
  "weaknesses": ["..."],
  "recommendation": "short verdict"
}`)

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
