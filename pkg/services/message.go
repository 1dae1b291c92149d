package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/leadscope/leadscope-engine/pkg/llm"
	"github.com/leadscope/leadscope-engine/pkg/models"
)

// messageTemperature is higher than the scoring temperature; outreach
// copy should not read machine-generated.
const messageTemperature = 0.7

const messageSystemPrompt = `You write short, personal LinkedIn outreach messages. One or two sentences, referencing something specific about the person. No greetings boilerplate, no "I hope this finds you well", no hard sell.`

// MessageGenerator produces a personalized icebreaker for a qualified
// prospect.
type MessageGenerator struct {
	client llm.LLMClient
}

// NewMessageGenerator creates a generator. A nil client disables message
// generation.
func NewMessageGenerator(client llm.LLMClient) *MessageGenerator {
	return &MessageGenerator{client: client}
}

// Generate writes an outreach message for the candidate. Returns "" with no
// error when generation is disabled.
func (g *MessageGenerator) Generate(ctx context.Context, candidate *models.EnrichedCandidate, persona *models.PersonaProfile, template string) (string, error) {
	if g == nil || g.client == nil {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("Write a LinkedIn outreach message to this person.\n\n")

	fmt.Fprintf(&b, "Name: %s\n", candidate.ReactorName)
	fmt.Fprintf(&b, "Headline: %s\n", candidate.Headline)
	fmt.Fprintf(&b, "They reacted (%s) to a post by %s.\n", candidate.ReactionType, candidate.SourceTarget)
	if candidate.PostText != "" {
		fmt.Fprintf(&b, "The post said: %s\n", truncateText(candidate.PostText, 400))
	}
	if candidate.EnrichedProfile != nil && candidate.EnrichedProfile.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", candidate.EnrichedProfile.Location)
	}
	if candidate.EnrichedCompany != nil && candidate.EnrichedCompany.Name != "" {
		fmt.Fprintf(&b, "Company: %s (%s)\n", candidate.EnrichedCompany.Name, candidate.EnrichedCompany.Industry)
	}

	fmt.Fprintf(&b, "\nWe are %s: %s\n", persona.CompanyName, persona.OutreachStrategy.ValueProposition)
	if style := persona.OutreachStrategy.MessageStyle; style.Tone != "" {
		fmt.Fprintf(&b, "Tone: %s\n", style.Tone)
	}
	if template != "" {
		fmt.Fprintf(&b, "Base the message on this template, adapting it to the person:\n%s\n", template)
	}
	b.WriteString("\nRespond with the message text only.")

	message, err := g.client.GenerateResponse(ctx, b.String(), messageSystemPrompt, messageTemperature)
	if err != nil {
		return "", fmt.Errorf("failed to generate message: %w", err)
	}
	return strings.TrimSpace(message), nil
}

// GenerateProspectMessage writes and stores an outreach message for one
// saved prospect. This is an on-demand operation, separate from the
// pipeline run, so a generation failure surfaces to the caller instead
// of being swallowed.
func (s *RadarService) GenerateProspectMessage(ctx context.Context, clientID uuid.UUID, reactorURN, postURL, template string) (string, error) {
	if s.messages == nil || s.messages.client == nil {
		return "", errors.New("message generation requires an enabled llm provider")
	}

	prospect, err := s.prospects.Get(ctx, clientID, reactorURN, postURL)
	if err != nil {
		return "", fmt.Errorf("failed to load prospect: %w", err)
	}

	persona, err := s.personas.GetByClient(ctx, clientID)
	if err != nil {
		return "", fmt.Errorf("failed to load persona: %w", err)
	}

	candidate := &models.EnrichedCandidate{
		ScoredCandidate: models.ScoredCandidate{
			RawReaction: models.RawReaction{
				SourceTarget: prospect.SourceTarget,
				PostURL:      prospect.PostURL,
				ReactorName:  prospect.ReactorName,
				Headline:     prospect.Headline,
				ReactionType: prospect.ReactionType,
			},
		},
		EnrichedProfile: prospect.EnrichedProfile,
		EnrichedCompany: prospect.EnrichedCompany,
	}

	message, err := s.messages.Generate(ctx, candidate, persona, template)
	if err != nil {
		return "", err
	}
	if err := s.prospects.UpdateMessage(ctx, prospect.ID, message); err != nil {
		return "", fmt.Errorf("failed to store message: %w", err)
	}
	return message, nil
}

func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
