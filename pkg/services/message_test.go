package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscope/leadscope-engine/pkg/llm"
	"github.com/leadscope/leadscope-engine/pkg/models"
)

func testCandidate() *models.EnrichedCandidate {
	return &models.EnrichedCandidate{
		ScoredCandidate: models.ScoredCandidate{
			RawReaction: models.RawReaction{
				ReactorName:  "Jane Doe",
				Headline:     "VP of Sales at Globex",
				ReactionType: "insightful",
				SourceTarget: "acme",
				PostText:     "Why most pipeline reviews are theater",
			},
		},
		EnrichedCompany: &models.CompanyDetail{Name: "Globex", Industry: "Software"},
	}
}

func TestMessageGeneratorGenerate(t *testing.T) {
	mock := llm.NewMockLLMClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temperature float64) (string, error) {
		return "  Loved your take on pipeline reviews, Jane.  ", nil
	}

	gen := NewMessageGenerator(mock)
	persona := &models.PersonaProfile{
		CompanyName: "LeadScope",
		OutreachStrategy: models.OutreachStrategy{
			ValueProposition: "we surface warm leads from engagement",
		},
	}

	message, err := gen.Generate(context.Background(), testCandidate(), persona, "")
	require.NoError(t, err)
	assert.Equal(t, "Loved your take on pipeline reviews, Jane.", message)

	// Outreach copy uses a looser temperature than scoring
	assert.Equal(t, 0.7, mock.LastTemperature)
	assert.Contains(t, mock.LastPrompt, "Jane Doe")
	assert.Contains(t, mock.LastPrompt, "pipeline reviews")
	assert.Contains(t, mock.LastPrompt, "LeadScope")
}

func TestMessageGeneratorTemplate(t *testing.T) {
	mock := llm.NewMockLLMClient()
	gen := NewMessageGenerator(mock)

	_, err := gen.Generate(context.Background(), testCandidate(), &models.PersonaProfile{},
		"Hi {name}, saw you engaging with {topic}")
	require.NoError(t, err)
	assert.Contains(t, mock.LastPrompt, "Hi {name}")
}

func TestMessageGeneratorNilClient(t *testing.T) {
	gen := NewMessageGenerator(nil)
	message, err := gen.Generate(context.Background(), testCandidate(), &models.PersonaProfile{}, "")
	require.NoError(t, err)
	assert.Empty(t, message)
}

func TestGenerateProspectMessage(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	mock := llm.NewMockLLMClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temperature float64) (string, error) {
		return "Saw your reaction to the Acme post, Jane.", nil
	}
	f.service.messages = NewMessageGenerator(mock)

	require.NoError(t, f.prospects.Upsert(ctx, &models.Prospect{
		ClientID:     f.clientID,
		PostURL:      "post-1",
		ReactorURN:   "urn-jane",
		ReactorName:  "Jane Doe",
		Headline:     "VP of Sales at Globex",
		ReactionType: "like",
		SourceTarget: "acme",
	}))

	message, err := f.service.GenerateProspectMessage(ctx, f.clientID, "urn-jane", "post-1", "")
	require.NoError(t, err)
	assert.Equal(t, "Saw your reaction to the Acme post, Jane.", message)
	assert.Contains(t, mock.LastPrompt, "Jane Doe")

	saved, err := f.prospects.Get(ctx, f.clientID, "urn-jane", "post-1")
	require.NoError(t, err)
	assert.Equal(t, message, saved.PersonalizedMessage)
}

func TestGenerateProspectMessageDisabled(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.service.GenerateProspectMessage(context.Background(), f.clientID, "urn-1", "post-1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enabled llm provider")
}
