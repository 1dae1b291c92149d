package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/leadscope/leadscope-engine/pkg/models"
)

func testCompetitors() []models.Competitor {
	return []models.Competitor{
		{CompanyName: "Acme Corp", CompanyURL: "https://www.linkedin.com/company/acme-corp"},
		{CompanyName: "Initech"},
	}
}

func TestCompetitorFilterMatch(t *testing.T) {
	filter := NewCompetitorFilter(testCompetitors(), zap.NewNop())

	tests := []struct {
		name        string
		headline    string
		profileURL  string
		wantMatch   bool
		wantCompany string
	}{
		{
			name:        "exact employer",
			headline:    "Account Executive at Acme Corp",
			wantMatch:   true,
			wantCompany: "Acme Corp",
		},
		{
			name:        "competitor name anywhere in headline",
			headline:    "Initech alum, now consulting",
			wantMatch:   true,
			wantCompany: "Initech",
		},
		{
			name:        "fuzzy employer variant",
			headline:    "Sales Director at Acme Corporation",
			wantMatch:   true,
			wantCompany: "Acme Corp",
		},
		{
			name:      "unrelated employer",
			headline:  "VP of Sales at Globex",
			wantMatch: false,
		},
		{
			name:      "empty headline",
			headline:  "",
			wantMatch: false,
		},
		{
			name:        "company url slug in profile url",
			headline:    "Building things",
			profileURL:  "https://www.linkedin.com/company/acme-corp/people/jane",
			wantMatch:   true,
			wantCompany: "Acme Corp",
		},
		{
			name:        "competitor name in profile url without a configured url",
			headline:    "Building things",
			profileURL:  "https://www.linkedin.com/in/jane-initech",
			wantMatch:   true,
			wantCompany: "Initech",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reaction := &models.RawReaction{Headline: tt.headline, ProfileURL: tt.profileURL}
			matched, company := filter.Match(reaction)
			assert.Equal(t, tt.wantMatch, matched)
			assert.Equal(t, tt.wantCompany, company)
		})
	}
}

func TestCompetitorFilterFirstMatchWins(t *testing.T) {
	competitors := []models.Competitor{
		{CompanyName: "Acme"},
		{CompanyName: "Acme Corp"},
	}
	filter := NewCompetitorFilter(competitors, zap.NewNop())

	matched, company := filter.Match(&models.RawReaction{Headline: "CTO at Acme Corp"})
	assert.True(t, matched)
	assert.Equal(t, "Acme", company)
}

func TestCompetitorFilterFilter(t *testing.T) {
	filter := NewCompetitorFilter(testCompetitors(), zap.NewNop())

	reactions := []models.RawReaction{
		{ReactorName: "A", Headline: "VP of Sales at Globex"},
		{ReactorName: "B", Headline: "Engineer at Acme Corp"},
		{ReactorName: "C", Headline: "Founder at Hooli"},
	}

	kept, dropped := filter.Filter(reactions)
	assert.Equal(t, 1, dropped)
	assert.Len(t, kept, 2)
	assert.Equal(t, "A", kept[0].ReactorName)
	assert.Equal(t, "C", kept[1].ReactorName)
}

func TestExtractEmployer(t *testing.T) {
	tests := []struct {
		headline string
		expected string
	}{
		{"VP of Sales at Acme Corp", "acme"},
		{"CTO @ Initech | Building things", "initech"},
		{"Directrice commerciale chez Globex", "globex"},
		{"Growth leader, ex-Acme", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExtractEmployer(tt.headline), "headline: %s", tt.headline)
	}
}
