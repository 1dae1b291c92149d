package models

import (
	"time"

	"github.com/google/uuid"
)

// ScoreBreakdown is the per-criterion scoring output, each in [0,1].
type ScoreBreakdown struct {
	JobTitleMatch        float64 `json:"job_title_match"`
	CompanyMatch         float64 `json:"company_match"`
	LocationMatch        float64 `json:"location_match"`
	EngagementLevel      float64 `json:"engagement_level"`
	PersonaAlignment     float64 `json:"persona_alignment"`
	PainPointsMatch      float64 `json:"pain_points_match"`
	CharacteristicsMatch float64 `json:"characteristics_match"`
}

// ScoringResult is the full output of the persona scorer for one candidate.
type ScoringResult struct {
	TotalScore     float64        `json:"total_score"`
	Reasoning      string         `json:"reasoning,omitempty"`
	Breakdown      ScoreBreakdown `json:"breakdown"`
	Strengths      []string       `json:"strengths,omitempty"`
	Weaknesses     []string       `json:"weaknesses,omitempty"`
	Recommendation string         `json:"recommendation,omitempty"`

	// UsedFallback is true when the deterministic scorer produced the
	// result (LLM disabled, failed, or unparsable).
	UsedFallback bool `json:"used_fallback,omitempty"`
}

// ScoredCandidate is a RawReaction plus its scoring outcome. Transient,
// held in memory during one pipeline run.
type ScoredCandidate struct {
	RawReaction
	Scoring   ScoringResult `json:"scoring"`
	Qualifies bool          `json:"qualifies"`
}

// EnrichedCandidate is a ScoredCandidate plus optional enrichment blobs.
// Each field is independently optional because enrichment can fail
// per-field without discarding the candidate.
type EnrichedCandidate struct {
	ScoredCandidate
	EnrichedProfile *ProfileDetail `json:"enriched_profile,omitempty"`
	EnrichedCompany *CompanyDetail `json:"enriched_company,omitempty"`
}

// Prospect is the durable record per (client, reactor URN, post URL).
// Upsert semantics: last write wins on non-key fields.
type Prospect struct {
	ID       uuid.UUID `json:"id"`
	ClientID uuid.UUID `json:"client_id"`

	SourceTarget string `json:"source_target"`
	PostURL      string `json:"post_url"`
	PostDate     string `json:"post_date"`

	ReactorName       string `json:"reactor_name"`
	ReactorURN        string `json:"reactor_urn"`
	ProfileURL        string `json:"profile_url"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	Headline          string `json:"headline"`
	ReactionType      string `json:"reaction_type"`

	Relevant       bool          `json:"prospect_relevant"`
	RelevanceScore float64       `json:"relevance_score"`
	Scoring        ScoringResult `json:"scoring"`

	EnrichedProfile *ProfileDetail `json:"enriched_profile,omitempty"`
	EnrichedCompany *CompanyDetail `json:"enriched_company,omitempty"`

	PersonalizedMessage string `json:"personalized_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProspectFromCandidate flattens a pipeline candidate into its durable form.
func ProspectFromCandidate(clientID uuid.UUID, c *EnrichedCandidate) *Prospect {
	return &Prospect{
		ClientID:          clientID,
		SourceTarget:      c.SourceTarget,
		PostURL:           c.PostURL,
		PostDate:          c.PostDate,
		ReactorName:       c.ReactorName,
		ReactorURN:        c.ReactorURN,
		ProfileURL:        c.ProfileURL,
		ProfilePictureURL: c.ProfilePictureURL,
		Headline:          c.Headline,
		ReactionType:      c.ReactionType,
		Relevant:          c.Qualifies,
		RelevanceScore:    c.Scoring.TotalScore,
		Scoring:           c.Scoring,
		EnrichedProfile:   c.EnrichedProfile,
		EnrichedCompany:   c.EnrichedCompany,
	}
}

// RunSummary is the per-run stage accounting surfaced to callers and logs.
type RunSummary struct {
	RadarID            uuid.UUID `json:"radar_id"`
	Collected          int       `json:"collected"`
	Deduplicated       int       `json:"deduplicated"`
	AlreadyKnown       int       `json:"already_known"`
	CompetitorFiltered int       `json:"competitor_filtered"`
	Scored             int       `json:"scored"`
	Qualified          int       `json:"qualified"`
	Capped             int       `json:"capped"`
	Enriched           int       `json:"enriched"`
	Saved              int       `json:"saved"`

	AIScored       int `json:"ai_scored"`
	FallbackScored int `json:"fallback_scored"`

	// Interrupted is true when a cooperative stop ended the run early and
	// the saved set is a best-effort partial checkpoint.
	Interrupted bool `json:"interrupted,omitempty"`
}
