package models

import (
	"time"

	"github.com/google/uuid"
)

// RadarType identifies what a radar monitors.
type RadarType string

const (
	// RadarCompetitorLastPost watches the most recent post of a company page.
	RadarCompetitorLastPost RadarType = "competitor_last_post"
	// RadarPersonLastPost watches the most recent post of an individual profile.
	RadarPersonLastPost RadarType = "person_last_post"
	// RadarKeywordPosts watches the N most recent posts matching a keyword.
	RadarKeywordPosts RadarType = "keyword_posts"
)

// ScheduleUnit is the interval unit for scheduled radars.
type ScheduleUnit string

const (
	ScheduleManual  ScheduleUnit = "manual"
	ScheduleMinutes ScheduleUnit = "minutes"
	ScheduleHours   ScheduleUnit = "hours"
	ScheduleDays    ScheduleUnit = "days"
)

// Radar is a persistent monitoring definition: one competitor page, one
// person, or one keyword that the pipeline re-runs periodically.
type Radar struct {
	ID       uuid.UUID `json:"id"`
	ClientID uuid.UUID `json:"client_id"`
	Name     string    `json:"name"`
	Type     RadarType `json:"radar_type"`

	// TargetIdentifier is the primary target: a company slug, a profile
	// URL, or a keyword depending on Type.
	TargetIdentifier string `json:"target_identifier"`

	// AdditionalTargets are secondary targets of the same kind, processed
	// in order after the primary.
	AdditionalTargets []string `json:"additional_targets,omitempty"`

	// PostCount is the number of posts to analyze. Only meaningful for
	// keyword radars; competitor/person radars always use the latest post.
	PostCount int `json:"post_count"`

	Enabled           bool    `json:"enabled"`
	FilterCompetitors bool    `json:"filter_competitors"`
	MinScoreThreshold float64 `json:"min_score_threshold"`

	// MaxQualifiedExtractions caps how many qualified prospects are kept
	// per run (0 = unlimited). Applied after scoring, before enrichment.
	MaxQualifiedExtractions int `json:"max_qualified_extractions"`

	// MessageTemplate is an optional base template for outreach message
	// generation.
	MessageTemplate string `json:"message_template,omitempty"`

	ScheduleUnit     ScheduleUnit `json:"schedule_unit"`
	ScheduleInterval int          `json:"schedule_interval"`

	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Targets returns the primary target followed by any additional targets.
func (r *Radar) Targets() []string {
	targets := make([]string, 0, 1+len(r.AdditionalTargets))
	if r.TargetIdentifier != "" {
		targets = append(targets, r.TargetIdentifier)
	}
	targets = append(targets, r.AdditionalTargets...)
	return targets
}

// IsScheduled reports whether the radar has a usable interval schedule.
func (r *Radar) IsScheduled() bool {
	return r.ScheduleUnit != ScheduleManual && r.ScheduleUnit != "" && r.ScheduleInterval > 0
}

// Interval converts the schedule to a duration. Zero for manual radars.
func (r *Radar) Interval() time.Duration {
	if !r.IsScheduled() {
		return 0
	}
	switch r.ScheduleUnit {
	case ScheduleMinutes:
		return time.Duration(r.ScheduleInterval) * time.Minute
	case ScheduleHours:
		return time.Duration(r.ScheduleInterval) * time.Hour
	case ScheduleDays:
		return time.Duration(r.ScheduleInterval) * 24 * time.Hour
	}
	return 0
}
