// Package services contains the radar pipeline: collect reactions, dedupe,
// filter competitors, score against the persona, cap, enrich, and persist.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leadscope/leadscope-engine/pkg/apperrors"
	"github.com/leadscope/leadscope-engine/pkg/models"
	"github.com/leadscope/leadscope-engine/pkg/repositories"
	"github.com/leadscope/leadscope-engine/pkg/scoring"
)

// DataClient is the slice of the LinkedIn client the pipeline needs.
type DataClient interface {
	CompanyPosts(ctx context.Context, company string, limit int) ([]models.Post, error)
	ProfilePosts(ctx context.Context, profileURL string, limit int) ([]models.Post, error)
	SearchPosts(ctx context.Context, keyword string, limit int) ([]models.Post, error)
	PostReactions(ctx context.Context, postURL string) ([]models.RawReaction, error)
	ProfileDetail(ctx context.Context, username string) (*models.ProfileDetail, error)
	CompanyDetail(ctx context.Context, identifier string) (*models.CompanyDetail, error)
}

// Scorer evaluates one candidate against the buyer persona.
type Scorer interface {
	Score(ctx context.Context, reaction *models.RawReaction, persona *models.PersonaProfile) models.ScoringResult
}

// RadarService runs the lead-generation pipeline for one radar at a time.
type RadarService struct {
	radars      repositories.RadarRepository
	prospects   repositories.ProspectRepository
	competitors repositories.CompetitorRepository
	personas    repositories.PersonaRepository

	data     DataClient
	scorer   Scorer
	enricher *Enricher
	messages *MessageGenerator

	defaultThreshold float64
	logger           *zap.Logger

	// stop is the cooperative interruption flag, checked between stages
	// and between candidates. A stopped run saves what it has.
	stop atomic.Bool
}

// NewRadarService wires the pipeline together.
func NewRadarService(
	radars repositories.RadarRepository,
	prospects repositories.ProspectRepository,
	competitors repositories.CompetitorRepository,
	personas repositories.PersonaRepository,
	data DataClient,
	scorer Scorer,
	enricher *Enricher,
	messages *MessageGenerator,
	defaultThreshold float64,
	logger *zap.Logger,
) *RadarService {
	return &RadarService{
		radars:           radars,
		prospects:        prospects,
		competitors:      competitors,
		personas:         personas,
		data:             data,
		scorer:           scorer,
		enricher:         enricher,
		messages:         messages,
		defaultThreshold: defaultThreshold,
		logger:           logger.Named("radar_service"),
	}
}

// RequestStop asks the current run to wind down at the next checkpoint.
// The run saves everything processed so far before returning.
func (s *RadarService) RequestStop() {
	s.stop.Store(true)
}

func (s *RadarService) stopped() bool {
	return s.stop.Load()
}

// Run executes the full pipeline for one radar. The radar's last-run time
// is stamped whether or not anything qualified.
func (s *RadarService) Run(ctx context.Context, radarID uuid.UUID) (*models.RunSummary, error) {
	radar, err := s.radars.Get(ctx, radarID)
	if err != nil {
		return nil, fmt.Errorf("failed to load radar: %w", err)
	}

	summary := &models.RunSummary{RadarID: radar.ID}
	start := time.Now()
	s.logger.Info("radar run starting",
		zap.String("radar_id", radar.ID.String()),
		zap.String("radar_type", string(radar.Type)),
		zap.String("target", radar.TargetIdentifier),
	)

	defer func() {
		if err := s.radars.UpdateLastRun(context.WithoutCancel(ctx), radar.ID, time.Now().UTC()); err != nil {
			s.logger.Warn("failed to stamp last run", zap.Error(err))
		}
		s.logger.Info("radar run finished",
			zap.String("radar_id", radar.ID.String()),
			zap.Int("collected", summary.Collected),
			zap.Int("qualified", summary.Qualified),
			zap.Int("saved", summary.Saved),
			zap.Bool("interrupted", summary.Interrupted),
			zap.Duration("duration", time.Since(start)),
		)
	}()

	// Stage 1: collect
	reactions, err := s.collectReactions(ctx, radar)
	if err != nil {
		return summary, err
	}
	summary.Collected = len(reactions)
	if len(reactions) == 0 {
		return summary, nil
	}

	// Stage 2: dedupe within the batch, then against prospects already
	// saved for this client. Known reactors never reach the scorer again,
	// so an immediate rerun costs no LLM calls.
	reactions = dedupeReactions(reactions)
	summary.Deduplicated = len(reactions)

	known, err := s.prospects.ListReactorKeys(ctx, radar.ClientID)
	if err != nil {
		return summary, fmt.Errorf("failed to list known reactors: %w", err)
	}
	if len(known) > 0 {
		fresh := reactions[:0]
		for _, r := range reactions {
			if _, ok := known[r.DedupKey()]; ok {
				summary.AlreadyKnown++
				continue
			}
			fresh = append(fresh, r)
		}
		reactions = fresh
	}
	if len(reactions) == 0 {
		return summary, nil
	}

	// Stage 3: competitor filter
	if radar.FilterCompetitors {
		competitors, err := s.competitors.ListByClient(ctx, radar.ClientID)
		if err != nil {
			return summary, fmt.Errorf("failed to load competitors: %w", err)
		}
		filter := scoring.NewCompetitorFilter(competitors, s.logger)
		var dropped int
		reactions, dropped = filter.Filter(reactions)
		summary.CompetitorFiltered = dropped
	}
	if len(reactions) == 0 {
		return summary, nil
	}
	if s.stopped() {
		summary.Interrupted = true
		return summary, nil
	}

	// Stage 4: score
	persona, err := s.personas.GetByClient(ctx, radar.ClientID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return summary, fmt.Errorf("failed to load persona: %w", err)
		}
		// Scoring still runs; an empty persona just scores conservatively.
		persona = &models.PersonaProfile{ClientID: radar.ClientID}
	}

	threshold := radar.MinScoreThreshold
	if threshold <= 0 {
		threshold = s.defaultThreshold
	}

	var scored []models.ScoredCandidate
	for i := range reactions {
		if s.stopped() {
			summary.Interrupted = true
			break
		}
		result := s.scorer.Score(ctx, &reactions[i], persona)
		if result.UsedFallback {
			summary.FallbackScored++
		} else {
			summary.AIScored++
		}
		scored = append(scored, models.ScoredCandidate{
			RawReaction: reactions[i],
			Scoring:     result,
			Qualifies:   result.TotalScore >= threshold,
		})
	}
	summary.Scored = len(scored)

	// Stage 5: threshold
	var qualified []models.ScoredCandidate
	for _, c := range scored {
		if c.Qualifies {
			qualified = append(qualified, c)
		}
	}
	summary.Qualified = len(qualified)

	// Stage 6: cap. Highest scores survive; no backfill from below the
	// threshold.
	if radar.MaxQualifiedExtractions > 0 && len(qualified) > radar.MaxQualifiedExtractions {
		sort.SliceStable(qualified, func(i, j int) bool {
			return qualified[i].Scoring.TotalScore > qualified[j].Scoring.TotalScore
		})
		summary.Capped = len(qualified) - radar.MaxQualifiedExtractions
		qualified = qualified[:radar.MaxQualifiedExtractions]
	}

	if len(qualified) == 0 {
		return summary, nil
	}

	// Stage 7: enrich and persist. Enrichment failures never drop a
	// candidate, and each save lands immediately so an interruption keeps
	// everything processed so far.
	for i := range qualified {
		if s.stopped() && !summary.Interrupted {
			summary.Interrupted = true
		}

		var enriched *models.EnrichedCandidate
		if summary.Interrupted {
			// Skip enrichment on wind-down, save the bare candidate
			enriched = &models.EnrichedCandidate{ScoredCandidate: qualified[i]}
		} else {
			enriched = s.enricher.Enrich(ctx, &qualified[i])
			if enriched.EnrichedProfile != nil || enriched.EnrichedCompany != nil {
				summary.Enriched++
			}
		}

		prospect := models.ProspectFromCandidate(radar.ClientID, enriched)
		if err := s.prospects.Upsert(context.WithoutCancel(ctx), prospect); err != nil {
			s.logger.Error("failed to save prospect",
				zap.String("reactor", prospect.ReactorName),
				zap.Error(err),
			)
			continue
		}
		summary.Saved++
	}

	return summary, nil
}

// collectReactions gathers reactors from every target of the radar.
// A target that fails is logged and skipped so one bad slug doesn't kill
// the whole run.
func (s *RadarService) collectReactions(ctx context.Context, radar *models.Radar) ([]models.RawReaction, error) {
	var all []models.RawReaction
	var lastErr error

	for _, target := range radar.Targets() {
		if s.stopped() {
			break
		}

		posts, err := s.collectPosts(ctx, radar, target)
		if err != nil {
			s.logger.Warn("failed to collect posts for target",
				zap.String("target", target),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		for _, post := range posts {
			if s.stopped() {
				break
			}
			reactions, err := s.data.PostReactions(ctx, post.URL)
			if err != nil {
				s.logger.Warn("failed to collect reactions for post",
					zap.String("post_url", post.URL),
					zap.Error(err),
				)
				lastErr = err
				continue
			}
			for i := range reactions {
				reactions[i].SourceTarget = target
				reactions[i].PostURL = post.URL
				reactions[i].PostDate = post.PostedAt
				reactions[i].PostText = post.Text
			}
			all = append(all, reactions...)
		}
	}

	// Only fail the run when literally nothing came back
	if len(all) == 0 && lastErr != nil {
		return nil, fmt.Errorf("failed to collect reactions: %w", lastErr)
	}
	return all, nil
}

func (s *RadarService) collectPosts(ctx context.Context, radar *models.Radar, target string) ([]models.Post, error) {
	switch radar.Type {
	case models.RadarCompetitorLastPost:
		return s.data.CompanyPosts(ctx, target, 1)
	case models.RadarPersonLastPost:
		return s.data.ProfilePosts(ctx, target, 1)
	case models.RadarKeywordPosts:
		count := radar.PostCount
		if count <= 0 {
			count = 1
		}
		return s.data.SearchPosts(ctx, target, count)
	default:
		return nil, fmt.Errorf("unknown radar type %q", radar.Type)
	}
}

// dedupeReactions keeps the first occurrence per reactor. Reactions with
// neither a URN nor a profile URL are unidentifiable and dropped.
func dedupeReactions(reactions []models.RawReaction) []models.RawReaction {
	seen := make(map[string]struct{}, len(reactions))
	deduped := make([]models.RawReaction, 0, len(reactions))
	for _, r := range reactions {
		key := r.DedupKey()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, r)
	}
	return deduped
}
