package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/leadscope/leadscope-engine/pkg/models"
	"github.com/leadscope/leadscope-engine/pkg/repositories"
)

// defaultCheckInterval is how often the scheduler looks for due radars.
const defaultCheckInterval = time.Minute

// Scheduler runs enabled radars on their configured intervals. Radars run
// sequentially; the data API budget doesn't support concurrent runs.
type Scheduler struct {
	radars        repositories.RadarRepository
	service       *RadarService
	checkInterval time.Duration
	logger        *zap.Logger
}

// NewScheduler creates a scheduler over all enabled radars.
func NewScheduler(radars repositories.RadarRepository, service *RadarService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		radars:        radars,
		service:       service,
		checkInterval: defaultCheckInterval,
		logger:        logger.Named("scheduler"),
	}
}

// Run blocks until ctx is cancelled, executing due radars every check
// interval.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler started", zap.Duration("check_interval", s.checkInterval))

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.runDue(ctx)
		}
	}
}

func (s *Scheduler) runDue(ctx context.Context) {
	radars, err := s.radars.ListEnabled(ctx)
	if err != nil {
		s.logger.Error("failed to list enabled radars", zap.Error(err))
		return
	}

	now := time.Now().UTC()
	for _, radar := range radars {
		if ctx.Err() != nil {
			return
		}
		if !due(radar, now) {
			continue
		}

		s.logger.Info("scheduled radar due",
			zap.String("radar_id", radar.ID.String()),
			zap.String("name", radar.Name),
		)
		if _, err := s.service.Run(ctx, radar.ID); err != nil {
			s.logger.Error("scheduled radar run failed",
				zap.String("radar_id", radar.ID.String()),
				zap.Error(err),
			)
		}
	}
}

// due reports whether a radar's interval has elapsed since its last run.
// Never-run scheduled radars are due immediately.
func due(radar *models.Radar, now time.Time) bool {
	if !radar.IsScheduled() {
		return false
	}
	if radar.LastRunAt == nil {
		return true
	}
	return now.Sub(*radar.LastRunAt) >= radar.Interval()
}
