package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscope/leadscope-engine/pkg/apperrors"
	"github.com/leadscope/leadscope-engine/pkg/models"
	"github.com/leadscope/leadscope-engine/pkg/testhelpers"
)

func TestProspectRepository(t *testing.T) {
	pool := testhelpers.StartPostgres(t, "../../migrations")
	ctx := context.Background()

	clients := NewClientRepository(pool)
	client := &models.Client{Name: "Test Client"}
	require.NoError(t, clients.Create(ctx, client))

	repo := NewProspectRepository(pool)

	prospect := &models.Prospect{
		ClientID:       client.ID,
		SourceTarget:   "acme",
		PostURL:        "https://www.linkedin.com/posts/1",
		ReactorName:    "Jane Doe",
		ReactorURN:     "urn-1",
		ProfileURL:     "https://www.linkedin.com/in/jane-doe",
		Headline:       "VP of Sales at Globex",
		ReactionType:   "like",
		Relevant:       true,
		RelevanceScore: 0.82,
		Scoring: models.ScoringResult{
			TotalScore: 0.82,
			Reasoning:  "strong title match",
		},
	}

	t.Run("upsert inserts", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, prospect))
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", prospect.ID.String())
	})

	t.Run("get round-trips", func(t *testing.T) {
		got, err := repo.Get(ctx, client.ID, "urn-1", "https://www.linkedin.com/posts/1")
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", got.ReactorName)
		assert.Equal(t, 0.82, got.RelevanceScore)
		assert.Equal(t, "strong title match", got.Scoring.Reasoning)
		assert.Nil(t, got.EnrichedProfile)
	})

	t.Run("upsert updates on conflict", func(t *testing.T) {
		update := *prospect
		update.Headline = "CRO at Globex"
		update.RelevanceScore = 0.9
		update.EnrichedProfile = &models.ProfileDetail{FullName: "Jane Doe", Location: "Austin, TX"}
		require.NoError(t, repo.Upsert(ctx, &update))

		got, err := repo.Get(ctx, client.ID, "urn-1", "https://www.linkedin.com/posts/1")
		require.NoError(t, err)
		assert.Equal(t, "CRO at Globex", got.Headline)
		assert.Equal(t, 0.9, got.RelevanceScore)
		require.NotNil(t, got.EnrichedProfile)
		assert.Equal(t, "Austin, TX", got.EnrichedProfile.Location)

		// Still a single row
		all, err := repo.ListByClient(ctx, client.ID)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("upsert preserves enrichment when rerun has none", func(t *testing.T) {
		rerun := *prospect
		rerun.EnrichedProfile = nil
		require.NoError(t, repo.Upsert(ctx, &rerun))

		got, err := repo.Get(ctx, client.ID, "urn-1", "https://www.linkedin.com/posts/1")
		require.NoError(t, err)
		require.NotNil(t, got.EnrichedProfile)
		assert.Equal(t, "Austin, TX", got.EnrichedProfile.Location)
	})

	t.Run("list reactor keys", func(t *testing.T) {
		second := &models.Prospect{
			ClientID:   client.ID,
			PostURL:    "https://www.linkedin.com/posts/2",
			ReactorURN: "urn-2",
		}
		require.NoError(t, repo.Upsert(ctx, second))

		// No URN: only the profile URL identifies this reactor
		third := &models.Prospect{
			ClientID:   client.ID,
			PostURL:    "https://www.linkedin.com/posts/3",
			ProfileURL: "https://www.linkedin.com/in/urnless",
		}
		require.NoError(t, repo.Upsert(ctx, third))

		keys, err := repo.ListReactorKeys(ctx, client.ID)
		require.NoError(t, err)
		assert.Contains(t, keys, "urn-1")
		assert.Contains(t, keys, "urn-2")
		assert.Contains(t, keys, "https://www.linkedin.com/in/urnless")
		assert.NotContains(t, keys, "", "empty identity fields never become keys")
	})

	t.Run("update message", func(t *testing.T) {
		require.NoError(t, repo.UpdateMessage(ctx, prospect.ID, "Hi Jane, loved your take on pipeline reviews."))

		got, err := repo.Get(ctx, client.ID, "urn-1", "https://www.linkedin.com/posts/1")
		require.NoError(t, err)
		assert.Contains(t, got.PersonalizedMessage, "Hi Jane")
	})

	t.Run("update scoring", func(t *testing.T) {
		require.NoError(t, repo.UpdateScoring(ctx, prospect.ID, false, models.ScoringResult{
			TotalScore: 0.4,
			Reasoning:  "rescored with updated persona",
		}))

		got, err := repo.Get(ctx, client.ID, "urn-1", "https://www.linkedin.com/posts/1")
		require.NoError(t, err)
		assert.False(t, got.Relevant)
		assert.Equal(t, 0.4, got.RelevanceScore)
	})

	t.Run("get missing returns not found", func(t *testing.T) {
		_, err := repo.Get(ctx, client.ID, "no-such-urn", "https://www.linkedin.com/posts/1")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, prospect.ID))
		assert.ErrorIs(t, repo.Delete(ctx, prospect.ID), apperrors.ErrNotFound)
	})
}

func TestRadarRepository(t *testing.T) {
	pool := testhelpers.StartPostgres(t, "../../migrations")
	ctx := context.Background()

	clients := NewClientRepository(pool)
	client := &models.Client{Name: "Test Client"}
	require.NoError(t, clients.Create(ctx, client))

	repo := NewRadarRepository(pool)

	radar := &models.Radar{
		ClientID:          client.ID,
		Name:              "Competitor watch",
		Type:              models.RadarCompetitorLastPost,
		TargetIdentifier:  "acme",
		AdditionalTargets: []string{"globex", "initech"},
		PostCount:         3,
		Enabled:           true,
		FilterCompetitors: true,
		MinScoreThreshold: 0.65,
		ScheduleUnit:      models.ScheduleHours,
		ScheduleInterval:  6,
	}

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, radar))

		got, err := repo.Get(ctx, radar.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"globex", "initech"}, got.AdditionalTargets)
		assert.Equal(t, []string{"acme", "globex", "initech"}, got.Targets())
		assert.Nil(t, got.LastRunAt)
	})

	t.Run("list enabled", func(t *testing.T) {
		disabled := &models.Radar{
			ClientID:         client.ID,
			Name:             "Paused",
			Type:             models.RadarKeywordPosts,
			TargetIdentifier: "supply chain",
			Enabled:          false,
		}
		require.NoError(t, repo.Create(ctx, disabled))

		enabled, err := repo.ListEnabled(ctx)
		require.NoError(t, err)
		require.Len(t, enabled, 1)
		assert.Equal(t, "Competitor watch", enabled[0].Name)
	})

	t.Run("update last run", func(t *testing.T) {
		now := time.Now().UTC()
		require.NoError(t, repo.UpdateLastRun(ctx, radar.ID, now))

		got, err := repo.Get(ctx, radar.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastRunAt)
		assert.WithinDuration(t, now, *got.LastRunAt, time.Second)
	})
}
