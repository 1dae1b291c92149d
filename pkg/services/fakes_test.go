package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leadscope/leadscope-engine/pkg/apperrors"
	"github.com/leadscope/leadscope-engine/pkg/models"
)

// In-memory fakes for the repository interfaces, enough for pipeline tests.

type fakeRadarRepo struct {
	mu       sync.Mutex
	radars   map[uuid.UUID]*models.Radar
	lastRuns map[uuid.UUID]time.Time
}

func newFakeRadarRepo() *fakeRadarRepo {
	return &fakeRadarRepo{
		radars:   make(map[uuid.UUID]*models.Radar),
		lastRuns: make(map[uuid.UUID]time.Time),
	}
}

func (f *fakeRadarRepo) add(radar *models.Radar) {
	if radar.ID == uuid.Nil {
		radar.ID = uuid.New()
	}
	f.radars[radar.ID] = radar
}

func (f *fakeRadarRepo) Create(ctx context.Context, radar *models.Radar) error {
	f.add(radar)
	return nil
}

func (f *fakeRadarRepo) Get(ctx context.Context, id uuid.UUID) (*models.Radar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	radar, ok := f.radars[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *radar
	return &copied, nil
}

func (f *fakeRadarRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Radar, error) {
	var out []*models.Radar
	for _, r := range f.radars {
		if r.ClientID == clientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRadarRepo) ListEnabled(ctx context.Context) ([]*models.Radar, error) {
	var out []*models.Radar
	for _, r := range f.radars {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRadarRepo) Update(ctx context.Context, radar *models.Radar) error {
	f.radars[radar.ID] = radar
	return nil
}

func (f *fakeRadarRepo) UpdateLastRun(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.radars[id]; !ok {
		return apperrors.ErrNotFound
	}
	f.lastRuns[id] = at
	return nil
}

func (f *fakeRadarRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.radars, id)
	return nil
}

type fakeProspectRepo struct {
	mu        sync.Mutex
	prospects map[string]*models.Prospect
	upserts   int
}

func newFakeProspectRepo() *fakeProspectRepo {
	return &fakeProspectRepo{prospects: make(map[string]*models.Prospect)}
}

func prospectKey(clientID uuid.UUID, urn, postURL string) string {
	return fmt.Sprintf("%s|%s|%s", clientID, urn, postURL)
}

func (f *fakeProspectRepo) Upsert(ctx context.Context, p *models.Prospect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	key := prospectKey(p.ClientID, p.ReactorURN, p.PostURL)
	if existing, ok := f.prospects[key]; ok {
		p.ID = existing.ID
	} else if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	copied := *p
	f.prospects[key] = &copied
	return nil
}

func (f *fakeProspectRepo) Get(ctx context.Context, clientID uuid.UUID, urn, postURL string) (*models.Prospect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.prospects[prospectKey(clientID, urn, postURL)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return p, nil
}

func (f *fakeProspectRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*models.Prospect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Prospect
	for _, p := range f.prospects {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProspectRepo) ListReactorKeys(ctx context.Context, clientID uuid.UUID) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make(map[string]struct{})
	for _, p := range f.prospects {
		if p.ClientID != clientID {
			continue
		}
		if p.ReactorURN != "" {
			keys[p.ReactorURN] = struct{}{}
		}
		if p.ProfileURL != "" {
			keys[p.ProfileURL] = struct{}{}
		}
	}
	return keys, nil
}

func (f *fakeProspectRepo) UpdateMessage(ctx context.Context, id uuid.UUID, message string) error {
	for _, p := range f.prospects {
		if p.ID == id {
			p.PersonalizedMessage = message
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeProspectRepo) UpdateScoring(ctx context.Context, id uuid.UUID, relevant bool, scoring models.ScoringResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.prospects {
		if p.ID == id {
			p.Relevant = relevant
			p.RelevanceScore = scoring.TotalScore
			p.Scoring = scoring
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeProspectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for key, p := range f.prospects {
		if p.ID == id {
			delete(f.prospects, key)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakeCompetitorRepo struct {
	competitors []models.Competitor
}

func (f *fakeCompetitorRepo) Create(ctx context.Context, c *models.Competitor) error {
	f.competitors = append(f.competitors, *c)
	return nil
}

func (f *fakeCompetitorRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Competitor, error) {
	return f.competitors, nil
}

func (f *fakeCompetitorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type fakePersonaRepo struct {
	persona *models.PersonaProfile
}

func (f *fakePersonaRepo) GetByClient(ctx context.Context, clientID uuid.UUID) (*models.PersonaProfile, error) {
	if f.persona == nil {
		return nil, apperrors.ErrNotFound
	}
	return f.persona, nil
}

func (f *fakePersonaRepo) Upsert(ctx context.Context, persona *models.PersonaProfile) error {
	f.persona = persona
	return nil
}

type fakeCompanyCache struct {
	mu      sync.Mutex
	entries map[string]*models.CompanyDetail
	hits    int
	misses  int
}

func newFakeCompanyCache() *fakeCompanyCache {
	return &fakeCompanyCache{entries: make(map[string]*models.CompanyDetail)}
}

func (f *fakeCompanyCache) Get(ctx context.Context, key string) (*models.CompanyDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if detail, ok := f.entries[key]; ok {
		f.hits++
		return detail, nil
	}
	f.misses++
	return nil, apperrors.ErrNotFound
}

func (f *fakeCompanyCache) Save(ctx context.Context, key string, detail *models.CompanyDetail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = detail
	return nil
}

// fakeDataClient serves canned posts and reactions.
type fakeDataClient struct {
	postsByTarget    map[string][]models.Post
	reactionsByPost  map[string][]models.RawReaction
	profiles         map[string]*models.ProfileDetail
	companies        map[string]*models.CompanyDetail
	companyCalls     int
	profileCalls     int
	reactionCalls    int
	failProfileCalls bool
}

func newFakeDataClient() *fakeDataClient {
	return &fakeDataClient{
		postsByTarget:   make(map[string][]models.Post),
		reactionsByPost: make(map[string][]models.RawReaction),
		profiles:        make(map[string]*models.ProfileDetail),
		companies:       make(map[string]*models.CompanyDetail),
	}
}

func (f *fakeDataClient) CompanyPosts(ctx context.Context, company string, limit int) ([]models.Post, error) {
	return f.posts(company, limit)
}

func (f *fakeDataClient) ProfilePosts(ctx context.Context, profileURL string, limit int) ([]models.Post, error) {
	return f.posts(profileURL, limit)
}

func (f *fakeDataClient) SearchPosts(ctx context.Context, keyword string, limit int) ([]models.Post, error) {
	return f.posts(keyword, limit)
}

func (f *fakeDataClient) posts(target string, limit int) ([]models.Post, error) {
	posts, ok := f.postsByTarget[target]
	if !ok {
		return nil, fmt.Errorf("no posts for target %q", target)
	}
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (f *fakeDataClient) PostReactions(ctx context.Context, postURL string) ([]models.RawReaction, error) {
	f.reactionCalls++
	return f.reactionsByPost[postURL], nil
}

func (f *fakeDataClient) ProfileDetail(ctx context.Context, username string) (*models.ProfileDetail, error) {
	f.profileCalls++
	if f.failProfileCalls {
		return nil, fmt.Errorf("profile lookup unavailable")
	}
	profile, ok := f.profiles[username]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return profile, nil
}

func (f *fakeDataClient) CompanyDetail(ctx context.Context, identifier string) (*models.CompanyDetail, error) {
	f.companyCalls++
	company, ok := f.companies[identifier]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return company, nil
}

// scriptedScorer returns a fixed score per reactor URN.
type scriptedScorer struct {
	scores  map[string]float64
	calls   int
	stopper func()
}

func (s *scriptedScorer) Score(ctx context.Context, r *models.RawReaction, persona *models.PersonaProfile) models.ScoringResult {
	s.calls++
	if s.stopper != nil {
		s.stopper()
	}
	score, ok := s.scores[r.ReactorURN]
	if !ok {
		score = 0.1
	}
	return models.ScoringResult{TotalScore: score, UsedFallback: false}
}
