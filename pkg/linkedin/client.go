package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/leadscope/leadscope-engine/pkg/apperrors"
	"github.com/leadscope/leadscope-engine/pkg/config"
	"github.com/leadscope/leadscope-engine/pkg/logging"
	"github.com/leadscope/leadscope-engine/pkg/models"
	"github.com/leadscope/leadscope-engine/pkg/retry"
)

const (
	// maxKeywordPages caps keyword search pagination.
	maxKeywordPages = 10

	// maxReactionPages caps reaction pagination per post.
	maxReactionPages = 50
)

// APIError is a failed data-API request. Implements retry.RetryableError
// and retry.RetryAfterHint so the retry loop can honor Retry-After on 429s.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
	RetryIn    time.Duration
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("linkedin api %s: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("linkedin api %s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// IsRetryable reports whether the request can be retried. Rate limits,
// server errors, and transport failures are retryable; client errors are not.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode == 0 || e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// RetryAfter returns the server-requested wait, zero when none was given.
func (e *APIError) RetryAfter() time.Duration {
	return e.RetryIn
}

// Client calls the RapidAPI LinkedIn data service.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	rotator      *CredentialRotator
	logger       *zap.Logger
	retryCfg     *retry.Config
	requestDelay time.Duration

	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient creates a data-API client with credential rotation.
func NewClient(cfg config.LinkedInConfig, logger *zap.Logger) *Client {
	retryCfg := retry.DefaultConfig()
	if cfg.MaxRetries > 0 {
		retryCfg.MaxRetries = cfg.MaxRetries
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		baseURL:      cfg.BaseURL,
		rotator:      NewCredentialRotator(cfg.Credentials),
		logger:       logger.Named("linkedin"),
		retryCfg:     retryCfg,
		requestDelay: time.Duration(cfg.RequestDelayMillis) * time.Millisecond,
	}
}

// pace enforces the configured delay between consecutive outbound requests.
func (c *Client) pace(ctx context.Context) error {
	c.mu.Lock()
	wait := c.requestDelay - time.Since(c.lastRequest)
	c.lastRequest = time.Now().Add(wait)
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// get performs a GET against the data API. The current credential is tried
// with retries first; if it exhausts its retries every other enabled key
// gets one round before the request fails. A success rotates to the next
// key so load spreads across the pool.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	creds := c.rotator.Ordered()
	if len(creds) == 0 {
		return nil, apperrors.ErrNoCredentials
	}

	if err := c.pace(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for i, cred := range creds {
		cred := cred
		body, err := retry.DoWithResult(ctx, c.retryCfg, func() ([]byte, error) {
			return c.getWithCredential(ctx, cred, path, params)
		})
		if err == nil {
			c.rotator.Advance()
			return body, nil
		}
		lastErr = err
		if i < len(creds)-1 {
			c.logger.Warn("credential exhausted, trying next key",
				zap.String("endpoint", path),
				zap.String("api_key", logging.MaskKey(cred.APIKey)),
				zap.Error(err),
			)
		}
	}
	return nil, lastErr
}

func (c *Client) getWithCredential(ctx context.Context, cred config.Credential, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", cred.APIKey)
	req.Header.Set("x-rapidapi-host", cred.APIHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Endpoint: path, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Endpoint: path, Message: fmt.Sprintf("failed to read body: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Message:    logging.TruncateString(string(body), 200),
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			if secs, parseErr := strconv.Atoi(resp.Header.Get("Retry-After")); parseErr == nil && secs > 0 {
				apiErr.RetryIn = time.Duration(secs) * time.Second
			}
		}
		return nil, apiErr
	}

	return body, nil
}

// CompanyPosts fetches the most recent posts of a company page.
func (c *Client) CompanyPosts(ctx context.Context, company string, limit int) ([]models.Post, error) {
	params := url.Values{}
	params.Set("company_name", strings.ToLower(company))

	body, err := c.get(ctx, "/company/posts", params)
	if err != nil {
		return nil, err
	}

	var resp postsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode company posts: %w", err)
	}

	posts := resp.normalize()
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}

	c.logger.Debug("fetched company posts",
		zap.String("company", company),
		zap.Int("count", len(posts)),
	)
	return posts, nil
}

// ProfilePosts fetches the most recent posts of a person. The API keys
// profiles on username, so the slug is pulled out of the profile URL;
// a bare username is passed through as-is.
func (c *Client) ProfilePosts(ctx context.Context, profileURL string, limit int) ([]models.Post, error) {
	username := UsernameFromProfileURL(profileURL)
	if username == "" {
		username = profileURL
	}

	params := url.Values{}
	params.Set("username", username)
	params.Set("page_number", "1")

	body, err := c.get(ctx, "/profile/posts", params)
	if err != nil {
		return nil, err
	}

	var resp postsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode profile posts: %w", err)
	}

	posts := resp.normalize()
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}

	c.logger.Debug("fetched profile posts",
		zap.String("profile_url", profileURL),
		zap.Int("count", len(posts)),
	)
	return posts, nil
}

// SearchPosts fetches posts matching a keyword, paginating until the limit
// is reached, a page comes back empty, or the page cap hits.
func (c *Client) SearchPosts(ctx context.Context, keyword string, limit int) ([]models.Post, error) {
	var posts []models.Post

	for page := 1; page <= maxKeywordPages; page++ {
		params := url.Values{}
		params.Set("keyword", keyword)
		params.Set("page_number", strconv.Itoa(page))
		params.Set("sort_type", "date_posted")

		body, err := c.get(ctx, "/posts/search", params)
		if err != nil {
			// Keep what earlier pages returned
			if len(posts) > 0 {
				c.logger.Warn("keyword search page failed, keeping partial results",
					zap.String("keyword", keyword),
					zap.Int("page", page),
					zap.Error(err),
				)
				break
			}
			return nil, err
		}

		var resp postsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode post search: %w", err)
		}

		pagePosts := resp.normalize()
		if len(pagePosts) == 0 {
			break
		}
		posts = append(posts, pagePosts...)
		if limit > 0 && len(posts) >= limit {
			posts = posts[:limit]
			break
		}
	}

	c.logger.Debug("searched posts",
		zap.String("keyword", keyword),
		zap.Int("count", len(posts)),
	)
	return posts, nil
}

// PostReactions fetches every reactor of a post, paginating until the
// reported total is collected, a page comes back empty, or the page cap
// hits.
func (c *Client) PostReactions(ctx context.Context, postURL string) ([]models.RawReaction, error) {
	var reactions []models.RawReaction
	total := -1

	for page := 1; page <= maxReactionPages; page++ {
		params := url.Values{}
		params.Set("post_url", postURL)
		params.Set("page_number", strconv.Itoa(page))
		params.Set("reaction_type", "ALL")

		body, err := c.get(ctx, "/post/reactions", params)
		if err != nil {
			if len(reactions) > 0 {
				c.logger.Warn("reaction page failed, keeping partial results",
					zap.String("post_url", postURL),
					zap.Int("page", page),
					zap.Error(err),
				)
				break
			}
			return nil, err
		}

		var resp reactionsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode reactions: %w", err)
		}

		pageReactions := resp.normalize(postURL)
		if len(pageReactions) == 0 {
			break
		}
		reactions = append(reactions, pageReactions...)

		if resp.Data.TotalReactions > 0 {
			total = resp.Data.TotalReactions
		}
		if total >= 0 && len(reactions) >= total {
			break
		}
	}

	c.logger.Debug("fetched post reactions",
		zap.String("post_url", postURL),
		zap.Int("count", len(reactions)),
	)
	return reactions, nil
}

// ProfileDetail fetches the full profile for a username.
func (c *Client) ProfileDetail(ctx context.Context, username string) (*models.ProfileDetail, error) {
	params := url.Values{}
	params.Set("username", username)

	body, err := c.get(ctx, "/profile/detail", params)
	if err != nil {
		return nil, err
	}

	var resp profileResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode profile detail: %w", err)
	}

	return resp.normalize(), nil
}

// CompanyDetail fetches the full company record for a URN or public name.
func (c *Client) CompanyDetail(ctx context.Context, identifier string) (*models.CompanyDetail, error) {
	params := url.Values{}
	params.Set("identifier", identifier)

	body, err := c.get(ctx, "/companies/detail", params)
	if err != nil {
		return nil, err
	}

	var resp companyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode company detail: %w", err)
	}

	return resp.normalize(), nil
}
