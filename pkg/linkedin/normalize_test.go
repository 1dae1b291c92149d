package linkedin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsernameFromProfileURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"plain", "https://www.linkedin.com/in/jane-doe", "jane-doe"},
		{"trailing slash", "https://www.linkedin.com/in/jane-doe/", "jane-doe"},
		{"query string", "https://www.linkedin.com/in/jane-doe?trk=feed", "jane-doe"},
		{"no in segment", "https://www.linkedin.com/company/acme", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UsernameFromProfileURL(tt.url))
		})
	}
}

func TestCanonicalProfileURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		urn      string
		expected string
	}{
		{
			name:     "already canonical",
			url:      "https://www.linkedin.com/in/jane-doe",
			expected: "https://www.linkedin.com/in/jane-doe",
		},
		{
			name:     "bare host gets www",
			url:      "https://linkedin.com/in/jane-doe",
			expected: "https://www.linkedin.com/in/jane-doe",
		},
		{
			name:     "http upgraded",
			url:      "http://www.linkedin.com/in/jane-doe/",
			expected: "https://www.linkedin.com/in/jane-doe",
		},
		{
			name:     "empty url synthesized from urn",
			urn:      "ACoAAB12345",
			expected: "https://www.linkedin.com/in/ACoAAB12345",
		},
		{
			name:     "both empty",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalProfileURL(tt.url, tt.urn))
		})
	}
}

func TestPostsResponseNormalizeVariants(t *testing.T) {
	resp := postsResponse{}
	resp.Data.Posts = []rawPost{
		{PostURL: "https://www.linkedin.com/posts/a", Text: "hello"},
		{ShareURL: "https://www.linkedin.com/posts/b", Commentary: "world"},
		{}, // no URL, dropped
	}

	posts := resp.normalize()
	assert.Len(t, posts, 2)
	assert.Equal(t, "https://www.linkedin.com/posts/a", posts[0].URL)
	assert.Equal(t, "hello", posts[0].Text)
	assert.Equal(t, "https://www.linkedin.com/posts/b", posts[1].URL)
	assert.Equal(t, "world", posts[1].Text)
}

func TestReactionsResponseNormalizeFlatVariant(t *testing.T) {
	resp := reactionsResponse{}
	resp.Data.Reactions = []rawReaction{
		{
			ReactionType: "LIKE",
			Name:         "Jane Doe",
			URN:          "urn-1",
			ProfileURL:   "https://linkedin.com/in/jane-doe",
			Headline:     "VP of Sales",
		},
	}

	reactions := resp.normalize("https://www.linkedin.com/posts/x")
	assert.Len(t, reactions, 1)
	assert.Equal(t, "Jane Doe", reactions[0].ReactorName)
	assert.Equal(t, "urn-1", reactions[0].ReactorURN)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", reactions[0].ProfileURL)
	assert.Equal(t, "https://www.linkedin.com/posts/x", reactions[0].PostURL)
}
