package linkedin

import (
	"strings"

	"github.com/leadscope/leadscope-engine/pkg/models"
)

// The upstream API is inconsistent about field names across endpoints and
// versions. The raw structs below carry every variant seen in the wild and
// the normalize methods collapse them into one shape.

type postsResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Posts []rawPost `json:"posts"`
	} `json:"data"`
	// Some endpoints return the array at the top level
	Posts []rawPost `json:"posts"`
}

type rawPost struct {
	URL        string `json:"url"`
	PostURL    string `json:"post_url"`
	ShareURL   string `json:"share_url"`
	Text       string `json:"text"`
	Commentary string `json:"commentary"`
	AuthorName string `json:"author_name"`
	Author     struct {
		Name string `json:"name"`
	} `json:"author"`
	PostedAt   string `json:"posted_at"`
	PostedDate string `json:"posted_date"`
}

func (r *rawPost) url() string {
	for _, u := range []string{r.PostURL, r.URL, r.ShareURL} {
		if u != "" {
			return u
		}
	}
	return ""
}

func (r *rawPost) text() string {
	if r.Text != "" {
		return r.Text
	}
	return r.Commentary
}

func (r *rawPost) authorName() string {
	if r.AuthorName != "" {
		return r.AuthorName
	}
	return r.Author.Name
}

func (r *rawPost) postedAt() string {
	if r.PostedAt != "" {
		return r.PostedAt
	}
	return r.PostedDate
}

func (p *postsResponse) normalize() []models.Post {
	raw := p.Data.Posts
	if len(raw) == 0 {
		raw = p.Posts
	}

	posts := make([]models.Post, 0, len(raw))
	for _, rp := range raw {
		u := rp.url()
		if u == "" {
			continue
		}
		posts = append(posts, models.Post{
			URL:        u,
			Text:       rp.text(),
			AuthorName: rp.authorName(),
			PostedAt:   rp.postedAt(),
		})
	}
	return posts
}

type reactionsResponse struct {
	Success bool `json:"success"`
	Data    struct {
		TotalReactions int           `json:"total_reactions"`
		Reactions      []rawReaction `json:"reactions"`
	} `json:"data"`
}

type rawReaction struct {
	ReactionType string `json:"reaction_type"`
	Actor        struct {
		Name              string `json:"name"`
		URN               string `json:"urn"`
		ProfileURL        string `json:"profile_url"`
		ProfilePictureURL string `json:"profile_picture_url"`
		Headline          string `json:"headline"`
	} `json:"actor"`
	// Flat variant
	Name       string `json:"name"`
	URN        string `json:"urn"`
	ProfileURL string `json:"profile_url"`
	Headline   string `json:"headline"`
}

func (r *reactionsResponse) normalize(postURL string) []models.RawReaction {
	reactions := make([]models.RawReaction, 0, len(r.Data.Reactions))
	for _, rr := range r.Data.Reactions {
		name := rr.Actor.Name
		if name == "" {
			name = rr.Name
		}
		urn := rr.Actor.URN
		if urn == "" {
			urn = rr.URN
		}
		profileURL := rr.Actor.ProfileURL
		if profileURL == "" {
			profileURL = rr.ProfileURL
		}
		headline := rr.Actor.Headline
		if headline == "" {
			headline = rr.Headline
		}

		reactions = append(reactions, models.RawReaction{
			PostURL:           postURL,
			ReactorName:       name,
			ReactorURN:        urn,
			ProfileURL:        CanonicalProfileURL(profileURL, urn),
			ProfilePictureURL: rr.Actor.ProfilePictureURL,
			Headline:          headline,
			ReactionType:      rr.ReactionType,
		})
	}
	return reactions
}

type profileResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Username       string `json:"username"`
		PublicID       string `json:"public_identifier"`
		ProfileURL     string `json:"profile_url"`
		FullName       string `json:"full_name"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		Headline       string `json:"headline"`
		Location       string `json:"location"`
		CurrentCompany string `json:"current_company"`
		CompanyURN     string `json:"current_company_urn"`
		Experience     []struct {
			Title     string `json:"title"`
			Company   string `json:"company"`
			CompanyID string `json:"company_id"`
			IsCurrent bool   `json:"is_current"`
			Duration  string `json:"duration"`
		} `json:"experience"`
		Education []struct {
			School string `json:"school"`
			Degree string `json:"degree"`
		} `json:"education"`
		Skills []string `json:"skills"`
	} `json:"data"`
}

func (p *profileResponse) normalize() *models.ProfileDetail {
	d := p.Data

	username := d.Username
	if username == "" {
		username = d.PublicID
	}
	fullName := d.FullName
	if fullName == "" {
		fullName = strings.TrimSpace(d.FirstName + " " + d.LastName)
	}

	detail := &models.ProfileDetail{
		Username:          username,
		ProfileURL:        CanonicalProfileURL(d.ProfileURL, ""),
		FullName:          fullName,
		Headline:          d.Headline,
		Location:          d.Location,
		CurrentCompany:    d.CurrentCompany,
		CurrentCompanyURN: d.CompanyURN,
		Skills:            d.Skills,
	}
	for _, exp := range d.Experience {
		detail.Experience = append(detail.Experience, models.ExperienceEntry{
			Title:      exp.Title,
			Company:    exp.Company,
			CompanyURN: exp.CompanyID,
			IsCurrent:  exp.IsCurrent,
			Duration:   exp.Duration,
		})
	}
	for _, edu := range d.Education {
		detail.Education = append(detail.Education, models.EducationEntry{
			School: edu.School,
			Degree: edu.Degree,
		})
	}
	if detail.ProfileURL == "" && username != "" {
		detail.ProfileURL = "https://www.linkedin.com/in/" + username
	}
	return detail
}

type companyResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URN          string `json:"urn"`
		ID           string `json:"company_id"`
		Name         string `json:"name"`
		Industry     string `json:"industry"`
		EmployeeSize string `json:"employee_size"`
		StaffRange   string `json:"staff_count_range"`
		Headquarters string `json:"headquarters"`
		Website      string `json:"website"`
		Description  string `json:"description"`
	} `json:"data"`
}

func (c *companyResponse) normalize() *models.CompanyDetail {
	d := c.Data

	urn := d.URN
	if urn == "" {
		urn = d.ID
	}
	size := d.EmployeeSize
	if size == "" {
		size = d.StaffRange
	}

	return &models.CompanyDetail{
		URN:          urn,
		Name:         d.Name,
		Industry:     d.Industry,
		EmployeeSize: size,
		Headquarters: d.Headquarters,
		Website:      d.Website,
		Description:  d.Description,
	}
}

// UsernameFromProfileURL extracts the public username from a profile URL.
// Returns "" when the URL doesn't contain an /in/ segment.
func UsernameFromProfileURL(profileURL string) string {
	idx := strings.Index(profileURL, "/in/")
	if idx == -1 {
		return ""
	}
	rest := profileURL[idx+len("/in/"):]
	if end := strings.IndexAny(rest, "/?#"); end != -1 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// CanonicalProfileURL normalizes a profile URL to the www.linkedin.com
// form. When the URL is empty and a URN is available, a URN-based URL is
// synthesized so downstream always has something clickable.
func CanonicalProfileURL(profileURL, urn string) string {
	if profileURL == "" {
		if urn == "" {
			return ""
		}
		return "https://www.linkedin.com/in/" + urn
	}

	u := strings.TrimSuffix(profileURL, "/")
	u = strings.Replace(u, "http://", "https://", 1)
	if strings.Contains(u, "://linkedin.com") {
		u = strings.Replace(u, "://linkedin.com", "://www.linkedin.com", 1)
	}
	return u
}
