package models

// Post is one LinkedIn post as normalized at the data-client boundary.
// The upstream API returns several different JSON shapes for posts; the
// client flattens them into this struct so nothing downstream branches on
// response shape.
type Post struct {
	URL        string `json:"post_url"`
	Text       string `json:"text,omitempty"`
	AuthorName string `json:"author_name,omitempty"`
	PostedAt   string `json:"posted_at,omitempty"`
}

// RawReaction is one reactor on one monitored post, before any scoring.
// Ephemeral: produced by the data client, consumed by deduplication.
type RawReaction struct {
	// SourceTarget is the radar target that produced this reaction
	// (company slug, person profile URL, or keyword).
	SourceTarget string `json:"source_target"`

	PostURL  string `json:"post_url"`
	PostDate string `json:"post_date"`
	PostText string `json:"post_text,omitempty"`

	ReactorName       string `json:"reactor_name"`
	ReactorURN        string `json:"reactor_urn"`
	ProfileURL        string `json:"profile_url"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	Headline          string `json:"headline"`
	ReactionType      string `json:"reaction_type"`
}

// DedupKey identifies a reactor for deduplication: the URN when present,
// falling back to the profile URL for reactions the API returned without one.
func (r *RawReaction) DedupKey() string {
	if r.ReactorURN != "" {
		return r.ReactorURN
	}
	return r.ProfileURL
}

// ProfileDetail is the enrichment payload for one person.
type ProfileDetail struct {
	Username          string             `json:"username,omitempty"`
	ProfileURL        string             `json:"profile_url,omitempty"`
	FullName          string             `json:"full_name,omitempty"`
	Headline          string             `json:"headline,omitempty"`
	Location          string             `json:"location,omitempty"`
	CurrentCompany    string             `json:"current_company,omitempty"`
	CurrentCompanyURN string             `json:"current_company_urn,omitempty"`
	Experience        []ExperienceEntry  `json:"experience,omitempty"`
	Education         []EducationEntry   `json:"education,omitempty"`
	Skills            []string           `json:"skills,omitempty"`
}

// ExperienceEntry is one position in a profile's work history.
type ExperienceEntry struct {
	Title      string `json:"title,omitempty"`
	Company    string `json:"company,omitempty"`
	CompanyURN string `json:"company_id,omitempty"`
	IsCurrent  bool   `json:"is_current,omitempty"`
	Duration   string `json:"duration,omitempty"`
}

// EducationEntry is one school in a profile's education history.
type EducationEntry struct {
	School string `json:"school,omitempty"`
	Degree string `json:"degree,omitempty"`
}

// CurrentEmployer returns the profile's current employer URN and name,
// preferring the top-level fields and falling back to the experience list.
func (p *ProfileDetail) CurrentEmployer() (urn, name string) {
	urn = p.CurrentCompanyURN
	name = p.CurrentCompany
	if urn == "" {
		for _, exp := range p.Experience {
			if exp.IsCurrent {
				urn = exp.CompanyURN
				if name == "" {
					name = exp.Company
				}
				break
			}
		}
	}
	return urn, name
}

// CompanyDetail is the enrichment payload for one company.
type CompanyDetail struct {
	URN          string `json:"urn,omitempty"`
	Name         string `json:"name,omitempty"`
	Industry     string `json:"industry,omitempty"`
	EmployeeSize string `json:"employee_size,omitempty"`
	Headquarters string `json:"headquarters,omitempty"`
	Website      string `json:"website,omitempty"`
	Description  string `json:"description,omitempty"`
}
