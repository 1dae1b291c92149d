package scoring

import (
	"strings"

	"go.uber.org/zap"

	"github.com/leadscope/leadscope-engine/pkg/models"
)

// similarityThreshold is the fuzzy-match cutoff for employer vs competitor
// names. Below this, names are considered different companies.
const similarityThreshold = 0.8

// employerMarkers split a headline into "title <marker> employer".
var employerMarkers = []string{" at ", " @ ", " chez ", " bei ", " en "}

// CompetitorFilter drops reactors who work for a known competitor, keyed on
// the headline employer. First matching competitor wins.
type CompetitorFilter struct {
	competitors []models.Competitor
	logger      *zap.Logger
}

// NewCompetitorFilter creates a filter over the client's competitor list.
func NewCompetitorFilter(competitors []models.Competitor, logger *zap.Logger) *CompetitorFilter {
	return &CompetitorFilter{
		competitors: competitors,
		logger:      logger.Named("competitor_filter"),
	}
}

// Match reports whether the reactor appears to work for a competitor, and
// which one. An empty headline never matches.
func (f *CompetitorFilter) Match(reaction *models.RawReaction) (bool, string) {
	if reaction.Headline == "" || len(f.competitors) == 0 {
		return false, ""
	}

	headline := normalizeName(reaction.Headline)
	employer := ExtractEmployer(reaction.Headline)

	for _, comp := range f.competitors {
		compName := normalizeName(comp.CompanyName)
		if compName == "" {
			continue
		}

		// Direct containment either way
		if strings.Contains(headline, compName) {
			return true, comp.CompanyName
		}
		if employer != "" && strings.Contains(compName, employer) {
			return true, comp.CompanyName
		}

		// Fuzzy match on the extracted employer
		if employer != "" && Ratio(employer, compName) >= similarityThreshold {
			return true, comp.CompanyName
		}

		// Competitor name appearing in the reactor's profile URL
		if reaction.ProfileURL != "" && strings.Contains(strings.ToLower(reaction.ProfileURL), compName) {
			return true, comp.CompanyName
		}

		// Company URL slug appearing in the headline or profile URL
		if slug := companySlug(comp.CompanyURL); slug != "" {
			if strings.Contains(headline, slug) || strings.Contains(strings.ToLower(reaction.ProfileURL), slug) {
				return true, comp.CompanyName
			}
		}
	}

	return false, ""
}

// Filter partitions reactions into kept and dropped, logging each drop.
func (f *CompetitorFilter) Filter(reactions []models.RawReaction) (kept []models.RawReaction, dropped int) {
	kept = make([]models.RawReaction, 0, len(reactions))
	for _, r := range reactions {
		if matched, name := f.Match(&r); matched {
			dropped++
			f.logger.Debug("dropped competitor employee",
				zap.String("reactor", r.ReactorName),
				zap.String("competitor", name),
			)
			continue
		}
		kept = append(kept, r)
	}
	return kept, dropped
}

// ExtractEmployer pulls the employer name out of a headline like
// "VP of Sales at Acme | Revenue leader". Returns "" when no marker is found.
func ExtractEmployer(headline string) string {
	lower := strings.ToLower(headline)
	for _, marker := range employerMarkers {
		idx := strings.Index(lower, marker)
		if idx == -1 {
			continue
		}
		employer := headline[idx+len(marker):]
		// Cut at the first separator that starts a new headline segment
		for _, sep := range []string{"|", "•", " - ", ",", ";"} {
			if cut := strings.Index(employer, sep); cut != -1 {
				employer = employer[:cut]
			}
		}
		return normalizeName(employer)
	}
	return ""
}

func companySlug(companyURL string) string {
	lower := strings.ToLower(companyURL)
	idx := strings.Index(lower, "/company/")
	if idx == -1 {
		return ""
	}
	slug := lower[idx+len("/company/"):]
	if end := strings.IndexAny(slug, "/?#"); end != -1 {
		slug = slug[:end]
	}
	return strings.TrimSpace(slug)
}
