package usecase

import (
	"strings"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
	"github.com/tmoody1973/hakivo-sync/internal/core/ports"
)

const (
	agencyMatchPoints  = 30
	significantPoints  = 20
	rulePoints         = 15
	proposedRulePoints = 10
	commentOpenPoints  = 10

	maxScore = 100
)

// ScoreResult carries the relevance score plus the agency names that matched
// the profile's interests, kept for notification explainability.
type ScoreResult struct {
	Score           int
	MatchedAgencies []string
}

// ScoreDocument computes the 0-100 relevance of a document for one set of
// policy interests. It is a pure function of its inputs: no I/O, no clock.
//
// The agency bonus is awarded at most once no matter how many interests or
// agencies match, but every matching agency name is collected.
func ScoreDocument(doc domain.RegulatoryDocument, interests []string, taxonomy ports.InterestTaxonomy) ScoreResult {
	matched := matchAgencies(doc.AgencyNames, interests, taxonomy)

	score := 0
	if len(matched) > 0 {
		score += agencyMatchPoints
	}
	if doc.IsSignificant {
		score += significantPoints
	}
	switch doc.Category {
	case domain.CategoryRule, domain.CategoryPresidential:
		score += rulePoints
	case domain.CategoryProposedRule:
		score += proposedRulePoints
	}
	if doc.CommentsCloseOn != nil {
		score += commentOpenPoints
	}

	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}
	return ScoreResult{Score: score, MatchedAgencies: matched}
}

func matchAgencies(agencies, interests []string, taxonomy ports.InterestTaxonomy) []string {
	if taxonomy == nil || len(agencies) == 0 || len(interests) == 0 {
		return nil
	}

	var matched []string
	seen := make(map[string]bool)
	for _, interest := range interests {
		for _, fragment := range taxonomy.AgencyFragments(interest) {
			for _, agency := range agencies {
				if !agencyMatches(agency, fragment) || seen[agency] {
					continue
				}
				seen[agency] = true
				matched = append(matched, agency)
			}
		}
	}
	return matched
}

// agencyMatches is a case-insensitive substring check in either direction:
// the document's agency name may contain the taxonomy fragment, or a long
// fragment may contain a short agency name.
func agencyMatches(agency, fragment string) bool {
	a := strings.ToLower(strings.TrimSpace(agency))
	f := strings.ToLower(strings.TrimSpace(fragment))
	if a == "" || f == "" {
		return false
	}
	return strings.Contains(a, f) || strings.Contains(f, a)
}
