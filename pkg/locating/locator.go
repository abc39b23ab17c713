// Package locating finds campaigns that may duplicate an existing one. The
// search runs in tiers and stops at the first tier that produces hits, so a
// strong title match is never diluted by weaker text matches.
package locating

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/tracing"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/names"
)

// CampaignSearcher is the slice of the campaign repository the locator needs
type CampaignSearcher interface {
	SearchByTitle(ctx context.Context, title string, excludeIDs []string, readOnly bool) ([]models.Campaign, error)
	SearchByText(ctx context.Context, text string, stateCode string, excludeIDs []string, readOnly bool) ([]models.Campaign, error)
	SearchByNameTokens(ctx context.Context, firstName string, lastName string, stateCode string, excludeIDs []string, readOnly bool) ([]models.Campaign, error)
}

// Query describes the campaign being checked for duplicates
type Query struct {
	Title          string
	PoliticianName string
	FirstName      string
	LastName       string
	StateCode      string
	ExcludeIDs     []string
}

// Result reports what the tier walk produced. Exactly one hit sets Found and
// Candidate; several hits fill Candidates and leave Found unset.
type Result struct {
	Found       bool               `json:"found"`
	Candidate   *models.Campaign   `json:"candidate,omitempty"`
	Candidates  []models.Campaign  `json:"candidates,omitempty"`
	Diagnostics models.Diagnostics `json:"diagnostics,omitempty"`
}

// Locator walks the search tiers
type Locator struct {
	searcher CampaignSearcher
	logger   ectologger.Logger
}

// NewLocator creates a new locator
func NewLocator(searcher CampaignSearcher, logger ectologger.Logger) *Locator {
	return &Locator{
		searcher: searcher,
		logger:   logger,
	}
}

// FindSimilar runs the tier walk. Search failures are reported as
// diagnostics on the result, never raised; the caller decides what a failed
// search means for its flow.
func (l *Locator) FindSimilar(ctx context.Context, query Query, readOnly bool) *Result {
	ctx, span := tracing.StartSpan(ctx, "locating.Locator.FindSimilar")
	defer span.End()

	result := &Result{}

	// Tier one: exact title, ignoring case
	if query.Title != "" {
		campaigns, err := l.searcher.SearchByTitle(ctx, query.Title, query.ExcludeIDs, readOnly)
		if err != nil {
			result.Diagnostics.Add("TITLE_SEARCH_FAILED", err.Error())
			return result
		}
		if l.settle(result, campaigns, "TITLE") {
			return result
		}
	}

	// Tier two: politician name as free text in title or description
	if query.PoliticianName != "" {
		campaigns, err := l.searcher.SearchByText(ctx, query.PoliticianName, query.StateCode, query.ExcludeIDs, readOnly)
		if err != nil {
			result.Diagnostics.Add("TEXT_SEARCH_FAILED", err.Error())
			return result
		}
		if l.settle(result, campaigns, "POLITICIAN_NAME") {
			return result
		}
	}

	// Tier three: first and last name tokens must both appear
	firstName := query.FirstName
	lastName := query.LastName
	if firstName == "" && query.PoliticianName != "" {
		firstName = names.ExtractFirstName(query.PoliticianName)
	}
	if lastName == "" && query.PoliticianName != "" {
		lastName = names.ExtractLastName(query.PoliticianName)
	}
	if firstName != "" && lastName != "" && firstName != lastName {
		campaigns, err := l.searcher.SearchByNameTokens(ctx, firstName, lastName, query.StateCode, query.ExcludeIDs, readOnly)
		if err != nil {
			result.Diagnostics.Add("NAME_TOKEN_SEARCH_FAILED", err.Error())
			return result
		}
		if l.settle(result, campaigns, "NAME_TOKENS") {
			return result
		}
	}

	result.Diagnostics.Add("NO_SIMILAR_CAMPAIGNS_FOUND", "")
	return result
}

// settle folds one tier's hits into the result. Returns true when the walk
// should stop.
func (l *Locator) settle(result *Result, campaigns []models.Campaign, tier string) bool {
	switch len(campaigns) {
	case 0:
		return false
	case 1:
		campaign := campaigns[0]
		result.Found = true
		result.Candidate = &campaign
		result.Diagnostics.Add(fmt.Sprintf("FOUND_UNIQUE_BY_%s", tier), "")
	default:
		result.Candidates = campaigns
		result.Diagnostics.Add(fmt.Sprintf("FOUND_MULTIPLE_BY_%s", tier), fmt.Sprintf("%d candidates", len(campaigns)))
	}
	return true
}
