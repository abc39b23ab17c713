package locating

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/fern/pkg/models"
)

func testLogger() ectologger.Logger {
	return zapadapter.NewZapEctoLogger(zap.NewNop(), nil)
}

type fakeSearcher struct {
	byTitle      []models.Campaign
	byText       []models.Campaign
	byTokens     []models.Campaign
	titleErr     error
	textErr      error
	tokensErr    error
	titleCalls   int
	textCalls    int
	tokensCalls  int
	lastFirst    string
	lastLast     string
	lastExcluded []string
}

func (f *fakeSearcher) SearchByTitle(ctx context.Context, title string, excludeIDs []string, readOnly bool) ([]models.Campaign, error) {
	f.titleCalls++
	f.lastExcluded = excludeIDs
	return f.byTitle, f.titleErr
}

func (f *fakeSearcher) SearchByText(ctx context.Context, text string, stateCode string, excludeIDs []string, readOnly bool) ([]models.Campaign, error) {
	f.textCalls++
	return f.byText, f.textErr
}

func (f *fakeSearcher) SearchByNameTokens(ctx context.Context, firstName string, lastName string, stateCode string, excludeIDs []string, readOnly bool) ([]models.Campaign, error) {
	f.tokensCalls++
	f.lastFirst = firstName
	f.lastLast = lastName
	return f.byTokens, f.tokensErr
}

func TestFindSimilarUniqueTitleHit(t *testing.T) {
	searcher := &fakeSearcher{byTitle: []models.Campaign{{CampaignID: "c1"}}}
	locator := NewLocator(searcher, testLogger())

	result := locator.FindSimilar(context.Background(), Query{Title: "Vote for Jane"}, true)

	assert.True(t, result.Found)
	require.NotNil(t, result.Candidate)
	assert.Equal(t, "c1", result.Candidate.CampaignID)
	assert.True(t, result.Diagnostics.HasCode("FOUND_UNIQUE_BY_TITLE"))

	// the walk must stop at the first tier that hits
	assert.Equal(t, 0, searcher.textCalls)
	assert.Equal(t, 0, searcher.tokensCalls)
}

func TestFindSimilarMultipleHitsAreNotAutoCandidate(t *testing.T) {
	searcher := &fakeSearcher{byTitle: []models.Campaign{{CampaignID: "c1"}, {CampaignID: "c2"}}}
	locator := NewLocator(searcher, testLogger())

	result := locator.FindSimilar(context.Background(), Query{Title: "Vote for Jane"}, true)

	assert.False(t, result.Found)
	assert.Nil(t, result.Candidate)
	assert.Len(t, result.Candidates, 2)
	assert.True(t, result.Diagnostics.HasCode("FOUND_MULTIPLE_BY_TITLE"))
}

func TestFindSimilarFallsThroughTiers(t *testing.T) {
	searcher := &fakeSearcher{byTokens: []models.Campaign{{CampaignID: "c3"}}}
	locator := NewLocator(searcher, testLogger())

	result := locator.FindSimilar(context.Background(), Query{
		Title:          "Vote for Jane",
		PoliticianName: "Jane Smith",
	}, true)

	assert.True(t, result.Found)
	assert.Equal(t, "c3", result.Candidate.CampaignID)
	assert.True(t, result.Diagnostics.HasCode("FOUND_UNIQUE_BY_NAME_TOKENS"))
	assert.Equal(t, 1, searcher.titleCalls)
	assert.Equal(t, 1, searcher.textCalls)

	// tokens derived from the politician name
	assert.Equal(t, "Jane", searcher.lastFirst)
	assert.Equal(t, "Smith", searcher.lastLast)
}

func TestFindSimilarNoHits(t *testing.T) {
	searcher := &fakeSearcher{}
	locator := NewLocator(searcher, testLogger())

	result := locator.FindSimilar(context.Background(), Query{
		Title:          "Vote for Jane",
		PoliticianName: "Jane Smith",
	}, true)

	assert.False(t, result.Found)
	assert.Empty(t, result.Candidates)
	assert.True(t, result.Diagnostics.HasCode("NO_SIMILAR_CAMPAIGNS_FOUND"))
}

func TestFindSimilarSkipsTokenTierForSingleToken(t *testing.T) {
	searcher := &fakeSearcher{}
	locator := NewLocator(searcher, testLogger())

	locator.FindSimilar(context.Background(), Query{PoliticianName: "Cher"}, true)

	// first and last resolve to the same token, so the tier is skipped
	assert.Equal(t, 0, searcher.tokensCalls)
}

func TestFindSimilarSearchFailureBecomesDiagnostic(t *testing.T) {
	searcher := &fakeSearcher{titleErr: errors.New("db down")}
	locator := NewLocator(searcher, testLogger())

	result := locator.FindSimilar(context.Background(), Query{Title: "Vote for Jane"}, true)

	assert.False(t, result.Found)
	assert.True(t, result.Diagnostics.HasCode("TITLE_SEARCH_FAILED"))
	assert.Equal(t, 0, searcher.textCalls)
}

func TestFindSimilarPassesExcludeIDs(t *testing.T) {
	searcher := &fakeSearcher{}
	locator := NewLocator(searcher, testLogger())

	locator.FindSimilar(context.Background(), Query{
		Title:      "Vote for Jane",
		ExcludeIDs: []string{"self", "known-distinct"},
	}, true)

	assert.Equal(t, []string{"self", "known-distinct"}, searcher.lastExcluded)
}
