package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/fern/pkg/locating"
	"github.com/Ramsey-B/fern/pkg/models"
)

func testLogger() ectologger.Logger {
	return zapadapter.NewZapEctoLogger(zap.NewNop(), nil)
}

type fakeLister struct {
	campaigns    []models.Campaign
	lastExcluded []string
	lastLimit    int
}

func (f *fakeLister) ListPoliticianLinked(ctx context.Context, stateCode string, excludeIDs []string, limit int, readOnly bool) ([]models.Campaign, error) {
	f.lastExcluded = excludeIDs
	f.lastLimit = limit
	return f.campaigns, nil
}

type fakePoliticianReader struct {
	politicians map[string]*models.Politician
}

func (f *fakePoliticianReader) GetByPoliticianID(ctx context.Context, politicianID string, readOnly bool) (*models.Politician, error) {
	politician, ok := f.politicians[politicianID]
	if !ok {
		return nil, errors.New("politician not found")
	}
	return politician, nil
}

type fakeLedger struct {
	exclusions []string
	swept      []string
	queued     [][3]string
	sweptErr   error
}

func (f *fakeLedger) SweepExclusionIDs(ctx context.Context, readOnly bool) ([]string, error) {
	return f.exclusions, nil
}

func (f *fakeLedger) MarkSwept(ctx context.Context, campaignID string) error {
	if f.sweptErr != nil {
		return f.sweptErr
	}
	f.swept = append(f.swept, campaignID)
	return nil
}

func (f *fakeLedger) UpsertPossibleDuplicate(ctx context.Context, campaignA string, campaignB string, stateCode string) error {
	f.queued = append(f.queued, [3]string{campaignA, campaignB, stateCode})
	return nil
}

type fakeVolunteers struct {
	credited []string
}

func (f *fakeVolunteers) Create(ctx context.Context, voterID string, actionKind string) (*models.VolunteerTask, error) {
	f.credited = append(f.credited, voterID+":"+actionKind)
	return &models.VolunteerTask{VoterID: voterID, ActionKind: actionKind}, nil
}

type fakeFinder struct {
	results map[string]*locating.Result
}

func (f *fakeFinder) FindSimilar(ctx context.Context, query locating.Query, readOnly bool) *locating.Result {
	if result, ok := f.results[query.Title]; ok {
		return result
	}
	return &locating.Result{}
}

type fakeResolver struct {
	outcomes map[string]*models.MergeOutcome
	err      error
	calls    [][2]string
}

func (f *fakeResolver) MergeIfDuplicate(ctx context.Context, survivor *models.Campaign, loser *models.Campaign) (*models.MergeOutcome, error) {
	f.calls = append(f.calls, [2]string{survivor.CampaignID, loser.CampaignID})
	if f.err != nil {
		return nil, f.err
	}
	if outcome, ok := f.outcomes[survivor.CampaignID]; ok {
		return outcome, nil
	}
	return &models.MergeOutcome{Merged: true, Result: &models.MergeResult{}}, nil
}

type sweepFixture struct {
	lister      *fakeLister
	politicians *fakePoliticianReader
	ledger      *fakeLedger
	volunteers  *fakeVolunteers
	finder      *fakeFinder
	resolver    *fakeResolver
	sweeper     *Sweeper
}

func newSweepFixture() *sweepFixture {
	f := &sweepFixture{
		lister:      &fakeLister{},
		politicians: &fakePoliticianReader{politicians: map[string]*models.Politician{}},
		ledger:      &fakeLedger{},
		volunteers:  &fakeVolunteers{},
		finder:      &fakeFinder{results: map[string]*locating.Result{}},
		resolver:    &fakeResolver{outcomes: map[string]*models.MergeOutcome{}},
	}
	f.sweeper = NewSweeper(testLogger(), f.lister, f.politicians, f.ledger, f.volunteers, f.finder, f.resolver, nil)
	return f
}

func politicianLinked(campaignID string, title string, politicianID string) models.Campaign {
	return models.Campaign{
		CampaignID:   campaignID,
		Title:        title,
		StateCode:    "CA",
		PoliticianID: &politicianID,
	}
}

func TestRunMarksUnmatchedCampaignsSwept(t *testing.T) {
	f := newSweepFixture()
	f.lister.campaigns = []models.Campaign{
		politicianLinked("c1", "Campaign One", "pol-1"),
		politicianLinked("c2", "Campaign Two", "pol-2"),
	}

	result, err := f.sweeper.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Examined)
	assert.Equal(t, 2, result.Swept)
	assert.Equal(t, 0, result.Merged)
	assert.ElementsMatch(t, []string{"c1", "c2"}, f.ledger.swept)
}

func TestRunAutoMergesAndSweepsBothSides(t *testing.T) {
	f := newSweepFixture()
	f.lister.campaigns = []models.Campaign{politicianLinked("c1", "Campaign One", "pol-1")}
	f.finder.results["Campaign One"] = &locating.Result{
		Found:     true,
		Candidate: &models.Campaign{CampaignID: "c9"},
	}
	f.resolver.outcomes["c1"] = &models.MergeOutcome{Merged: true, Result: &models.MergeResult{SurvivorID: "c1", LoserID: "c9"}}

	result, err := f.sweeper.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Merged)
	assert.Equal(t, [][2]string{{"c1", "c9"}}, f.resolver.calls)
	assert.ElementsMatch(t, []string{"c1", "c9"}, f.ledger.swept)
}

func TestRunQueuesDecisionsRequired(t *testing.T) {
	f := newSweepFixture()
	f.lister.campaigns = []models.Campaign{politicianLinked("c1", "Campaign One", "pol-1")}
	f.finder.results["Campaign One"] = &locating.Result{
		Found:     true,
		Candidate: &models.Campaign{CampaignID: "c9"},
	}
	f.resolver.outcomes["c1"] = &models.MergeOutcome{
		DecisionsRequired:  true,
		ConflictAttributes: []models.Attribute{models.AttrDescription},
	}

	result, err := f.sweeper.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Queued)
	require.Len(t, f.ledger.queued, 1)
	assert.Equal(t, [3]string{"c1", "c9", "CA"}, f.ledger.queued[0])
	assert.Empty(t, f.ledger.swept)
}

func TestRunQueuesEveryAmbiguousCandidate(t *testing.T) {
	f := newSweepFixture()
	f.lister.campaigns = []models.Campaign{politicianLinked("c1", "Campaign One", "pol-1")}
	f.finder.results["Campaign One"] = &locating.Result{
		Candidates: []models.Campaign{{CampaignID: "c8"}, {CampaignID: "c9"}},
	}

	result, err := f.sweeper.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Queued)
	assert.Len(t, f.ledger.queued, 2)
	assert.Empty(t, f.resolver.calls)
}

func TestRunExcludesSettledCampaigns(t *testing.T) {
	f := newSweepFixture()
	f.ledger.exclusions = []string{"done-1", "done-2"}

	_, err := f.sweeper.Run(context.Background(), Options{Limit: 50})
	require.NoError(t, err)

	assert.Equal(t, []string{"done-1", "done-2"}, f.lister.lastExcluded)
	assert.Equal(t, 50, f.lister.lastLimit)
}

func TestRunClampsLimit(t *testing.T) {
	f := newSweepFixture()

	_, err := f.sweeper.Run(context.Background(), Options{Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1000, f.lister.lastLimit)

	_, err = f.sweeper.Run(context.Background(), Options{Limit: 9999})
	require.NoError(t, err)
	assert.Equal(t, 1000, f.lister.lastLimit)
}

func TestRunCreditsVolunteerOncePerRun(t *testing.T) {
	f := newSweepFixture()
	f.lister.campaigns = []models.Campaign{
		politicianLinked("c1", "Campaign One", "pol-1"),
		politicianLinked("c2", "Campaign Two", "pol-2"),
	}

	_, err := f.sweeper.Run(context.Background(), Options{ReviewerVoterID: "voter-7"})
	require.NoError(t, err)

	assert.Equal(t, []string{"voter-7:duplicate_campaign_analysis"}, f.volunteers.credited)
}

func TestRunNoVolunteerCreditOnEmptyChunk(t *testing.T) {
	f := newSweepFixture()

	result, err := f.sweeper.Run(context.Background(), Options{ReviewerVoterID: "voter-7"})
	require.NoError(t, err)

	assert.Empty(t, f.volunteers.credited)
	assert.True(t, result.Diagnostics.HasCode("NO_CAMPAIGNS_TO_SWEEP"))
}

func TestRunResolverErrorCountsAndContinues(t *testing.T) {
	f := newSweepFixture()
	f.lister.campaigns = []models.Campaign{
		politicianLinked("c1", "Campaign One", "pol-1"),
		politicianLinked("c2", "Campaign Two", "pol-2"),
	}
	f.finder.results["Campaign One"] = &locating.Result{
		Found:     true,
		Candidate: &models.Campaign{CampaignID: "c9"},
	}
	f.resolver.err = errors.New("merge failed")

	result, err := f.sweeper.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Examined)
	assert.Equal(t, 1, result.Errors)
	// the second campaign is still processed
	assert.Equal(t, []string{"c2"}, f.ledger.swept)
}
