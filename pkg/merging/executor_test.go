package merging

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

type fakeCampaignStore struct {
	campaigns  map[string]*models.Campaign
	saved      []string
	deleted    []string
	failSaveID string
}

func (f *fakeCampaignStore) GetByCampaignID(ctx context.Context, campaignID string, readOnly bool) (*models.Campaign, error) {
	campaign, ok := f.campaigns[campaignID]
	if !ok {
		return nil, errors.New("campaign not found")
	}
	copied := *campaign
	return &copied, nil
}

func (f *fakeCampaignStore) Save(ctx context.Context, campaign *models.Campaign) error {
	if campaign.CampaignID == f.failSaveID {
		return errors.New("save failed")
	}
	copied := *campaign
	f.campaigns[campaign.CampaignID] = &copied
	f.saved = append(f.saved, campaign.CampaignID)
	return nil
}

func (f *fakeCampaignStore) SoftDelete(ctx context.Context, campaignID string) error {
	f.deleted = append(f.deleted, campaignID)
	return nil
}

type fakeOwnerStore struct {
	rows       map[string][]models.CampaignOwner
	reassigned []string
	deleted    []string
}

func (f *fakeOwnerStore) ListByCampaignID(ctx context.Context, campaignID string, readOnly bool) ([]models.CampaignOwner, error) {
	return f.rows[campaignID], nil
}

func (f *fakeOwnerStore) Reassign(ctx context.Context, id string, campaignID string) error {
	f.reassigned = append(f.reassigned, id)
	return nil
}

func (f *fakeOwnerStore) DeleteByID(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeParticipantStore struct {
	rows       map[string][]models.CampaignParticipant
	reassigned []string
	deleted    []string
}

func (f *fakeParticipantStore) ListByCampaignID(ctx context.Context, campaignID string, readOnly bool) ([]models.CampaignParticipant, error) {
	return f.rows[campaignID], nil
}

func (f *fakeParticipantStore) Reassign(ctx context.Context, id string, campaignID string) error {
	f.reassigned = append(f.reassigned, id)
	return nil
}

func (f *fakeParticipantStore) DeleteByID(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeLinkStore struct {
	rows       map[string][]models.CampaignPolitician
	reassigned []string
	deleted    []string
}

func (f *fakeLinkStore) ListByCampaignID(ctx context.Context, campaignID string, readOnly bool) ([]models.CampaignPolitician, error) {
	return f.rows[campaignID], nil
}

func (f *fakeLinkStore) Reassign(ctx context.Context, id string, campaignID string) error {
	f.reassigned = append(f.reassigned, id)
	return nil
}

func (f *fakeLinkStore) DeleteByID(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeListingStore struct {
	rows       map[string][]models.CampaignOrganizationListing
	reassigned []string
	deleted    []string
}

func (f *fakeListingStore) ListByCampaignID(ctx context.Context, campaignID string, readOnly bool) ([]models.CampaignOrganizationListing, error) {
	return f.rows[campaignID], nil
}

func (f *fakeListingStore) Reassign(ctx context.Context, id string, campaignID string) error {
	f.reassigned = append(f.reassigned, id)
	return nil
}

func (f *fakeListingStore) DeleteByID(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeMoveStore struct {
	moved int64
	calls []string
}

func (f *fakeMoveStore) MoveAll(ctx context.Context, fromCampaignID string, toCampaignID string) (int64, error) {
	f.calls = append(f.calls, fromCampaignID+">"+toCampaignID)
	return f.moved, nil
}

type fakePoliticianStore struct {
	politicians map[string]*models.Politician
	relinked    []string
}

func (f *fakePoliticianStore) GetByPoliticianID(ctx context.Context, politicianID string, readOnly bool) (*models.Politician, error) {
	politician, ok := f.politicians[politicianID]
	if !ok {
		return nil, errors.New("politician not found")
	}
	return politician, nil
}

func (f *fakePoliticianStore) RelinkCampaign(ctx context.Context, fromCampaignID string, toCampaignID string) (int64, error) {
	f.relinked = append(f.relinked, fromCampaignID+">"+toCampaignID)
	return 1, nil
}

type fakeLedgerStore struct {
	cleared []string
}

func (f *fakeLedgerStore) DeletePossibleDuplicatesByCampaignID(ctx context.Context, campaignID string) error {
	f.cleared = append(f.cleared, campaignID)
	return nil
}

type fixture struct {
	campaigns    *fakeCampaignStore
	owners       *fakeOwnerStore
	participants *fakeParticipantStore
	links        *fakeLinkStore
	listings     *fakeListingStore
	newsItems    *fakeMoveStore
	paths        *fakeMoveStore
	politicians  *fakePoliticianStore
	ledger       *fakeLedgerStore
	executor     *Executor
}

func newFixture(campaigns ...*models.Campaign) *fixture {
	f := &fixture{
		campaigns:    &fakeCampaignStore{campaigns: map[string]*models.Campaign{}},
		owners:       &fakeOwnerStore{rows: map[string][]models.CampaignOwner{}},
		participants: &fakeParticipantStore{rows: map[string][]models.CampaignParticipant{}},
		links:        &fakeLinkStore{rows: map[string][]models.CampaignPolitician{}},
		listings:     &fakeListingStore{rows: map[string][]models.CampaignOrganizationListing{}},
		newsItems:    &fakeMoveStore{},
		paths:        &fakeMoveStore{},
		politicians:  &fakePoliticianStore{politicians: map[string]*models.Politician{}},
		ledger:       &fakeLedgerStore{},
	}
	for _, campaign := range campaigns {
		f.campaigns.campaigns[campaign.CampaignID] = campaign
	}
	f.executor = NewExecutor(
		testLogger(),
		f.campaigns,
		f.owners,
		f.participants,
		f.links,
		f.listings,
		f.newsItems,
		f.paths,
		f.politicians,
		f.ledger,
		nil,
	)
	return f
}

func stringPtr(s string) *string {
	return &s
}

func TestMergeBasicFlow(t *testing.T) {
	f := newFixture(
		&models.Campaign{CampaignID: "surv", Title: "Vote for Jane"},
		&models.Campaign{CampaignID: "lose", Title: "Vote for Jane", Description: "The campaign"},
	)

	result, err := f.executor.Merge(context.Background(), "surv", "lose", models.MergeOptions{
		ChosenValues: map[models.Attribute]any{
			models.AttrDescription: "The campaign",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "surv", result.SurvivorID)
	assert.Equal(t, "lose", result.LoserID)
	assert.Equal(t, "The campaign", result.Survivor.Description)

	// the loser save must land before the survivor save
	require.Equal(t, []string{"lose", "surv"}, f.campaigns.saved)
	assert.Equal(t, []string{"lose"}, f.campaigns.deleted)
	assert.Equal(t, []string{"lose"}, f.ledger.cleared)
}

func TestMergeClearsLoserUniqueAttributesFirst(t *testing.T) {
	f := newFixture(
		&models.Campaign{CampaignID: "surv"},
		&models.Campaign{CampaignID: "lose", SEOFriendlyPath: stringPtr("vote-jane")},
	)

	result, err := f.executor.Merge(context.Background(), "surv", "lose", models.MergeOptions{
		ChosenValues: map[models.Attribute]any{
			models.AttrSEOFriendlyPath: "vote-jane",
		},
		ClearAttributes: []models.Attribute{models.AttrSEOFriendlyPath},
	})
	require.NoError(t, err)

	require.Equal(t, []string{"lose", "surv"}, f.campaigns.saved)
	assert.Nil(t, f.campaigns.campaigns["lose"].SEOFriendlyPath)
	require.NotNil(t, result.Survivor.SEOFriendlyPath)
	assert.Equal(t, "vote-jane", *result.Survivor.SEOFriendlyPath)
}

func TestMergeAbortsWhenLoserSaveFails(t *testing.T) {
	f := newFixture(
		&models.Campaign{CampaignID: "surv"},
		&models.Campaign{CampaignID: "lose", SEOFriendlyPath: stringPtr("vote-jane")},
	)
	f.campaigns.failSaveID = "lose"

	_, err := f.executor.Merge(context.Background(), "surv", "lose", models.MergeOptions{
		ClearAttributes: []models.Attribute{models.AttrSEOFriendlyPath},
	})
	require.Error(t, err)

	// survivor must not be saved and the loser must not be soft deleted
	assert.Empty(t, f.campaigns.saved)
	assert.Empty(t, f.campaigns.deleted)
}

func TestMergeAbortPreservesCollidingRows(t *testing.T) {
	f := newFixture(
		&models.Campaign{CampaignID: "surv"},
		&models.Campaign{CampaignID: "lose"},
	)
	f.owners.rows["surv"] = []models.CampaignOwner{{ID: "o1", OrganizationID: "org-1"}}
	f.owners.rows["lose"] = []models.CampaignOwner{{ID: "o2", OrganizationID: "org-1"}}
	f.links.rows["lose"] = []models.CampaignPolitician{{ID: "l1", PoliticianID: ""}}
	f.campaigns.failSaveID = "lose"

	_, err := f.executor.Merge(context.Background(), "surv", "lose", models.MergeOptions{})
	require.Error(t, err)

	// colliding rows may only be dropped once both saves land
	assert.Empty(t, f.owners.deleted)
	assert.Empty(t, f.links.deleted)
	assert.Empty(t, f.campaigns.deleted)
}

func TestMergeMissingCampaignWritesNothing(t *testing.T) {
	f := newFixture(&models.Campaign{CampaignID: "surv"})

	_, err := f.executor.Merge(context.Background(), "surv", "missing", models.MergeOptions{})
	require.Error(t, err)

	assert.Empty(t, f.campaigns.saved)
	assert.Empty(t, f.campaigns.deleted)
}

func TestMergeReparentsDependents(t *testing.T) {
	f := newFixture(
		&models.Campaign{CampaignID: "surv"},
		&models.Campaign{CampaignID: "lose"},
	)

	f.owners.rows["surv"] = []models.CampaignOwner{{ID: "o1", OrganizationID: "org-1", VoterID: "voter-1"}}
	f.owners.rows["lose"] = []models.CampaignOwner{
		{ID: "o2", OrganizationID: "org-1"},                    // same organization, deleted
		{ID: "o3", OrganizationID: "org-2"},                    // moves
		{ID: "o4", VoterID: "voter-9"},                         // personal owner, moves
		{ID: "o5", OrganizationID: "org-3", VoterID: "voter-1"}, // new org but same voter, deleted
	}
	f.participants.rows["surv"] = []models.CampaignParticipant{{ID: "p1", VoterID: "v1", OrganizationID: "org-a"}}
	f.participants.rows["lose"] = []models.CampaignParticipant{
		{ID: "p2", VoterID: "v1"},                         // same voter
		{ID: "p3", VoterID: "v2"},                         // moves
		{ID: "p4", VoterID: "v9", OrganizationID: "org-a"}, // same organization
	}
	f.links.rows["lose"] = []models.CampaignPolitician{
		{ID: "l1", PoliticianID: "pol-1"},
		{ID: "l2", PoliticianID: ""}, // empty link always dropped
	}
	f.listings.rows["lose"] = []models.CampaignOrganizationListing{
		{ID: "s1", SiteOwnerOrganizationID: "site-1"},
	}
	f.newsItems.moved = 3
	f.paths.moved = 2

	result, err := f.executor.Merge(context.Background(), "surv", "lose", models.MergeOptions{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"o3", "o4"}, f.owners.reassigned)
	assert.Equal(t, []string{"o2", "o5"}, f.owners.deleted)
	assert.Equal(t, []string{"p3"}, f.participants.reassigned)
	assert.Equal(t, []string{"p2", "p4"}, f.participants.deleted)
	assert.Equal(t, []string{"l1"}, f.links.reassigned)
	assert.Equal(t, []string{"l2"}, f.links.deleted)
	assert.Equal(t, []string{"s1"}, f.listings.reassigned)

	assert.Equal(t, 2, result.Moved["owners"])
	assert.Equal(t, 2, result.Deleted["owners"])
	assert.Equal(t, 2, result.Deleted["participants"])
	assert.Equal(t, 3, result.Moved["news_items"])
	assert.Equal(t, 2, result.Moved["seo_friendly_paths"])
	assert.Equal(t, 1, result.Moved["politician_back_links"])
	assert.Equal(t, []string{"lose>surv"}, f.newsItems.calls)
	assert.Equal(t, []string{"lose>surv"}, f.paths.calls)
	assert.Equal(t, []string{"lose>surv"}, f.politicians.relinked)
}

func TestMergeRegeneratesTitleFromPolitician(t *testing.T) {
	f := newFixture(
		&models.Campaign{CampaignID: "surv", Title: "old title", PoliticianID: stringPtr("pol-1")},
		&models.Campaign{CampaignID: "lose"},
	)
	f.politicians.politicians["pol-1"] = &models.Politician{
		PoliticianID: "pol-1",
		Name:         "JANE SMITH",
		StateCode:    "CA",
	}

	result, err := f.executor.Merge(context.Background(), "surv", "lose", models.MergeOptions{
		RegenerateTitle: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Jane Smith, Politician from California", result.Survivor.Title)
}

func TestMergeTitleRegenerationSkippedWithoutPolitician(t *testing.T) {
	f := newFixture(
		&models.Campaign{CampaignID: "surv", Title: "old title"},
		&models.Campaign{CampaignID: "lose"},
	)

	result, err := f.executor.Merge(context.Background(), "surv", "lose", models.MergeOptions{
		RegenerateTitle: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "old title", result.Survivor.Title)
}

func TestTitleFromPolitician(t *testing.T) {
	tests := []struct {
		name      string
		person    string
		stateCode string
		expected  string
	}{
		{name: "with state", person: "Jane Smith", stateCode: "CA", expected: "Jane Smith, Politician from California"},
		{name: "no state", person: "Jane Smith", stateCode: "", expected: "Jane Smith, Politician"},
		{name: "unknown state", person: "Jane Smith", stateCode: "ZZ", expected: "Jane Smith, Politician"},
		{name: "shouting name corrected", person: "JANE SMITH", stateCode: "TX", expected: "Jane Smith, Politician from Texas"},
		{name: "mixed case kept", person: "Jane McDonald", stateCode: "TX", expected: "Jane McDonald, Politician from Texas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TitleFromPolitician(tt.person, tt.stateCode))
		})
	}
}
