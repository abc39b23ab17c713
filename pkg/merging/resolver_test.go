package merging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func newResolverFixture(campaigns ...*models.Campaign) (*fixture, *Resolver) {
	f := newFixture(campaigns...)
	return f, NewResolver(testLogger(), f.executor)
}

func TestMergeIfDuplicateAutoMerges(t *testing.T) {
	survivor := &models.Campaign{CampaignID: "surv", Title: "Vote for Jane", StateCode: "CA"}
	loser := &models.Campaign{CampaignID: "lose", Title: "Vote for Jane", Description: "The real one"}
	f, resolver := newResolverFixture(survivor, loser)

	outcome, err := resolver.MergeIfDuplicate(context.Background(), survivor, loser)
	require.NoError(t, err)

	assert.True(t, outcome.Merged)
	assert.False(t, outcome.DecisionsRequired)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, "The real one", outcome.Result.Survivor.Description)
	assert.Equal(t, "CA", outcome.Result.Survivor.StateCode)
	assert.Equal(t, []string{"lose"}, f.campaigns.deleted)
}

func TestMergeIfDuplicateConflictRequiresDecisions(t *testing.T) {
	survivor := &models.Campaign{CampaignID: "surv", Description: "First description"}
	loser := &models.Campaign{CampaignID: "lose", Description: "Second description"}
	f, resolver := newResolverFixture(survivor, loser)

	outcome, err := resolver.MergeIfDuplicate(context.Background(), survivor, loser)
	require.NoError(t, err)

	assert.False(t, outcome.Merged)
	assert.True(t, outcome.DecisionsRequired)
	assert.Contains(t, outcome.ConflictAttributes, models.AttrDescription)

	// nothing may be written when a decision is required
	assert.Empty(t, f.campaigns.saved)
	assert.Empty(t, f.campaigns.deleted)
}

func TestMergeIfDuplicateImageConflictNeverBlocks(t *testing.T) {
	survivor := &models.Campaign{CampaignID: "surv", PhotoLargeURL: "https://img/survivor.jpg"}
	loser := &models.Campaign{CampaignID: "lose", PhotoLargeURL: "https://img/loser.jpg"}
	_, resolver := newResolverFixture(survivor, loser)

	outcome, err := resolver.MergeIfDuplicate(context.Background(), survivor, loser)
	require.NoError(t, err)

	assert.True(t, outcome.Merged)
	assert.Equal(t, "https://img/survivor.jpg", outcome.Result.Survivor.PhotoLargeURL)
	assert.True(t, outcome.Diagnostics.HasCode("IMAGE_CONFLICT_IGNORED"))
}

func TestMergeIfDuplicateAdoptsLoserImages(t *testing.T) {
	survivor := &models.Campaign{CampaignID: "surv"}
	loser := &models.Campaign{CampaignID: "lose", PhotoLargeURL: "https://img/loser.jpg"}
	_, resolver := newResolverFixture(survivor, loser)

	outcome, err := resolver.MergeIfDuplicate(context.Background(), survivor, loser)
	require.NoError(t, err)

	assert.True(t, outcome.Merged)
	assert.Equal(t, "https://img/loser.jpg", outcome.Result.Survivor.PhotoLargeURL)
}

func TestMergeIfDuplicateTitleCasePrefersMixedCase(t *testing.T) {
	survivor := &models.Campaign{CampaignID: "surv", Title: "VOTE FOR JANE"}
	loser := &models.Campaign{CampaignID: "lose", Title: "Vote for Jane"}
	_, resolver := newResolverFixture(survivor, loser)

	outcome, err := resolver.MergeIfDuplicate(context.Background(), survivor, loser)
	require.NoError(t, err)

	assert.True(t, outcome.Merged)
	assert.Equal(t, "Vote for Jane", outcome.Result.Survivor.Title)
}

func TestMergeIfDuplicateAdoptsUniquePathAndClearsLoser(t *testing.T) {
	survivor := &models.Campaign{CampaignID: "surv"}
	loser := &models.Campaign{CampaignID: "lose", SEOFriendlyPath: stringPtr("vote-jane")}
	f, resolver := newResolverFixture(survivor, loser)

	outcome, err := resolver.MergeIfDuplicate(context.Background(), survivor, loser)
	require.NoError(t, err)

	assert.True(t, outcome.Merged)
	require.NotNil(t, outcome.Result.Survivor.SEOFriendlyPath)
	assert.Equal(t, "vote-jane", *outcome.Result.Survivor.SEOFriendlyPath)
	assert.Nil(t, f.campaigns.campaigns["lose"].SEOFriendlyPath)
	require.Equal(t, []string{"lose", "surv"}, f.campaigns.saved)
}

func TestMergeIfDuplicateSlugConflictKeepsSurvivors(t *testing.T) {
	survivor := &models.Campaign{CampaignID: "surv", SEOFriendlyPath: stringPtr("elect-jane")}
	loser := &models.Campaign{CampaignID: "lose", SEOFriendlyPath: stringPtr("elect-jane-2")}
	f, resolver := newResolverFixture(survivor, loser)

	outcome, err := resolver.MergeIfDuplicate(context.Background(), survivor, loser)
	require.NoError(t, err)

	assert.True(t, outcome.Merged)
	assert.False(t, outcome.DecisionsRequired)
	require.NotNil(t, outcome.Result.Survivor.SEOFriendlyPath)
	assert.Equal(t, "elect-jane", *outcome.Result.Survivor.SEOFriendlyPath)
	assert.True(t, outcome.Diagnostics.HasCode("SEO_PATH_CONFLICT_IGNORED"))

	// the loser must release its slug before the survivor save lands
	assert.Nil(t, f.campaigns.campaigns["lose"].SEOFriendlyPath)
	require.Equal(t, []string{"lose", "surv"}, f.campaigns.saved)
}

func TestMergeIfDuplicateBlockedFlagRequiresDecision(t *testing.T) {
	survivor := &models.Campaign{CampaignID: "surv"}
	loser := &models.Campaign{CampaignID: "lose", IsBlocked: true}
	f, resolver := newResolverFixture(survivor, loser)

	outcome, err := resolver.MergeIfDuplicate(context.Background(), survivor, loser)
	require.NoError(t, err)

	assert.False(t, outcome.Merged)
	assert.True(t, outcome.DecisionsRequired)
	assert.Contains(t, outcome.ConflictAttributes, models.AttrIsBlocked)
	assert.Empty(t, f.campaigns.saved)
}

func TestMergeIfDuplicateEndDateEarlierWins(t *testing.T) {
	survivor := &models.Campaign{CampaignID: "surv", EndDate: 20260101}
	loser := &models.Campaign{CampaignID: "lose", EndDate: 20250101}
	_, resolver := newResolverFixture(survivor, loser)

	outcome, err := resolver.MergeIfDuplicate(context.Background(), survivor, loser)
	require.NoError(t, err)

	assert.True(t, outcome.Merged)
	assert.Equal(t, 20250101, outcome.Result.Survivor.EndDate)
}

func TestPreferMixedCase(t *testing.T) {
	tests := []struct {
		name     string
		value1   string
		value2   string
		expected string
	}{
		{name: "second mixed", value1: "VOTE FOR JANE", value2: "Vote for Jane", expected: "Vote for Jane"},
		{name: "first mixed", value1: "Vote for Jane", value2: "VOTE FOR JANE", expected: "Vote for Jane"},
		{name: "both mixed keeps first", value1: "Vote For Jane", value2: "Vote for Jane", expected: "Vote For Jane"},
		{name: "both mono keeps first", value1: "VOTE FOR JANE", value2: "vote for jane", expected: "VOTE FOR JANE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, preferMixedCase(tt.value1, tt.value2))
		})
	}
}
