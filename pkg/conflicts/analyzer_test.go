package conflicts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/fern/pkg/models"
)

func stringPtr(s string) *string {
	return &s
}

func TestCompareEmptiness(t *testing.T) {
	first := &models.Campaign{Title: "Vote for Jane"}
	second := &models.Campaign{Description: "A campaign"}

	report := Compare(first, second)

	assert.Equal(t, models.VerdictCampaignOne, report[models.AttrTitle])
	assert.Equal(t, models.VerdictCampaignTwo, report[models.AttrDescription])
	assert.Equal(t, models.VerdictMatching, report[models.AttrStateCode])
}

func TestCompareEqualValues(t *testing.T) {
	first := &models.Campaign{Title: "Vote for Jane", StateCode: "CA", StartDate: 20240101}
	second := &models.Campaign{Title: "Vote for Jane", StateCode: "CA", StartDate: 20240101}

	report := Compare(first, second)

	assert.Equal(t, models.VerdictMatching, report[models.AttrTitle])
	assert.Equal(t, models.VerdictMatching, report[models.AttrStateCode])
	assert.Equal(t, models.VerdictMatching, report[models.AttrStartDate])
	assert.Empty(t, report.ConflictAttributes())
}

func TestCompareTitleCaseInsensitive(t *testing.T) {
	first := &models.Campaign{Title: "VOTE FOR JANE"}
	second := &models.Campaign{Title: "Vote for Jane"}

	report := Compare(first, second)

	assert.Equal(t, models.VerdictMatching, report[models.AttrTitle])
}

func TestCompareTitleConflict(t *testing.T) {
	first := &models.Campaign{Title: "Vote for Jane"}
	second := &models.Campaign{Title: "Jane for Senate"}

	report := Compare(first, second)

	assert.Equal(t, models.VerdictConflict, report[models.AttrTitle])
	assert.Contains(t, report.ConflictAttributes(), models.AttrTitle)
}

func TestCompareEndDateEarlierWins(t *testing.T) {
	tests := []struct {
		name     string
		end1     int
		end2     int
		expected models.Verdict
	}{
		{name: "first earlier", end1: 20240101, end2: 20240601, expected: models.VerdictCampaignOne},
		{name: "second earlier", end1: 20240601, end2: 20240101, expected: models.VerdictCampaignTwo},
		{name: "equal", end1: 20240101, end2: 20240101, expected: models.VerdictMatching},
		{name: "only first set", end1: 20240101, end2: 0, expected: models.VerdictCampaignOne},
		{name: "only second set", end1: 0, end2: 20240101, expected: models.VerdictCampaignTwo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := &models.Campaign{EndDate: tt.end1}
			second := &models.Campaign{EndDate: tt.end2}

			report := Compare(first, second)
			assert.Equal(t, tt.expected, report[models.AttrEndDate])
		})
	}
}

func TestCompareEndDateNeverConflicts(t *testing.T) {
	first := &models.Campaign{EndDate: 20260101}
	second := &models.Campaign{EndDate: 20250101}

	report := Compare(first, second)

	assert.NotContains(t, report.ConflictAttributes(), models.AttrEndDate)
}

func TestCompareBooleanDisagreementConflicts(t *testing.T) {
	// a flag is never "unset", so true against false must go to review
	first := &models.Campaign{IsActive: true}
	second := &models.Campaign{IsBlocked: true}

	report := Compare(first, second)

	assert.Equal(t, models.VerdictConflict, report[models.AttrIsActive])
	assert.Equal(t, models.VerdictConflict, report[models.AttrIsBlocked])
	assert.Equal(t, models.VerdictMatching, report[models.AttrInDraftMode])
}

func TestCompareCounterDisagreementConflicts(t *testing.T) {
	first := &models.Campaign{ParticipantsCount: 0}
	second := &models.Campaign{ParticipantsCount: 12}

	report := Compare(first, second)

	assert.Equal(t, models.VerdictConflict, report[models.AttrParticipantsCount])
}

func TestCompareZeroDateReadsAsUnset(t *testing.T) {
	first := &models.Campaign{}
	second := &models.Campaign{StartDate: 20240101}

	report := Compare(first, second)

	assert.Equal(t, models.VerdictCampaignTwo, report[models.AttrStartDate])
}

func TestCompareSEOFriendlyPathConflict(t *testing.T) {
	first := &models.Campaign{SEOFriendlyPath: stringPtr("vote-jane")}
	second := &models.Campaign{SEOFriendlyPath: stringPtr("jane-for-senate")}

	report := Compare(first, second)

	assert.Equal(t, models.VerdictConflict, report[models.AttrSEOFriendlyPath])
}

func TestCompareNilPathReadsAsEmpty(t *testing.T) {
	first := &models.Campaign{SEOFriendlyPath: stringPtr("vote-jane")}
	second := &models.Campaign{}

	report := Compare(first, second)

	assert.Equal(t, models.VerdictCampaignOne, report[models.AttrSEOFriendlyPath])
}

func TestCompareCoversEveryMergeableAttribute(t *testing.T) {
	report := Compare(&models.Campaign{}, &models.Campaign{})

	assert.Len(t, report, len(models.MergeableAttributes))
	for _, attr := range models.MergeableAttributes {
		assert.Contains(t, report, attr)
	}
}
