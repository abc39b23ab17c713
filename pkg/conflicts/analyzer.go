// Package conflicts compares two campaigns attribute by attribute. The
// comparison is pure; persistence and resolution live elsewhere.
package conflicts

import (
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
)

// Compare produces a verdict for every mergeable attribute.
//
// Rules, in order:
//   - both values unset: matching. Only nil, the empty string and a zero
//     date count as unset; flags and counters are always set, so a
//     true/false or 0/N disagreement is a conflict
//   - exactly one value set: the set side wins
//   - titles equal ignoring case: matching
//   - end dates both set and different: the earlier date wins, never a
//     conflict, because a finished campaign's end should not move later
//   - equal values: matching; anything else: conflict
func Compare(first *models.Campaign, second *models.Campaign) models.ConflictReport {
	report := make(models.ConflictReport, len(models.MergeableAttributes))
	for _, attr := range models.MergeableAttributes {
		value1, _ := first.AttributeValue(attr)
		value2, _ := second.AttributeValue(attr)
		report[attr] = compare(attr, value1, value2)
	}
	return report
}

func compare(attr models.Attribute, value1 any, value2 any) models.Verdict {
	empty1 := models.AttributeIsEmpty(attr, value1)
	empty2 := models.AttributeIsEmpty(attr, value2)

	switch {
	case empty1 && empty2:
		return models.VerdictMatching
	case empty2:
		return models.VerdictCampaignOne
	case empty1:
		return models.VerdictCampaignTwo
	}

	switch attr {
	case models.AttrTitle:
		if strings.EqualFold(value1.(string), value2.(string)) {
			return models.VerdictMatching
		}
		return models.VerdictConflict
	case models.AttrEndDate:
		if value1.(int) == value2.(int) {
			return models.VerdictMatching
		}
		if value1.(int) < value2.(int) {
			return models.VerdictCampaignOne
		}
		return models.VerdictCampaignTwo
	}

	if value1 == value2 {
		return models.VerdictMatching
	}
	return models.VerdictConflict
}
