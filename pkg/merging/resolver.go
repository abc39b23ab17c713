package merging

import (
	"context"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/tracing"

	"github.com/Ramsey-B/fern/pkg/conflicts"
	"github.com/Ramsey-B/fern/pkg/models"
)

// Resolver decides whether a pair of campaigns can be merged without a
// human. Resolvable conflicts become chosen values; anything else sends the
// pair to review with nothing written.
type Resolver struct {
	logger   ectologger.Logger
	executor *Executor
}

// NewResolver creates a new resolver
func NewResolver(logger ectologger.Logger, executor *Executor) *Resolver {
	return &Resolver{
		logger:   logger,
		executor: executor,
	}
}

// MergeIfDuplicate compares the pair and merges automatically when every
// conflict resolves. The first campaign is the survivor.
//
// Resolvable differences:
//   - image URLs never block a merge; the survivor keeps its own and the
//     loser's copy is retired with the loser
//   - friendly-path slugs never block either; the survivor keeps its slug
//     and the loser's is cleared so the unique index releases it
//   - titles that differ only by case prefer the mixed-case spelling
//
// Any remaining conflict returns DecisionsRequired without touching either
// campaign.
func (r *Resolver) MergeIfDuplicate(ctx context.Context, survivor *models.Campaign, loser *models.Campaign) (*models.MergeOutcome, error) {
	ctx, span := tracing.StartSpan(ctx, "merging.Resolver.MergeIfDuplicate")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"survivor_id": survivor.CampaignID,
		"loser_id":    loser.CampaignID,
	})

	outcome := &models.MergeOutcome{}
	opts := models.MergeOptions{ChosenValues: map[models.Attribute]any{}}

	report := conflicts.Compare(survivor, loser)
	for _, attr := range models.MergeableAttributes {
		switch report[attr] {
		case models.VerdictMatching:
			// titles can match ignoring case; prefer the spelling that
			// looks typed by a person
			if attr == models.AttrTitle && survivor.Title != loser.Title {
				opts.ChosenValues[attr] = preferMixedCase(survivor.Title, loser.Title)
			}
		case models.VerdictCampaignOne:
			// survivor already carries the winning value
		case models.VerdictCampaignTwo:
			value, _ := loser.AttributeValue(attr)
			opts.ChosenValues[attr] = value
			if isUniqueAttribute(attr) {
				opts.ClearAttributes = append(opts.ClearAttributes, attr)
			}
		case models.VerdictConflict:
			if models.ImageURLAttributes[attr] {
				// the survivor's image stands; the loser's is retired
				// with the loser
				outcome.Diagnostics.Add("IMAGE_CONFLICT_IGNORED", string(attr))
				continue
			}
			if attr == models.AttrSEOFriendlyPath {
				// the survivor keeps its slug; the loser's must still be
				// cleared so the unique index releases it
				outcome.Diagnostics.Add("SEO_PATH_CONFLICT_IGNORED", string(attr))
				opts.ClearAttributes = append(opts.ClearAttributes, attr)
				continue
			}
			outcome.ConflictAttributes = append(outcome.ConflictAttributes, attr)
		}
	}

	if len(outcome.ConflictAttributes) > 0 {
		outcome.DecisionsRequired = true
		log.WithFields(map[string]any{"conflicts": outcome.ConflictAttributes}).Info("Merge requires decisions")
		return outcome, nil
	}

	result, err := r.executor.Merge(ctx, survivor.CampaignID, loser.CampaignID, opts)
	if err != nil {
		return nil, err
	}
	outcome.Merged = true
	outcome.Result = result
	outcome.Diagnostics.Extend(result.Diagnostics)
	return outcome, nil
}

func isUniqueAttribute(attr models.Attribute) bool {
	for _, unique := range models.UniqueAttributesToClear {
		if attr == unique {
			return true
		}
	}
	return false
}

// preferMixedCase picks the spelling that is not all upper or all lower.
// Ties keep the first value.
func preferMixedCase(value1 string, value2 string) string {
	if isMonoCase(value1) && !isMonoCase(value2) {
		return value2
	}
	return value1
}

func isMonoCase(value string) bool {
	return value == strings.ToUpper(value) || value == strings.ToLower(value)
}
