// Package merging collapses two campaigns into one survivor. The resolver
// decides whether a pair can merge without a human; the executor performs
// the merge sequence itself.
package merging

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/tracing"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/names"
	"github.com/Ramsey-B/fern/pkg/states"
)

// Executor performs the merge sequence. The sequence is deliberately not a
// single transaction: the loser's unique attributes are cleared and saved
// before the survivor is saved, which is what keeps unique constraints
// intact mid-merge.
type Executor struct {
	logger       ectologger.Logger
	campaigns    CampaignStore
	owners       OwnerStore
	participants ParticipantStore
	links        PoliticianLinkStore
	listings     ListingStore
	newsItems    NewsItemStore
	paths        PathStore
	politicians  PoliticianStore
	ledger       LedgerStore
	emitter      EventEmitter
}

// NewExecutor creates a new merge executor. The emitter may be nil.
func NewExecutor(
	logger ectologger.Logger,
	campaigns CampaignStore,
	owners OwnerStore,
	participants ParticipantStore,
	links PoliticianLinkStore,
	listings ListingStore,
	newsItems NewsItemStore,
	paths PathStore,
	politicians PoliticianStore,
	ledger LedgerStore,
	emitter EventEmitter,
) *Executor {
	return &Executor{
		logger:       logger,
		campaigns:    campaigns,
		owners:       owners,
		participants: participants,
		links:        links,
		listings:     listings,
		newsItems:    newsItems,
		paths:        paths,
		politicians:  politicians,
		ledger:       ledger,
		emitter:      emitter,
	}
}

// Merge folds the loser into the survivor.
//
// Sequence:
//  1. load both campaigns; either missing aborts with nothing written
//  2. apply chosen values to the survivor in memory
//  3. optionally regenerate the survivor title from its politician
//  4. re-parent dependent rows, queueing natural-key collisions for
//     deletion instead of moving them
//  5. clear unique attributes on the loser and save the loser
//  6. save the survivor (strictly after step 5)
//  7. delete the queued colliding rows
//  8. soft-delete the loser
//  9. drop review queue rows that reference the loser
//
// Dependent-row failures are reported as diagnostics and the sequence keeps
// going; failures that would corrupt the survivor or leave two live copies
// abort with an error.
func (e *Executor) Merge(ctx context.Context, survivorID string, loserID string, opts models.MergeOptions) (*models.MergeResult, error) {
	ctx, span := tracing.StartSpan(ctx, "merging.Executor.Merge")
	defer span.End()

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"survivor_id": survivorID,
		"loser_id":    loserID,
	})

	result := &models.MergeResult{
		SurvivorID: survivorID,
		LoserID:    loserID,
		Moved:      map[string]int{},
		Deleted:    map[string]int{},
	}

	// Step 1: load both sides, writer handle so we see our own writes
	survivor, err := e.campaigns.GetByCampaignID(ctx, survivorID, false)
	if err != nil {
		log.WithError(err).Error("Survivor campaign could not be loaded")
		return nil, err
	}
	loser, err := e.campaigns.GetByCampaignID(ctx, loserID, false)
	if err != nil {
		log.WithError(err).Error("Loser campaign could not be loaded")
		return nil, err
	}

	// Step 2: admin choices and resolver adoptions
	for _, attr := range models.MergeableAttributes {
		value, ok := opts.ChosenValues[attr]
		if !ok {
			continue
		}
		if !survivor.SetAttributeValue(attr, value) {
			result.Diagnostics.Add("CHOSEN_VALUE_REJECTED", string(attr))
		}
	}

	// Step 3: title regeneration. Without a politician link this is a
	// silent no-op.
	if opts.RegenerateTitle && survivor.HasPolitician() {
		politician, err := e.politicians.GetByPoliticianID(ctx, *survivor.PoliticianID, false)
		if err != nil {
			result.Diagnostics.Add("TITLE_REGENERATION_FAILED", err.Error())
		} else {
			stateCode := politician.StateCode
			if stateCode == "" {
				stateCode = survivor.StateCode
			}
			survivor.Title = TitleFromPolitician(politician.Name, stateCode)
		}
	}

	// Step 4: re-parent dependents. Colliding rows are queued rather than
	// deleted so an aborted merge leaves the loser's rows intact.
	var collisions []pendingDelete
	e.moveListings(ctx, survivorID, loserID, result, &collisions)
	e.moveOwners(ctx, survivorID, loserID, result, &collisions)
	e.movePoliticianLinks(ctx, survivorID, loserID, result, &collisions)
	e.moveParticipants(ctx, survivorID, loserID, result, &collisions)

	if moved, err := e.newsItems.MoveAll(ctx, loserID, survivorID); err != nil {
		result.Diagnostics.Add("NEWS_ITEMS_MOVE_FAILED", err.Error())
	} else {
		result.Moved["news_items"] = int(moved)
	}
	if moved, err := e.paths.MoveAll(ctx, loserID, survivorID); err != nil {
		result.Diagnostics.Add("SEO_PATHS_MOVE_FAILED", err.Error())
	} else {
		result.Moved["seo_friendly_paths"] = int(moved)
	}
	if relinked, err := e.politicians.RelinkCampaign(ctx, loserID, survivorID); err != nil {
		result.Diagnostics.Add("POLITICIAN_RELINK_FAILED", err.Error())
	} else if relinked > 0 {
		result.Moved["politician_back_links"] = int(relinked)
	}

	// Step 5: release unique attributes on the loser first. If this save
	// fails the survivor must not be saved, or a unique value could exist
	// twice.
	for _, attr := range opts.ClearAttributes {
		loser.ClearAttribute(attr)
	}
	if err := e.campaigns.Save(ctx, loser); err != nil {
		log.WithError(err).Error("Failed to save loser before survivor")
		result.Diagnostics.Add("LOSER_SAVE_FAILED", err.Error())
		return result, err
	}

	// Step 6: persist the survivor
	if err := e.campaigns.Save(ctx, survivor); err != nil {
		log.WithError(err).Error("Failed to save survivor")
		result.Diagnostics.Add("SURVIVOR_SAVE_FAILED", err.Error())
		return result, err
	}
	result.Survivor = survivor

	// Step 7: both saves landed; drop the colliding loser rows
	for _, collision := range collisions {
		if err := collision.remove(ctx, collision.id); err != nil {
			result.Diagnostics.Add(collision.failCode, err.Error())
			continue
		}
		result.Deleted[collision.counter]++
	}

	// Step 8: retire the loser's campaign_id
	if err := e.campaigns.SoftDelete(ctx, loserID); err != nil {
		log.WithError(err).Error("Failed to soft delete loser")
		result.Diagnostics.Add("LOSER_DELETE_FAILED", err.Error())
		return result, err
	}

	// Step 9: the loser can no longer be reviewed
	if err := e.ledger.DeletePossibleDuplicatesByCampaignID(ctx, loserID); err != nil {
		result.Diagnostics.Add("REVIEW_QUEUE_CLEANUP_FAILED", err.Error())
	}

	if e.emitter != nil {
		if err := e.emitter.EmitCampaignMerged(ctx, result); err != nil {
			log.WithError(err).Warn("Failed to emit campaign.merged event")
		}
	}

	log.WithFields(map[string]any{"moved": result.Moved, "deleted": result.Deleted}).Info("Merged campaigns")
	return result, nil
}

// pendingDelete is a colliding dependent row queued during re-parenting.
// The delete runs only once the survivor save has landed.
type pendingDelete struct {
	counter  string
	failCode string
	id       string
	remove   func(ctx context.Context, id string) error
}

func (e *Executor) moveListings(ctx context.Context, survivorID string, loserID string, result *models.MergeResult, collisions *[]pendingDelete) {
	survivorRows, err := e.listings.ListByCampaignID(ctx, survivorID, false)
	if err != nil {
		result.Diagnostics.Add("LISTINGS_MOVE_FAILED", err.Error())
		return
	}
	keys := map[string]bool{}
	for _, row := range survivorRows {
		if row.SiteOwnerOrganizationID != "" {
			keys[row.SiteOwnerOrganizationID] = true
		}
	}

	loserRows, err := e.listings.ListByCampaignID(ctx, loserID, false)
	if err != nil {
		result.Diagnostics.Add("LISTINGS_MOVE_FAILED", err.Error())
		return
	}
	for _, row := range loserRows {
		if row.SiteOwnerOrganizationID != "" && keys[row.SiteOwnerOrganizationID] {
			*collisions = append(*collisions, pendingDelete{
				counter:  "organization_listings",
				failCode: "LISTING_DELETE_FAILED",
				id:       row.ID,
				remove:   e.listings.DeleteByID,
			})
			continue
		}
		if err := e.listings.Reassign(ctx, row.ID, survivorID); err != nil {
			result.Diagnostics.Add("LISTING_REASSIGN_FAILED", err.Error())
			continue
		}
		result.Moved["organization_listings"]++
	}
}

func (e *Executor) moveOwners(ctx context.Context, survivorID string, loserID string, result *models.MergeResult, collisions *[]pendingDelete) {
	survivorRows, err := e.owners.ListByCampaignID(ctx, survivorID, false)
	if err != nil {
		result.Diagnostics.Add("OWNERS_MOVE_FAILED", err.Error())
		return
	}
	orgs := map[string]bool{}
	voters := map[string]bool{}
	for _, row := range survivorRows {
		if row.OrganizationID != "" {
			orgs[row.OrganizationID] = true
		}
		if row.VoterID != "" {
			voters[row.VoterID] = true
		}
	}

	loserRows, err := e.owners.ListByCampaignID(ctx, loserID, false)
	if err != nil {
		result.Diagnostics.Add("OWNERS_MOVE_FAILED", err.Error())
		return
	}
	for _, row := range loserRows {
		// either identity already present under the survivor is a duplicate
		if (row.OrganizationID != "" && orgs[row.OrganizationID]) ||
			(row.VoterID != "" && voters[row.VoterID]) {
			*collisions = append(*collisions, pendingDelete{
				counter:  "owners",
				failCode: "OWNER_DELETE_FAILED",
				id:       row.ID,
				remove:   e.owners.DeleteByID,
			})
			continue
		}
		if err := e.owners.Reassign(ctx, row.ID, survivorID); err != nil {
			result.Diagnostics.Add("OWNER_REASSIGN_FAILED", err.Error())
			continue
		}
		result.Moved["owners"]++
	}
}

func (e *Executor) movePoliticianLinks(ctx context.Context, survivorID string, loserID string, result *models.MergeResult, collisions *[]pendingDelete) {
	survivorRows, err := e.links.ListByCampaignID(ctx, survivorID, false)
	if err != nil {
		result.Diagnostics.Add("POLITICIAN_LINKS_MOVE_FAILED", err.Error())
		return
	}
	keys := map[string]bool{}
	for _, row := range survivorRows {
		if row.PoliticianID != "" {
			keys[row.PoliticianID] = true
		}
	}

	loserRows, err := e.links.ListByCampaignID(ctx, loserID, false)
	if err != nil {
		result.Diagnostics.Add("POLITICIAN_LINKS_MOVE_FAILED", err.Error())
		return
	}
	for _, row := range loserRows {
		// a link row without a politician carries no information
		if row.PoliticianID == "" || keys[row.PoliticianID] {
			*collisions = append(*collisions, pendingDelete{
				counter:  "politician_links",
				failCode: "POLITICIAN_LINK_DELETE_FAILED",
				id:       row.ID,
				remove:   e.links.DeleteByID,
			})
			continue
		}
		if err := e.links.Reassign(ctx, row.ID, survivorID); err != nil {
			result.Diagnostics.Add("POLITICIAN_LINK_REASSIGN_FAILED", err.Error())
			continue
		}
		result.Moved["politician_links"]++
	}
}

func (e *Executor) moveParticipants(ctx context.Context, survivorID string, loserID string, result *models.MergeResult, collisions *[]pendingDelete) {
	survivorRows, err := e.participants.ListByCampaignID(ctx, survivorID, false)
	if err != nil {
		result.Diagnostics.Add("PARTICIPANTS_MOVE_FAILED", err.Error())
		return
	}
	orgs := map[string]bool{}
	voters := map[string]bool{}
	for _, row := range survivorRows {
		if row.OrganizationID != "" {
			orgs[row.OrganizationID] = true
		}
		if row.VoterID != "" {
			voters[row.VoterID] = true
		}
	}

	loserRows, err := e.participants.ListByCampaignID(ctx, loserID, false)
	if err != nil {
		result.Diagnostics.Add("PARTICIPANTS_MOVE_FAILED", err.Error())
		return
	}
	for _, row := range loserRows {
		if (row.OrganizationID != "" && orgs[row.OrganizationID]) ||
			(row.VoterID != "" && voters[row.VoterID]) {
			*collisions = append(*collisions, pendingDelete{
				counter:  "participants",
				failCode: "PARTICIPANT_DELETE_FAILED",
				id:       row.ID,
				remove:   e.participants.DeleteByID,
			})
			continue
		}
		if err := e.participants.Reassign(ctx, row.ID, survivorID); err != nil {
			result.Diagnostics.Add("PARTICIPANT_REASSIGN_FAILED", err.Error())
			continue
		}
		result.Moved["participants"]++
	}
}

// TitleFromPolitician builds the standard campaign title for a politician
func TitleFromPolitician(politicianName string, stateCode string) string {
	if names.IsShouting(politicianName) {
		politicianName = names.CorrectCapitalization(politicianName)
	}
	stateText := states.Name(stateCode)
	if stateText == "" {
		return politicianName + ", Politician"
	}
	return politicianName + ", Politician from " + stateText
}
