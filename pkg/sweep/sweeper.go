// Package sweep walks politician-linked campaigns looking for duplicates.
// Every campaign it examines ends up settled: merged, queued for review, or
// marked swept so later runs skip it.
package sweep

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/tracing"

	"github.com/Ramsey-B/fern/pkg/locating"
	"github.com/Ramsey-B/fern/pkg/models"
)

const defaultChunkSize = 1000

type CampaignLister interface {
	ListPoliticianLinked(ctx context.Context, stateCode string, excludeIDs []string, limit int, readOnly bool) ([]models.Campaign, error)
}

type PoliticianReader interface {
	GetByPoliticianID(ctx context.Context, politicianID string, readOnly bool) (*models.Politician, error)
}

type Ledger interface {
	SweepExclusionIDs(ctx context.Context, readOnly bool) ([]string, error)
	MarkSwept(ctx context.Context, campaignID string) error
	UpsertPossibleDuplicate(ctx context.Context, campaignA string, campaignB string, stateCode string) error
}

type VolunteerLedger interface {
	Create(ctx context.Context, voterID string, actionKind string) (*models.VolunteerTask, error)
}

type DuplicateFinder interface {
	FindSimilar(ctx context.Context, query locating.Query, readOnly bool) *locating.Result
}

type PairResolver interface {
	MergeIfDuplicate(ctx context.Context, survivor *models.Campaign, loser *models.Campaign) (*models.MergeOutcome, error)
}

// PairEventEmitter publishes review queue additions. Emission is best-effort.
type PairEventEmitter interface {
	EmitPossibleDuplicate(ctx context.Context, campaignA string, campaignB string, stateCode string) error
}

// Options scope a single sweep run
type Options struct {
	StateCode       string
	Limit           int
	ReviewerVoterID string
}

// Result counts what a run did
type Result struct {
	Examined    int                `json:"examined"`
	Merged      int                `json:"merged"`
	Queued      int                `json:"queued"`
	Swept       int                `json:"swept"`
	Errors      int                `json:"errors"`
	Diagnostics models.Diagnostics `json:"diagnostics,omitempty"`
}

// Sweeper drives the duplicate sweep
type Sweeper struct {
	logger      ectologger.Logger
	campaigns   CampaignLister
	politicians PoliticianReader
	ledger      Ledger
	volunteers  VolunteerLedger
	locator     DuplicateFinder
	resolver    PairResolver
	emitter     PairEventEmitter
}

// NewSweeper creates a new sweeper. The emitter may be nil.
func NewSweeper(
	logger ectologger.Logger,
	campaigns CampaignLister,
	politicians PoliticianReader,
	ledger Ledger,
	volunteers VolunteerLedger,
	locator DuplicateFinder,
	resolver PairResolver,
	emitter PairEventEmitter,
) *Sweeper {
	return &Sweeper{
		logger:      logger,
		campaigns:   campaigns,
		politicians: politicians,
		ledger:      ledger,
		volunteers:  volunteers,
		locator:     locator,
		resolver:    resolver,
		emitter:     emitter,
	}
}

// Run sweeps one chunk of politician-linked campaigns. Campaigns already on
// either ledger are excluded up front, so repeated runs make forward
// progress without revisiting settled pairs.
func (s *Sweeper) Run(ctx context.Context, opts Options) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "sweep.Sweeper.Run")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"state_code": opts.StateCode,
		"limit":      opts.Limit,
	})

	limit := opts.Limit
	if limit < 1 || limit > defaultChunkSize {
		limit = defaultChunkSize
	}

	excludeIDs, err := s.ledger.SweepExclusionIDs(ctx, true)
	if err != nil {
		return nil, err
	}

	campaigns, err := s.campaigns.ListPoliticianLinked(ctx, opts.StateCode, excludeIDs, limit, true)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if len(campaigns) == 0 {
		result.Diagnostics.Add("NO_CAMPAIGNS_TO_SWEEP", "")
		return result, nil
	}

	// One volunteer credit per run, not per campaign
	if opts.ReviewerVoterID != "" {
		if _, err := s.volunteers.Create(ctx, opts.ReviewerVoterID, models.VolunteerTaskKindDuplicateCampaignAnalysis); err != nil {
			log.WithError(err).Warn("Failed to record volunteer task")
			result.Diagnostics.Add("VOLUNTEER_TASK_FAILED", err.Error())
		}
	}

	for i := range campaigns {
		if err := ctx.Err(); err != nil {
			result.Diagnostics.Add("SWEEP_INTERRUPTED", err.Error())
			return result, err
		}
		s.examine(ctx, &campaigns[i], result)
	}

	log.WithFields(map[string]any{
		"examined": result.Examined,
		"merged":   result.Merged,
		"queued":   result.Queued,
		"swept":    result.Swept,
		"errors":   result.Errors,
	}).Info("Sweep run finished")
	return result, nil
}

func (s *Sweeper) examine(ctx context.Context, campaign *models.Campaign, result *Result) {
	result.Examined++

	log := s.logger.WithContext(ctx).WithFields(map[string]any{"campaign_id": campaign.CampaignID})

	query := locating.Query{
		Title:      campaign.Title,
		StateCode:  campaign.StateCode,
		ExcludeIDs: []string{campaign.CampaignID},
	}
	if campaign.HasPolitician() {
		politician, err := s.politicians.GetByPoliticianID(ctx, *campaign.PoliticianID, true)
		if err != nil {
			log.WithError(err).Warn("Failed to load linked politician; searching by title only")
		} else {
			query.PoliticianName = politician.Name
		}
	}

	found := s.locator.FindSimilar(ctx, query, true)

	switch {
	case found.Found:
		outcome, err := s.resolver.MergeIfDuplicate(ctx, campaign, found.Candidate)
		if err != nil {
			log.WithError(err).Error("Failed to merge duplicate pair")
			result.Errors++
			return
		}
		if outcome.Merged {
			result.Merged++
			// both ids are settled now; the loser is retired and the
			// survivor has been searched
			if err := s.ledger.MarkSwept(ctx, campaign.CampaignID); err != nil {
				result.Diagnostics.Add("MARK_SWEPT_FAILED", campaign.CampaignID)
			}
			if err := s.ledger.MarkSwept(ctx, found.Candidate.CampaignID); err != nil {
				result.Diagnostics.Add("MARK_SWEPT_FAILED", found.Candidate.CampaignID)
			}
			return
		}
		if err := s.queuePair(ctx, campaign.CampaignID, found.Candidate.CampaignID, campaign.StateCode); err != nil {
			log.WithError(err).Error("Failed to queue possible duplicate")
			result.Errors++
			return
		}
		result.Queued++
	case len(found.Candidates) > 0:
		// several candidates: each pair goes to review rather than guessing
		for _, candidate := range found.Candidates {
			if err := s.queuePair(ctx, campaign.CampaignID, candidate.CampaignID, campaign.StateCode); err != nil {
				log.WithError(err).Error("Failed to queue possible duplicate")
				result.Errors++
				return
			}
		}
		result.Queued++
	default:
		if err := s.ledger.MarkSwept(ctx, campaign.CampaignID); err != nil {
			log.WithError(err).Error("Failed to mark campaign swept")
			result.Errors++
			return
		}
		result.Swept++
	}
}

// queuePair adds a pair to the review queue and announces it downstream
func (s *Sweeper) queuePair(ctx context.Context, campaignA string, campaignB string, stateCode string) error {
	if err := s.ledger.UpsertPossibleDuplicate(ctx, campaignA, campaignB, stateCode); err != nil {
		return err
	}
	if s.emitter != nil {
		if err := s.emitter.EmitPossibleDuplicate(ctx, campaignA, campaignB, stateCode); err != nil {
			s.logger.WithContext(ctx).WithError(err).Warn("Failed to emit campaign.possible_duplicate event")
		}
	}
	return nil
}
