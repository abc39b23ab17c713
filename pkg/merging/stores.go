package merging

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/models"
)

// The executor depends on narrow store interfaces so the merge sequence can
// be exercised without a database. The concrete repositories satisfy these.

type CampaignStore interface {
	GetByCampaignID(ctx context.Context, campaignID string, readOnly bool) (*models.Campaign, error)
	Save(ctx context.Context, campaign *models.Campaign) error
	SoftDelete(ctx context.Context, campaignID string) error
}

type OwnerStore interface {
	ListByCampaignID(ctx context.Context, campaignID string, readOnly bool) ([]models.CampaignOwner, error)
	Reassign(ctx context.Context, id string, campaignID string) error
	DeleteByID(ctx context.Context, id string) error
}

type ParticipantStore interface {
	ListByCampaignID(ctx context.Context, campaignID string, readOnly bool) ([]models.CampaignParticipant, error)
	Reassign(ctx context.Context, id string, campaignID string) error
	DeleteByID(ctx context.Context, id string) error
}

type PoliticianLinkStore interface {
	ListByCampaignID(ctx context.Context, campaignID string, readOnly bool) ([]models.CampaignPolitician, error)
	Reassign(ctx context.Context, id string, campaignID string) error
	DeleteByID(ctx context.Context, id string) error
}

type ListingStore interface {
	ListByCampaignID(ctx context.Context, campaignID string, readOnly bool) ([]models.CampaignOrganizationListing, error)
	Reassign(ctx context.Context, id string, campaignID string) error
	DeleteByID(ctx context.Context, id string) error
}

type NewsItemStore interface {
	MoveAll(ctx context.Context, fromCampaignID string, toCampaignID string) (int64, error)
}

type PathStore interface {
	MoveAll(ctx context.Context, fromCampaignID string, toCampaignID string) (int64, error)
}

type PoliticianStore interface {
	GetByPoliticianID(ctx context.Context, politicianID string, readOnly bool) (*models.Politician, error)
	RelinkCampaign(ctx context.Context, fromCampaignID string, toCampaignID string) (int64, error)
}

type LedgerStore interface {
	DeletePossibleDuplicatesByCampaignID(ctx context.Context, campaignID string) error
}

// EventEmitter publishes merge lifecycle events. Emission is best-effort.
type EventEmitter interface {
	EmitCampaignMerged(ctx context.Context, result *models.MergeResult) error
}
