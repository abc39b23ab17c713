package organizationlisting

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/models"
)

var columns = []string{"id", "campaign_id", "site_owner_organization_id", "visible_to_public", "created_at"}

// Repository handles campaign organization listing persistence
type Repository struct {
	db     *database.Pair
	logger ectologger.Logger
}

// NewRepository creates a new organization listing repository
func NewRepository(db *database.Pair, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ListByCampaignID retrieves every listing row for a campaign
func (r *Repository) ListByCampaignID(ctx context.Context, campaignID string, readOnly bool) ([]models.CampaignOrganizationListing, error) {
	ctx, span := tracing.StartSpan(ctx, "organizationlisting.Repository.ListByCampaignID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("campaign_organization_listings")
	sb.Where(sb.Equal("campaign_id", campaignID))
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var listings []models.CampaignOrganizationListing
	if err := r.db.Handle(readOnly).SelectContext(ctx, &listings, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list organization listings")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list organization listings")
	}

	return listings, nil
}

// Reassign moves one listing row to another campaign
func (r *Repository) Reassign(ctx context.Context, id string, campaignID string) error {
	ctx, span := tracing.StartSpan(ctx, "organizationlisting.Repository.Reassign")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("campaign_organization_listings")
	sb.Set(sb.Assign("campaign_id", campaignID))
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := r.db.Writer().ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"listing_id": id}).Error("Failed to reassign organization listing")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to reassign organization listing")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "organization listing not found")
	}

	return nil
}

// DeleteByID removes one listing row
func (r *Repository) DeleteByID(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "organizationlisting.Repository.DeleteByID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("campaign_organization_listings")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	if _, err := r.db.Writer().ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"listing_id": id}).Error("Failed to delete organization listing")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete organization listing")
	}

	return nil
}
