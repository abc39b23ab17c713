package campaignowner

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/models"
)

var columns = []string{"id", "campaign_id", "organization_id", "organization_name", "voter_id", "feature_profile", "visible_to_public", "created_at", "updated_at"}

// Repository handles campaign owner persistence
type Repository struct {
	db     *database.Pair
	logger ectologger.Logger
}

// NewRepository creates a new campaign owner repository
func NewRepository(db *database.Pair, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ListByCampaignID retrieves every owner row for a campaign
func (r *Repository) ListByCampaignID(ctx context.Context, campaignID string, readOnly bool) ([]models.CampaignOwner, error) {
	ctx, span := tracing.StartSpan(ctx, "campaignowner.Repository.ListByCampaignID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("campaign_owners")
	sb.Where(sb.Equal("campaign_id", campaignID))
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var owners []models.CampaignOwner
	if err := r.db.Handle(readOnly).SelectContext(ctx, &owners, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list campaign owners")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list campaign owners")
	}

	return owners, nil
}

// Reassign moves one owner row to another campaign
func (r *Repository) Reassign(ctx context.Context, id string, campaignID string) error {
	ctx, span := tracing.StartSpan(ctx, "campaignowner.Repository.Reassign")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("campaign_owners")
	sb.Set(
		sb.Assign("campaign_id", campaignID),
		sb.Assign("updated_at", time.Now().UTC()),
	)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := r.db.Writer().ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"owner_id": id}).Error("Failed to reassign campaign owner")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to reassign campaign owner")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "campaign owner not found")
	}

	return nil
}

// DeleteByID removes one owner row
func (r *Repository) DeleteByID(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "campaignowner.Repository.DeleteByID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("campaign_owners")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	if _, err := r.db.Writer().ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"owner_id": id}).Error("Failed to delete campaign owner")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete campaign owner")
	}

	return nil
}
