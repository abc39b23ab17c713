package campaignpolitician

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

var columns = []string{"id", "campaign_id", "politician_id", "politician_name", "state_code", "created_at"}

// Repository handles campaign-to-politician link persistence
type Repository struct {
	db     *database.Pair
	logger ectologger.Logger
}

// NewRepository creates a new campaign politician repository
func NewRepository(db *database.Pair, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ListByCampaignID retrieves every politician link for a campaign
func (r *Repository) ListByCampaignID(ctx context.Context, campaignID string, readOnly bool) ([]models.CampaignPolitician, error) {
	ctx, span := tracing.StartSpan(ctx, "campaignpolitician.Repository.ListByCampaignID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("campaign_politicians")
	sb.Where(sb.Equal("campaign_id", campaignID))
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var links []models.CampaignPolitician
	if err := r.db.Handle(readOnly).SelectContext(ctx, &links, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list campaign politicians")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list campaign politicians")
	}

	return links, nil
}

// Reassign moves one politician link to another campaign
func (r *Repository) Reassign(ctx context.Context, id string, campaignID string) error {
	ctx, span := tracing.StartSpan(ctx, "campaignpolitician.Repository.Reassign")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("campaign_politicians")
	sb.Set(sb.Assign("campaign_id", campaignID))
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := r.db.Writer().ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"link_id": id}).Error("Failed to reassign campaign politician")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to reassign campaign politician")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "campaign politician not found")
	}

	return nil
}

// DeleteByID removes one politician link
func (r *Repository) DeleteByID(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "campaignpolitician.Repository.DeleteByID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("campaign_politicians")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	if _, err := r.db.Writer().ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"link_id": id}).Error("Failed to delete campaign politician")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete campaign politician")
	}

	return nil
}
