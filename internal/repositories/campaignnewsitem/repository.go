package campaignnewsitem

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

var columns = []string{"id", "campaign_id", "subject", "body", "in_draft_mode", "visible_to_public", "voter_id", "created_at"}

// Repository handles campaign news item persistence
type Repository struct {
	db     *database.Pair
	logger ectologger.Logger
}

// NewRepository creates a new campaign news item repository
func NewRepository(db *database.Pair, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ListByCampaignID retrieves every news item for a campaign
func (r *Repository) ListByCampaignID(ctx context.Context, campaignID string, readOnly bool) ([]models.CampaignNewsItem, error) {
	ctx, span := tracing.StartSpan(ctx, "campaignnewsitem.Repository.ListByCampaignID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("campaign_news_items")
	sb.Where(sb.Equal("campaign_id", campaignID))
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var items []models.CampaignNewsItem
	if err := r.db.Handle(readOnly).SelectContext(ctx, &items, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list campaign news items")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list campaign news items")
	}

	return items, nil
}

// MoveAll re-parents every news item from one campaign to another. News
// items have no natural key, so nothing can collide.
func (r *Repository) MoveAll(ctx context.Context, fromCampaignID string, toCampaignID string) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "campaignnewsitem.Repository.MoveAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("campaign_news_items")
	sb.Set(sb.Assign("campaign_id", toCampaignID))
	sb.Where(sb.Equal("campaign_id", fromCampaignID))

	query, args := sb.Build()
	result, err := r.db.Writer().ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"from": fromCampaignID, "to": toCampaignID}).Error("Failed to move campaign news items")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to move campaign news items")
	}

	rows, _ := result.RowsAffected()
	return rows, nil
}
