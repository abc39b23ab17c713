package seofriendlypath

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

var columns = []string{"id", "campaign_id", "final_pathname", "base_pathname", "pathname_modifier", "created_at"}

// Repository handles historical SEO friendly path persistence
type Repository struct {
	db     *database.Pair
	logger ectologger.Logger
}

// NewRepository creates a new SEO friendly path repository
func NewRepository(db *database.Pair, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ListByCampaignID retrieves every path row for a campaign
func (r *Repository) ListByCampaignID(ctx context.Context, campaignID string, readOnly bool) ([]models.CampaignSEOFriendlyPath, error) {
	ctx, span := tracing.StartSpan(ctx, "seofriendlypath.Repository.ListByCampaignID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("campaign_seo_friendly_paths")
	sb.Where(sb.Equal("campaign_id", campaignID))
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var paths []models.CampaignSEOFriendlyPath
	if err := r.db.Handle(readOnly).SelectContext(ctx, &paths, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list SEO friendly paths")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list SEO friendly paths")
	}

	return paths, nil
}

// MoveAll re-parents every path row from one campaign to another. Path text
// is globally unique, so loser rows never collide with survivor rows.
func (r *Repository) MoveAll(ctx context.Context, fromCampaignID string, toCampaignID string) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "seofriendlypath.Repository.MoveAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("campaign_seo_friendly_paths")
	sb.Set(sb.Assign("campaign_id", toCampaignID))
	sb.Where(sb.Equal("campaign_id", fromCampaignID))

	query, args := sb.Build()
	result, err := r.db.Writer().ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"from": fromCampaignID, "to": toCampaignID}).Error("Failed to move SEO friendly paths")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to move SEO friendly paths")
	}

	rows, _ := result.RowsAffected()
	return rows, nil
}
