package politician

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/models"
)

var columns = []string{"id", "politician_id", "name", "state_code", "linked_campaign_id", "photo_url_large", "photo_url_medium", "photo_url_tiny", "created_at", "updated_at", "deleted_at"}

// Repository handles politician persistence
type Repository struct {
	db     *database.Pair
	logger ectologger.Logger
}

// NewRepository creates a new politician repository
func NewRepository(db *database.Pair, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// GetByPoliticianID retrieves a live politician by its permanent identifier
func (r *Repository) GetByPoliticianID(ctx context.Context, politicianID string, readOnly bool) (*models.Politician, error) {
	ctx, span := tracing.StartSpan(ctx, "politician.Repository.GetByPoliticianID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("politicians")
	sb.Where(
		sb.Equal("politician_id", politicianID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var politician models.Politician
	if err := r.db.Handle(readOnly).GetContext(ctx, &politician, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("politician %s not found", politicianID))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get politician")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get politician")
	}

	return &politician, nil
}

// RelinkCampaign rewires politicians pointing at one campaign to point at
// another. Used when a merge retires the loser's campaign_id.
func (r *Repository) RelinkCampaign(ctx context.Context, fromCampaignID string, toCampaignID string) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "politician.Repository.RelinkCampaign")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("politicians")
	sb.Set(
		sb.Assign("linked_campaign_id", toCampaignID),
		sb.Assign("updated_at", time.Now().UTC()),
	)
	sb.Where(sb.Equal("linked_campaign_id", fromCampaignID))

	query, args := sb.Build()
	result, err := r.db.Writer().ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"from": fromCampaignID, "to": toCampaignID}).Error("Failed to relink politicians")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to relink politicians")
	}

	rows, _ := result.RowsAffected()
	return rows, nil
}
