package campaignparticipant

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

var columns = []string{"id", "campaign_id", "voter_id", "organization_id", "participant_name", "invites_sent", "visible_to_public", "joined_at"}

// Repository handles campaign participant persistence
type Repository struct {
	db     *database.Pair
	logger ectologger.Logger
}

// NewRepository creates a new campaign participant repository
func NewRepository(db *database.Pair, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ListByCampaignID retrieves every participant row for a campaign
func (r *Repository) ListByCampaignID(ctx context.Context, campaignID string, readOnly bool) ([]models.CampaignParticipant, error) {
	ctx, span := tracing.StartSpan(ctx, "campaignparticipant.Repository.ListByCampaignID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("campaign_participants")
	sb.Where(sb.Equal("campaign_id", campaignID))
	sb.OrderBy("joined_at ASC")

	query, args := sb.Build()
	var participants []models.CampaignParticipant
	if err := r.db.Handle(readOnly).SelectContext(ctx, &participants, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list campaign participants")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list campaign participants")
	}

	return participants, nil
}

// Reassign moves one participant row to another campaign
func (r *Repository) Reassign(ctx context.Context, id string, campaignID string) error {
	ctx, span := tracing.StartSpan(ctx, "campaignparticipant.Repository.Reassign")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("campaign_participants")
	sb.Set(sb.Assign("campaign_id", campaignID))
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := r.db.Writer().ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"participant_id": id}).Error("Failed to reassign campaign participant")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to reassign campaign participant")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "campaign participant not found")
	}

	return nil
}

// DeleteByID removes one participant row
func (r *Repository) DeleteByID(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "campaignparticipant.Repository.DeleteByID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("campaign_participants")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	if _, err := r.db.Writer().ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"participant_id": id}).Error("Failed to delete campaign participant")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete campaign participant")
	}

	return nil
}
