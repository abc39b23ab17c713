package campaign

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/models"
)

var columns = []string{
	"id", "campaign_id", "title", "description", "start_date", "end_date",
	"in_draft_mode", "is_active", "is_blocked", "blocked_reason", "in_review_mode",
	"is_not_promoted", "not_promoted_reason", "ok_to_promote", "is_victorious",
	"politician_id", "politician_starter_list", "state_code", "started_by_voter_id",
	"seo_friendly_path", "photo_original_url", "photo_large_url", "photo_medium_url",
	"photo_small_url", "profile_image_large_url", "profile_image_medium_url",
	"profile_image_tiny_url", "participants_count", "opposers_count",
	"participants_victory_goal", "count_minimum_ignored",
	"created_at", "updated_at", "deleted_at",
}

// Repository handles campaign persistence
type Repository struct {
	db     *database.Pair
	logger ectologger.Logger
}

// NewRepository creates a new campaign repository
func NewRepository(db *database.Pair, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// DB exposes the underlying handle pair for callers that need transactions
func (r *Repository) DB() *database.Pair {
	return r.db
}

// Create inserts a new campaign. The campaign_id must already be assigned;
// this service never mints permanent identifiers.
func (r *Repository) Create(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	ctx, span := tracing.StartSpan(ctx, "campaign.Repository.Create")
	defer span.End()

	if campaign.CampaignID == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "campaign_id is required")
	}
	if campaign.ID == "" {
		campaign.ID = uuid.New().String()
	}
	campaign.CreatedAt = time.Now().UTC()
	campaign.UpdatedAt = campaign.CreatedAt

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("campaigns")
	sb.Cols(columns[:len(columns)-1]...)
	sb.Values(
		campaign.ID, campaign.CampaignID, campaign.Title, campaign.Description, campaign.StartDate, campaign.EndDate,
		campaign.InDraftMode, campaign.IsActive, campaign.IsBlocked, campaign.BlockedReason, campaign.InReviewMode,
		campaign.IsNotPromoted, campaign.NotPromotedReason, campaign.OkToPromote, campaign.IsVictorious,
		campaign.PoliticianID, campaign.PoliticianStarterList, campaign.StateCode, campaign.StartedByVoterID,
		campaign.SEOFriendlyPath, campaign.PhotoOriginalURL, campaign.PhotoLargeURL, campaign.PhotoMediumURL,
		campaign.PhotoSmallURL, campaign.ProfileImageLargeURL, campaign.ProfileImageMediumURL,
		campaign.ProfileImageTinyURL, campaign.ParticipantsCount, campaign.OpposersCount,
		campaign.ParticipantsVictoryGoal, campaign.CountMinimumIgnored,
		campaign.CreatedAt, campaign.UpdatedAt,
	)

	query, args := sb.Build()
	if _, err := r.db.Writer().ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"campaign_id": campaign.CampaignID}).Error("Failed to create campaign")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create campaign")
	}

	return campaign, nil
}

// GetByCampaignID retrieves a live campaign by its permanent identifier
func (r *Repository) GetByCampaignID(ctx context.Context, campaignID string, readOnly bool) (*models.Campaign, error) {
	ctx, span := tracing.StartSpan(ctx, "campaign.Repository.GetByCampaignID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("campaigns")
	sb.Where(
		sb.Equal("campaign_id", campaignID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var campaign models.Campaign
	if err := r.db.Handle(readOnly).GetContext(ctx, &campaign, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("campaign %s not found", campaignID))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get campaign")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get campaign")
	}

	return &campaign, nil
}

// Save writes every mergeable column back to the row
func (r *Repository) Save(ctx context.Context, campaign *models.Campaign) error {
	ctx, span := tracing.StartSpan(ctx, "campaign.Repository.Save")
	defer span.End()

	campaign.UpdatedAt = time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("campaigns")
	sb.Set(
		sb.Assign("title", campaign.Title),
		sb.Assign("description", campaign.Description),
		sb.Assign("start_date", campaign.StartDate),
		sb.Assign("end_date", campaign.EndDate),
		sb.Assign("in_draft_mode", campaign.InDraftMode),
		sb.Assign("is_active", campaign.IsActive),
		sb.Assign("is_blocked", campaign.IsBlocked),
		sb.Assign("blocked_reason", campaign.BlockedReason),
		sb.Assign("in_review_mode", campaign.InReviewMode),
		sb.Assign("is_not_promoted", campaign.IsNotPromoted),
		sb.Assign("not_promoted_reason", campaign.NotPromotedReason),
		sb.Assign("ok_to_promote", campaign.OkToPromote),
		sb.Assign("is_victorious", campaign.IsVictorious),
		sb.Assign("politician_id", campaign.PoliticianID),
		sb.Assign("politician_starter_list", campaign.PoliticianStarterList),
		sb.Assign("state_code", campaign.StateCode),
		sb.Assign("started_by_voter_id", campaign.StartedByVoterID),
		sb.Assign("seo_friendly_path", campaign.SEOFriendlyPath),
		sb.Assign("photo_original_url", campaign.PhotoOriginalURL),
		sb.Assign("photo_large_url", campaign.PhotoLargeURL),
		sb.Assign("photo_medium_url", campaign.PhotoMediumURL),
		sb.Assign("photo_small_url", campaign.PhotoSmallURL),
		sb.Assign("profile_image_large_url", campaign.ProfileImageLargeURL),
		sb.Assign("profile_image_medium_url", campaign.ProfileImageMediumURL),
		sb.Assign("profile_image_tiny_url", campaign.ProfileImageTinyURL),
		sb.Assign("participants_count", campaign.ParticipantsCount),
		sb.Assign("opposers_count", campaign.OpposersCount),
		sb.Assign("participants_victory_goal", campaign.ParticipantsVictoryGoal),
		sb.Assign("count_minimum_ignored", campaign.CountMinimumIgnored),
		sb.Assign("updated_at", campaign.UpdatedAt),
	)
	sb.Where(
		sb.Equal("campaign_id", campaign.CampaignID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.Writer().ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"campaign_id": campaign.CampaignID}).Error("Failed to save campaign")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save campaign")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("campaign %s not found", campaign.CampaignID))
	}

	return nil
}

// SoftDelete retires a campaign. Its campaign_id stops resolving but the row
// stays for audit.
func (r *Repository) SoftDelete(ctx context.Context, campaignID string) error {
	ctx, span := tracing.StartSpan(ctx, "campaign.Repository.SoftDelete")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("campaigns")
	sb.Set(
		sb.Assign("deleted_at", now),
		sb.Assign("updated_at", now),
	)
	sb.Where(
		sb.Equal("campaign_id", campaignID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.Writer().ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to soft delete campaign")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete campaign")
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("campaign %s not found", campaignID))
	}

	return nil
}

// SearchByTitle finds live campaigns whose title matches exactly, ignoring
// case
func (r *Repository) SearchByTitle(ctx context.Context, title string, excludeIDs []string, readOnly bool) ([]models.Campaign, error) {
	ctx, span := tracing.StartSpan(ctx, "campaign.Repository.SearchByTitle")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("campaigns")
	where := []string{
		fmt.Sprintf("LOWER(title) = LOWER(%s)", sb.Var(title)),
		sb.IsNull("deleted_at"),
	}
	if len(excludeIDs) > 0 {
		where = append(where, sb.NotIn("campaign_id", stringsToAny(excludeIDs)...))
	}
	sb.Where(where...)
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var campaigns []models.Campaign
	if err := r.db.Handle(readOnly).SelectContext(ctx, &campaigns, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to search campaigns by title")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to search campaigns")
	}

	return campaigns, nil
}

// SearchByText finds live campaigns with the text anywhere in the title or
// description, ignoring case. A state code narrows the result when given.
func (r *Repository) SearchByText(ctx context.Context, text string, stateCode string, excludeIDs []string, readOnly bool) ([]models.Campaign, error) {
	ctx, span := tracing.StartSpan(ctx, "campaign.Repository.SearchByText")
	defer span.End()

	pattern := "%" + text + "%"
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("campaigns")
	where := []string{
		sb.Or(
			sb.ILike("title", pattern),
			sb.ILike("description", pattern),
		),
		sb.IsNull("deleted_at"),
	}
	if stateCode != "" {
		where = append(where, sb.Equal("state_code", stateCode))
	}
	if len(excludeIDs) > 0 {
		where = append(where, sb.NotIn("campaign_id", stringsToAny(excludeIDs)...))
	}
	sb.Where(where...)
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var campaigns []models.Campaign
	if err := r.db.Handle(readOnly).SelectContext(ctx, &campaigns, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to search campaigns by text")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to search campaigns")
	}

	return campaigns, nil
}

// SearchByNameTokens finds live campaigns mentioning both name tokens in the
// title or description, ignoring case
func (r *Repository) SearchByNameTokens(ctx context.Context, firstName string, lastName string, stateCode string, excludeIDs []string, readOnly bool) ([]models.Campaign, error) {
	ctx, span := tracing.StartSpan(ctx, "campaign.Repository.SearchByNameTokens")
	defer span.End()

	firstPattern := "%" + firstName + "%"
	lastPattern := "%" + lastName + "%"
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("campaigns")
	where := []string{
		sb.Or(
			sb.ILike("title", firstPattern),
			sb.ILike("description", firstPattern),
		),
		sb.Or(
			sb.ILike("title", lastPattern),
			sb.ILike("description", lastPattern),
		),
		sb.IsNull("deleted_at"),
	}
	if stateCode != "" {
		where = append(where, sb.Equal("state_code", stateCode))
	}
	if len(excludeIDs) > 0 {
		where = append(where, sb.NotIn("campaign_id", stringsToAny(excludeIDs)...))
	}
	sb.Where(where...)
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var campaigns []models.Campaign
	if err := r.db.Handle(readOnly).SelectContext(ctx, &campaigns, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to search campaigns by name tokens")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to search campaigns")
	}

	return campaigns, nil
}

// ListPoliticianLinked returns the next sweep chunk: live campaigns
// hard-linked to a politician, skipping ids already settled in the ledger
func (r *Repository) ListPoliticianLinked(ctx context.Context, stateCode string, excludeIDs []string, limit int, readOnly bool) ([]models.Campaign, error) {
	ctx, span := tracing.StartSpan(ctx, "campaign.Repository.ListPoliticianLinked")
	defer span.End()

	if limit < 1 {
		limit = 1000
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("campaigns")
	where := []string{
		sb.IsNotNull("politician_id"),
		sb.NotEqual("politician_id", ""),
		sb.IsNull("deleted_at"),
	}
	if stateCode != "" {
		where = append(where, sb.Equal("state_code", stateCode))
	}
	if len(excludeIDs) > 0 {
		where = append(where, sb.NotIn("campaign_id", stringsToAny(excludeIDs)...))
	}
	sb.Where(where...)
	sb.OrderBy("created_at ASC")
	sb.Limit(limit)

	query, args := sb.Build()
	var campaigns []models.Campaign
	if err := r.db.Handle(readOnly).SelectContext(ctx, &campaigns, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list politician linked campaigns")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list campaigns")
	}

	return campaigns, nil
}

func stringsToAny(ids []string) []any {
	result := make([]any, len(ids))
	for i, id := range ids {
		result[i] = id
	}
	return result
}
