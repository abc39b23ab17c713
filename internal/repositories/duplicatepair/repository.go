package duplicatepair

import (
	"context"
	"database/sql"
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

// Repository handles the duplicate ledger: confirmed not-duplicate pairs and
// the possible-duplicate review queue. Pair lookups are symmetric; (a, b)
// and (b, a) are the same pair.
type Repository struct {
	db     *database.Pair
	logger ectologger.Logger
}

// NewRepository creates a new duplicate pair repository
func NewRepository(db *database.Pair, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// GetNotDuplicatePair finds an existing verdict between two campaigns,
// regardless of orientation. Returns nil when none exists.
func (r *Repository) GetNotDuplicatePair(ctx context.Context, campaignA string, campaignB string, readOnly bool) (*models.NotDuplicatePair, error) {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.GetNotDuplicatePair")
	defer span.End()

	query := `
		SELECT id, campaign1_id, campaign2_id, created_at, updated_at
		FROM campaign_not_duplicates
		WHERE ((campaign1_id = $1 AND campaign2_id = $2) OR (campaign1_id = $2 AND campaign2_id = $1))
		LIMIT 1
	`

	var pair models.NotDuplicatePair
	if err := r.db.Handle(readOnly).GetContext(ctx, &pair, query, campaignA, campaignB); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil // No existing verdict
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get not-duplicate pair")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get not-duplicate pair")
	}

	return &pair, nil
}

// AreNotDuplicates reports whether the pair was already confirmed distinct
func (r *Repository) AreNotDuplicates(ctx context.Context, campaignA string, campaignB string, readOnly bool) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.AreNotDuplicates")
	defer span.End()

	pair, err := r.GetNotDuplicatePair(ctx, campaignA, campaignB, readOnly)
	if err != nil {
		return false, err
	}
	return pair != nil, nil
}

// MarkNotDuplicates records a confirmed not-a-duplicate verdict. Idempotent:
// an existing row in either orientation is left alone.
func (r *Repository) MarkNotDuplicates(ctx context.Context, campaignA string, campaignB string) error {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.MarkNotDuplicates")
	defer span.End()

	existing, err := r.GetNotDuplicatePair(ctx, campaignA, campaignB, false)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("campaign_not_duplicates")
	sb.Cols("id", "campaign1_id", "campaign2_id", "created_at", "updated_at")
	sb.Values(uuid.New().String(), campaignA, campaignB, now, now)

	query, args := sb.Build()
	if _, err := r.db.Writer().ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"campaign1_id": campaignA, "campaign2_id": campaignB}).Error("Failed to mark pair as not duplicates")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to mark pair as not duplicates")
	}

	return nil
}

// MarkSwept records a single-sided row meaning "searched, nothing found".
// Keeps the campaign out of future sweep chunks.
func (r *Repository) MarkSwept(ctx context.Context, campaignID string) error {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.MarkSwept")
	defer span.End()

	query := `
		SELECT id, campaign1_id, campaign2_id, created_at, updated_at
		FROM campaign_not_duplicates
		WHERE campaign1_id = $1 AND campaign2_id IS NULL
		LIMIT 1
	`
	var existing models.NotDuplicatePair
	err := r.db.Writer().GetContext(ctx, &existing, query, campaignID)
	if err == nil {
		return nil
	}
	if err.Error() != "sql: no rows in result set" {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to check swept marker")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to mark campaign as swept")
	}

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("campaign_not_duplicates")
	sb.Cols("id", "campaign1_id", "campaign2_id", "created_at", "updated_at")
	sb.Values(uuid.New().String(), campaignID, nil, now, now)

	query, args := sb.Build()
	if _, err := r.db.Writer().ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"campaign_id": campaignID}).Error("Failed to mark campaign as swept")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to mark campaign as swept")
	}

	return nil
}

// ListNotDuplicateIDs returns the other side of every confirmed pair that
// involves the campaign
func (r *Repository) ListNotDuplicateIDs(ctx context.Context, campaignID string, readOnly bool) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.ListNotDuplicateIDs")
	defer span.End()

	query := `
		SELECT campaign1_id, campaign2_id
		FROM campaign_not_duplicates
		WHERE campaign1_id = $1 OR campaign2_id = $1
	`

	var pairs []models.NotDuplicatePair
	if err := r.db.Handle(readOnly).SelectContext(ctx, &pairs, query, campaignID); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list not-duplicate ids")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list not-duplicate ids")
	}

	var others []string
	for _, pair := range pairs {
		if pair.Campaign1ID != campaignID && pair.Campaign1ID != "" {
			others = append(others, pair.Campaign1ID)
		}
		if pair.Campaign2ID != nil && *pair.Campaign2ID != campaignID && *pair.Campaign2ID != "" {
			others = append(others, *pair.Campaign2ID)
		}
	}

	return others, nil
}

// UpsertPossibleDuplicate queues a pair for human review. An existing row in
// either orientation is refreshed instead of duplicated.
func (r *Repository) UpsertPossibleDuplicate(ctx context.Context, campaignA string, campaignB string, stateCode string) error {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.UpsertPossibleDuplicate")
	defer span.End()

	now := time.Now().UTC()
	updateQuery := `
		UPDATE campaign_possible_duplicates
		SET state_code = $1, updated_at = $2
		WHERE ((campaign1_id = $3 AND campaign2_id = $4) OR (campaign1_id = $4 AND campaign2_id = $3))
	`
	result, err := r.db.Writer().ExecContext(ctx, updateQuery, stateCode, now, campaignA, campaignB)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update possible duplicate")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to queue possible duplicate")
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("campaign_possible_duplicates")
	sb.Cols("id", "campaign1_id", "campaign2_id", "state_code", "created_at", "updated_at")
	sb.Values(uuid.New().String(), campaignA, campaignB, stateCode, now, now)

	query, args := sb.Build()
	if _, err := r.db.Writer().ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"campaign1_id": campaignA, "campaign2_id": campaignB}).Error("Failed to queue possible duplicate")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to queue possible duplicate")
	}

	return nil
}

// DeletePossibleDuplicate removes a pair from the review queue in either
// orientation
func (r *Repository) DeletePossibleDuplicate(ctx context.Context, campaignA string, campaignB string) error {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.DeletePossibleDuplicate")
	defer span.End()

	query := `
		DELETE FROM campaign_possible_duplicates
		WHERE ((campaign1_id = $1 AND campaign2_id = $2) OR (campaign1_id = $2 AND campaign2_id = $1))
	`

	if _, err := r.db.Writer().ExecContext(ctx, query, campaignA, campaignB); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete possible duplicate")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete possible duplicate")
	}

	return nil
}

// DeletePossibleDuplicatesByCampaignID removes every review queue row that
// references a campaign. Used when a merge retires a campaign_id.
func (r *Repository) DeletePossibleDuplicatesByCampaignID(ctx context.Context, campaignID string) error {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.DeletePossibleDuplicatesByCampaignID")
	defer span.End()

	query := `
		DELETE FROM campaign_possible_duplicates
		WHERE campaign1_id = $1 OR campaign2_id = $1
	`

	if _, err := r.db.Writer().ExecContext(ctx, query, campaignID); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete possible duplicates by campaign_id")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete possible duplicates")
	}

	return nil
}

// ListPossibleDuplicates retrieves the review queue, optionally narrowed to
// a state
func (r *Repository) ListPossibleDuplicates(ctx context.Context, stateCode string, limit int, readOnly bool) ([]models.PossibleDuplicatePair, error) {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.ListPossibleDuplicates")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "campaign1_id", "campaign2_id", "state_code", "created_at", "updated_at")
	sb.From("campaign_possible_duplicates")
	if stateCode != "" {
		sb.Where(sb.Equal("state_code", stateCode))
	}
	sb.OrderBy("created_at ASC")
	sb.Limit(limit)

	query, args := sb.Build()
	var pairs []models.PossibleDuplicatePair
	if err := r.db.Handle(readOnly).SelectContext(ctx, &pairs, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list possible duplicates")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list possible duplicates")
	}

	return pairs, nil
}

// SweepExclusionIDs returns every campaign_id that already appears on either
// side of either ledger table. These campaigns are settled and skipped by
// the sweep.
func (r *Repository) SweepExclusionIDs(ctx context.Context, readOnly bool) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.SweepExclusionIDs")
	defer span.End()

	query := `
		SELECT DISTINCT campaign_id FROM (
			SELECT campaign1_id AS campaign_id FROM campaign_not_duplicates
			UNION
			SELECT campaign2_id AS campaign_id FROM campaign_not_duplicates WHERE campaign2_id IS NOT NULL
			UNION
			SELECT campaign1_id AS campaign_id FROM campaign_possible_duplicates
			UNION
			SELECT campaign2_id AS campaign_id FROM campaign_possible_duplicates
		) ids
	`

	var ids []string
	if err := r.db.Handle(readOnly).SelectContext(ctx, &ids, query); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to collect sweep exclusion ids")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to collect sweep exclusion ids")
	}

	return ids, nil
}

// ResolveAsNotDuplicates marks the pair distinct and clears it from the
// review queue in one transaction. Used by the review skip flow.
func (r *Repository) ResolveAsNotDuplicates(ctx context.Context, campaignA string, campaignB string) error {
	ctx, span := tracing.StartSpan(ctx, "duplicatepair.Repository.ResolveAsNotDuplicates")
	defer span.End()

	ctxTx, tx, err := r.db.Writer().GetTx(ctx, &sql.TxOptions{})
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to begin transaction")
	}
	// rollback with the outer ctx; the tx ctx marks the transaction as owned
	// and turns Rollback into a no-op
	defer tx.Rollback(ctx)

	existsQuery := `
		SELECT COUNT(*)
		FROM campaign_not_duplicates
		WHERE ((campaign1_id = $1 AND campaign2_id = $2) OR (campaign1_id = $2 AND campaign2_id = $1))
	`
	var count int
	if err := tx.GetContext(ctxTx, &count, existsQuery, campaignA, campaignB); err != nil {
		r.logger.WithContext(ctxTx).WithError(err).Error("Failed to check not-duplicate pair")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to resolve pair")
	}

	if count == 0 {
		now := time.Now().UTC()
		insertQuery := `
			INSERT INTO campaign_not_duplicates (id, campaign1_id, campaign2_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
		`
		if _, err := tx.ExecContext(ctxTx, insertQuery, uuid.New().String(), campaignA, campaignB, now); err != nil {
			r.logger.WithContext(ctxTx).WithError(err).Error("Failed to insert not-duplicate pair")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to resolve pair")
		}
	}

	deleteQuery := `
		DELETE FROM campaign_possible_duplicates
		WHERE ((campaign1_id = $1 AND campaign2_id = $2) OR (campaign1_id = $2 AND campaign2_id = $1))
	`
	if _, err := tx.ExecContext(ctxTx, deleteQuery, campaignA, campaignB); err != nil {
		r.logger.WithContext(ctxTx).WithError(err).Error("Failed to clear review queue row")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to resolve pair")
	}

	if err := tx.Commit(ctxTx); err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit resolution")
	}

	return nil
}
