package volunteertask

import (
	"context"
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

// Repository records volunteer task credit
type Repository struct {
	db     *database.Pair
	logger ectologger.Logger
}

// NewRepository creates a new volunteer task repository
func NewRepository(db *database.Pair, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create records one unit of credit for a voter. Callers treat failures as
// non-fatal; the repository still reports them.
func (r *Repository) Create(ctx context.Context, voterID string, actionKind string) (*models.VolunteerTask, error) {
	ctx, span := tracing.StartSpan(ctx, "volunteertask.Repository.Create")
	defer span.End()

	if voterID == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "voter_id is required")
	}

	task := &models.VolunteerTask{
		ID:         uuid.New().String(),
		VoterID:    voterID,
		ActionKind: actionKind,
		CreatedAt:  time.Now().UTC(),
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("volunteer_tasks")
	sb.Cols("id", "voter_id", "action_kind", "created_at")
	sb.Values(task.ID, task.VoterID, task.ActionKind, task.CreatedAt)

	query, args := sb.Build()
	if _, err := r.db.Writer().ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"voter_id": voterID, "action_kind": actionKind}).Error("Failed to record volunteer task")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to record volunteer task")
	}

	return task, nil
}
