package merge

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/context"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/duplicatepair"
	"github.com/Ramsey-B/fern/internal/repositories/volunteertask"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/merging"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/sweep"
)

var validate = validator.New()

// Register registers merge and review routes
func Register(g *echo.Group) {
	g.POST("/merge", SubmitMerge)
	g.POST("/not-duplicate", MarkNotDuplicate)
	g.GET("/possible-duplicates", ListPossibleDuplicates)
	g.POST("/sweep", RunSweep)
}

// MergeRequest carries an admin's merge decision
type MergeRequest struct {
	SurvivorID      string         `json:"survivor_id" validate:"required"`
	LoserID         string         `json:"loser_id" validate:"required"`
	ChosenValues    map[string]any `json:"chosen_values"`
	RegenerateTitle bool           `json:"regenerate_title"`
}

// NotDuplicateRequest marks a reviewed pair as distinct
type NotDuplicateRequest struct {
	Campaign1ID string `json:"campaign1_id" validate:"required"`
	Campaign2ID string `json:"campaign2_id" validate:"required"`
}

// SweepRequest scopes a sweep run
type SweepRequest struct {
	StateCode string `json:"state_code"`
	Limit     int    `json:"limit" validate:"gte=0,lte=1000"`
}

// SubmitMerge performs a merge with the caller's chosen values. The caller
// has reviewed the pair, so conflicts are considered settled.
func SubmitMerge(c echo.Context) error {
	ctx := c.Request().Context()

	var req MergeRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.SurvivorID == req.LoserID {
		return httperror.NewHTTPError(http.StatusBadRequest, "survivor_id and loser_id must differ")
	}

	opts := models.MergeOptions{
		ChosenValues:    map[models.Attribute]any{},
		RegenerateTitle: req.RegenerateTitle,
	}
	for name, value := range req.ChosenValues {
		attr := models.Attribute(name)
		if !models.IsMergeableAttribute(attr) {
			return httperror.NewHTTPError(http.StatusBadRequest, "unknown attribute: "+name)
		}
		opts.ChosenValues[attr] = value
		for _, unique := range models.UniqueAttributesToClear {
			if attr == unique {
				opts.ClearAttributes = append(opts.ClearAttributes, attr)
			}
		}
	}

	ctx, executor, err := ectoinject.GetContext[*merging.Executor](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := executor.Merge(ctx, req.SurvivorID, req.LoserID, opts)
	if err != nil {
		return err
	}

	creditVolunteer(c)

	return c.JSON(http.StatusOK, result)
}

// MarkNotDuplicate records a reviewed pair as distinct and clears it from
// the review queue
func MarkNotDuplicate(c echo.Context) error {
	ctx := c.Request().Context()

	var req NotDuplicateRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Campaign1ID == req.Campaign2ID {
		return httperror.NewHTTPError(http.StatusBadRequest, "campaign1_id and campaign2_id must differ")
	}

	ctx, pairs, err := ectoinject.GetContext[*duplicatepair.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := pairs.ResolveAsNotDuplicates(ctx, req.Campaign1ID, req.Campaign2ID); err != nil {
		return err
	}

	creditVolunteer(c)

	if ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx); err == nil && emitter != nil {
		if err := emitter.EmitNotDuplicate(ctx, req.Campaign1ID, req.Campaign2ID); err != nil {
			logWarn(c, err, "Failed to emit campaign.not_duplicate event")
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "not_duplicate"})
}

// ListPossibleDuplicates retrieves the review queue
func ListPossibleDuplicates(c echo.Context) error {
	ctx := c.Request().Context()

	stateCode := c.QueryParam("state_code")
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return httperror.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		limit = parsed
	}

	ctx, pairs, err := ectoinject.GetContext[*duplicatepair.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	queue, err := pairs.ListPossibleDuplicates(ctx, stateCode, limit, true)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, queue)
}

// RunSweep runs one sweep chunk and reports what it did
func RunSweep(c echo.Context) error {
	ctx := c.Request().Context()

	var req SweepRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, sweeper, err := ectoinject.GetContext[*sweep.Sweeper](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := sweeper.Run(ctx, sweep.Options{
		StateCode:       req.StateCode,
		Limit:           req.Limit,
		ReviewerVoterID: context.GetVoterID(ctx),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// creditVolunteer records a volunteer task for the calling voter. Review
// work counts even when the credit write fails, so failures are logged and
// swallowed.
func creditVolunteer(c echo.Context) {
	ctx := c.Request().Context()

	voterID := context.GetVoterID(ctx)
	if voterID == "" {
		return
	}

	ctx, tasks, err := ectoinject.GetContext[*volunteertask.Repository](ctx)
	if err != nil {
		return
	}

	if _, err := tasks.Create(ctx, voterID, models.VolunteerTaskKindDuplicateCampaignAnalysis); err != nil {
		logWarn(c, err, "Failed to record volunteer task")
	}
}

func logWarn(c echo.Context, err error, msg string) {
	ctx, logger, resolveErr := ectoinject.GetContext[ectologger.Logger](c.Request().Context())
	if resolveErr != nil || logger == nil {
		return
	}
	logger.WithContext(ctx).WithError(err).Warn(msg)
}
