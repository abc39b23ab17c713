package campaign

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	campaignrepo "github.com/Ramsey-B/fern/internal/repositories/campaign"
	"github.com/Ramsey-B/fern/internal/repositories/duplicatepair"
	politicianrepo "github.com/Ramsey-B/fern/internal/repositories/politician"
	"github.com/Ramsey-B/fern/pkg/locating"
)

// Register registers campaign routes
func Register(g *echo.Group) {
	g.GET("/:campaignID", GetCampaign)
	g.GET("/:campaignID/duplicates", FindDuplicates)
}

// GetCampaign fetches a single campaign by its campaign_id
func GetCampaign(c echo.Context) error {
	ctx := c.Request().Context()

	campaignID := c.Param("campaignID")
	if campaignID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "campaignID is required")
	}

	ctx, repo, err := ectoinject.GetContext[*campaignrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	campaign, err := repo.GetByCampaignID(ctx, campaignID, true)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, campaign)
}

// FindDuplicates runs the duplicate search for one campaign. Pairs already
// confirmed distinct are excluded from the candidate set.
func FindDuplicates(c echo.Context) error {
	ctx := c.Request().Context()

	campaignID := c.Param("campaignID")
	if campaignID == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "campaignID is required")
	}

	ctx, repo, err := ectoinject.GetContext[*campaignrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, pairs, err := ectoinject.GetContext[*duplicatepair.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, locator, err := ectoinject.GetContext[*locating.Locator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	campaign, err := repo.GetByCampaignID(ctx, campaignID, true)
	if err != nil {
		return err
	}

	excludeIDs := []string{campaignID}
	notDuplicates, err := pairs.ListNotDuplicateIDs(ctx, campaignID, true)
	if err != nil {
		return err
	}
	excludeIDs = append(excludeIDs, notDuplicates...)

	query := locating.Query{
		Title:      campaign.Title,
		StateCode:  campaign.StateCode,
		ExcludeIDs: excludeIDs,
	}
	if campaign.HasPolitician() {
		ctx, politicians, err := ectoinject.GetContext[*politicianrepo.Repository](ctx)
		if err == nil {
			if politician, err := politicians.GetByPoliticianID(ctx, *campaign.PoliticianID, true); err == nil {
				query.PoliticianName = politician.Name
			}
		}
	}

	return c.JSON(http.StatusOK, locator.FindSimilar(ctx, query, true))
}
