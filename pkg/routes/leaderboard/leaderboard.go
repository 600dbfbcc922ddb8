package leaderboard

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/fairgroundhq/trellis/pkg/models"
	"github.com/fairgroundhq/trellis/pkg/scoring"
)

// Register registers leaderboard and ranking routes
func Register(g *echo.Group) {
	g.GET("/all-time", AllTime)
	g.GET("/weekly", Weekly)
	g.GET("/companies", CompanyRanking)
}

// AllTime returns the all-time user leaderboard
func AllTime(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, svc, err := ectoinject.GetContext[*scoring.LeaderboardService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	entries, err := svc.AllTime(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.LeaderboardResponse{Entries: entries})
}

// Weekly returns the leaderboard for companies assigned in the last seven days
func Weekly(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, svc, err := ectoinject.GetContext[*scoring.LeaderboardService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	entries, err := svc.Weekly(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.LeaderboardResponse{Entries: entries})
}

// CompanyRanking returns companies ranked by how many users they are assigned to
func CompanyRanking(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, svc, err := ectoinject.GetContext[*scoring.LeaderboardService](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	entries, err := svc.CompanyRanking(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.CompanyRankingResponse{Entries: entries})
}
