package duplicates

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/fairgroundhq/trellis/pkg/context"
	"github.com/fairgroundhq/trellis/pkg/dedupe"
	"github.com/fairgroundhq/trellis/pkg/merging"
	"github.com/fairgroundhq/trellis/pkg/models"
)

var validate = validator.New()

// RoleAdmin is the role allowed to execute merges.
const RoleAdmin = "admin"

// Register registers duplicate detection and merge routes
func Register(g *echo.Group) {
	g.POST("/analyze", Analyze)
	g.POST("/merge", Merge)
}

// Analyze runs duplicate detection over all companies
func Analyze(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, svc, err := ectoinject.GetContext[*dedupe.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	groups, scanned, err := svc.DetectAll(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.AnalyzeResponse{
		Groups:     groups,
		GroupCount: len(groups),
		Scanned:    scanned,
	})
}

// Merge absorbs a duplicate company into a master. Restricted to admins;
// the outcome is always 200 with a success flag and message, matching how
// the merge engine reports failures.
func Merge(c echo.Context) error {
	ctx := c.Request().Context()

	if context.GetUserRole(ctx) != RoleAdmin {
		return httperror.NewHTTPError(http.StatusForbidden, "merge requires the admin role")
	}

	var req models.MergeRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid request: %v", err)
	}
	if req.MasterID == req.DuplicateID {
		return httperror.NewHTTPError(http.StatusBadRequest, "master and duplicate must differ")
	}

	ctx, engine, err := ectoinject.GetContext[*merging.Engine](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	outcome := engine.Merge(ctx, req.MasterID, req.DuplicateID, req.Overrides)
	return c.JSON(http.StatusOK, outcome)
}
