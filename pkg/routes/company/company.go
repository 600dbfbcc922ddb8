package company

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/fairgroundhq/trellis/internal/repositories/assignment"
	"github.com/fairgroundhq/trellis/internal/repositories/company"
	"github.com/fairgroundhq/trellis/internal/repositories/mergelog"
	"github.com/fairgroundhq/trellis/internal/repositories/note"
	"github.com/fairgroundhq/trellis/internal/repositories/tag"
	"github.com/fairgroundhq/trellis/pkg/models"
)

var validate = validator.New()

// Register registers company routes
func Register(g *echo.Group) {
	g.GET("", ListCompanies)
	g.POST("", CreateCompany)
	g.GET("/:id", GetCompany)
	g.PUT("/:id", UpdateCompany)
	g.DELETE("/:id", DeleteCompany)
	g.GET("/:id/tags", ListCompanyTags)
	g.GET("/:id/assignments", ListCompanyAssignments)
	g.GET("/:id/notes", ListCompanyNotes)
	g.GET("/:id/merges", ListCompanyMerges)
}

// ListCompanies lists all companies ordered by name
func ListCompanies(c echo.Context) error {
	ctx := c.Request().Context()

	ctx, repo, err := ectoinject.GetContext[*company.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	companies, err := repo.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.CompanyListResponse{
		Items:      companies,
		TotalCount: len(companies),
	})
}

// GetCompany gets a company by id
func GetCompany(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*company.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	found, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, found)
}

// CreateCompany creates a new company
func CreateCompany(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.CreateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid request: %v", err)
	}

	ctx, repo, err := ectoinject.GetContext[*company.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	created, err := repo.Create(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateCompany updates the provided fields of a company
func UpdateCompany(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	var req models.UpdateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid request: %v", err)
	}

	ctx, repo, err := ectoinject.GetContext[*company.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	updated, err := repo.Update(ctx, id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteCompany soft-deletes a company
func DeleteCompany(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*company.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ListCompanyTags lists a company's tag associations
func ListCompanyTags(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*tag.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	associations, err := repo.ListAssociations(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, associations)
}

// ListCompanyAssignments lists a company's user assignments
func ListCompanyAssignments(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*assignment.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	assignments, err := repo.ListByCompany(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, assignments)
}

// ListCompanyNotes lists a company's notes
func ListCompanyNotes(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*note.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	notes, err := repo.ListByCompany(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, notes)
}

// ListCompanyMerges returns the merge history recorded for a master company
func ListCompanyMerges(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*mergelog.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	entries, err := repo.ListByMaster(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entries)
}
