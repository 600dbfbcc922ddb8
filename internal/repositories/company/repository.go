// Package company persists company records.
package company

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/fairgroundhq/trellis/pkg/database"
	"github.com/fairgroundhq/trellis/pkg/models"
	"github.com/fairgroundhq/trellis/pkg/tracing"
)

var columns = []string{
	"id", "name", "contact_name", "contact_email", "phone", "status",
	"booth_number", "booth_location", "booth_size",
	"created_at", "updated_at", "deleted_at",
}

// mergeableColumns is the allowlist for UpdateMergedFields; anything else
// in the field map is dropped.
var mergeableColumns = map[string]struct{}{
	"name":           {},
	"contact_name":   {},
	"contact_email":  {},
	"phone":          {},
	"status":         {},
	"booth_number":   {},
	"booth_location": {},
	"booth_size":     {},
}

// Repository handles company persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new company repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// List returns all non-deleted companies ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Company, error) {
	ctx, span := tracing.StartSpan(ctx, "company.Repository.List")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("companies")
	sb.Where(sb.IsNull("deleted_at"))
	sb.OrderBy("name ASC")

	query, args := sb.Build()
	var companies []models.Company
	if err := r.db.SelectContext(ctx, &companies, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list companies")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list companies")
	}
	return companies, nil
}

// Get retrieves a non-deleted company by id.
func (r *Repository) Get(ctx context.Context, id string) (*models.Company, error) {
	ctx, span := tracing.StartSpan(ctx, "company.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("companies")
	sb.Where(
		sb.Equal("id", id),
		sb.IsNull("deleted_at"),
	)
	sb.Limit(1)

	query, args := sb.Build()
	var company models.Company
	if err := r.db.GetContext(ctx, &company, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "company %s not found", id)
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"company_id": id}).Error("Failed to get company")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get company")
	}
	return &company, nil
}

// Create inserts a new company.
func (r *Repository) Create(ctx context.Context, req models.CreateCompanyRequest) (*models.Company, error) {
	ctx, span := tracing.StartSpan(ctx, "company.Repository.Create")
	defer span.End()

	status := req.Status
	if status == "" {
		status = models.StatusToContact
	}

	now := time.Now().UTC()
	company := models.Company{
		ID:            uuid.New().String(),
		Name:          req.Name,
		ContactName:   req.ContactName,
		ContactEmail:  req.ContactEmail,
		Phone:         req.Phone,
		Status:        status,
		BoothNumber:   req.BoothNumber,
		BoothLocation: req.BoothLocation,
		BoothSize:     req.BoothSize,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("companies")
	ib.Cols("id", "name", "contact_name", "contact_email", "phone", "status", "booth_number", "booth_location", "booth_size", "created_at", "updated_at")
	ib.Values(
		company.ID, company.Name, company.ContactName, company.ContactEmail, company.Phone,
		company.Status, company.BoothNumber, company.BoothLocation, company.BoothSize,
		company.CreatedAt, company.UpdatedAt,
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create company")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create company")
	}
	return &company, nil
}

// Update applies the non-nil fields of the request to the company.
func (r *Repository) Update(ctx context.Context, id string, req models.UpdateCompanyRequest) (*models.Company, error) {
	ctx, span := tracing.StartSpan(ctx, "company.Repository.Update")
	defer span.End()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("companies")

	assignments := []string{ub.Assign("updated_at", time.Now().UTC())}
	if req.Name != nil {
		assignments = append(assignments, ub.Assign("name", *req.Name))
	}
	if req.ContactName != nil {
		assignments = append(assignments, ub.Assign("contact_name", *req.ContactName))
	}
	if req.ContactEmail != nil {
		assignments = append(assignments, ub.Assign("contact_email", *req.ContactEmail))
	}
	if req.Phone != nil {
		assignments = append(assignments, ub.Assign("phone", *req.Phone))
	}
	if req.Status != nil {
		assignments = append(assignments, ub.Assign("status", *req.Status))
	}
	if req.BoothNumber != nil {
		assignments = append(assignments, ub.Assign("booth_number", *req.BoothNumber))
	}
	if req.BoothLocation != nil {
		assignments = append(assignments, ub.Assign("booth_location", *req.BoothLocation))
	}
	if req.BoothSize != nil {
		assignments = append(assignments, ub.Assign("booth_size", *req.BoothSize))
	}

	ub.Set(assignments...)
	ub.Where(
		ub.Equal("id", id),
		ub.IsNull("deleted_at"),
	)

	query, args := ub.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"company_id": id}).Error("Failed to update company")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update company")
	}
	return r.Get(ctx, id)
}

// UpdateMergedFields persists a resolved merge field set onto the master.
func (r *Repository) UpdateMergedFields(ctx context.Context, id string, fields map[string]any) error {
	ctx, span := tracing.StartSpan(ctx, "company.Repository.UpdateMergedFields")
	defer span.End()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("companies")

	assignments := []string{ub.Assign("updated_at", time.Now().UTC())}
	for column, value := range fields {
		if _, ok := mergeableColumns[column]; !ok {
			continue
		}
		assignments = append(assignments, ub.Assign(column, value))
	}

	ub.Set(assignments...)
	ub.Where(
		ub.Equal("id", id),
		ub.IsNull("deleted_at"),
	)

	query, args := ub.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"company_id": id}).Error("Failed to update merged fields")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update merged fields")
	}
	return nil
}

// SoftDelete marks the company deleted. Deleted ids never resurface: every
// read in this repository filters on deleted_at.
func (r *Repository) SoftDelete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "company.Repository.SoftDelete")
	defer span.End()

	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update("companies")
	ub.Set(ub.Assign("deleted_at", time.Now().UTC()))
	ub.Where(
		ub.Equal("id", id),
		ub.IsNull("deleted_at"),
	)

	query, args := ub.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"company_id": id}).Error("Failed to delete company")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete company")
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return httperror.NewHTTPErrorf(http.StatusNotFound, "company %s not found", id)
	}
	return nil
}
