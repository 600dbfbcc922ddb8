// Package assignment persists user/company assignments.
package assignment

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

var columns = []string{"id", "company_id", "user_id", "role", "created_at"}

// Repository handles assignment persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new assignment repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// ListAll returns every assignment.
func (r *Repository) ListAll(ctx context.Context) ([]models.Assignment, error) {
	ctx, span := tracing.StartSpan(ctx, "assignment.Repository.ListAll")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("assignments")
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list assignments")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list assignments")
	}
	return assignments, nil
}

// ListCreatedSince returns assignments created at or after the given time.
func (r *Repository) ListCreatedSince(ctx context.Context, since time.Time) ([]models.Assignment, error) {
	ctx, span := tracing.StartSpan(ctx, "assignment.Repository.ListCreatedSince")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("assignments")
	sb.Where(sb.GreaterEqualThan("created_at", since))
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list recent assignments")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list recent assignments")
	}
	return assignments, nil
}

// ListByCompany returns the assignments of one company.
func (r *Repository) ListByCompany(ctx context.Context, companyID string) ([]models.Assignment, error) {
	ctx, span := tracing.StartSpan(ctx, "assignment.Repository.ListByCompany")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("assignments")
	sb.Where(sb.Equal("company_id", companyID))
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"company_id": companyID}).Error("Failed to list assignments by company")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list assignments")
	}
	return assignments, nil
}

// Insert creates a new assignment.
func (r *Repository) Insert(ctx context.Context, companyID, userID, role string) error {
	ctx, span := tracing.StartSpan(ctx, "assignment.Repository.Insert")
	defer span.End()

	ib := database.NewInsertBuilder()
	ib.InsertInto("assignments")
	ib.Cols("id", "company_id", "user_id", "role", "created_at")
	ib.Values(uuid.New().String(), companyID, userID, role, time.Now().UTC())
	ib.OnConflictDoNothing()

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"company_id": companyID, "user_id": userID}).Error("Failed to insert assignment")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert assignment")
	}
	return nil
}
