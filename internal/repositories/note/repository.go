// Package note persists company notes.
package note

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

// Repository handles note persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new note repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// ListByCompany returns a company's notes, oldest first.
func (r *Repository) ListByCompany(ctx context.Context, companyID string) ([]models.Note, error) {
	ctx, span := tracing.StartSpan(ctx, "note.Repository.ListByCompany")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "company_id", "author_id", "content", "created_at")
	sb.From("notes")
	sb.Where(sb.Equal("company_id", companyID))
	sb.OrderBy("created_at ASC")

	query, args := sb.Build()
	var notes []models.Note
	if err := r.db.SelectContext(ctx, &notes, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"company_id": companyID}).Error("Failed to list notes")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list notes")
	}
	return notes, nil
}

// Insert creates a new note on a company.
func (r *Repository) Insert(ctx context.Context, companyID, authorID, content string) error {
	ctx, span := tracing.StartSpan(ctx, "note.Repository.Insert")
	defer span.End()

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("notes")
	ib.Cols("id", "company_id", "author_id", "content", "created_at")
	ib.Values(uuid.New().String(), companyID, authorID, content, time.Now().UTC())

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"company_id": companyID}).Error("Failed to insert note")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert note")
	}
	return nil
}
