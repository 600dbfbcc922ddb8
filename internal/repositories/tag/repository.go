// Package tag persists tags and their company associations.
package tag

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/fairgroundhq/trellis/pkg/database"
	"github.com/fairgroundhq/trellis/pkg/models"
	"github.com/fairgroundhq/trellis/pkg/tracing"
)

// Repository handles tag persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new tag repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// List returns all tags ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Tag, error) {
	ctx, span := tracing.StartSpan(ctx, "tag.Repository.List")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "name", "color", "created_at")
	sb.From("tags")
	sb.OrderBy("name ASC")

	query, args := sb.Build()
	var tags []models.Tag
	if err := r.db.SelectContext(ctx, &tags, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list tags")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list tags")
	}
	return tags, nil
}

// ListAssociations returns the tag associations of a company.
func (r *Repository) ListAssociations(ctx context.Context, companyID string) ([]models.CompanyTag, error) {
	ctx, span := tracing.StartSpan(ctx, "tag.Repository.ListAssociations")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("company_id", "tag_id", "created_at")
	sb.From("company_tags")
	sb.Where(sb.Equal("company_id", companyID))

	query, args := sb.Build()
	var associations []models.CompanyTag
	if err := r.db.SelectContext(ctx, &associations, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"company_id": companyID}).Error("Failed to list tag associations")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list tag associations")
	}
	return associations, nil
}

// InsertAssociations attaches tags to a company. Already-present
// associations are skipped at the database level.
func (r *Repository) InsertAssociations(ctx context.Context, companyID string, tagIDs []string) error {
	ctx, span := tracing.StartSpan(ctx, "tag.Repository.InsertAssociations")
	defer span.End()

	if len(tagIDs) == 0 {
		return nil
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto("company_tags")
	ib.Cols("company_id", "tag_id", "created_at")
	now := time.Now().UTC()
	for _, tagID := range tagIDs {
		ib.Values(companyID, tagID, now)
	}
	ib.OnConflictDoNothing()

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"company_id": companyID}).Error("Failed to insert tag associations")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert tag associations")
	}
	return nil
}
