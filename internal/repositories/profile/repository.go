// Package profile persists user profiles.
package profile

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"

	"github.com/fairgroundhq/trellis/pkg/database"
	"github.com/fairgroundhq/trellis/pkg/models"
	"github.com/fairgroundhq/trellis/pkg/tracing"
)

// Repository handles user profile persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new profile repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// List returns all user profiles ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.UserProfile, error) {
	ctx, span := tracing.StartSpan(ctx, "profile.Repository.List")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "name", "role", "created_at")
	sb.From("user_profiles")
	sb.OrderBy("name ASC")

	query, args := sb.Build()
	var profiles []models.UserProfile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list user profiles")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list user profiles")
	}
	return profiles, nil
}

// Get retrieves a single user profile.
func (r *Repository) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	ctx, span := tracing.StartSpan(ctx, "profile.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "name", "role", "created_at")
	sb.From("user_profiles")
	sb.Where(sb.Equal("id", id))
	sb.Limit(1)

	query, args := sb.Build()
	var profile models.UserProfile
	if err := r.db.GetContext(ctx, &profile, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "user profile %s not found", id)
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"user_id": id}).Error("Failed to get user profile")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get user profile")
	}
	return &profile, nil
}
