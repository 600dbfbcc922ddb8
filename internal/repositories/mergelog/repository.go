// Package mergelog persists merge audit entries. The log is the record used
// to reconcile partially-applied merges, since the merge itself runs without
// a transaction.
package mergelog

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

// Repository handles merge log persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new merge log repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// Insert writes a merge audit entry.
func (r *Repository) Insert(ctx context.Context, entry models.MergeLog) error {
	ctx, span := tracing.StartSpan(ctx, "mergelog.Repository.Insert")
	defer span.End()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.PerformedAt.IsZero() {
		entry.PerformedAt = time.Now().UTC()
	}

	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto("merge_logs")
	ib.Cols("id", "master_id", "duplicate_id", "merged_fields", "performed_by", "performed_at")
	ib.Values(entry.ID, entry.MasterID, entry.DuplicateID, []byte(entry.MergedFields), entry.PerformedBy, entry.PerformedAt)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"master_id": entry.MasterID, "duplicate_id": entry.DuplicateID}).Error("Failed to insert merge log")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert merge log")
	}
	return nil
}

// ListByMaster returns the merge history of a master company, newest first.
func (r *Repository) ListByMaster(ctx context.Context, masterID string) ([]models.MergeLog, error) {
	ctx, span := tracing.StartSpan(ctx, "mergelog.Repository.ListByMaster")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "master_id", "duplicate_id", "merged_fields", "performed_by", "performed_at")
	sb.From("merge_logs")
	sb.Where(sb.Equal("master_id", masterID))
	sb.OrderBy("performed_at DESC")

	query, args := sb.Build()
	var entries []models.MergeLog
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"master_id": masterID}).Error("Failed to list merge logs")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list merge logs")
	}
	return entries, nil
}
