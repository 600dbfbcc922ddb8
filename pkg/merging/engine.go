// Package merging combines a duplicate company into a master record: field
// resolution, tag and assignment union, note carry-over with provenance, a
// best-effort audit log, then deletion of the duplicate. The steps run
// sequentially against the store with no cross-step transaction; a failure
// partway leaves a partial merge that the audit log is used to reconcile.
package merging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"

	trellisctx "github.com/fairgroundhq/trellis/pkg/context"
	"github.com/fairgroundhq/trellis/pkg/metrics"
	"github.com/fairgroundhq/trellis/pkg/models"
	"github.com/fairgroundhq/trellis/pkg/tracing"
)

// CompanyStore is the company surface the merge engine needs.
type CompanyStore interface {
	Get(ctx context.Context, id string) (*models.Company, error)
	UpdateMergedFields(ctx context.Context, id string, fields map[string]any) error
	SoftDelete(ctx context.Context, id string) error
}

// TagStore manages company/tag associations.
type TagStore interface {
	ListAssociations(ctx context.Context, companyID string) ([]models.CompanyTag, error)
	InsertAssociations(ctx context.Context, companyID string, tagIDs []string) error
}

// AssignmentStore manages user/company assignments.
type AssignmentStore interface {
	ListByCompany(ctx context.Context, companyID string) ([]models.Assignment, error)
	Insert(ctx context.Context, companyID, userID, role string) error
}

// NoteStore manages company notes.
type NoteStore interface {
	ListByCompany(ctx context.Context, companyID string) ([]models.Note, error)
	Insert(ctx context.Context, companyID, authorID, content string) error
}

// MergeLogStore records merge audit entries.
type MergeLogStore interface {
	Insert(ctx context.Context, log models.MergeLog) error
}

// EventEmitter publishes merge lifecycle events.
type EventEmitter interface {
	EmitCompanyMerged(ctx context.Context, masterID, duplicateID string) error
}

// Engine executes merges.
type Engine struct {
	log         ectologger.Logger
	companies   CompanyStore
	tags        TagStore
	assignments AssignmentStore
	notes       NoteStore
	mergeLogs   MergeLogStore
	events      EventEmitter
}

// NewEngine creates a new merge engine. events may be nil.
func NewEngine(
	log ectologger.Logger,
	companies CompanyStore,
	tags TagStore,
	assignments AssignmentStore,
	notes NoteStore,
	mergeLogs MergeLogStore,
	events EventEmitter,
) *Engine {
	return &Engine{
		log:         log,
		companies:   companies,
		tags:        tags,
		assignments: assignments,
		notes:       notes,
		mergeLogs:   mergeLogs,
		events:      events,
	}
}

// Merge absorbs the duplicate company into the master. It never returns an
// error: every failure is reported through the outcome message. Steps after
// the first mutation are not rolled back on failure.
func (e *Engine) Merge(ctx context.Context, masterID, duplicateID string, overrides *models.FieldOverrides) models.MergeOutcome {
	ctx, span := tracing.StartSpan(ctx, "merging.Engine.Merge")
	defer span.End()

	log := e.log.WithContext(ctx).WithFields(map[string]any{
		"master_id":    masterID,
		"duplicate_id": duplicateID,
	})

	master, err := e.companies.Get(ctx, masterID)
	if err != nil || master == nil {
		return e.fail(ctx, log, "cannot find one or both companies")
	}
	duplicate, err := e.companies.Get(ctx, duplicateID)
	if err != nil || duplicate == nil {
		return e.fail(ctx, log, "cannot find one or both companies")
	}

	fields := resolveFields(master, duplicate, overrides)
	if err := e.companies.UpdateMergedFields(ctx, master.ID, fields); err != nil {
		return e.fail(ctx, log, fmt.Sprintf("merge failed: %v", err))
	}

	if err := e.unionTags(ctx, master.ID, duplicate.ID); err != nil {
		return e.fail(ctx, log, fmt.Sprintf("merge failed: %v", err))
	}

	if err := e.unionAssignments(ctx, master.ID, duplicate.ID); err != nil {
		return e.fail(ctx, log, fmt.Sprintf("merge failed: %v", err))
	}

	if err := e.carryOverNotes(ctx, master.ID, duplicate); err != nil {
		return e.fail(ctx, log, fmt.Sprintf("merge failed: %v", err))
	}

	// Audit log is best-effort: the merge proceeds even if it cannot be
	// recorded.
	e.writeMergeLog(ctx, log, master.ID, duplicate.ID, fields)

	if err := e.companies.SoftDelete(ctx, duplicate.ID); err != nil {
		return e.fail(ctx, log, fmt.Sprintf("merge failed: %v", err))
	}

	metrics.RecordMerge(true)
	log.Info("Merge complete")

	if e.events != nil {
		if err := e.events.EmitCompanyMerged(ctx, master.ID, duplicate.ID); err != nil {
			log.WithError(err).Warn("Failed to emit company merged event")
		}
	}

	return models.MergeOutcome{
		Success: true,
		Message: fmt.Sprintf("%s was merged into %s", duplicate.Name, master.Name),
	}
}

func (e *Engine) fail(ctx context.Context, log ectologger.Logger, message string) models.MergeOutcome {
	metrics.RecordMerge(false)
	log.WithFields(map[string]any{"message": message}).Warn("Merge failed")
	return models.MergeOutcome{Success: false, Message: message}
}

// unionTags inserts the duplicate's tag associations that the master does
// not already have. Existing master tags are never removed.
func (e *Engine) unionTags(ctx context.Context, masterID, duplicateID string) error {
	duplicateTags, err := e.tags.ListAssociations(ctx, duplicateID)
	if err != nil {
		return err
	}
	if len(duplicateTags) == 0 {
		return nil
	}

	masterTags, err := e.tags.ListAssociations(ctx, masterID)
	if err != nil {
		return err
	}

	existing := make(map[string]bool, len(masterTags))
	for _, t := range masterTags {
		existing[t.TagID] = true
	}

	var missing []string
	for _, t := range duplicateTags {
		if !existing[t.TagID] {
			missing = append(missing, t.TagID)
		}
	}

	if len(missing) == 0 {
		return nil
	}
	return e.tags.InsertAssociations(ctx, masterID, missing)
}

// unionAssignments carries over duplicate assignments for users not already
// assigned to the master. An existing master assignment keeps its role even
// when the duplicate's role differs.
func (e *Engine) unionAssignments(ctx context.Context, masterID, duplicateID string) error {
	duplicateAssignments, err := e.assignments.ListByCompany(ctx, duplicateID)
	if err != nil {
		return err
	}
	if len(duplicateAssignments) == 0 {
		return nil
	}

	masterAssignments, err := e.assignments.ListByCompany(ctx, masterID)
	if err != nil {
		return err
	}

	assigned := make(map[string]bool, len(masterAssignments))
	for _, a := range masterAssignments {
		assigned[a.UserID] = true
	}

	for _, a := range duplicateAssignments {
		if assigned[a.UserID] {
			continue
		}
		if err := e.assignments.Insert(ctx, masterID, a.UserID, a.Role); err != nil {
			return err
		}
	}
	return nil
}

// carryOverNotes re-inserts the duplicate's notes onto the master, each
// prefixed with a provenance marker naming the duplicate.
func (e *Engine) carryOverNotes(ctx context.Context, masterID string, duplicate *models.Company) error {
	notes, err := e.notes.ListByCompany(ctx, duplicate.ID)
	if err != nil {
		return err
	}

	for _, note := range notes {
		content := fmt.Sprintf("[Merged from %s] %s", duplicate.Name, note.Content)
		if err := e.notes.Insert(ctx, masterID, note.AuthorID, content); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) writeMergeLog(ctx context.Context, log ectologger.Logger, masterID, duplicateID string, fields map[string]any) {
	snapshot, err := json.Marshal(fields)
	if err != nil {
		log.WithError(err).Warn("Failed to marshal merge log snapshot")
		return
	}

	entry := models.MergeLog{
		MasterID:     masterID,
		DuplicateID:  duplicateID,
		MergedFields: snapshot,
		PerformedBy:  trellisctx.GetUserID(ctx),
		PerformedAt:  time.Now().UTC(),
	}
	if err := e.mergeLogs.Insert(ctx, entry); err != nil {
		log.WithError(err).Warn("Failed to write merge log")
	}
}
