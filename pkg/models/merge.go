package models

import (
	"encoding/json"
	"time"
)

// FieldOverrides carries caller-chosen values that win over both records during a merge.
// A nil field means "no override, resolve normally".
type FieldOverrides struct {
	Name          *string        `json:"name,omitempty"`
	ContactName   *string        `json:"contact_name,omitempty"`
	ContactEmail  *string        `json:"contact_email,omitempty"`
	Phone         *string        `json:"phone,omitempty"`
	Status        *CompanyStatus `json:"status,omitempty"`
	BoothNumber   *string        `json:"booth_number,omitempty"`
	BoothLocation *string        `json:"booth_location,omitempty"`
	BoothSize     *string        `json:"booth_size,omitempty"`
}

// MergeRequest is the request body for merging a duplicate into a master
type MergeRequest struct {
	MasterID    string          `json:"master_id" validate:"required"`
	DuplicateID string          `json:"duplicate_id" validate:"required"`
	Overrides   *FieldOverrides `json:"overrides,omitempty"`
}

// MergeOutcome is the user-facing result of a merge attempt
type MergeOutcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MergeLog is the audit record written after the merged fields are persisted.
// The insert is best-effort: a failed log never aborts the merge itself.
type MergeLog struct {
	ID           string          `json:"id" db:"id"`
	MasterID     string          `json:"master_id" db:"master_id"`
	DuplicateID  string          `json:"duplicate_id" db:"duplicate_id"`
	MergedFields json.RawMessage `json:"merged_fields" db:"merged_fields"`
	PerformedBy  string          `json:"performed_by,omitempty" db:"performed_by"`
	PerformedAt  time.Time       `json:"performed_at" db:"performed_at"`
}
