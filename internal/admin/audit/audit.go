// Copyright (c) 2026 Souq. All rights reserved.

/*
Package audit records immutable traces of privileged admin actions.

Every sensitive mutation (access-code issuance, catalog administration) can
append an entry carrying the actor, the action name, and optional before/after
JSON snapshots of the touched resource.

# Architecture

Entries are append-only. Nothing in the system updates or deletes an audit
row; the listing endpoint is the only read path.
*/
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/souqhq/souq/pkg/pagination"
)

// # Domain Entities

// Entry is one immutable audit record.
type Entry struct {
	ID           string          `json:"id"`
	AdminID      string          `json:"adminId"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resourceType"`
	ResourceID   string          `json:"resourceId,omitempty"`
	OldValue     json.RawMessage `json:"oldValue,omitempty"`
	NewValue     json.RawMessage `json:"newValue,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// # Well-Known Actions

const (
	ActionAccessCodesGenerated = "access_codes.generated"
	ActionProductCreated       = "product.created"
	ActionProductUpdated       = "product.updated"
	ActionProductDeleted       = "product.deleted"
	ActionProductRestored      = "product.restored"
	ActionCategoryCreated      = "category.created"
	ActionCategoryUpdated      = "category.updated"
	ActionCategoryDeleted      = "category.deleted"
	ActionCommentFlagToggled   = "comment.flag_toggled"
)

// # Data Access

// Repository defines the append-only storage contract for audit entries.
type Repository interface {

	/*
		Append persists a new audit entry.

		Parameters:
		  - context: context.Context
		  - entry: *Entry

		Returns:
		  - error: Persistence failures
	*/
	Append(context context.Context, entry *Entry) error

	/*
		List returns entries ordered newest-first with the total count.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []Entry: One page of entries
		  - int: Total entry count
		  - error: Retrieval failures
	*/
	List(context context.Context, params pagination.Params) ([]Entry, int, error)
}

// # Recorder

// Recorder is the write-side facade other domains depend on.
//
// It narrows [Repository] to the single Append capability so catalog and
// accesscode services cannot accidentally read or page the log.
type Recorder interface {
	Append(context context.Context, entry *Entry) error
}

// Snapshot marshals a value into a JSON snapshot for an audit entry.
// Marshal failures degrade to a null snapshot rather than blocking the
// underlying admin action.
func Snapshot(value interface{}) json.RawMessage {
	if value == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return raw
}
