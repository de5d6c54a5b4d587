// Package audit defines the audit trail recorded for user actions.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"bherp/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionLogin    Action = "login"
	ActionRegister Action = "register"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
)

// Entry is a single audit log record.
type Entry struct {
	ID         id.ID           `db:"id" json:"id"`
	TenantID   *id.ID          `db:"tenant_id" json:"tenantId,omitempty"`
	EntityType string          `db:"entity_type" json:"entityType"`
	EntityID   id.ID           `db:"entity_id" json:"entityId"`
	Action     Action          `db:"action" json:"action"`
	Username   string          `db:"username" json:"username"`
	Details    json.RawMessage `db:"details" json:"details,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// Recorder persists audit entries. Recording is best-effort: failures
// are logged by implementations, never surfaced to the business flow.
type Recorder interface {
	// Record writes one audit entry.
	Record(ctx context.Context, entry Entry) error

	// History returns entries for one entity, newest first.
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error)
}

// NewEntry builds an entry with generated id and timestamp.
func NewEntry(entityType string, entityID id.ID, action Action, details any) (Entry, error) {
	entry := Entry{
		ID:         id.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		CreatedAt:  time.Now().UTC(),
	}

	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return Entry{}, err
		}
		entry.Details = raw
	}

	return entry, nil
}
