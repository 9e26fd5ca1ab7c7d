package audit

import (
	"encoding/json"
	"time"

	auditDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/audit"
)

// RecentLimit caps GET /audit/recent.
const RecentLimit = 50

type Entry struct {
	ID         string
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]interface{}
	CreatedAt  time.Time
	UserName   string
	UserEmail  string
}

func FromRow(row *auditDatamodel.AuditLogRow) *Entry {
	e := &Entry{
		ID:         row.ID,
		UserID:     row.UserID,
		Action:     row.Action,
		EntityType: row.EntityType,
		EntityID:   row.EntityID,
		CreatedAt:  row.CreatedAt,
		UserName:   row.UserName,
		UserEmail:  row.UserEmail,
	}
	if row.Metadata != "" {
		// rows written by hand may carry anything; keep them listable
		_ = json.Unmarshal([]byte(row.Metadata), &e.Metadata)
	}
	return e
}

func (e *Entry) ToResponse() EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Metadata:   e.Metadata,
		CreatedAt:  e.CreatedAt,
		User: &UserSummary{
			Name:  e.UserName,
			Email: e.UserEmail,
		},
	}
}

type EntryResponse struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"userId"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entityType"`
	EntityID   string                 `json:"entityId"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"createdAt"`
	User       *UserSummary           `json:"user"`
}

type UserSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
