// Package eventstest records side effects emitted by services under test.
package eventstest

import (
	"context"
	"sync"
)

type Notification struct {
	UserID   string
	Title    string
	Message  string
	Category string
}

type AuditEntry struct {
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]interface{}
}

// Recorder implements events.SideEffects in memory.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
	audits        []AuditEntry
}

func (r *Recorder) Notify(_ context.Context, userID, title, message, category string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{UserID: userID, Title: title, Message: message, Category: category})
}

func (r *Recorder) Audit(_ context.Context, actorID, action, entityType, entityID string, metadata map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits = append(r.audits, AuditEntry{ActorID: actorID, Action: action, EntityType: entityType, EntityID: entityID, Metadata: metadata})
}

func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notifications...)
}

func (r *Recorder) Audits() []AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]AuditEntry(nil), r.audits...)
}
