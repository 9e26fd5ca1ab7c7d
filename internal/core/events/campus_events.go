package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeNotificationRequested = "notification.requested"
	EventTypeNotificationCreated   = "notification.created"
	EventTypeAuditRecorded         = "audit.recorded"
)

// Notification categories shown as inbox tabs.
const (
	CategoryEvents   = "Events"
	CategoryBookings = "Bookings"
	CategorySystem   = "System"
)

type NotificationRequestedEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

func NewNotificationRequestedEvent(userID, title, message, category string) *NotificationRequestedEvent {
	return &NotificationRequestedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeNotificationRequested,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"user_id":  userID,
				"title":    title,
				"category": category,
			},
		},
		UserID:   userID,
		Title:    title,
		Message:  message,
		Category: category,
	}
}

// NotificationCreatedEvent fires after the inbox row is stored. Delivery
// channels other than the inbox (email) hang off this one.
type NotificationCreatedEvent struct {
	BaseEvent
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Category       string `json:"category"`
}

func NewNotificationCreatedEvent(notificationID, userID, title, message, category string) *NotificationCreatedEvent {
	return &NotificationCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeNotificationCreated,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"notification_id": notificationID,
				"user_id":         userID,
				"category":        category,
			},
		},
		NotificationID: notificationID,
		UserID:         userID,
		Title:          title,
		Message:        message,
		Category:       category,
	}
}

type AuditRecordedEvent struct {
	BaseEvent
	ActorID    string                 `json:"actor_id"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata"`
}

func NewAuditRecordedEvent(actorID, action, entityType, entityID string, metadata map[string]interface{}) *AuditRecordedEvent {
	return &AuditRecordedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAuditRecorded,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"actor_id":    actorID,
				"action":      action,
				"entity_type": entityType,
				"entity_id":   entityID,
			},
		},
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
	}
}
