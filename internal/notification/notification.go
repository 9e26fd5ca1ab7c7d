package notification

import (
	"time"

	notificationDatamodel "github.com/frahmantamala/campus-ops/internal/core/datamodel/notification"
	"github.com/frahmantamala/campus-ops/internal/core/events"
)

var categories = []string{events.CategoryEvents, events.CategoryBookings, events.CategorySystem}

// KnownCategory reports whether c is one of the inbox tabs.
func KnownCategory(c string) bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

type Notification struct {
	ID        string
	UserID    string
	Type      string
	Category  string
	Message   string
	Read      bool
	ReadAt    *time.Time
	CreatedAt time.Time
}

func FromDataModel(m *notificationDatamodel.Notification) *Notification {
	return &Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      m.Type,
		Category:  m.Category,
		Message:   m.Message,
		Read:      m.Read,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
	}
}

func (n *Notification) ToDataModel() *notificationDatamodel.Notification {
	return &notificationDatamodel.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Category:  n.Category,
		Message:   n.Message,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func (n *Notification) ToResponse() NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Category:  n.Category,
		Message:   n.Message,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
