package notification

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/campus-ops/internal"
)

type NotificationResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Type      string     `json:"type"`
	Category  string     `json:"category"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"readAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkAllReadDTO struct {
	Before *string `json:"before,omitempty"`
}

// Cutoff parses Before. A nil result means every unread notification.
func (d *MarkAllReadDTO) Cutoff() (*time.Time, error) {
	if d.Before == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(*d.Before))
	if err != nil {
		return nil, errors.NewValidationFieldError("before", "before must be an RFC3339 datetime", errors.ErrCodeInvalidDate)
	}
	t = t.UTC()
	return &t, nil
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
