// Package mailer sends an email copy of inbox notifications.
package mailer

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/frahmantamala/campus-ops/internal/core/events"
)

type Recipient struct {
	Email string
	Name  string
}

type RecipientLookup interface {
	Recipient(ctx context.Context, userID string) (*Recipient, error)
}

type Notifier struct {
	sender     Sender
	recipients RecipientLookup
	logger     *slog.Logger
}

func NewNotifier(sender Sender, recipients RecipientLookup, logger *slog.Logger) *Notifier {
	return &Notifier{sender: sender, recipients: recipients, logger: logger}
}

type subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

func (n *Notifier) Subscribe(bus subscriber) {
	bus.Subscribe(events.EventTypeNotificationCreated, n.HandleCreated)
}

// HandleCreated mails the stored notification to its recipient.
func (n *Notifier) HandleCreated(ctx context.Context, e events.Event) error {
	created, ok := e.(*events.NotificationCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", e, e.EventType())
	}

	to, err := n.recipients.Recipient(ctx, created.UserID)
	if err != nil {
		return fmt.Errorf("lookup recipient %s: %w", created.UserID, err)
	}

	msg := Message{
		To:        to.Email,
		ToName:    to.Name,
		Subject:   fmt.Sprintf("[Campus Ops] %s", created.Title),
		PlainText: created.Message,
		HTML:      fmt.Sprintf("<h2>%s</h2><p>%s</p>", html.EscapeString(created.Title), html.EscapeString(created.Message)),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return err
	}

	n.logger.Info("notification emailed", "notification_id", created.NotificationID, "user_id", created.UserID)
	return nil
}
