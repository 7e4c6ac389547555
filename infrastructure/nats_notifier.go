package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification is the envelope published for each outgoing message
type Notification struct {
	ID      string    `json:"id"`
	SentAt  time.Time `json:"sent_at"`
	Message string    `json:"message"`
}

// NATSNotifier publishes notifications for downstream consumers
type NATSNotifier struct {
	publisher MessagePublisher
	subject   string
	now       func() time.Time
}

func NewNATSNotifier(publisher MessagePublisher, subject string) *NATSNotifier {
	return &NATSNotifier{
		publisher: publisher,
		subject:   subject,
		now:       time.Now,
	}
}

// Notify implements service.Notifier
func (n *NATSNotifier) Notify(ctx context.Context, message string) error {
	data, err := json.Marshal(Notification{
		ID:      uuid.NewString(),
		SentAt:  n.now().UTC(),
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	return n.publisher.Publish(ctx, n.subject, data)
}
