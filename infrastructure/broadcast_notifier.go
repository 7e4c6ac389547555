package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"lottoledger/service"

	log "github.com/sirupsen/logrus"
)

// BroadcastNotifier fans a message out to every configured channel. One
// channel failing does not stop delivery to the others.
type BroadcastNotifier struct {
	notifiers map[string]service.Notifier
	order     []string
}

func NewBroadcastNotifier() *BroadcastNotifier {
	return &BroadcastNotifier{notifiers: make(map[string]service.Notifier)}
}

// Add registers a named channel
func (b *BroadcastNotifier) Add(name string, n service.Notifier) {
	if _, exists := b.notifiers[name]; !exists {
		b.order = append(b.order, name)
	}
	b.notifiers[name] = n
}

// Len returns the number of registered channels
func (b *BroadcastNotifier) Len() int {
	return len(b.order)
}

// Notify implements service.Notifier. It returns the joined channel errors.
func (b *BroadcastNotifier) Notify(ctx context.Context, message string) error {
	var errs []error
	for _, name := range b.order {
		if err := b.notifiers[name].Notify(ctx, message); err != nil {
			log.WithFields(log.Fields{
				"channel": name,
				"error":   err,
			}).Error("Failed to deliver notification")
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
