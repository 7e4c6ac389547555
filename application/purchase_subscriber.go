package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lottoledger/infrastructure/observability"
	"lottoledger/models"
	"lottoledger/service"

	log "github.com/sirupsen/logrus"
)

// MessageSubscriber registers a handler for a subject. A handler error
// asks the bus to redeliver the message.
type MessageSubscriber interface {
	Subscribe(subject string, handler func([]byte) error) error
}

// PurchaseSubscriber records purchase reports published by the purchase executor
type PurchaseSubscriber struct {
	purchases service.PurchaseService
	metrics   *observability.MetricsProvider
	timeout   time.Duration
}

func NewPurchaseSubscriber(purchases service.PurchaseService, metrics *observability.MetricsProvider) *PurchaseSubscriber {
	return &PurchaseSubscriber{
		purchases: purchases,
		metrics:   metrics,
		timeout:   10 * time.Second,
	}
}

// Register subscribes the handler on subject
func (s *PurchaseSubscriber) Register(subscriber MessageSubscriber, subject string) error {
	return subscriber.Subscribe(subject, func(data []byte) error {
		s.metrics.RecordNATSMessageReceived(subject)
		return s.Handle(data)
	})
}

// Handle records one purchase message. Malformed or invalid reports are
// dropped so they are not redelivered; storage errors are returned.
func (s *PurchaseSubscriber) Handle(data []byte) error {
	var record models.PurchaseRecord
	if err := json.Unmarshal(data, &record); err != nil {
		log.WithFields(log.Fields{
			"error": err,
			"size":  len(data),
		}).Error("Dropping malformed purchase message")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	ticket, err := s.purchases.RecordPurchase(ctx, &record)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			log.WithFields(log.Fields{
				"round": record.RoundNumber,
				"mode":  record.Mode,
				"error": err,
			}).Error("Dropping invalid purchase report")
			return nil
		}
		return fmt.Errorf("failed to record purchase: %w", err)
	}

	log.WithFields(log.Fields{
		"ticketID": ticket.ID,
		"round":    ticket.RoundNumber,
		"mode":     ticket.Mode,
	}).Info("Recorded purchase from message bus")
	return nil
}
