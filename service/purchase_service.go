package service

import (
	"context"
	"fmt"
	"time"

	"lottoledger/events"
	"lottoledger/models"

	log "github.com/sirupsen/logrus"
)

// purchaseService implements the PurchaseService interface
type purchaseService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewPurchaseService creates the recorder for purchase executor reports
func NewPurchaseService(uowFactory UnitOfWorkFactory) PurchaseService {
	return &purchaseService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// RecordPurchase validates a purchase report and stores it as a pending,
// unshown ticket. A zero cost takes the mode's list price and a zero
// timestamp takes the current time.
func (s *purchaseService) RecordPurchase(ctx context.Context, record *models.PurchaseRecord) (*models.Ticket, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: missing purchase record", models.ErrInvalidInput)
	}

	normalized := *record
	if normalized.Cost == 0 {
		normalized.Cost = normalized.Mode.DefaultCost()
	}
	if normalized.PurchasedAt.IsZero() {
		normalized.PurchasedAt = s.now().UTC()
	}
	if !normalized.Numbers.IsUnresolved() {
		numbers, err := models.NewTicketNumbers(normalized.Numbers)
		if err != nil {
			return nil, err
		}
		normalized.Numbers = numbers
	}
	if err := normalized.Validate(); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ticket := normalized.ToTicket()
	if err := uow.TicketRepository().Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	uow.EventBus().Publish(events.TicketRecordedEvent{
		TicketID:    ticket.ID,
		RoundNumber: ticket.RoundNumber,
		Mode:        ticket.Mode,
		Cost:        ticket.Cost,
		Unresolved:  ticket.Numbers.IsUnresolved(),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"ticketID": ticket.ID,
		"round":    ticket.RoundNumber,
		"mode":     ticket.Mode,
		"numbers":  ticket.Numbers.String(),
	}).Info("Recorded purchase")

	return ticket, nil
}

// AssignRound attaches the round to a ticket recorded without one. Only a
// pending ticket still at round 0 can be assigned, and only once.
func (s *purchaseService) AssignRound(ctx context.Context, ticketID int64, roundNumber int64) (*models.Ticket, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.TicketRepository().AssignRound(ctx, ticketID, roundNumber); err != nil {
		return nil, err
	}

	ticket, err := uow.TicketRepository().GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload ticket: %w", err)
	}

	uow.EventBus().Publish(events.RoundAssignedEvent{
		TicketID:    ticketID,
		RoundNumber: roundNumber,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"ticketID": ticketID,
		"round":    roundNumber,
	}).Info("Assigned round to ticket")

	return ticket, nil
}
