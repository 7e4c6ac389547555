package application

import (
	"context"

	"lottoledger/models"

	"github.com/stretchr/testify/mock"
)

type mockReconciler struct {
	mock.Mock
}

func (m *mockReconciler) ReconcileRound(ctx context.Context, roundNumber int64) (*models.ReconcileResult, error) {
	args := m.Called(ctx, roundNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReconcileResult), args.Error(1)
}

func (m *mockReconciler) ReconcileRounds(ctx context.Context, roundNumbers []int64) (*models.ReconcilePassResult, error) {
	args := m.Called(ctx, roundNumbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReconcilePassResult), args.Error(1)
}

func (m *mockReconciler) ReconcileAll(ctx context.Context) (*models.ReconcilePassResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReconcilePassResult), args.Error(1)
}

type mockCursor struct {
	mock.Mock
}

func (m *mockCursor) ConsumeNewResults(ctx context.Context) (*models.ResultsBatch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResultsBatch), args.Error(1)
}

type mockPurchaseService struct {
	mock.Mock
}

func (m *mockPurchaseService) RecordPurchase(ctx context.Context, record *models.PurchaseRecord) (*models.Ticket, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *mockPurchaseService) AssignRound(ctx context.Context, ticketID int64, roundNumber int64) (*models.Ticket, error) {
	args := m.Called(ctx, ticketID, roundNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

// fakeSubscriber captures the handler registered for each subject
type fakeSubscriber struct {
	handlers map[string]func([]byte) error
}

func (f *fakeSubscriber) Subscribe(subject string, handler func([]byte) error) error {
	if f.handlers == nil {
		f.handlers = make(map[string]func([]byte) error)
	}
	f.handlers[subject] = handler
	return nil
}
