package repository

import (
	"context"
	"sync/atomic"
	"testing"

	"lottoledger/events"
	"lottoledger/models"
	"lottoledger/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitFlushesEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	var recorded atomic.Int32
	bus.Subscribe(events.EventTypeTicketRecorded, func(ctx context.Context, e events.Event) {
		recorded.Add(1)
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	t.Run("rollback discards writes and events", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))

		ticket := testutil.CreateUnresolvedTicket(1100)
		require.NoError(t, uow.TicketRepository().Create(ctx, ticket))
		uow.EventBus().Publish(events.TicketRecordedEvent{TicketID: ticket.ID})

		require.NoError(t, uow.Rollback())
		bus.Wait()

		assert.Equal(t, int32(0), recorded.Load())
		stored, err := NewTicketRepository(testDB.DB).GetByID(ctx, ticket.ID)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("commit persists writes and flushes events", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		require.NoError(t, uow.RoundRepository().Upsert(ctx, testutil.CreateDrawnRound(1100, 4, 2, 13, 15, 16, 33, 43)))
		ticket := testutil.CreateTestTicket(1100, 2, 13, 15, 16, 33, 43)
		require.NoError(t, uow.TicketRepository().Create(ctx, ticket))
		uow.EventBus().Publish(events.TicketRecordedEvent{TicketID: ticket.ID})

		require.NoError(t, uow.Commit())
		bus.Wait()

		assert.Equal(t, int32(1), recorded.Load())
		stored, err := NewTicketRepository(testDB.DB).GetByID(ctx, ticket.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, models.RankPending, stored.WinRank)
	})

	t.Run("repositories require begin", func(t *testing.T) {
		uow := factory.Create()
		assert.Panics(t, func() { uow.TicketRepository() })
		assert.Error(t, uow.Commit())
		assert.NoError(t, uow.Rollback())
	})
}
