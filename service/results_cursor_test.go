package service

import (
	"context"
	"errors"
	"testing"

	"lottoledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func scoredTicket(id, roundNumber int64, rank models.Rank, amount int64) *models.Ticket {
	return &models.Ticket{
		ID:          id,
		RoundNumber: roundNumber,
		Mode:        models.TicketModeAutomatic,
		Cost:        1000,
		WinRank:     rank,
		WinAmount:   amount,
		ShownToUser: true,
	}
}

func TestResultsCursor_ConsumeNewResults(t *testing.T) {
	ctx := context.Background()
	m := newReconcileMocks()

	consumed := []*models.Ticket{
		scoredTicket(1, 1100, models.RankNoWin, 0),
		scoredTicket(2, 1101, models.RankFifth, 5000),
		scoredTicket(3, 1100, models.RankFourth, 50000),
	}
	m.tickets.On("ConsumeUnshown", ctx).Return(consumed, nil)
	m.rounds.On("GetByNumbers", ctx, []int64{1100, 1101}).Return(map[int64]*models.Round{
		1100: {RoundNumber: 1100, IsDrawn: true},
	}, nil)
	m.uow.On("Commit").Return(nil)

	batch, err := NewResultsCursor(m.factory).ConsumeNewResults(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, batch.TotalGames)
	assert.Equal(t, int64(3000), batch.TotalCost)
	assert.Equal(t, int64(55000), batch.TotalWin)
	assert.Equal(t, 1, batch.RankCounts[models.RankFourth])
	assert.Equal(t, 1, batch.RankCounts[models.RankFifth])
	assert.Equal(t, 1, batch.RankCounts[models.RankNoWin])

	require.Len(t, batch.Rounds, 2)
	assert.Nil(t, batch.Rounds[0].Round, "round 1101 was never stored")
	assert.Equal(t, int64(1100), batch.Rounds[1].Round.RoundNumber)
	require.Len(t, batch.Rounds[1].Tickets, 2)
	assert.Equal(t, int64(3), batch.Rounds[1].Tickets[0].ID, "highest win first")

	m.uow.AssertCalled(t, "Commit")
	m.publisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestResultsCursor_EmptyBatch(t *testing.T) {
	ctx := context.Background()
	m := newReconcileMocks()

	m.tickets.On("ConsumeUnshown", ctx).Return([]*models.Ticket{}, nil)

	batch, err := NewResultsCursor(m.factory).ConsumeNewResults(ctx)

	require.NoError(t, err)
	assert.True(t, batch.IsEmpty())
	assert.Zero(t, batch.TotalCost)
	assert.NotNil(t, batch.RankCounts)
	m.uow.AssertNotCalled(t, "Commit")
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestResultsCursor_CommitFailureSurfacesNothing(t *testing.T) {
	ctx := context.Background()
	m := newReconcileMocks()

	m.tickets.On("ConsumeUnshown", ctx).Return([]*models.Ticket{scoredTicket(1, 1100, models.RankNoWin, 0)}, nil)
	m.rounds.On("GetByNumbers", ctx, []int64{1100}).Return(map[int64]*models.Round{}, nil)
	m.uow.On("Commit").Return(errors.New("connection lost"))

	batch, err := NewResultsCursor(m.factory).ConsumeNewResults(ctx)

	assert.Error(t, err)
	assert.Nil(t, batch)
}

func TestLifetimeStatsService_GetLifetimeStats(t *testing.T) {
	ctx := context.Background()
	m := newReconcileMocks()

	m.tickets.On("LifetimeShown", ctx).Return([]*models.Ticket{
		scoredTicket(1, 1100, models.RankNoWin, 0),
		scoredTicket(2, 1100, models.RankFifth, 5000),
		scoredTicket(3, 1101, models.RankNoWin, 0),
		scoredTicket(4, 1101, models.RankWinUnclassified, 0),
	}, nil)

	stats, err := NewLifetimeStatsService(m.factory).GetLifetimeStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalGames)
	assert.Equal(t, int64(4000), stats.TotalCost)
	assert.Equal(t, int64(5000), stats.TotalWin)
	assert.Equal(t, stats.TotalWin-stats.TotalCost, stats.NetProfit)
	assert.Equal(t, 2, stats.RankCounts[models.RankNoWin])
	assert.Equal(t, 2, stats.RankCounts.Wins())
	m.uow.AssertNotCalled(t, "Commit")
}

func TestAggregateLifetime_Empty(t *testing.T) {
	t.Parallel()

	stats := AggregateLifetime(nil)
	assert.Zero(t, stats.TotalGames)
	assert.Zero(t, stats.NetProfit)
	assert.NotNil(t, stats.RankCounts)
}
