package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"lottoledger/events"
	"lottoledger/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// reconciliationService implements the ReconciliationService interface
type reconciliationService struct {
	uowFactory UnitOfWorkFactory
	results    ResultsProvider
	coarse     CoarseOutcomeProvider // optional
	scoring    *ScoringEngine
}

// NewReconciliationService creates a new reconciliation coordinator.
// coarse may be nil, in which case unresolved tickets stay pending.
func NewReconciliationService(uowFactory UnitOfWorkFactory, results ResultsProvider, coarse CoarseOutcomeProvider, scoring *ScoringEngine) ReconciliationService {
	return &reconciliationService{
		uowFactory: uowFactory,
		results:    results,
		coarse:     coarse,
		scoring:    scoring,
	}
}

// ReconcileRound fetches the official numbers for a round, stores the round
// and scores every pending ticket in one transaction. The results provider
// is called before the transaction opens. The purchase ledger is only asked
// once an unresolved ticket turns up. Neither is retried here.
func (s *reconciliationService) ReconcileRound(ctx context.Context, roundNumber int64) (*models.ReconcileResult, error) {
	if roundNumber <= 0 {
		return nil, fmt.Errorf("%w: round number must be positive, got %d", models.ErrInvalidInput, roundNumber)
	}

	official, err := s.fetchOfficial(ctx, roundNumber)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.RoundRepository().Upsert(ctx, official.ToRound()); err != nil {
		return nil, fmt.Errorf("failed to store round %d: %w", roundNumber, err)
	}

	pending, err := uow.TicketRepository().PendingByRound(ctx, roundNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending tickets: %w", err)
	}

	result := &models.ReconcileResult{
		RoundNumber: roundNumber,
		RankCounts:  models.RankCounts{},
	}
	verdicts := make(map[models.TicketMode]*models.CoarseOutcome)

	for _, ticket := range pending {
		rank, amount, err := s.scoreTicket(ctx, ticket, official, verdicts)
		if err != nil {
			log.WithFields(log.Fields{
				"round":    roundNumber,
				"ticketID": ticket.ID,
			}).WithError(err).Warn("Ticket left pending")
			result.Deferred++
			continue
		}

		err = uow.TicketRepository().RecordOutcome(ctx, ticket.ID, rank, amount)
		if errors.Is(err, models.ErrAlreadyScored) {
			log.WithFields(log.Fields{
				"round":    roundNumber,
				"ticketID": ticket.ID,
			}).Info("Ticket already scored by another pass, skipping")
			result.AlreadyScored++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to record outcome for ticket %d: %w", ticket.ID, err)
		}

		result.Scored++
		result.TotalWin += amount
		result.RankCounts.Add(rank)

		uow.EventBus().Publish(events.TicketScoredEvent{
			TicketID:    ticket.ID,
			RoundNumber: roundNumber,
			Rank:        rank,
			Amount:      amount,
		})
	}

	uow.EventBus().Publish(events.RoundReconciledEvent{
		RoundNumber: roundNumber,
		Scored:      result.Scored,
		Deferred:    result.Deferred,
		TotalWin:    result.TotalWin,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"round":         roundNumber,
		"scored":        result.Scored,
		"alreadyScored": result.AlreadyScored,
		"deferred":      result.Deferred,
		"totalWin":      result.TotalWin,
	}).Info("Round reconciled")

	return result, nil
}

// ReconcileRounds reconciles the given rounds in ascending order. A round
// that fails is recorded and skipped; only cancellation stops the pass.
func (s *reconciliationService) ReconcileRounds(ctx context.Context, roundNumbers []int64) (*models.ReconcilePassResult, error) {
	ordered := make([]int64, 0, len(roundNumbers))
	seen := make(map[int64]bool, len(roundNumbers))
	for _, n := range roundNumbers {
		if !seen[n] {
			seen[n] = true
			ordered = append(ordered, n)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	pass := &models.ReconcilePassResult{
		PassID: uuid.NewString(),
		Failed: make(map[int64]error),
	}

	logger := log.WithField("passID", pass.PassID)
	logger.WithField("rounds", ordered).Info("Starting reconciliation pass")

	for _, roundNumber := range ordered {
		if err := ctx.Err(); err != nil {
			return pass, err
		}

		result, err := s.ReconcileRound(ctx, roundNumber)
		switch {
		case err == nil:
			pass.Rounds = append(pass.Rounds, result)
		case errors.Is(err, models.ErrResultsUnavailable):
			logger.WithField("round", roundNumber).Info("Round not drawn yet, leaving tickets pending")
			pass.Unavailable = append(pass.Unavailable, roundNumber)
		default:
			logger.WithField("round", roundNumber).WithError(err).Error("Failed to reconcile round")
			pass.Failed[roundNumber] = err
		}
	}

	logger.WithFields(log.Fields{
		"reconciled":  len(pass.Rounds),
		"unavailable": len(pass.Unavailable),
		"failed":      len(pass.Failed),
		"scored":      pass.TotalScored(),
	}).Info("Completed reconciliation pass")

	return pass, nil
}

// ReconcileAll reconciles every assigned round holding pending tickets.
// Tickets still at round 0 are left alone until a round is assigned.
func (s *reconciliationService) ReconcileAll(ctx context.Context) (*models.ReconcilePassResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	rounds, err := uow.TicketRepository().RoundsWithPending(ctx)
	uow.Rollback()
	if err != nil {
		return nil, fmt.Errorf("failed to get rounds with pending tickets: %w", err)
	}

	return s.ReconcileRounds(ctx, rounds)
}

func (s *reconciliationService) fetchOfficial(ctx context.Context, roundNumber int64) (*models.OfficialResult, error) {
	official, err := s.results.FetchOfficialNumbers(ctx, roundNumber)
	if err != nil {
		if errors.Is(err, models.ErrResultsUnavailable) || errors.Is(err, models.ErrProviderError) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: round %d: %v", models.ErrProviderError, roundNumber, err)
	}
	if official == nil {
		return nil, fmt.Errorf("round %d: %w", roundNumber, models.ErrResultsUnavailable)
	}
	if official.RoundNumber != roundNumber {
		return nil, fmt.Errorf("%w: asked for round %d, got %d", models.ErrProviderError, roundNumber, official.RoundNumber)
	}
	if err := models.ValidateDraw(official.WinningNumbers, official.BonusNumber); err != nil {
		return nil, fmt.Errorf("%w: round %d: %v", models.ErrProviderError, roundNumber, err)
	}
	return official, nil
}

// coarseVerdict returns the purchase ledger verdict for the ticket's round
// and mode, or nil when there is no provider or it has nothing to say yet.
// The ledger is asked at most once per mode and round; a failed lookup is
// remembered as no verdict.
func (s *reconciliationService) coarseVerdict(ctx context.Context, ticket *models.Ticket, verdicts map[models.TicketMode]*models.CoarseOutcome) *models.CoarseOutcome {
	if s.coarse == nil {
		return nil
	}
	if outcome, ok := verdicts[ticket.Mode]; ok {
		return outcome
	}

	outcome, err := s.coarse.FetchCoarseOutcome(ctx, ticket.RoundNumber, ticket.Mode)
	if err != nil {
		log.WithFields(log.Fields{
			"round": ticket.RoundNumber,
			"mode":  ticket.Mode,
		}).WithError(err).Warn("Failed to fetch coarse outcome, unresolved tickets stay pending")
		outcome = nil
	}
	verdicts[ticket.Mode] = outcome
	return outcome
}

func (s *reconciliationService) scoreTicket(ctx context.Context, ticket *models.Ticket, official *models.OfficialResult, verdicts map[models.TicketMode]*models.CoarseOutcome) (models.Rank, int64, error) {
	if ticket.Numbers.IsUnresolved() {
		outcome := s.coarseVerdict(ctx, ticket, verdicts)
		if outcome == nil {
			return "", 0, fmt.Errorf("no coarse outcome for round %d", ticket.RoundNumber)
		}
		return s.scoring.ScoreUnresolved(outcome)
	}
	return s.scoring.Score(ticket.Numbers, official.WinningNumbers, official.BonusNumber)
}
