package repository

import (
	"context"
	"fmt"
	"time"

	"lottoledger/database"
	"lottoledger/models"

	"github.com/jackc/pgx/v5"
)

const roundColumns = `round_number, draw_date, winning_numbers, bonus_number, is_drawn, updated_at`

// RoundRepository implements the RoundRepository interface
type RoundRepository struct {
	q Queryable
}

// NewRoundRepository creates a new round repository
func NewRoundRepository(db *database.DB) *RoundRepository {
	return &RoundRepository{q: db.Pool}
}

// newRoundRepositoryWithTx creates a new round repository with a transaction
func newRoundRepositoryWithTx(tx Queryable) *RoundRepository {
	return &RoundRepository{q: tx}
}

// Upsert inserts the round or overwrites the stored record with the same number.
// Writing the same round twice leaves exactly one row, untouched by the
// second write. round.UpdatedAt is set from the stored row.
func (r *RoundRepository) Upsert(ctx context.Context, round *models.Round) error {
	if err := round.Validate(); err != nil {
		return err
	}

	var drawDate *time.Time
	if !round.DrawDate.IsZero() {
		d := round.DrawDate
		drawDate = &d
	}
	var bonus *int32
	if round.IsDrawn {
		b := int32(round.BonusNumber)
		bonus = &b
	}

	query := `
		INSERT INTO rounds (round_number, draw_date, winning_numbers, bonus_number, is_drawn, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (round_number) DO UPDATE SET
			draw_date = EXCLUDED.draw_date,
			winning_numbers = EXCLUDED.winning_numbers,
			bonus_number = EXCLUDED.bonus_number,
			is_drawn = EXCLUDED.is_drawn,
			updated_at = NOW()
		WHERE (rounds.draw_date, rounds.winning_numbers, rounds.bonus_number, rounds.is_drawn)
			IS DISTINCT FROM (EXCLUDED.draw_date, EXCLUDED.winning_numbers, EXCLUDED.bonus_number, EXCLUDED.is_drawn)
	`

	_, err := r.q.Exec(ctx, query,
		round.RoundNumber,
		drawDate,
		toInt32s(round.WinningNumbers),
		bonus,
		round.IsDrawn,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert round %d: %w", round.RoundNumber, err)
	}

	query = `SELECT updated_at FROM rounds WHERE round_number = $1`
	if err := r.q.QueryRow(ctx, query, round.RoundNumber).Scan(&round.UpdatedAt); err != nil {
		return fmt.Errorf("failed to read back round %d: %w", round.RoundNumber, err)
	}

	return nil
}

// GetByNumber retrieves a round, returning nil if it was never stored
func (r *RoundRepository) GetByNumber(ctx context.Context, roundNumber int64) (*models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE round_number = $1`

	round, err := scanRound(r.q.QueryRow(ctx, query, roundNumber))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round %d: %w", roundNumber, err)
	}

	return round, nil
}

// GetByNumbers retrieves several rounds keyed by round number. Missing
// rounds are absent from the map.
func (r *RoundRepository) GetByNumbers(ctx context.Context, roundNumbers []int64) (map[int64]*models.Round, error) {
	rounds := make(map[int64]*models.Round, len(roundNumbers))
	if len(roundNumbers) == 0 {
		return rounds, nil
	}

	query := `SELECT ` + roundColumns + ` FROM rounds WHERE round_number = ANY($1)`

	rows, err := r.q.Query(ctx, query, roundNumbers)
	if err != nil {
		return nil, fmt.Errorf("failed to get rounds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds[round.RoundNumber] = round
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rounds: %w", err)
	}

	return rounds, nil
}

func scanRound(row pgx.Row) (*models.Round, error) {
	var (
		round    models.Round
		drawDate *time.Time
		winning  []int32
		bonus    *int32
	)

	if err := row.Scan(&round.RoundNumber, &drawDate, &winning, &bonus, &round.IsDrawn, &round.UpdatedAt); err != nil {
		return nil, err
	}

	if drawDate != nil {
		round.DrawDate = *drawDate
	}
	round.WinningNumbers = fromInt32s(winning)
	if bonus != nil {
		round.BonusNumber = int(*bonus)
	}

	return &round, nil
}
