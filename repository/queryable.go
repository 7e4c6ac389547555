package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Queryable is satisfied by both *pgxpool.Pool and pgx.Tx, so every
// repository runs unchanged inside or outside a unit of work.
type Queryable interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// toInt32s converts numbers to the int4[] representation, or nil for SQL NULL
func toInt32s(nums []int) []int32 {
	if len(nums) == 0 {
		return nil
	}
	out := make([]int32, len(nums))
	for i, v := range nums {
		out[i] = int32(v)
	}
	return out
}

// fromInt32s converts a scanned int4[] back to ints, keeping NULL as nil
func fromInt32s(nums []int32) []int {
	if nums == nil {
		return nil
	}
	out := make([]int, len(nums))
	for i, v := range nums {
		out[i] = int(v)
	}
	return out
}
