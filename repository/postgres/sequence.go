package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/commerce/repository"
)

type orderNumberSequence struct {
	pool *pgxpool.Pool
}

// NewOrderNumberSequence allocates order numbers from a per-year counter row.
func NewOrderNumberSequence(pool *pgxpool.Pool) repository.OrderNumberSequence {
	return &orderNumberSequence{pool: pool}
}

func (s *orderNumberSequence) Next(ctx context.Context, year int) (int64, error) {
	const query = `
	INSERT INTO order_number_counters (year, value)
	VALUES ($1, 1)
	ON CONFLICT (year) DO UPDATE
	SET value = order_number_counters.value + 1
	RETURNING value
	`
	var value int64
	err := s.pool.QueryRow(ctx, query, year).Scan(&value)
	return value, err
}
