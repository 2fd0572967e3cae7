package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastygo/commerce/domain"
)

const uniqueViolation = "23505"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
	}
	return false
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func parseMoney(amount, currency string) (domain.Money, error) {
	m, err := domain.ParseMoney(amount, currency)
	if err != nil {
		return domain.Money{}, domain.WrapError(domain.ErrCodeInternal, "stored money is corrupt", err)
	}
	return m, nil
}

// appendEvents writes drained events to the domain_events log inside tx.
func appendEvents(ctx context.Context, tx pgx.Tx, events []domain.Event) error {
	const query = `
	INSERT INTO domain_events (id, aggregate_id, aggregate_type, type, version, payload, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, event := range events {
		payload, err := json.Marshal(event.Payload)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query,
			event.ID,
			event.AggregateID,
			string(event.AggregateType),
			string(event.Type),
			event.Version,
			payload,
			event.OccurredAt,
		); err != nil {
			return err
		}
	}
	return nil
}
