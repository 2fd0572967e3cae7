package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/commerce/domain"
	"github.com/fastygo/commerce/repository"
)

const orderColumns = `
	id, customer_id, COALESCE(order_number, ''), customer_name, customer_email, customer_phone,
	status, street, city, state, zip_code, country, subtotal::text, currency,
	cancellation_reason, version, created_at, updated_at`

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a Postgres-backed OrderRepository implementation.
// Order lines are rewritten in the same transaction as the order row.
func NewOrderRepository(pool *pgxpool.Pool) repository.OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Save(ctx context.Context, order *domain.Order) ([]domain.Event, error) {
	if order == nil {
		return nil, domain.NewError(domain.ErrCodeInvalidOrder, "order is required")
	}
	rec := order.Record()
	events := order.PendingEvents()

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := r.writeOrder(ctx, tx, rec)
		if err != nil {
			if isUniqueViolation(err, "orders_order_number_key") {
				return domain.Errorf(domain.ErrCodeInvalidOrderNumber, "order number %s already assigned", rec.OrderNumber)
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrConcurrencyConflict
		}
		if err := r.writeItems(ctx, tx, rec); err != nil {
			return err
		}
		return appendEvents(ctx, tx, events)
	})
	if err != nil {
		return nil, err
	}

	order.MarkPersisted(rec.Version + 1)
	return order.PullEvents(), nil
}

func (r *orderRepository) writeOrder(ctx context.Context, tx pgx.Tx, rec domain.OrderRecord) (pgconn.CommandTag, error) {
	if rec.Version == 0 {
		const insert = `
		INSERT INTO orders (
			id, customer_id, order_number, customer_name, customer_email, customer_phone,
			status, street, city, state, zip_code, country, subtotal, currency,
			cancellation_reason, version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13::numeric, $14, $15, 1, $16, $17)
		ON CONFLICT (id) DO NOTHING
		`
		return tx.Exec(ctx, insert,
			rec.ID, rec.CustomerID, nullString(rec.OrderNumber),
			rec.CustomerName, rec.CustomerEmail, rec.CustomerPhone,
			string(rec.Status), rec.Street, rec.City, rec.State, rec.ZipCode, rec.Country,
			rec.Subtotal.Amount().String(), rec.Subtotal.Currency(),
			rec.CancellationReason, rec.CreatedAt, rec.UpdatedAt,
		)
	}

	const update = `
	UPDATE orders
	SET order_number = $2,
		customer_name = $3,
		customer_email = $4,
		customer_phone = $5,
		status = $6,
		subtotal = $7::numeric,
		currency = $8,
		cancellation_reason = $9,
		updated_at = $10,
		version = version + 1
	WHERE id = $1 AND version = $11
	`
	return tx.Exec(ctx, update,
		rec.ID, nullString(rec.OrderNumber),
		rec.CustomerName, rec.CustomerEmail, rec.CustomerPhone,
		string(rec.Status),
		rec.Subtotal.Amount().String(), rec.Subtotal.Currency(),
		rec.CancellationReason, rec.UpdatedAt, rec.Version,
	)
}

func (r *orderRepository) writeItems(ctx context.Context, tx pgx.Tx, rec domain.OrderRecord) error {
	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, rec.ID); err != nil {
		return err
	}
	if len(rec.Items) == 0 {
		return nil
	}

	const insert = `
	INSERT INTO order_items (id, order_id, position, product_id, product_name, unit_price, currency, quantity)
	VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8)
	`
	batch := &pgx.Batch{}
	for i, item := range rec.Items {
		batch.Queue(insert,
			item.ID, rec.ID, i, item.ProductID, item.ProductName,
			item.UnitPrice.Amount().String(), item.UnitPrice.Currency(), item.Quantity,
		)
	}
	return tx.SendBatch(ctx, batch).Close()
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	rec, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.Errorf(domain.ErrCodeOrderNotFound, "order %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	recs := []*domain.OrderRecord{rec}
	if err := r.loadItems(ctx, recs); err != nil {
		return nil, err
	}
	return domain.ReconstituteOrder(*rec), nil
}

func (r *orderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at, id`)
}

func (r *orderRepository) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at, id`, string(status))
}

func (r *orderRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *orderRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var recs []*domain.OrderRecord
	for rows.Next() {
		rec, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		recs = append(recs, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, recs); err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, len(recs))
	for i, rec := range recs {
		orders[i] = domain.ReconstituteOrder(*rec)
	}
	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, recs []*domain.OrderRecord) error {
	if len(recs) == 0 {
		return nil
	}
	byID := make(map[string]*domain.OrderRecord, len(recs))
	ids := make([]string, len(recs))
	for i, rec := range recs {
		byID[rec.ID] = rec
		ids[i] = rec.ID
	}

	const query = `
	SELECT order_id, id, product_id, product_name, unit_price::text, currency, quantity
	FROM order_items
	WHERE order_id = ANY($1)
	ORDER BY order_id, position
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID  string
			item     domain.OrderItemRecord
			amount   string
			currency string
		)
		if err := rows.Scan(&orderID, &item.ID, &item.ProductID, &item.ProductName, &amount, &currency, &item.Quantity); err != nil {
			return err
		}
		if item.UnitPrice, err = parseMoney(amount, currency); err != nil {
			return err
		}
		if rec, ok := byID[orderID]; ok {
			rec.Items = append(rec.Items, item)
		}
	}
	return rows.Err()
}

func scanOrder(row rowScanner) (*domain.OrderRecord, error) {
	var (
		rec      domain.OrderRecord
		status   string
		subtotal string
		currency string
	)
	if err := row.Scan(
		&rec.ID,
		&rec.CustomerID,
		&rec.OrderNumber,
		&rec.CustomerName,
		&rec.CustomerEmail,
		&rec.CustomerPhone,
		&status,
		&rec.Street,
		&rec.City,
		&rec.State,
		&rec.ZipCode,
		&rec.Country,
		&subtotal,
		&currency,
		&rec.CancellationReason,
		&rec.Version,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}

	total, err := parseMoney(subtotal, currency)
	if err != nil {
		return nil, err
	}
	rec.Subtotal = total
	rec.Status = domain.OrderStatus(status)
	return &rec, nil
}
