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

const productColumns = `id, name, description, amount::text, currency, sku, status, version, created_at, updated_at`

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a Postgres-backed ProductRepository implementation.
func NewProductRepository(pool *pgxpool.Pool) repository.ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) ([]domain.Event, error) {
	if product == nil {
		return nil, domain.NewError(domain.ErrCodeInvalidProduct, "product is required")
	}
	rec := product.Record()
	events := product.PendingEvents()

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var (
			tag pgconn.CommandTag
			err error
		)
		if rec.Version == 0 {
			const insert = `
			INSERT INTO products (id, name, description, amount, currency, sku, status, version, created_at, updated_at)
			VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, 1, $8, $9)
			ON CONFLICT (id) DO NOTHING
			`
			tag, err = tx.Exec(ctx, insert,
				rec.ID, rec.Name, rec.Description,
				rec.Price.Amount().String(), rec.Price.Currency(),
				rec.SKU, string(rec.Status), rec.CreatedAt, rec.UpdatedAt,
			)
		} else {
			const update = `
			UPDATE products
			SET name = $2,
				description = $3,
				amount = $4::numeric,
				currency = $5,
				sku = $6,
				status = $7,
				updated_at = $8,
				version = version + 1
			WHERE id = $1 AND version = $9
			`
			tag, err = tx.Exec(ctx, update,
				rec.ID, rec.Name, rec.Description,
				rec.Price.Amount().String(), rec.Price.Currency(),
				rec.SKU, string(rec.Status), rec.UpdatedAt, rec.Version,
			)
		}
		if err != nil {
			if isUniqueViolation(err, "products_sku_key") {
				return domain.Errorf(domain.ErrCodeInvalidProduct, "sku %s already exists", rec.SKU)
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrConcurrencyConflict
		}
		return appendEvents(ctx, tx, events)
	})
	if err != nil {
		return nil, err
	}

	product.MarkPersisted(rec.Version + 1)
	return product.PullEvents(), nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.Errorf(domain.ErrCodeProductNotFound, "product %s not found", id)
	}
	return product, err
}

func (r *productRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
}

func (r *productRepository) FindByStatus(ctx context.Context, status domain.ProductStatus) ([]*domain.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products WHERE status = $1 ORDER BY created_at, id`, string(status))
}

func (r *productRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *productRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE sku = $1)`, sku).Scan(&exists)
	return exists, err
}

func (r *productRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		rec      domain.ProductRecord
		amount   string
		currency string
		status   string
	)
	if err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Description,
		&amount,
		&currency,
		&rec.SKU,
		&status,
		&rec.Version,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}

	price, err := parseMoney(amount, currency)
	if err != nil {
		return nil, err
	}
	rec.Price = price
	rec.Status = domain.ProductStatus(status)
	return domain.ReconstituteProduct(rec), nil
}
