package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/commerce/domain"
)

// testPool connects to TEST_DATABASE_URL and applies the schema inside a
// throwaway schema, so the tests never touch existing tables.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := "commerce_test_" + uuid.NewString()[:8]
	admin, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, fmt.Sprintf(`CREATE SCHEMA %q`, schema))
	require.NoError(t, err)

	cfg, err := pgxpool.ParseConfig(url)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)

	ddl, err := os.ReadFile("../../assets/migrations/000001_commerce.up.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(ddl))
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		_, _ = admin.Exec(context.Background(), fmt.Sprintf(`DROP SCHEMA %q CASCADE`, schema))
		admin.Close()
	})
	return pool
}

func countEvents(t *testing.T, pool *pgxpool.Pool, aggregateID string) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT count(*) FROM domain_events WHERE aggregate_id = $1`, aggregateID).Scan(&n))
	return n
}

func TestProductRepository_VersionCheck(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)
	repo := NewProductRepository(pool)

	id := domain.NewProductID()
	product, err := domain.NewProduct(id, "Widget", "", domain.MustMoney("19.99", "USD"), "W-1")
	require.NoError(t, err)
	committed, err := repo.Save(ctx, product)
	require.NoError(t, err)
	assert.Len(t, committed, 1)
	assert.Equal(t, int64(1), product.Version())

	// a second insert of the same id is a conflict, not an overwrite
	twin, err := domain.NewProduct(id, "Twin", "", domain.MustMoney("1.00", "USD"), "W-2")
	require.NoError(t, err)
	_, err = repo.Save(ctx, twin)
	assert.True(t, domain.IsConflict(err))

	first, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, id)
	require.NoError(t, err)

	_, err = first.Activate()
	require.NoError(t, err)
	_, err = repo.Save(ctx, first)
	require.NoError(t, err)

	_, err = second.UpdatePrice(domain.MustMoney("24.99", "USD"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, second)
	assert.True(t, domain.IsConflict(err))

	stored, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductStatusActive, stored.Status())
	assert.Equal(t, "19.99 USD", stored.Price().String())
	assert.Equal(t, "Widget", stored.Name())
	assert.Equal(t, int64(2), stored.Version())
	assert.Equal(t, 2, countEvents(t, pool, id))
}

func TestOrderRepository_VersionCheckAndItems(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)
	repo := NewOrderRepository(pool)

	addr, err := domain.NewAddress("1 Main St", "Springfield", "IL", "62701", "US")
	require.NoError(t, err)
	item, err := domain.NewOrderItem("p1", "Widget", domain.MustMoney("12.50", "USD"), domain.MustQuantity(2))
	require.NoError(t, err)
	order, err := domain.NewOrder("cust-1", addr, item)
	require.NoError(t, err)
	_, err = repo.Save(ctx, order)
	require.NoError(t, err)

	first, err := repo.FindByID(ctx, order.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, order.ID())
	require.NoError(t, err)

	extra, err := domain.NewOrderItem("p2", "Gadget", domain.MustMoney("5.00", "USD"), domain.MustQuantity(1))
	require.NoError(t, err)
	_, err = first.AddItem(extra)
	require.NoError(t, err)
	_, err = repo.Save(ctx, first)
	require.NoError(t, err)

	_, err = second.RemoveItem("p1")
	require.NoError(t, err)
	_, err = repo.Save(ctx, second)
	assert.True(t, domain.IsConflict(err))

	stored, err := repo.FindByID(ctx, order.ID())
	require.NoError(t, err)
	require.Equal(t, 2, stored.ItemCount())
	assert.Equal(t, "p1", stored.Items()[0].ProductID())
	assert.Equal(t, "p2", stored.Items()[1].ProductID())
	assert.Equal(t, "30.00 USD", stored.CalculateTotalAmount().String())
	assert.Equal(t, int64(2), stored.Version())
	assert.Equal(t, 2, countEvents(t, pool, order.ID()))
}

func TestOrderNumberSequence_PerYear(t *testing.T) {
	ctx := context.Background()
	seq := NewOrderNumberSequence(testPool(t))

	for want := int64(1); want <= 3; want++ {
		got, err := seq.Next(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := seq.Next(ctx, 2027)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}
