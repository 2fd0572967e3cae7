package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.True(t, cfg.UsesPostgres())
	assert.Equal(t, 5*time.Minute, cfg.Storage.CatalogCacheTTL)
	assert.Equal(t, "commerce.domain-events", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Second, cfg.Ordering.AvailabilityTimeout)
	assert.Equal(t, 3, cfg.Ordering.ConflictRetryAttempts)
	assert.Equal(t, "USD", cfg.Ordering.Currency)
	assert.Contains(t, cfg.Database.URL, "postgres://")
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("AVAILABILITY_TIMEOUT", "750ms")
	t.Setenv("SYNC_INTERVAL_SECONDS", "5")
	t.Setenv("CONFLICT_RETRY_ATTEMPTS", "5")
	t.Setenv("PRICING_CURRENCY", "eur")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.False(t, cfg.UsesPostgres())
	assert.Equal(t, "localhost:9092", cfg.Kafka.Brokers)
	assert.Equal(t, 750*time.Millisecond, cfg.Ordering.AvailabilityTimeout)
	assert.Equal(t, 5*time.Second, cfg.Buffer.SyncInterval)
	assert.Equal(t, 5, cfg.Ordering.ConflictRetryAttempts)
	assert.Equal(t, "EUR", cfg.Ordering.Currency)
	assert.Equal(t, "0.0.0.0:9000", cfg.Address())
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsZeroRetries(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CONFLICT_RETRY_ATTEMPTS", "0")
	_, err := Load()
	assert.Error(t, err)
}

func TestGetHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")

	assert.Equal(t, 7, getInt("X_INT", 7))
	assert.True(t, getBool("X_BOOL", true))
	assert.Equal(t, time.Minute, getDuration("X_DUR", time.Minute))
}
