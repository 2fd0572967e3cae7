package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/commerce/internal/infrastructure/buffer"
)

type fakeBroker struct {
	enabled bool
	err     error
}

func (b fakeBroker) Enabled() bool              { return b.enabled }
func (b fakeBroker) Ping(context.Context) error { return b.err }

func TestMonitor_MemoryModeIsHealthy(t *testing.T) {
	m := New(Targets{}, 0, nil)
	m.Refresh()

	status := m.GetStatus()
	assert.Equal(t, StateDisabled, status.PostgreSQL)
	assert.Equal(t, StateDisabled, status.Redis)
	assert.Equal(t, StateDisabled, status.Broker)
	assert.Equal(t, StateDisabled, status.Buffer)
	assert.True(t, status.Healthy())
	assert.True(t, m.IsOnline())
	assert.True(t, m.BrokerOnline())
}

func TestMonitor_BrokerAndBuffer(t *testing.T) {
	store, err := buffer.Open(filepath.Join(t.TempDir(), "b.db"), "events")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Enqueue(buffer.Item{EventType: "order.created"}))

	m := New(Targets{Buffer: store, Broker: fakeBroker{enabled: true, err: errors.New("refused")}}, 0, nil)
	m.Refresh()

	status := m.GetStatus()
	assert.Equal(t, StateUp, status.Buffer)
	assert.Equal(t, 1, status.BufferSize)
	assert.Equal(t, StateDown, status.Broker)
	assert.False(t, status.Healthy())
	assert.False(t, m.BrokerOnline())

	m.targets.Broker = fakeBroker{enabled: true}
	m.Refresh()
	assert.True(t, m.BrokerOnline())
}

func TestMonitor_StartStop(t *testing.T) {
	m := New(Targets{}, 0, nil)
	m.Start()
	m.Stop()
	m.Stop()
}
