package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/commerce/internal/infrastructure/buffer"
)

// BrokerProbe checks broker reachability; kafka.Client implements it.
type BrokerProbe interface {
	Enabled() bool
	Ping(ctx context.Context) error
}

// Targets lists what to watch. Nil members are reported as disabled.
type Targets struct {
	Postgres *pgxpool.Pool
	Redis    *redislib.Client
	Buffer   *buffer.Store
	Broker   BrokerProbe
}

type Monitor struct {
	targets Targets

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(targets Targets, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		targets:  targets,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	m.Refresh()
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline is true when storage dependencies are not down.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.PostgreSQL != StateDown && m.status.Redis != StateDown
}

// BrokerOnline gates event delivery; a disabled broker counts as online
// because events then go to the log sink.
func (m *Monitor) BrokerOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Broker != StateDown
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every check once and stores the result.
func (m *Monitor) Refresh() {
	bufferState, bufferSize := m.checkBuffer()
	status := Status{
		PostgreSQL: m.checkPostgres(),
		Redis:      m.checkRedis(),
		Broker:     m.checkBroker(),
		Buffer:     bufferState,
		BufferSize: bufferSize,
		LastCheck:  time.Now(),
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if previous.Broker != status.Broker && !previous.LastCheck.IsZero() {
		m.logger.Info("broker state changed", zap.String("from", string(previous.Broker)), zap.String("to", string(status.Broker)))
	}
}

func (m *Monitor) checkPostgres() State {
	if m.targets.Postgres == nil {
		return StateDisabled
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return stateOf(true, m.targets.Postgres.Ping(ctx) == nil)
}

func (m *Monitor) checkRedis() State {
	if m.targets.Redis == nil {
		return StateDisabled
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return stateOf(true, m.targets.Redis.Ping(ctx).Err() == nil)
}

func (m *Monitor) checkBroker() State {
	if m.targets.Broker == nil || !m.targets.Broker.Enabled() {
		return StateDisabled
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := m.targets.Broker.Ping(ctx)
	if err != nil {
		m.logger.Debug("broker ping failed", zap.Error(err))
	}
	return stateOf(true, err == nil)
}

func (m *Monitor) checkBuffer() (State, int) {
	if m.targets.Buffer == nil {
		return StateDisabled, 0
	}
	size, err := m.targets.Buffer.Size()
	if err != nil {
		m.logger.Warn("buffer size check failed", zap.Error(err))
		return StateDown, size
	}
	return StateUp, size
}
