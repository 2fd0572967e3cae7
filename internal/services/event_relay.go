package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/commerce/domain"
	"github.com/fastygo/commerce/internal/infrastructure/buffer"
	"github.com/fastygo/commerce/internal/infrastructure/kafka"
	"github.com/fastygo/commerce/pkg/metrics"
	"github.com/fastygo/commerce/usecase"
)

// BrokerHealth reports whether the event broker is reachable.
type BrokerHealth interface {
	BrokerOnline() bool
}

// MessageSink delivers encoded events. kafka.Writer and kafka.LogSink implement it.
type MessageSink interface {
	Send(ctx context.Context, msgs []kafka.Message) error
}

// RelayConfig controls how frequently the buffer is drained.
type RelayConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// EventRelay delivers committed domain events to the broker. Events that cannot
// be delivered right away are parked in the bbolt buffer and retried on a schedule.
type EventRelay struct {
	store   *buffer.Store
	sink    MessageSink
	health  BrokerHealth
	metrics *metrics.Metrics
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     RelayConfig

	// held for the duration of a drain; a second concurrent drain is skipped
	draining sync.Mutex
}

func NewEventRelay(
	store *buffer.Store,
	sink MessageSink,
	health BrokerHealth,
	m *metrics.Metrics,
	logger *zap.Logger,
	cfg RelayConfig,
) *EventRelay {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &EventRelay{
		store:   store,
		sink:    sink,
		health:  health,
		metrics: m,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}

	seconds := int(cfg.Interval.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	_, _ = r.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := r.Drain(ctx); err != nil {
			r.logger.Error("event buffer drain failed", zap.Error(err))
		}
	})
	if cfg.Retention > 0 {
		_, _ = r.cron.AddFunc("@hourly", r.cleanup)
	}

	return r
}

// Start launches the cron scheduler.
func (r *EventRelay) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("event relay started", zap.Duration("interval", r.cfg.Interval))
}

// Stop gracefully stops the scheduler.
func (r *EventRelay) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("event relay stopped")
}

// Publish tries the broker first and falls back to the buffer. It fails only
// when the events could be neither delivered nor buffered.
func (r *EventRelay) Publish(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	items, msgs, err := encodeEvents(events)
	if err != nil {
		return err
	}

	// Earlier events of the same aggregates may still be parked; sending now would overtake them.
	if r.online() && !r.hasBacklog() {
		if err := r.sink.Send(ctx, msgs); err == nil {
			for _, e := range events {
				r.metrics.EventPublished(string(e.Type))
			}
			return nil
		} else {
			r.logger.Warn("immediate delivery failed, buffering", zap.Int("events", len(events)), zap.Error(err))
		}
	}

	if r.store == nil {
		return fmt.Errorf("event buffer not configured")
	}
	if err := r.store.Enqueue(items...); err != nil {
		return fmt.Errorf("buffer events: %w", err)
	}
	for range items {
		r.metrics.EventBuffered()
	}
	r.metrics.SetBufferSize(r.Size())
	return nil
}

// Drain delivers buffered events in key order. Only one drain runs at a time. After a failure, later events
// of the same aggregate are held back so the broker never sees them out of order.
func (r *EventRelay) Drain(ctx context.Context) error {
	if r == nil || r.store == nil {
		return nil
	}
	if !r.online() {
		r.logger.Debug("skipping event drain (broker offline)")
		return nil
	}
	if !r.draining.TryLock() {
		r.logger.Debug("skipping event drain (previous drain still running)")
		return nil
	}
	defer r.draining.Unlock()

	items, err := r.store.GetBatch(r.cfg.BatchSize)
	if err != nil {
		return err
	}

	blocked := make(map[string]bool)
	for _, item := range items {
		if blocked[item.AggregateID] {
			continue
		}
		if err := r.sink.Send(ctx, []kafka.Message{toMessage(item)}); err != nil {
			r.logger.Error("failed to deliver buffered event",
				zap.String("item_id", item.ID),
				zap.String("event_type", item.EventType),
				zap.Error(err))

			item.Retries++
			if item.Retries >= r.cfg.MaxRetries {
				r.logger.Warn("dropping buffered event (max retries reached)", zap.String("item_id", item.ID))
				r.metrics.EventDropped()
				_ = r.store.Remove(item)
				continue
			}
			blocked[item.AggregateID] = true
			if err := r.store.Requeue(item); err != nil {
				r.logger.Error("failed to requeue buffered event", zap.Error(err))
			}
			continue
		}

		r.metrics.EventPublished(item.EventType)
		if err := r.store.Remove(item); err != nil {
			r.logger.Warn("failed to purge delivered event", zap.Error(err))
		}
	}
	r.metrics.SetBufferSize(r.Size())
	return nil
}

// Size returns the number of buffered events.
func (r *EventRelay) Size() int {
	if r == nil || r.store == nil {
		return 0
	}
	size, err := r.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (r *EventRelay) online() bool {
	return r.health == nil || r.health.BrokerOnline()
}

func (r *EventRelay) hasBacklog() bool {
	return r.Size() > 0
}

func (r *EventRelay) cleanup() {
	removed, err := r.store.Cleanup(time.Now().Add(-r.cfg.Retention))
	if err != nil {
		r.logger.Error("event buffer cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		r.logger.Warn("expired buffered events removed", zap.Int("count", removed))
	}
}

func encodeEvents(events []domain.Event) ([]buffer.Item, []kafka.Message, error) {
	items := make([]buffer.Item, len(events))
	msgs := make([]kafka.Message, len(events))
	for i, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return nil, nil, fmt.Errorf("encode event %s: %w", e.ID, err)
		}
		items[i] = buffer.Item{
			ID:            e.ID,
			AggregateID:   e.AggregateID,
			AggregateType: string(e.AggregateType),
			EventType:     string(e.Type),
			Data:          data,
			Priority:      priorityOf(e.AggregateType),
		}
		msgs[i] = toMessage(items[i])
		msgs[i].Time = e.OccurredAt
	}
	return items, msgs, nil
}

func toMessage(item buffer.Item) kafka.Message {
	return kafka.Message{
		Key:       item.AggregateID,
		Value:     item.Data,
		EventType: item.EventType,
	}
}

func priorityOf(kind domain.AggregateType) int {
	if kind == domain.AggregateOrder {
		return buffer.PriorityOrder
	}
	return buffer.PriorityProduct
}

var _ usecase.EventPublisher = (*EventRelay)(nil)
