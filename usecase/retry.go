package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/commerce/domain"
	"github.com/fastygo/commerce/pkg/metrics"
)

const defaultConflictAttempts = 3

// ConflictRetrier re-runs a load-mutate-save command when the save loses an
// optimistic concurrency race. Each attempt must reload the aggregate so the
// events of a failed attempt are discarded with it.
type ConflictRetrier struct {
	attempts int
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewConflictRetrier(attempts int, m *metrics.Metrics, logger *zap.Logger) ConflictRetrier {
	if attempts <= 0 {
		attempts = defaultConflictAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return ConflictRetrier{attempts: attempts, metrics: m, logger: logger}
}

func (r ConflictRetrier) Attempts() int {
	if r.attempts <= 0 {
		return 1
	}
	return r.attempts
}

// Do returns the first non-conflict result, or the last conflict once attempts run out.
func (r ConflictRetrier) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= r.Attempts(); attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if err != nil {
				return err
			}
			return ctxErr
		}
		if err = fn(ctx); err == nil || !domain.IsConflict(err) {
			return err
		}
		if attempt < r.Attempts() {
			r.metrics.ConflictRetry(operation)
			if r.logger != nil {
				r.logger.Debug("retrying after concurrency conflict",
					zap.String("operation", operation),
					zap.Int("attempt", attempt),
				)
			}
		}
	}
	return err
}
