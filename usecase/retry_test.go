package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/commerce/domain"
)

func TestConflictRetrier_RetriesOnlyConflicts(t *testing.T) {
	r := NewConflictRetrier(3, nil, nil)

	calls := 0
	err := r.Do(context.Background(), "test", func(context.Context) error {
		calls++
		if calls < 3 {
			return domain.ErrConcurrencyConflict
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	boom := errors.New("boom")
	err = r.Do(context.Background(), "test", func(context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestConflictRetrier_GivesUp(t *testing.T) {
	r := NewConflictRetrier(2, nil, nil)

	calls := 0
	err := r.Do(context.Background(), "test", func(context.Context) error {
		calls++
		return domain.ErrConcurrencyConflict
	})
	assert.True(t, domain.IsConflict(err))
	assert.Equal(t, 2, calls)
}

func TestConflictRetrier_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := NewConflictRetrier(3, nil, nil).Do(ctx, "test", func(context.Context) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestConflictRetrier_ZeroValueRunsOnce(t *testing.T) {
	var r ConflictRetrier
	calls := 0
	err := r.Do(context.Background(), "test", func(context.Context) error {
		calls++
		return domain.ErrConcurrencyConflict
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
