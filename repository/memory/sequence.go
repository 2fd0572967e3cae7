package memory

import (
	"context"
	"sync"

	"github.com/fastygo/commerce/repository"
)

type orderNumberSequence struct {
	mu       sync.Mutex
	counters map[int]int64
}

// NewOrderNumberSequence returns a process-local sequence. Values restart with the process.
func NewOrderNumberSequence() repository.OrderNumberSequence {
	return &orderNumberSequence{counters: make(map[int]int64)}
}

func (s *orderNumberSequence) Next(ctx context.Context, year int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[year]++
	return s.counters[year], nil
}
