package memory

import (
	"sync"

	"github.com/fastygo/commerce/domain"
)

// EventLog keeps every committed event in commit order.
type EventLog struct {
	mu     sync.RWMutex
	events []domain.Event
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

func (l *EventLog) append(events []domain.Event) {
	if l == nil || len(events) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, events...)
}

// All returns a copy of the committed events.
func (l *EventLog) All() []domain.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Event, len(l.events))
	copy(out, l.events)
	return out
}

// ForAggregate returns committed events of one aggregate instance.
func (l *EventLog) ForAggregate(id string) []domain.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []domain.Event
	for _, e := range l.events {
		if e.AggregateID == id {
			out = append(out, e)
		}
	}
	return out
}
