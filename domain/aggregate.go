package domain

import (
	"time"

	"github.com/google/uuid"
)

// AggregateType tags events and persistence rows with the aggregate they belong to.
type AggregateType string

const (
	AggregateProduct AggregateType = "Product"
	AggregateOrder   AggregateType = "Order"
)

var now = func() time.Time { return time.Now().UTC() }

// AggregateRoot carries identity, the optimistic-concurrency version and the
// events recorded since the aggregate was loaded. Aggregates embed it by value.
type AggregateRoot struct {
	id        string
	kind      AggregateType
	version   int64
	createdAt time.Time
	updatedAt time.Time
	pending   []Event
}

func newAggregateRoot(id string, kind AggregateType, createdAt, updatedAt time.Time, version int64) AggregateRoot {
	return AggregateRoot{
		id:        id,
		kind:      kind,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Version is the version token read at load time; zero means never persisted.
func (a *AggregateRoot) Version() int64 { return a.version }

func (a *AggregateRoot) CreatedAt() time.Time { return a.createdAt }
func (a *AggregateRoot) UpdatedAt() time.Time { return a.updatedAt }

// IsNew reports whether the aggregate has never been saved.
func (a *AggregateRoot) IsNew() bool { return a.version == 0 }

// MarkPersisted is called by repositories after a successful version-checked write.
func (a *AggregateRoot) MarkPersisted(version int64) {
	a.version = version
}

// PendingEvents returns a copy of the events recorded since load.
func (a *AggregateRoot) PendingEvents() []Event {
	if len(a.pending) == 0 {
		return nil
	}
	out := make([]Event, len(a.pending))
	copy(out, a.pending)
	return out
}

// PullEvents returns the recorded events and clears the buffer.
func (a *AggregateRoot) PullEvents() []Event {
	out := a.pending
	a.pending = nil
	return out
}

func (a *AggregateRoot) touch() time.Time {
	t := now()
	a.updatedAt = t
	if a.createdAt.IsZero() {
		a.createdAt = t
	}
	return t
}

// record stamps the payload into an event and appends it to the pending list.
func (a *AggregateRoot) record(payload EventPayload, at time.Time) Event {
	evt := Event{
		ID:            uuid.NewString(),
		AggregateID:   a.id,
		AggregateType: a.kind,
		Type:          payload.EventType(),
		Version:       a.version,
		OccurredAt:    at,
		Payload:       payload,
	}
	a.pending = append(a.pending, evt)
	return evt
}

// Event represents a change applied to an aggregate instance.
type Event struct {
	ID            string        `json:"id"`
	AggregateID   string        `json:"aggregate_id"`
	AggregateType AggregateType `json:"aggregate_type"`
	Type          EventType     `json:"type"`
	Version       int64         `json:"version"`
	OccurredAt    time.Time     `json:"occurred_at"`
	Payload       EventPayload  `json:"payload"`
}
