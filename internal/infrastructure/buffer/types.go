package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Priorities order the drain: lower drains first.
const (
	PriorityOrder   = 2
	PriorityProduct = 4
	PriorityDefault = 3
)

// Item is a committed domain event waiting for broker delivery. Data is the
// encoded event exactly as it will be sent.
type Item struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Data          json.RawMessage `json:"data"`
	Priority      int             `json:"priority"`
	Retries       int             `json:"retries"`
	Timestamp     time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Priority <= 0 || i.Priority > 5 {
		i.Priority = PriorityDefault
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
