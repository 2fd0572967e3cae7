package monitor

import "time"

// State of one dependency.
type State string

const (
	StateUp       State = "up"
	StateDown     State = "down"
	StateDisabled State = "disabled"
)

type Status struct {
	PostgreSQL State     `json:"postgresql"`
	Redis      State     `json:"redis"`
	Broker     State     `json:"broker"`
	Buffer     State     `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}

// Healthy is true when no enabled dependency is down.
func (s Status) Healthy() bool {
	for _, st := range []State{s.PostgreSQL, s.Redis, s.Broker, s.Buffer} {
		if st == StateDown {
			return false
		}
	}
	return true
}

func stateOf(enabled, ok bool) State {
	switch {
	case !enabled:
		return StateDisabled
	case ok:
		return StateUp
	default:
		return StateDown
	}
}
