package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Status is the health of a refresh or of the service itself.
type Status int8

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusFailure
)

func ParseStatus(s string) Status {
	switch strings.ToUpper(s) {
	case "HEALTHY":
		return StatusHealthy
	case "FAILURE":
		return StatusFailure
	default:
		return StatusUnknown
	}
}

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "HEALTHY"
	case StatusFailure:
		return "FAILURE"
	default:
		return "UNKNOWN"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}

// Event is a line of the event log.
type Event struct {
	Time    time.Time
	Status  Status
	Latency time.Duration
	Target  string
	Message string
	Extra   map[string]any
}

type jsonEvent struct {
	Time    string  `json:"time"`
	Status  Status  `json:"status"`
	Latency float64 `json:"latency"`
	Target  string  `json:"target"`
	Message string  `json:"message,omitempty"`
}

// MarshalJSON encodes the event as a flat object.
// Extra values are placed next to the fixed fields; they never override them.
func (e Event) MarshalJSON() ([]byte, error) {
	fixed, err := json.Marshal(jsonEvent{
		Time:    e.Time.Format(time.RFC3339),
		Status:  e.Status,
		Latency: float64(e.Latency.Microseconds()) / 1000,
		Target:  e.Target,
		Message: e.Message,
	})
	if err != nil || len(e.Extra) == 0 {
		return fixed, err
	}

	extra := make(map[string]any, len(e.Extra))
	for k, v := range e.Extra {
		switch k {
		case "time", "status", "latency", "target", "message":
		default:
			extra[k] = v
		}
	}
	if len(extra) == 0 {
		return fixed, nil
	}

	rest, err := json.Marshal(extra)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, len(fixed)+len(rest))
	buf = append(buf, fixed[:len(fixed)-1]...)
	buf = append(buf, ',')
	buf = append(buf, rest[1:]...)
	return buf, nil
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var fixed jsonEvent
	if err := json.Unmarshal(data, &fixed); err != nil {
		return err
	}

	t, err := time.Parse(time.RFC3339, fixed.Time)
	if err != nil {
		return fmt.Errorf("invalid time: %w", err)
	}

	*e = Event{
		Time:    t,
		Status:  fixed.Status,
		Latency: time.Duration(fixed.Latency * float64(time.Millisecond)),
		Target:  fixed.Target,
		Message: fixed.Message,
	}

	for k, v := range raw {
		switch k {
		case "time", "status", "latency", "target", "message":
		default:
			if e.Extra == nil {
				e.Extra = make(map[string]any)
			}
			e.Extra[k] = v
		}
	}

	return nil
}

// String returns the event as a JSON line without the trailing newline.
func (e Event) String() string {
	b, err := e.MarshalJSON()
	if err != nil {
		return fmt.Sprintf(`{"time":%q,"status":"FAILURE","latency":0,"target":"topodown:log","message":%q}`, e.Time.Format(time.RFC3339), "failed to encode event: "+err.Error())
	}
	return string(b)
}
