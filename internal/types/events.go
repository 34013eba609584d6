package types

import "time"

// EventLevel classifies a structured log event emitted during a build.
type EventLevel string

const (
	EventLevelDebug    EventLevel = "debug"
	EventLevelInfo     EventLevel = "info"
	EventLevelWarning  EventLevel = "warning"
	EventLevelError    EventLevel = "error"
	EventLevelCritical EventLevel = "critical"
)

// Event is one structured log event. The core packages never write logs
// directly; they emit events to a sink supplied by the caller.
type Event struct {
	Level     EventLevel
	Message   string
	Path      string
	EmittedAt time.Time
}

// EventSink receives structured events from the builder and filter chain.
type EventSink interface {
	Emit(event Event)
}

// NopSink discards every event. It is the default sink when the caller does
// not supply one.
type NopSink struct{}

// Emit discards the event.
func (NopSink) Emit(Event) {}
