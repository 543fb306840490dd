// Package trace records the lifecycle of type checks as structured events.
// It defines a common Event type covering reduction, checking, and cause
// diagnosis, suitable for logging and offline analysis.
package trace

import (
	"time"
)

// EventType identifies the category of a trace event.
type EventType string

const (
	// EventReduce records a hint reduction to canonical form.
	EventReduce EventType = "reduce"
	// EventCheck records a satisfaction check and its verdict.
	EventCheck EventType = "check"
	// EventViolation records a confirmed violation and its explanation.
	EventViolation EventType = "violation"
	// EventError is an internal error event.
	EventError EventType = "error"
)

// Event is one structured record in the trace stream.
type Event struct {
	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// CallID identifies the top-level check call this event belongs to.
	CallID string `json:"call_id"`

	// Type categorizes the event (reduce, check, violation, etc.).
	Type EventType `json:"type"`

	// Hint is the spelled form of the hint involved, if any.
	Hint string `json:"hint,omitempty"`

	// Detail is a short human-readable description (verdict, explanation).
	Detail string `json:"detail,omitempty"`
}

// ValidEventTypes returns all valid event type values.
func ValidEventTypes() []EventType {
	return []EventType{
		EventReduce,
		EventCheck,
		EventViolation,
		EventError,
	}
}

// IsValidEventType checks if the given string is a valid event type.
func IsValidEventType(s string) bool {
	for _, t := range ValidEventTypes() {
		if string(t) == s {
			return true
		}
	}
	return false
}

// FilterByType filters events by event type.
func FilterByType(events []Event, types ...EventType) []Event {
	if len(types) == 0 {
		return events
	}

	typeSet := make(map[EventType]bool)
	for _, t := range types {
		typeSet[t] = true
	}

	var filtered []Event
	for _, event := range events {
		if typeSet[event.Type] {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// FilterByCall filters events by top-level call ID. An empty ID returns all
// events.
func FilterByCall(events []Event, callID string) []Event {
	if callID == "" {
		return events
	}

	var filtered []Event
	for _, event := range events {
		if event.CallID == callID {
			filtered = append(filtered, event)
		}
	}
	return filtered
}
