// Package events provides in-process event publishing for refresh cycles.
package events

import "time"

// EventType represents different event types
type EventType string

const (
	CycleCompleted EventType = "CYCLE_COMPLETED"
	CycleFailed    EventType = "CYCLE_FAILED"
)

// AllTypes lists every event type, for subscribers that want everything
var AllTypes = []EventType{CycleCompleted, CycleFailed}

// Event represents a system event with typed data
type Event struct {
	Type      EventType `json:"type" msgpack:"type"`
	Timestamp time.Time `json:"timestamp" msgpack:"timestamp"`
	Module    string    `json:"module" msgpack:"module"`
	Data      EventData `json:"data" msgpack:"data"`
}
