// Package telemetry publishes controller transition events to MQTT so other
// home-automation consumers can follow what the damper and fans are doing.
// Publishing is best-effort: failures are logged and never surfaced to the
// HTTP caller that triggered the transition.
package telemetry

import (
	"encoding/json"
	"time"
)

// Event names.
const (
	EventStartup     = "startup"
	EventSpeed       = "speed"
	EventServo       = "servo"
	EventRelayToggle = "relay-toggle"
	EventCalibration = "calibration"
)

// Topic is the MQTT topic transition events are published to.
const Topic = "ventd/events"

// Event describes one controller transition.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	Speed     string    `json:"speed,omitempty"`
	Angle     int       `json:"angle"`
}

// FormatPayload renders the JSON wire form of an event.
func FormatPayload(e Event) ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers controller events somewhere.
type Publisher interface {
	Publish(e Event) error
	Close() error
}

// Nop discards all events. Used when no broker is configured.
type Nop struct{}

// Publish discards the event.
func (Nop) Publish(Event) error { return nil }

// Close does nothing.
func (Nop) Close() error { return nil }
