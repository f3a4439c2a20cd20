package telemetry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestFormatPayload(t *testing.T) {
	e := Event{
		Timestamp: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		Event:     EventSpeed,
		Speed:     "medium",
		Angle:     180,
	}

	payload, err := FormatPayload(e)
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if decoded["event"] != "speed" {
		t.Errorf("event = %v, want speed", decoded["event"])
	}
	if decoded["speed"] != "medium" {
		t.Errorf("speed = %v, want medium", decoded["speed"])
	}
	if decoded["angle"] != float64(180) {
		t.Errorf("angle = %v, want 180", decoded["angle"])
	}
}

func TestFormatPayloadOmitsEmptySpeed(t *testing.T) {
	payload, err := FormatPayload(Event{Event: EventServo, Angle: 90})
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if _, ok := decoded["speed"]; ok {
		t.Error("empty speed should be omitted from the payload")
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFake()

	if err := f.Publish(Event{Event: EventStartup}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := f.Published(); len(got) != 1 || got[0].Event != EventStartup {
		t.Fatalf("Published() = %v", got)
	}

	f.PublishError = errors.New("broker down")
	if err := f.Publish(Event{Event: EventSpeed}); err == nil {
		t.Fatal("Publish should return the injected error")
	}
	if len(f.Published()) != 1 {
		t.Fatal("failed publish should not be recorded")
	}
}
