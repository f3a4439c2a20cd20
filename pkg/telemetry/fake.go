package telemetry

import "sync"

// Fake records published events for test assertions.
type Fake struct {
	mu sync.Mutex

	// Events contains all events that were published.
	Events []Event

	// PublishError, if set, will be returned by Publish.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFake creates a Fake publisher for testing.
func NewFake() *Fake {
	return &Fake{}
}

// Publish records the event.
func (f *Fake) Publish(e Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Events = append(f.Events, e)
	return nil
}

// Close marks the publisher as closed.
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// Published returns a copy of the recorded events.
func (f *Fake) Published() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Event, len(f.Events))
	copy(out, f.Events)
	return out
}
