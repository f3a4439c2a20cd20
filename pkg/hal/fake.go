package hal

import "sync"

// FakeServo records every commanded angle for test assertions.
type FakeServo struct {
	mu sync.Mutex

	// Angles contains every angle commanded, in order.
	Angles []int

	// Err, if set, is returned by SetAngle.
	Err error

	// Closed tracks whether Close was called.
	Closed bool
}

// NewFakeServo creates a FakeServo for testing.
func NewFakeServo() *FakeServo {
	return &FakeServo{}
}

// SetAngle records the commanded angle.
func (s *FakeServo) SetAngle(angle int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Angles = append(s.Angles, angle)
	return nil
}

// Close marks the servo as closed.
func (s *FakeServo) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// Commanded returns a copy of the recorded angle sequence.
func (s *FakeServo) Commanded() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.Angles))
	copy(out, s.Angles)
	return out
}

// Last returns the most recently commanded angle, or -1 if none.
func (s *FakeServo) Last() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Angles) == 0 {
		return -1
	}
	return s.Angles[len(s.Angles)-1]
}

// FakeRelays tracks the logical state of both relays and records every
// command for test assertions.
type FakeRelays struct {
	mu sync.Mutex

	// Low and Medium are the current logical states (true = energized).
	Low    bool
	Medium bool

	// History contains every command as "low=true" style strings, in order.
	History []string

	// Err, if set, is returned by SetLow and SetMedium.
	Err error

	// Closed tracks whether Close was called.
	Closed bool
}

// NewFakeRelays creates a FakeRelays for testing.
func NewFakeRelays() *FakeRelays {
	return &FakeRelays{}
}

// SetLow records and applies the low relay command.
func (r *FakeRelays) SetLow(on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Low = on
	r.History = append(r.History, record("low", on))
	return nil
}

// SetMedium records and applies the medium relay command.
func (r *FakeRelays) SetMedium(on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Medium = on
	r.History = append(r.History, record("medium", on))
	return nil
}

// Close marks the relays as closed.
func (r *FakeRelays) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Closed = true
	return nil
}

// States returns the current logical states of both relays.
func (r *FakeRelays) States() (low, medium bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Low, r.Medium
}

func record(name string, on bool) string {
	if on {
		return name + "=on"
	}
	return name + "=off"
}
