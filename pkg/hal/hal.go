// Package hal provides hardware access for the ventilation controller: the
// servo driving the damper and the two fan relays. Real implementations exist
// for Linux (Raspberry Pi); fakes allow running the daemon logic and tests on
// any machine.
package hal

// Servo positions the damper actuator. SetAngle is fire-and-forget: there is
// no feedback channel confirming physical arrival, and any settle time before
// the next command is the caller's responsibility. Callers must range-check
// the angle (0-180) before calling.
type Servo interface {
	SetAngle(angle int) error
	Close() error
}

// Relays drives the two fan relay outputs. The relays are active-low: passing
// true energizes the fan by driving the output pin low. The two outputs are
// independent.
type Relays interface {
	SetLow(on bool) error
	SetMedium(on bool) error
	Close() error
}
