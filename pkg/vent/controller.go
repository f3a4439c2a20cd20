// Package vent implements the ventilation state machine coordinating the
// damper servo, the two fan relays and the persisted calibration. All state
// lives in a single Controller owned by the daemon; HTTP handlers only hold a
// reference to it.
package vent

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/robertas-rtu/ventd/pkg/calibration"
	"github.com/robertas-rtu/ventd/pkg/hal"
	"github.com/robertas-rtu/ventd/pkg/telemetry"
)

// Default transition timing. The close settle gives the damper time to
// physically reach the closed position before parking.
const (
	DefaultSettle   = 2 * time.Second
	DefaultOpenHold = 1 * time.Second
)

// Options tunes a Controller. Zero values select the defaults; Sleep and
// Publisher are injectable so transitions are testable without real delays or
// a broker.
type Options struct {
	Settle    time.Duration
	OpenHold  time.Duration
	Sleep     func(time.Duration)
	Publisher telemetry.Publisher
}

// Controller owns the full ventilation state: the current speed, the relay
// states, the last commanded servo angle and the active calibration.
//
// Transitions run to completion under one mutex. gin dispatches requests
// concurrently, so the mutex is what keeps transitions non-overlapping: a
// status poll issued during the blocking off-sequence waits until the
// sequence finishes, the same stall a single-threaded dispatcher would show.
// There is no cancellation; a transition that has started always completes.
type Controller struct {
	mu sync.Mutex

	servo  hal.Servo
	relays hal.Relays
	store  *calibration.Store
	pub    telemetry.Publisher

	sleep    func(time.Duration)
	settle   time.Duration
	openHold time.Duration

	cal          calibration.Calibration
	speed        Speed
	active       bool
	relayLow     bool
	relayMedium  bool
	currentAngle int
}

// New loads the persisted calibration and returns a controller in the Off
// state. Call Startup before serving requests.
func New(servo hal.Servo, relays hal.Relays, store *calibration.Store, opts Options) *Controller {
	if opts.Settle == 0 {
		opts.Settle = DefaultSettle
	}
	if opts.OpenHold == 0 {
		opts.OpenHold = DefaultOpenHold
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.Publisher == nil {
		opts.Publisher = telemetry.Nop{}
	}

	return &Controller{
		servo:    servo,
		relays:   relays,
		store:    store,
		pub:      opts.Publisher,
		sleep:    opts.Sleep,
		settle:   opts.Settle,
		openHold: opts.OpenHold,
		cal:      store.Load(),
		speed:    SpeedOff,
	}
}

// Startup runs the boot self-test sequence: sweep the damper open, hold,
// close, wait for it to settle, then park. Both relays end de-energized.
// The servo has no feedback channel, so a missing or stuck actuator goes
// unnoticed here; the sequence only guarantees the commanded position.
func (c *Controller) Startup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	logrus.Info("running damper startup sequence")

	c.setRelays(false, false)
	c.commandAngle(c.cal.Open)
	c.sleep(c.openHold)
	c.commandAngle(c.cal.Close)
	c.sleep(c.settle)
	c.commandAngle(c.cal.Park)

	c.publish(telemetry.EventStartup, string(SpeedOff))
}

// SetSpeed runs the transition to the target speed. Repeating the current
// speed re-runs the whole transition: the servo is re-commanded and the
// relays re-asserted, so a desynced actuator gets pulled back into line.
// The off transition blocks through the settle interval before returning.
func (c *Controller) SetSpeed(s Speed) {
	if !s.Valid() {
		logrus.Warnf("ignoring unknown ventilation speed %q", s)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if s == SpeedOff {
		c.transitionOff()
	} else {
		c.transitionOn(s)
	}

	c.publish(telemetry.EventSpeed, string(s))
}

func (c *Controller) transitionOn(s Speed) {
	logrus.Infof("ventilation on: speed=%s angle=%d", s, c.cal.Open)

	c.speed = s
	c.active = true

	// Open the damper before spinning a fan so air never pushes against a
	// closed damper.
	c.commandAngle(c.cal.Open)

	switch s {
	case SpeedLow:
		c.setRelays(true, false)
	case SpeedMedium:
		c.setRelays(false, true)
	case SpeedMax:
		c.setRelays(true, true)
	}
}

func (c *Controller) transitionOff() {
	logrus.Infof("ventilation off: closing damper, settling %v, parking at %d", c.settle, c.cal.Park)

	c.speed = SpeedOff
	c.active = false

	c.setRelays(false, false)
	c.commandAngle(c.cal.Close)
	c.sleep(c.settle)
	c.commandAngle(c.cal.Park)
}

// SetRawAngle commands the servo directly, bypassing the speed and relay
// bookkeeping. Only the tracked angle changes. The caller must have
// range-checked the angle.
func (c *Controller) SetRawAngle(angle int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.commandAngle(angle)
	c.publish(telemetry.EventServo, "")
}

// ToggleRelays is the legacy toggle path: both relays flip together between
// de-energized and energized (the max pattern). It updates the active flag
// but deliberately leaves Speed alone; this mirrors the historical behavior
// the web UI's toggle button relies on. Returns true when the relays end up
// energized.
func (c *Controller) ToggleRelays() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	on := !(c.relayLow || c.relayMedium)
	c.setRelays(on, on)
	c.active = on

	logrus.Infof("relay toggle: energized=%t", on)
	c.publish(telemetry.EventRelayToggle, string(c.speed))
	return on
}

// UpdateCalibration validates and persists a replacement calibration, then
// swaps it in. All-or-nothing: on any error the in-memory calibration is
// untouched. The store write is synchronous, so when this returns nil the
// record is on disk.
func (c *Controller) UpdateCalibration(cal calibration.Calibration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Save(cal); err != nil {
		return err
	}
	c.cal = cal

	logrus.Infof("calibration updated: open=%d close=%d park=%d", cal.Open, cal.Close, cal.Park)
	c.publish(telemetry.EventCalibration, string(c.speed))
	return nil
}

// Status returns a snapshot of the controller state. It takes the transition
// mutex, so a poll during a blocking off-sequence waits for the sequence to
// finish.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Status{
		Active:       c.active,
		Speed:        c.speed,
		RelayLow:     c.relayLow,
		RelayMedium:  c.relayMedium,
		CurrentAngle: c.currentAngle,
		Settings:     c.cal,
	}
}

// commandAngle drives the servo and records the angle as current. Driver
// errors are logged and swallowed: the hardware offers no feedback, so the
// controller always reports the commanded state.
func (c *Controller) commandAngle(angle int) {
	if err := c.servo.SetAngle(angle); err != nil {
		logrus.Errorf("servo command to %d failed: %v", angle, err)
	}
	c.currentAngle = angle
}

func (c *Controller) setRelays(low, medium bool) {
	if err := c.relays.SetLow(low); err != nil {
		logrus.Errorf("low relay command failed: %v", err)
	}
	if err := c.relays.SetMedium(medium); err != nil {
		logrus.Errorf("medium relay command failed: %v", err)
	}
	c.relayLow = low
	c.relayMedium = medium
}

func (c *Controller) publish(event, speed string) {
	err := c.pub.Publish(telemetry.Event{
		Timestamp: time.Now(),
		Event:     event,
		Speed:     speed,
		Angle:     c.currentAngle,
	})
	if err != nil {
		logrus.Warnf("telemetry publish failed: %v", err)
	}
}
