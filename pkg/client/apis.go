package client

import (
	"encoding/json"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/robertas-rtu/ventd/pkg/calibration"
	"github.com/robertas-rtu/ventd/pkg/vent"
)

// Status fetches the full state snapshot from the daemon.
func (c *Client) Status() (vent.Status, error) {
	var st vent.Status

	ret, err := c.Get("/status")
	if err != nil {
		return st, pkgerrors.Wrap(err, "failed to get status")
	}
	if err := json.Unmarshal([]byte(ret), &st); err != nil {
		return st, pkgerrors.Wrap(err, "failed to unmarshal status")
	}
	return st, nil
}

// SetSpeed triggers the transition to the given speed. The off transition
// only returns once the damper has closed, settled and parked.
func (c *Client) SetSpeed(speed vent.Speed) error {
	if !speed.Valid() {
		return pkgerrors.Errorf("unknown speed %q", speed)
	}
	_, err := c.Get("/vent/" + string(speed))
	return pkgerrors.Wrapf(err, "failed to set speed %s", speed)
}

// SetServo commands the damper servo to a raw angle, bypassing the speed and
// relay bookkeeping.
func (c *Client) SetServo(angle int) error {
	if !calibration.InRange(angle) {
		return pkgerrors.Errorf("angle must be between %d and %d, got %d",
			calibration.MinAngle, calibration.MaxAngle, angle)
	}
	_, err := c.Get(fmt.Sprintf("/servo/set?angle=%d", angle))
	return pkgerrors.Wrapf(err, "failed to set servo to %d", angle)
}

// SaveSettings replaces the persisted actuator calibration.
func (c *Client) SaveSettings(cal calibration.Calibration) error {
	payload, err := json.Marshal(cal)
	if err != nil {
		return err
	}
	_, err = c.Post("/settings/save", string(payload))
	return pkgerrors.Wrap(err, "failed to save settings")
}

// ToggleRelays flips both relays through the legacy toggle endpoint and
// reports whether they ended up energized.
func (c *Client) ToggleRelays() (bool, error) {
	ret, err := c.Get("/relay/toggle")
	if err != nil {
		return false, pkgerrors.Wrap(err, "failed to toggle relays")
	}
	switch ret {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return false, pkgerrors.Errorf("unexpected toggle response %q", ret)
}
