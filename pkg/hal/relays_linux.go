//go:build linux

package hal

import (
	"github.com/warthog618/go-gpiocdev"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// GPIORelays drives the two fan relays through the Linux GPIO character
// device. The relay board is active-low, so lines are requested with an
// initial value of 1 (de-energized) and driven to 0 to switch a fan on.
type GPIORelays struct {
	chip   *gpiocdev.Chip
	low    *gpiocdev.Line
	medium *gpiocdev.Line
}

// NewGPIORelays opens the chip and claims both relay lines as outputs in the
// de-energized state.
func NewGPIORelays(chipName string, lowPin, mediumPin int) (*GPIORelays, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open gpio chip %s", chipName)
	}

	lowLine, err := chip.RequestLine(lowPin, gpiocdev.AsOutput(1))
	if err != nil {
		chip.Close()
		return nil, pkgerrors.Wrapf(err, "failed to request low relay pin %d", lowPin)
	}

	mediumLine, err := chip.RequestLine(mediumPin, gpiocdev.AsOutput(1))
	if err != nil {
		lowLine.Close()
		chip.Close()
		return nil, pkgerrors.Wrapf(err, "failed to request medium relay pin %d", mediumPin)
	}

	return &GPIORelays{
		chip:   chip,
		low:    lowLine,
		medium: mediumLine,
	}, nil
}

// SetLow energizes or de-energizes the low-speed relay.
func (r *GPIORelays) SetLow(on bool) error {
	logrus.WithFields(logrus.Fields{"relay": "low", "on": on}).Trace("commanding relay")
	return r.low.SetValue(relayLevel(on))
}

// SetMedium energizes or de-energizes the medium-speed relay.
func (r *GPIORelays) SetMedium(on bool) error {
	logrus.WithFields(logrus.Fields{"relay": "medium", "on": on}).Trace("commanding relay")
	return r.medium.SetValue(relayLevel(on))
}

// relayLevel maps the logical fan state to the active-low output level.
func relayLevel(on bool) int {
	if on {
		return 0
	}
	return 1
}

// Close de-energizes both relays and releases the lines.
func (r *GPIORelays) Close() error {
	var firstErr error

	if r.low != nil {
		if err := r.low.SetValue(relayLevel(false)); err != nil && firstErr == nil {
			firstErr = pkgerrors.Wrap(err, "failed to release low relay")
		}
		if err := r.low.Close(); err != nil && firstErr == nil {
			firstErr = pkgerrors.Wrap(err, "failed to close low relay line")
		}
	}
	if r.medium != nil {
		if err := r.medium.SetValue(relayLevel(false)); err != nil && firstErr == nil {
			firstErr = pkgerrors.Wrap(err, "failed to release medium relay")
		}
		if err := r.medium.Close(); err != nil && firstErr == nil {
			firstErr = pkgerrors.Wrap(err, "failed to close medium relay line")
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil && firstErr == nil {
			firstErr = pkgerrors.Wrap(err, "failed to close gpio chip")
		}
	}

	return firstErr
}
