//go:build linux

package hal

import (
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// Standard hobby-servo timing: 50 Hz frame, 500-2500 us pulse over 0-180 deg.
const (
	servoFreq   = 50 * physic.Hertz
	servoPeriod = 20 * time.Millisecond
	minPulse    = 500 * time.Microsecond
	maxPulse    = 2500 * time.Microsecond
)

// PWMServo drives a positional servo on a hardware PWM capable pin via
// periph.io. Pins are addressed by name in BCM numbering (e.g. "GPIO18").
type PWMServo struct {
	pin gpio.PinIO
}

// NewPWMServo initializes the periph host and claims the named pin.
// host.Init is safe to call more than once.
func NewPWMServo(pinName string) (*PWMServo, error) {
	if _, err := host.Init(); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to init periph host")
	}
	p := gpioreg.ByName(pinName)
	if p == nil {
		return nil, pkgerrors.Errorf("servo pin %q not found", pinName)
	}
	return &PWMServo{pin: p}, nil
}

// SetAngle commands the servo to an absolute angle. The pulse width is mapped
// linearly over the actuator's range; there is no confirmation that the horn
// actually arrives.
func (s *PWMServo) SetAngle(angle int) error {
	pulse := minPulse + time.Duration(angle)*(maxPulse-minPulse)/180
	duty := gpio.Duty(int64(gpio.DutyMax) * int64(pulse) / int64(servoPeriod))

	logrus.WithFields(logrus.Fields{
		"pin":   s.pin.Name(),
		"angle": angle,
		"pulse": pulse,
	}).Trace("commanding servo")

	return s.pin.PWM(duty, servoFreq)
}

// Close stops the PWM output. The servo holds its last position unpowered.
func (s *PWMServo) Close() error {
	return s.pin.Halt()
}
