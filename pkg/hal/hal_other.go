//go:build !linux

package hal

import "errors"

var errUnsupported = errors.New("hal: hardware access requires Linux")

// PWMServo is not available on non-Linux platforms.
type PWMServo struct{}

// NewPWMServo returns an error on non-Linux platforms.
func NewPWMServo(pinName string) (*PWMServo, error) {
	return nil, errUnsupported
}

func (s *PWMServo) SetAngle(angle int) error { return errUnsupported }

func (s *PWMServo) Close() error { return nil }

// GPIORelays is not available on non-Linux platforms.
type GPIORelays struct{}

// NewGPIORelays returns an error on non-Linux platforms.
func NewGPIORelays(chipName string, lowPin, mediumPin int) (*GPIORelays, error) {
	return nil, errUnsupported
}

func (r *GPIORelays) SetLow(on bool) error { return errUnsupported }

func (r *GPIORelays) SetMedium(on bool) error { return errUnsupported }

func (r *GPIORelays) Close() error { return nil }
