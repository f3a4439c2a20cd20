package vent

import "github.com/robertas-rtu/ventd/pkg/calibration"

// Speed is a ventilation speed as it appears on the wire.
type Speed string

const (
	SpeedOff    Speed = "off"
	SpeedLow    Speed = "low"
	SpeedMedium Speed = "medium"
	SpeedMax    Speed = "max"
)

// Valid reports whether s is one of the four known speeds.
func (s Speed) Valid() bool {
	switch s {
	case SpeedOff, SpeedLow, SpeedMedium, SpeedMax:
		return true
	}
	return false
}

// Status is the full state snapshot returned by GET /status. The JSON tags
// are the wire contract consumed by the web UI and the supervisor.
type Status struct {
	Active       bool                    `json:"ventActive"`
	Speed        Speed                   `json:"ventSpeed"`
	RelayLow     bool                    `json:"relayLow"`
	RelayMedium  bool                    `json:"relayMedium"`
	CurrentAngle int                     `json:"currentAngle"`
	Settings     calibration.Calibration `json:"settings"`
}
