package calibration

// Angle limits of the servo-driven damper actuator.
const (
	MinAngle = 0
	MaxAngle = 180
)

// Calibration holds the three actuator angles tuned by the user. Open is the
// damper position while any fan runs, Close is the fully shut position, and
// Park is the resting position held between ventilation cycles.
type Calibration struct {
	Open  int `json:"angleOpen"`
	Close int `json:"angleClose"`
	Park  int `json:"anglePark"`
}

// Default is the factory calibration applied on first boot and whenever a
// stored field fails validation.
var Default = Calibration{
	Open:  180,
	Close: 0,
	Park:  32,
}

// InRange reports whether a single angle is within the actuator's range.
func InRange(angle int) bool {
	return angle >= MinAngle && angle <= MaxAngle
}

// Valid reports whether every field is within the actuator's range.
func (c Calibration) Valid() bool {
	return InRange(c.Open) && InRange(c.Close) && InRange(c.Park)
}

// Clamped returns a copy with any out-of-range field replaced by its default.
// Fields are substituted independently so a single corrupt value does not
// discard the other two.
func (c Calibration) Clamped() Calibration {
	if !InRange(c.Open) {
		c.Open = Default.Open
	}
	if !InRange(c.Close) {
		c.Close = Default.Close
	}
	if !InRange(c.Park) {
		c.Park = Default.Park
	}
	return c
}
