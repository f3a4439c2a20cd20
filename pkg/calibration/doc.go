// Package calibration defines the damper actuator calibration record and its
// on-disk store. It contains:
//
//   - Calibration: the three user-tunable servo angles (open/close/park)
//   - Store: a fixed-layout binary file store with synchronous commits
//
// The Calibration type doubles as the JSON contract of the HTTP settings API,
// so daemon and client share one definition.
package calibration
