package client

import "errors"

var (
	// ErrDaemonUnreachable is returned when the daemon cannot be reached
	ErrDaemonUnreachable = errors.New("daemon unreachable")
)
