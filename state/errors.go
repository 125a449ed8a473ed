package state

import (
	"errors"
	"fmt"
)

var (
	ErrTopologyUnreadable = errors.New("topology description unreadable")
	ErrUnknownNode        = errors.New("unknown node")
	ErrMalformedLine      = errors.New("malformed line")
	ErrNoConvergence      = errors.New("simulation did not converge")
)

// LineError ties a topology error to the line it was found on.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
