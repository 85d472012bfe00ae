package interaction

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned by tasks whose own completion deadline elapsed.
var ErrTimeout = errors.New("interaction timed out")

type Kind string

const (
	KindTimeout Kind = "timeout"
	KindFailure Kind = "failure"
)

// Error reports a failed trial of a named interaction.
type Error struct {
	Interaction string
	Kind        Kind
	Err         error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("interaction %q timed out: %v", e.Interaction, e.Err)
	default:
		return fmt.Sprintf("interaction %q failed: %v", e.Interaction, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func IsTimeout(err error) bool {
	var ie *Error
	return errors.As(err, &ie) && ie.Kind == KindTimeout
}
