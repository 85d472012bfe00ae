package runner

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when cancellation was observed between trials.
var ErrCancelled = errors.New("run cancelled")

// TrialError reports the trial that stopped a run.
type TrialError struct {
	Interaction string
	Copy        int
	Sample      int
	Err         error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("%s (copy %d, sample %d): %v", e.Interaction, e.Copy+1, e.Sample+1, e.Err)
}

func (e *TrialError) Unwrap() error {
	return e.Err
}
