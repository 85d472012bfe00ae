package download

import (
	"errors"
)

type Target interface {
	TriggerDownload(filename string, data []byte) error
}

// Tee delivers every download to all targets and joins their errors.
type Tee []Target

func (t Tee) TriggerDownload(filename string, data []byte) error {
	var errs []error
	for _, target := range t {
		if err := target.TriggerDownload(filename, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
