package resource

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUploadWrite is returned when an upload cannot be written into the
	// staging area.
	ErrUploadWrite = errors.New("resource: cannot write upload")

	// ErrMissingStagedFile is returned when the record points into the
	// staging area but the file is gone.
	ErrMissingStagedFile = errors.New("resource: staged file is missing")

	// ErrPromotionCopy is returned when a staged file cannot be copied into
	// the store area. The staged file is left in place, so Promote can be
	// retried.
	ErrPromotionCopy = errors.New("resource: cannot copy staged file to store")

	// ErrRelocate is returned when a stored file cannot be moved into the
	// staging area.
	ErrRelocate = errors.New("resource: cannot move file to staging")
)

// Messages reported to the record for each failure.
const (
	msgUploadWrite   = "Cant save new file"
	msgMissingStaged = "No temp file"
	msgPromotionCopy = "Cant move file from temp"
	msgRelocate      = "Cant move file to temp"
)

// DerivativeError collects the derivative variants that could not be moved
// alongside their primary file. It never fails the primary operation.
type DerivativeError struct {
	Name   string
	Failed map[string]error // derivative key -> rename error
}

func (e *DerivativeError) Error() string {
	keys := make([]string, 0, len(e.Failed))
	for k := range e.Failed {
		keys = append(keys, k)
	}
	return fmt.Sprintf("resource: %d derivative(s) of %s not moved: %s",
		len(e.Failed), e.Name, strings.Join(keys, ", "))
}

// Unwrap returns the individual rename errors.
func (e *DerivativeError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, err := range e.Failed {
		errs = append(errs, err)
	}
	return errs
}
