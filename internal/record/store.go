package record

import (
	"context"
	"errors"
	"regexp"
)

// ErrInvalidID is returned for record identifiers that are empty or contain
// characters outside [A-Za-z0-9._-].
var ErrInvalidID = errors.New("record: invalid id")

// Store persists entries by id.
type Store interface {
	// Load returns the entry for id. A missing id yields an empty entry.
	Load(ctx context.Context, id string) (*Entry, error)

	// Save persists the current value of e. An empty value removes the
	// entry.
	Save(ctx context.Context, e *Entry) error

	// Delete removes the entry for id. A missing id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all ids in lexical order.
	List(ctx context.Context) ([]string, error)

	// Close releases the store's resources.
	Close() error
}

var validID = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// CheckID validates a record identifier.
func CheckID(id string) error {
	if !validID.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}
