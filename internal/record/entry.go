package record

import (
	"fmt"
	"sort"
)

// Entry is a stored record with a single file attribute. It implements
// resource.Record.
type Entry struct {
	id       string
	value    string
	previous string
	errors   map[string][]string
}

// NewEntry returns an entry as loaded from a store: value is both the
// current and the previously persisted reference.
func NewEntry(id, value string) *Entry {
	return &Entry{id: id, value: value, previous: value}
}

// ID returns the record identifier.
func (e *Entry) ID() string { return e.id }

// Value implements resource.Record.
func (e *Entry) Value() string { return e.value }

// SetValue implements resource.Record.
func (e *Entry) SetValue(value string) { e.value = value }

// PreviousValue implements resource.Record. It is the value the entry was
// loaded with and does not change on Save.
func (e *Entry) PreviousValue() string { return e.previous }

// Dirty reports whether the value differs from the one loaded.
func (e *Entry) Dirty() bool { return e.value != e.previous }

// ReportError implements resource.Record.
func (e *Entry) ReportError(attribute, message string) {
	if e.errors == nil {
		e.errors = make(map[string][]string)
	}
	e.errors[attribute] = append(e.errors[attribute], message)
}

// Errors returns the reported errors as "attribute: message" lines, sorted
// by attribute.
func (e *Entry) Errors() []string {
	attrs := make([]string, 0, len(e.errors))
	for a := range e.errors {
		attrs = append(attrs, a)
	}
	sort.Strings(attrs)

	var out []string
	for _, a := range attrs {
		for _, m := range e.errors[a] {
			out = append(out, fmt.Sprintf("%s: %s", a, m))
		}
	}
	return out
}
