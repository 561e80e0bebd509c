package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Result is the outcome of a lifecycle operation.
type Result int

const (
	// Skipped means there was nothing to do.
	Skipped Result = iota
	// Succeeded means the operation changed something.
	Succeeded
	// Failed means the operation failed. It is always returned with an error.
	Failed
)

func (r Result) String() string {
	switch r {
	case Skipped:
		return "skipped"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Record is the owning record, seen through one of its attributes.
type Record interface {
	// Value returns the current reference: empty, a staging key, or a bare
	// stored name.
	Value() string

	// SetValue replaces the current reference.
	SetValue(value string)

	// PreviousValue returns the reference as it was last persisted.
	PreviousValue() string

	// ReportError attaches a validation message to an attribute.
	ReportError(attribute, message string)
}

// Upload is new content waiting to be staged.
type Upload interface {
	// Extension returns the file extension without the leading dot.
	Extension() string

	// Open returns the content. The caller closes it.
	Open() (io.ReadCloser, error)
}

// Manager moves the file behind one record attribute between the staging
// and store areas. A Manager is not safe for concurrent use; run one per
// record.
type Manager struct {
	record    Record
	attribute string
	backend   Backend
	layout    Layout
	opts      Options
	log       *slog.Logger

	upload  Upload // attached, not yet staged
	pending string // reference superseded by the last promotion
}

// New creates a Manager for the given record attribute.
func New(record Record, attribute string, backend Backend, layout Layout, options ...Option) *Manager {
	opts := Options{
		NameGenerator: NewName,
	}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Manager{
		record:    record,
		attribute: attribute,
		backend:   backend,
		layout:    layout,
		opts:      opts,
		log:       opts.Logger.With(slog.String("attribute", attribute)),
	}
}

// Attach sets an upload to be staged by the next Resolve or Promote.
func (m *Manager) Attach(upload Upload) {
	m.upload = upload
}

// Pending returns the reference superseded by the last promotion, or an
// empty string once it has been moved to staging.
func (m *Manager) Pending() string {
	return m.pending
}

// Path returns the backend key of the current file, or an empty string when
// the record holds no reference.
func (m *Manager) Path() string {
	return m.layout.Key(m.record.Value())
}

// Stage writes upload into the staging area under a new name and points the
// record at it. On failure the record keeps its previous reference.
func (m *Manager) Stage(ctx context.Context, upload Upload) (Result, error) {
	name := joinExt(m.newName(), cleanExt(upload.Extension()))
	key := m.layout.StagingKey(name)

	if err := m.backend.MkdirAll(ctx, cleanDir(m.layout.TempDir)); err != nil {
		return m.fail(ErrUploadWrite, msgUploadWrite, err)
	}

	rc, err := upload.Open()
	if err != nil {
		return m.fail(ErrUploadWrite, msgUploadWrite, err)
	}
	defer rc.Close()

	if err := m.backend.Write(ctx, key, rc); err != nil {
		return m.fail(ErrUploadWrite, msgUploadWrite, err)
	}

	if m.opts.FileMode != 0 {
		if err := m.backend.Chmod(ctx, key, m.opts.FileMode); err != nil {
			m.log.Warn("chmod staged file", slog.String("key", key), "err", err)
		}
	}

	m.upload = nil
	m.record.SetValue(key)
	m.log.Debug("staged upload", slog.String("key", key))
	return Succeeded, nil
}

// Resolve makes sure the current reference is usable. An attached upload is
// staged. A staged reference must still have its file. Stored names and
// empty references need nothing.
func (m *Manager) Resolve(ctx context.Context) (Result, error) {
	if m.upload != nil {
		return m.Stage(ctx, m.upload)
	}

	ref := m.record.Value()
	if !m.layout.IsStaged(ref) {
		return Skipped, nil
	}

	exists, err := m.backend.Exists(ctx, m.layout.Key(ref))
	if err != nil {
		return m.fail(ErrMissingStagedFile, msgMissingStaged, err)
	}
	if !exists {
		return m.fail(ErrMissingStagedFile, msgMissingStaged, fmt.Errorf("%s not found", ref))
	}
	return Skipped, nil
}

// Promote copies the staged file into the store area under a new name and
// points the record at that name. The staged file is kept, so a failed
// Promote can be retried. Promoting a stored reference is a no-op.
func (m *Manager) Promote(ctx context.Context) (Result, error) {
	if res, err := m.Resolve(ctx); res == Failed {
		return res, err
	}

	ref := m.record.Value()
	if !m.layout.IsStaged(ref) {
		return Skipped, nil
	}

	_, ext := splitName(m.layout.StagedName(ref))
	name := joinExt(m.newName(), ext)
	dir := m.layout.StoreDirKey(name)

	if err := m.backend.MkdirAll(ctx, dir); err != nil {
		return m.fail(ErrPromotionCopy, msgPromotionCopy, err)
	}

	final, err := Finalize(ctx, m.backend, dir, name)
	if err != nil {
		return m.fail(ErrPromotionCopy, msgPromotionCopy, err)
	}

	if err := m.backend.Copy(ctx, m.layout.Key(ref), dir+"/"+final); err != nil {
		return m.fail(ErrPromotionCopy, msgPromotionCopy, err)
	}

	m.pending = ref
	m.record.SetValue(final)
	m.log.Debug("promoted", slog.String("from", ref), slog.String("name", final))
	return Succeeded, nil
}

// Delete moves the current file and its derivatives into the staging area.
// The record keeps its reference; removing the record is up to the caller.
func (m *Manager) Delete(ctx context.Context) (Result, error) {
	return m.relocate(ctx, m.record.Value())
}

// Reconcile runs after the record has been saved. It moves the reference
// superseded by Promote, and the previously persisted reference if it
// differs from the current one, into the staging area.
//
// The result is Succeeded if either move happened and Skipped if neither
// had anything to do. A failure of the first move is kept even if the
// second one is skipped; the second move is attempted regardless.
func (m *Manager) Reconcile(ctx context.Context) (Result, error) {
	status := Skipped
	var errs []error

	if m.pending != "" {
		res, err := m.relocate(ctx, m.pending)
		if err != nil {
			errs = append(errs, err)
		}
		if res == Succeeded {
			m.pending = ""
		}
		status = res
	}

	current := m.record.Value()
	if prev := m.record.PreviousValue(); prev != "" && prev != current {
		res, err := m.relocate(ctx, prev)
		if err != nil {
			errs = append(errs, err)
		}
		if status != Failed && res != Skipped {
			status = res
		}
	}

	if len(errs) > 0 {
		return status, errors.Join(errs...)
	}
	return status, nil
}

// newName returns a generated stem at least ShardKeyLength long, so that a
// collision suffix never changes the shard directory.
func (m *Manager) newName() string {
	name := m.opts.NameGenerator()
	if len(name) < ShardKeyLength {
		name += strings.Repeat("0", ShardKeyLength-len(name))
	}
	return name
}

// fail reports the failure to the record and returns it.
func (m *Manager) fail(kind error, message string, cause error) (Result, error) {
	m.record.ReportError(m.attribute, message)
	err := fmt.Errorf("%w: %w", kind, cause)
	m.log.Warn(message, "err", err)
	return Failed, err
}
