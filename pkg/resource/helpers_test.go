package resource

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeRecord is an in-memory Record.
type fakeRecord struct {
	value    string
	previous string
	errors   map[string][]string
}

func (r *fakeRecord) Value() string { return r.value }
func (r *fakeRecord) SetValue(value string) { r.value = value }
func (r *fakeRecord) PreviousValue() string { return r.previous }
func (r *fakeRecord) ReportError(attribute, message string) {
	if r.errors == nil {
		r.errors = map[string][]string{}
	}
	r.errors[attribute] = append(r.errors[attribute], message)
}

type bytesUpload struct {
	ext  string
	data []byte
	err  error
}

func (u bytesUpload) Extension() string { return u.ext }

func (u bytesUpload) Open() (io.ReadCloser, error) {
	if u.err != nil {
		return nil, u.err
	}
	return io.NopCloser(bytes.NewReader(u.data)), nil
}

// faultyBackend wraps a Backend and fails selected operations.
type faultyBackend struct {
	Backend
	copyErr   error
	renameErr func(src string) error
}

func (b *faultyBackend) Copy(ctx context.Context, src, dst string) error {
	if b.copyErr != nil {
		return b.copyErr
	}
	return b.Backend.Copy(ctx, src, dst)
}

func (b *faultyBackend) Rename(ctx context.Context, src, dst string) error {
	if b.renameErr != nil {
		if err := b.renameErr(src); err != nil {
			return err
		}
	}
	return b.Backend.Rename(ctx, src, dst)
}

// untouchableBackend fails the test on any call.
type untouchableBackend struct {
	t *testing.T
}

func (b untouchableBackend) fail(op string) error {
	b.t.Errorf("unexpected backend call: %s", op)
	return errors.New("unexpected call")
}

func (b untouchableBackend) Exists(context.Context, string) (bool, error) {
	return false, b.fail("Exists")
}
func (b untouchableBackend) MkdirAll(context.Context, string) error { return b.fail("MkdirAll") }
func (b untouchableBackend) Write(context.Context, string, io.Reader) error {
	return b.fail("Write")
}
func (b untouchableBackend) Copy(context.Context, string, string) error { return b.fail("Copy") }
func (b untouchableBackend) Rename(context.Context, string, string) error { return b.fail("Rename") }
func (b untouchableBackend) Remove(context.Context, string) error { return b.fail("Remove") }
func (b untouchableBackend) Glob(context.Context, string) ([]string, error) {
	return nil, b.fail("Glob")
}
func (b untouchableBackend) Walk(context.Context, string, func(string, int64) error) error {
	return b.fail("Walk")
}
func (b untouchableBackend) Chmod(context.Context, string, os.FileMode) error {
	return b.fail("Chmod")
}

// seqNames returns a name generator yielding names in order.
func seqNames(t *testing.T, names ...string) func() string {
	t.Helper()
	i := 0
	return func() string {
		if i >= len(names) {
			t.Fatalf("name generator exhausted after %d names", len(names))
		}
		i++
		return names[i-1]
	}
}

var testLayout = Layout{StoreDir: "store", TempDir: "temp"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// putFile writes a file below the OSBackend root, creating directories.
func putFile(t *testing.T, b *OSBackend, key, content string) {
	t.Helper()
	p := b.Abs(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", key, err)
	}
}

func readFile(t *testing.T, b *OSBackend, key string) string {
	t.Helper()
	data, err := os.ReadFile(b.Abs(key))
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return string(data)
}

func assertExists(t *testing.T, b Backend, key string, want bool) {
	t.Helper()
	ok, err := b.Exists(context.Background(), key)
	if err != nil {
		t.Fatalf("exists %s: %v", key, err)
	}
	if ok != want {
		if want {
			t.Errorf("expected %s to exist", key)
		} else {
			t.Errorf("expected %s to be gone", key)
		}
	}
}

func hasMessage(r *fakeRecord, attribute, message string) bool {
	for _, m := range r.errors[attribute] {
		if strings.EqualFold(m, message) {
			return true
		}
	}
	return false
}
