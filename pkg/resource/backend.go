package resource

import (
	"context"
	"io"
	"os"
	"strings"
)

// Backend is the storage medium both areas live on. Keys are slash-separated
// and relative to the backend root.
type Backend interface {
	// Exists reports whether a file exists at key.
	Exists(ctx context.Context, key string) (bool, error)

	// MkdirAll creates the directory key and its parents. An existing
	// directory is not an error. Object stores treat this as a no-op.
	MkdirAll(ctx context.Context, key string) error

	// Write stores r at key, replacing any existing file.
	Write(ctx context.Context, key string, r io.Reader) error

	// Copy duplicates src to dst, leaving src in place.
	Copy(ctx context.Context, src, dst string) error

	// Rename moves src to dst, atomically where the backend allows.
	Rename(ctx context.Context, src, dst string) error

	// Remove deletes key. A missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Glob returns the keys matching a path.Match pattern. Only the last
	// path element may contain wildcards.
	Glob(ctx context.Context, pattern string) ([]string, error)

	// Walk calls fn for every file below prefix.
	Walk(ctx context.Context, prefix string, fn func(key string, size int64) error) error

	// Chmod sets the permission bits of key. Backends without permissions
	// ignore it.
	Chmod(ctx context.Context, key string, mode os.FileMode) error
}

// escapeGlob quotes the path.Match metacharacters in s.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
