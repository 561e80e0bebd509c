package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"syscall"
)

// DefaultFileMode is the permission set on files written by OSBackend.
const DefaultFileMode os.FileMode = 0o644

// OSBackend stores files in a local directory. Renames within the root are
// atomic when source and destination share a volume.
type OSBackend struct {
	root string
	mode os.FileMode
}

// NewOSBackend returns a backend rooted at root. A zero mode selects
// DefaultFileMode.
func NewOSBackend(root string, mode os.FileMode) *OSBackend {
	if mode == 0 {
		mode = DefaultFileMode
	}
	return &OSBackend{root: root, mode: mode}
}

// Root returns the directory the backend is rooted at.
func (b *OSBackend) Root() string {
	return b.root
}

// Abs returns the absolute filesystem path of key.
func (b *OSBackend) Abs(key string) string {
	return filepath.Join(b.root, filepath.FromSlash(key))
}

// Exists implements Backend.
func (b *OSBackend) Exists(ctx context.Context, key string) (bool, error) {
	info, err := os.Stat(b.Abs(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// MkdirAll implements Backend.
func (b *OSBackend) MkdirAll(ctx context.Context, key string) error {
	if err := os.MkdirAll(b.Abs(key), 0o755); err != nil {
		// A concurrent creator may have won the race.
		if info, statErr := os.Stat(b.Abs(key)); statErr == nil && info.IsDir() {
			return nil
		}
		return err
	}
	return nil
}

// Write implements Backend. Data goes to a temporary file in the target
// directory first, so a failed write never leaves a partial file under key.
func (b *OSBackend) Write(ctx context.Context, key string, r io.Reader) error {
	dst := b.Abs(key)
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".stash-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Chmod(tmpName, b.mode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", key, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into %s: %w", key, err)
	}
	return nil
}

// Copy implements Backend.
func (b *OSBackend) Copy(ctx context.Context, src, dst string) error {
	f, err := os.Open(b.Abs(src))
	if err != nil {
		return err
	}
	defer f.Close()

	return b.Write(ctx, dst, f)
}

// Rename implements Backend. Across volumes it falls back to copy and remove.
func (b *OSBackend) Rename(ctx context.Context, src, dst string) error {
	err := os.Rename(b.Abs(src), b.Abs(dst))
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err := b.Copy(ctx, src, dst); err != nil {
		return err
	}
	return os.Remove(b.Abs(src))
}

// Remove implements Backend.
func (b *OSBackend) Remove(ctx context.Context, key string) error {
	if err := os.Remove(b.Abs(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Glob implements Backend.
func (b *OSBackend) Glob(ctx context.Context, pattern string) ([]string, error) {
	dir, base := path.Split(pattern)
	dir = path.Clean(dir)

	entries, err := os.ReadDir(b.Abs(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ok, err := path.Match(base, e.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			keys = append(keys, path.Join(dir, e.Name()))
		}
	}
	return keys, nil
}

// Walk implements Backend.
func (b *OSBackend) Walk(ctx context.Context, prefix string, fn func(key string, size int64) error) error {
	err := filepath.WalkDir(b.Abs(prefix), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(b.root, p)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel), info.Size())
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Chmod implements Backend.
func (b *OSBackend) Chmod(ctx context.Context, key string, mode os.FileMode) error {
	return os.Chmod(b.Abs(key), mode)
}
