package resource

import (
	"errors"
	"path"
	"strings"
)

// Layout locates the staging and store areas inside a backend.
// Both directories are slash-separated keys relative to the backend root.
type Layout struct {
	StoreDir string
	TempDir  string
}

// DefaultLayout returns the layout used when none is configured.
func DefaultLayout() Layout {
	return Layout{
		StoreDir: "uploads/store",
		TempDir:  "uploads/temp",
	}
}

// Validate checks that both areas are set and distinct.
func (l Layout) Validate() error {
	store, temp := cleanDir(l.StoreDir), cleanDir(l.TempDir)
	if store == "" {
		return errors.New("resource: store dir is required")
	}
	if temp == "" {
		return errors.New("resource: temp dir is required")
	}
	if store == temp {
		return errors.New("resource: store and temp dirs must differ")
	}
	return nil
}

// StagingKey returns the key of name inside the staging area. The same value
// is stored on the record while the file is staged.
func (l Layout) StagingKey(name string) string {
	return cleanDir(l.TempDir) + "/" + name
}

// StoreDirKey returns the shard directory that holds name.
func (l Layout) StoreDirKey(name string) string {
	return cleanDir(l.StoreDir) + "/" + ShardPath(name)
}

// StoreKey returns the key of a stored file.
func (l Layout) StoreKey(name string) string {
	return l.StoreDirKey(name) + "/" + name
}

// IsStaged reports whether a reference points into the staging area.
func (l Layout) IsStaged(ref string) bool {
	return strings.HasPrefix(strings.TrimPrefix(ref, "/"), cleanDir(l.TempDir)+"/")
}

// StagedName returns the file name of a staged reference.
func (l Layout) StagedName(ref string) string {
	return path.Base(strings.TrimPrefix(ref, "/"))
}

// Key returns the backend key of the file a reference points to: the staging
// key for staged references and the store key for bare names.
func (l Layout) Key(ref string) string {
	switch {
	case ref == "":
		return ""
	case l.IsStaged(ref):
		return l.StagingKey(l.StagedName(ref))
	default:
		return l.StoreKey(ref)
	}
}

func cleanDir(dir string) string {
	dir = strings.Trim(strings.ReplaceAll(dir, `\`, "/"), "/")
	if dir == "" {
		return ""
	}
	return path.Clean(dir)
}
