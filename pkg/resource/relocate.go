package resource

import (
	"context"
	"fmt"
	"log/slog"
	"path"
)

// relocate moves a stored file, and the derivative variants next to it, into
// the staging area. Staged, empty or malformed references and missing files
// are skipped.
func (m *Manager) relocate(ctx context.Context, ref string) (Result, error) {
	if ref == "" || m.layout.IsStaged(ref) || !validName(ref) {
		return Skipped, nil
	}

	src := m.layout.StoreKey(ref)
	exists, err := m.backend.Exists(ctx, src)
	if err != nil {
		return m.fail(ErrRelocate, msgRelocate, err)
	}
	if !exists {
		m.log.Debug("nothing to move", slog.String("key", src))
		return Skipped, nil
	}

	if err := m.backend.MkdirAll(ctx, cleanDir(m.layout.TempDir)); err != nil {
		return m.fail(ErrRelocate, msgRelocate, err)
	}
	if err := m.moveReplacing(ctx, src, m.layout.StagingKey(ref)); err != nil {
		return m.fail(ErrRelocate, msgRelocate, err)
	}
	m.log.Debug("moved to staging", slog.String("key", src))

	if err := m.relocateDerivatives(ctx, ref); err != nil {
		m.log.Warn("derivatives left in store", "err", err)
	}
	return Succeeded, nil
}

// relocateDerivatives moves every "stem.<tag>.ext" sibling of name into the
// staging area. Failures are collected into a *DerivativeError.
func (m *Manager) relocateDerivatives(ctx context.Context, name string) error {
	stem, ext := splitName(name)
	pattern := m.layout.StoreDirKey(name) + "/" + escapeGlob(stem) + ".*"
	if ext != "" {
		pattern += "." + escapeGlob(ext)
	}

	keys, err := m.backend.Glob(ctx, pattern)
	if err != nil {
		return fmt.Errorf("resource: list derivatives of %s: %w", name, err)
	}

	derr := &DerivativeError{Name: name, Failed: map[string]error{}}
	for _, key := range keys {
		if err := m.moveReplacing(ctx, key, m.layout.StagingKey(path.Base(key))); err != nil {
			derr.Failed[key] = err
			continue
		}
		m.log.Debug("moved derivative to staging", slog.String("key", key))
	}
	if len(derr.Failed) > 0 {
		return derr
	}
	return nil
}

// moveReplacing renames src to dst, removing whatever was at dst before.
func (m *Manager) moveReplacing(ctx context.Context, src, dst string) error {
	if err := m.backend.Remove(ctx, dst); err != nil {
		return fmt.Errorf("clear %s: %w", dst, err)
	}
	if err := m.backend.Rename(ctx, src, dst); err != nil {
		return fmt.Errorf("rename %s: %w", src, err)
	}
	return nil
}
