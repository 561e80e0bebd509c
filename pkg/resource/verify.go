package resource

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// VerifyResult contains the results of checking the store area layout.
type VerifyResult struct {
	Valid     bool     // true if every file sits in the shard derived from its name
	Files     int      // number of files checked
	Bytes     int64    // total size of checked files
	Misplaced []string // keys of files outside their derived shard
}

// Verify walks the store area and checks that every file lives in the shard
// directory derived from its name. Files whose name starts with a dot are
// in-flight writes and are ignored. fn, if not nil, is called for every
// checked file.
//
// Misplaced files are reported in the result, not as an error.
func Verify(ctx context.Context, backend Backend, layout Layout, fn func(key string, size int64)) (*VerifyResult, error) {
	result := &VerifyResult{Valid: true}

	err := backend.Walk(ctx, cleanDir(layout.StoreDir), func(key string, size int64) error {
		dir, name := path.Split(key)
		if strings.HasPrefix(name, ".") {
			return nil
		}

		result.Files++
		result.Bytes += size
		if strings.TrimSuffix(dir, "/") != layout.StoreDirKey(name) {
			result.Valid = false
			result.Misplaced = append(result.Misplaced, key)
		}
		if fn != nil {
			fn(key, size)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resource: walk store: %w", err)
	}
	return result, nil
}
