package resource

import (
	"context"
	"fmt"
	"strconv"
)

// Finalize returns the name a new file should take inside dir. If candidate
// is free it is returned unchanged. Otherwise the existing "stem_N.ext"
// siblings are counted and the result is "stem_<count>.ext". The result is
// not checked again; promotion is rare enough that one pass suffices.
func Finalize(ctx context.Context, backend Backend, dir, candidate string) (string, error) {
	exists, err := backend.Exists(ctx, dir+"/"+candidate)
	if err != nil {
		return "", fmt.Errorf("resource: check %s: %w", candidate, err)
	}
	if !exists {
		return candidate, nil
	}

	stem, ext := splitName(candidate)
	pattern := dir + "/" + escapeGlob(stem) + "_*"
	if ext != "" {
		pattern += "." + escapeGlob(ext)
	}

	matches, err := backend.Glob(ctx, pattern)
	if err != nil {
		return "", fmt.Errorf("resource: list collisions for %s: %w", candidate, err)
	}
	return joinExt(stem+"_"+strconv.Itoa(len(matches)), ext), nil
}
