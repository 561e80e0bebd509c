package resource

import (
	"encoding/hex"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// tokenBytes is the digest width kept for generated names (32 hex characters).
const tokenBytes = 16

// NewName returns a random hex token suitable as a file name stem.
// Uniqueness is probabilistic; Finalize handles the rare collision.
func NewName() string {
	seed := strconv.FormatInt(time.Now().UnixNano(), 10) + uuid.NewString()
	sum := blake3.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:tokenBytes])
}

// joinExt appends ext to stem, or returns stem alone when ext is empty.
func joinExt(stem, ext string) string {
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

// splitName splits a file name into its stem and extension (without the dot).
func splitName(name string) (stem, ext string) {
	ext = path.Ext(name)
	stem = strings.TrimSuffix(name, ext)
	return stem, strings.TrimPrefix(ext, ".")
}

// cleanExt lowercases an extension and drops anything that could escape
// a directory.
func cleanExt(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.':
			return -1
		}
		return r
	}, ext)
}

// validName reports whether name can be used as a file name inside a shard
// directory.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
