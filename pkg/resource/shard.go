package resource

import "strings"

const (
	// ShardKeyLength is the number of name characters used for the shard path.
	ShardKeyLength = 6

	// ShardSegmentWidth is the width of each shard directory name.
	ShardSegmentWidth = 2
)

// ShardPath maps a name to its nested shard directory, e.g. "a1b2c3f0.jpg"
// becomes "a1/b2/c3". Separators are stripped and short names are padded
// with '0', so the result always has three two-character segments.
func ShardPath(name string) string {
	key := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return -1
		}
		return r
	}, name)

	if len(key) > ShardKeyLength {
		key = key[:ShardKeyLength]
	}
	key += strings.Repeat("0", ShardKeyLength-len(key))

	segments := make([]string, 0, ShardKeyLength/ShardSegmentWidth)
	for i := 0; i < ShardKeyLength; i += ShardSegmentWidth {
		seg := key[i : i+ShardSegmentWidth]
		if seg == ".." {
			seg = "__"
		}
		segments = append(segments, seg)
	}
	return strings.Join(segments, "/")
}
