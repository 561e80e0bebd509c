package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrTooLarge is returned when an upload exceeds its size limit.
var ErrTooLarge = errors.New("upload: file too large")

// File is an upload read from the local filesystem.
type File struct {
	Path    string
	MaxSize int64 // 0 means unlimited
}

// Extension implements resource.Upload.
func (f File) Extension() string {
	return strings.TrimPrefix(filepath.Ext(f.Path), ".")
}

// Open implements resource.Upload.
func (f File) Open() (io.ReadCloser, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("upload: %s is a directory", f.Path)
	}
	if f.MaxSize > 0 && info.Size() > f.MaxSize {
		file.Close()
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, info.Size(), f.MaxSize)
	}
	return file, nil
}

// Bytes is an upload held in memory.
type Bytes struct {
	Ext  string
	Data []byte
}

// Extension implements resource.Upload.
func (b Bytes) Extension() string {
	return b.Ext
}

// Open implements resource.Upload.
func (b Bytes) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}

// limitReader fails with ErrTooLarge once more than n bytes were read.
type limitReader struct {
	r     io.ReadCloser
	limit int64
	read  int64
}

func newLimitReader(r io.ReadCloser, limit int64) io.ReadCloser {
	if limit <= 0 {
		return r
	}
	return &limitReader{r: r, limit: limit}
}

func (l *limitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.limit {
		return n, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, l.limit)
	}
	return n, err
}

func (l *limitReader) Close() error {
	return l.r.Close()
}
