package resource

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// BucketBackend stores files in a gocloud.dev/blob bucket. Object stores
// have no rename, so Rename copies and then deletes the source; a crash in
// between leaves both copies, never neither.
type BucketBackend struct {
	bucket *blob.Bucket
}

// NewBucketBackend wraps an open bucket. The caller keeps ownership of the
// bucket and closes it.
func NewBucketBackend(bucket *blob.Bucket) *BucketBackend {
	return &BucketBackend{bucket: bucket}
}

// Exists implements Backend.
func (b *BucketBackend) Exists(ctx context.Context, key string) (bool, error) {
	return b.bucket.Exists(ctx, key)
}

// MkdirAll implements Backend. Buckets have no directories.
func (b *BucketBackend) MkdirAll(ctx context.Context, key string) error {
	return nil
}

// Write implements Backend.
func (b *BucketBackend) Write(ctx context.Context, key string, r io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := b.bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return fmt.Errorf("create writer: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		// Cancelling before Close aborts the upload.
		cancel()
		w.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	return nil
}

// Copy implements Backend.
func (b *BucketBackend) Copy(ctx context.Context, src, dst string) error {
	return b.bucket.Copy(ctx, dst, src, nil)
}

// Rename implements Backend.
func (b *BucketBackend) Rename(ctx context.Context, src, dst string) error {
	if err := b.bucket.Copy(ctx, dst, src, nil); err != nil {
		return err
	}
	return b.Remove(ctx, src)
}

// Remove implements Backend.
func (b *BucketBackend) Remove(ctx context.Context, key string) error {
	if err := b.bucket.Delete(ctx, key); err != nil && !isNotExist(err) {
		return err
	}
	return nil
}

// Glob implements Backend.
func (b *BucketBackend) Glob(ctx context.Context, pattern string) ([]string, error) {
	dir, base := path.Split(pattern)

	var keys []string
	iter := b.bucket.List(&blob.ListOptions{Prefix: dir, Delimiter: "/"})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if obj.IsDir {
			continue
		}
		ok, err := path.Match(base, path.Base(obj.Key))
		if err != nil {
			return nil, err
		}
		if ok {
			keys = append(keys, obj.Key)
		}
	}
	return keys, nil
}

// Walk implements Backend.
func (b *BucketBackend) Walk(ctx context.Context, prefix string, fn func(key string, size int64) error) error {
	iter := b.bucket.List(&blob.ListOptions{Prefix: prefix + "/"})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if obj.IsDir {
			continue
		}
		if err := fn(obj.Key, obj.Size); err != nil {
			return err
		}
	}
}

// Chmod implements Backend. Buckets have no permission bits.
func (b *BucketBackend) Chmod(ctx context.Context, key string, mode os.FileMode) error {
	return nil
}

// isNotExist returns true if the error indicates the object doesn't exist.
func isNotExist(err error) bool {
	return gcerrors.Code(err) == gcerrors.NotFound
}
