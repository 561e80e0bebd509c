package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"

	stashhttp "github.com/ligustah/stash/internal/http"
)

// ErrConsumed is returned when a Remote upload is opened a second time.
var ErrConsumed = errors.New("upload: remote body already read")

// Remote is an upload fetched over HTTP. Its body can be read once.
type Remote struct {
	URL string

	ext  string
	mu   sync.Mutex
	body io.ReadCloser
}

// Fetch starts downloading rawURL. When maxSize is set and the server
// announces a larger file, Fetch fails before the body is transferred; the
// body is also cut off once it grows past maxSize.
func Fetch(ctx context.Context, client *stashhttp.Client, rawURL string, maxSize int64) (*Remote, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("upload: parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("upload: unsupported scheme %q", u.Scheme)
	}

	if maxSize > 0 {
		// Servers without HEAD support get checked while reading.
		if info, err := client.Head(ctx, rawURL); err == nil && info.Size > maxSize {
			return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, info.Size, maxSize)
		}
	}

	resp, err := client.Get(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("upload: fetch %s: %w", rawURL, err)
	}
	if maxSize > 0 && resp.Size > maxSize {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, resp.Size, maxSize)
	}

	ext := strings.TrimPrefix(path.Ext(u.Path), ".")
	if ext == "" {
		ext = extensionFor(resp.ContentType)
	}

	return &Remote{
		URL:  rawURL,
		ext:  ext,
		body: newLimitReader(resp.Body, maxSize),
	}, nil
}

// Extension implements resource.Upload.
func (r *Remote) Extension() string {
	return r.ext
}

// Open implements resource.Upload. It hands out the response body once.
func (r *Remote) Open() (io.ReadCloser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.body == nil {
		return nil, ErrConsumed
	}
	body := r.body
	r.body = nil
	return body, nil
}

// Close releases the response body if it was never opened.
func (r *Remote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.body == nil {
		return nil
	}
	err := r.body.Close()
	r.body = nil
	return err
}

// preferredExt overrides the registry for types with several common
// extensions.
var preferredExt = map[string]string{
	"image/jpeg": "jpg",
	"text/plain": "txt",
}

// extensionFor returns the extension of a media type: a preferred one, or
// else the shortest registered.
func extensionFor(contentType string) string {
	if contentType == "" {
		return ""
	}
	if ext, ok := preferredExt[contentType]; ok {
		return ext
	}
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	sort.Slice(exts, func(i, j int) bool {
		if len(exts[i]) != len(exts[j]) {
			return len(exts[i]) < len(exts[j])
		}
		return exts[i] < exts[j]
	})
	return strings.TrimPrefix(exts[0], ".")
}
