// Package http provides the HTTP client used to fetch remote uploads.
//
// This package handles:
//   - HEAD requests to get file metadata
//   - GET requests returning the body with its content type
//   - Retry with exponential backoff on transport failures and 5xx
//
// # Usage
//
//	client := http.NewClient(http.Options{
//	    Timeout:       30 * time.Second,
//	    RetryAttempts: 3,
//	})
//
//	resp, err := client.Get(ctx, url)
//	defer resp.Body.Close()
//	// resp.Size, resp.ContentType
package http
