package resource

import (
	"context"
	"sort"
	"testing"
)

func TestVerify(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			write(t, b, "store/a1/b2/c3/a1b2c3.jpg", "12345")
			write(t, b, "store/a1/b2/c3/a1b2c3.thumb.jpg", "123")
			write(t, b, "store/ff/ee/dd/ffeedd_0.png", "1")
			write(t, b, "store/a1/b2/c3/d4e5f6.jpg", "12")
			write(t, b, "store/loose.txt", "1234")
			write(t, b, "temp/whatever.bin", "ignored")

			var seen []string
			result, err := Verify(context.Background(), b, testLayout, func(key string, size int64) {
				seen = append(seen, key)
			})
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}

			if result.Valid {
				t.Error("expected invalid store")
			}
			if result.Files != 5 {
				t.Errorf("Files = %d, want 5", result.Files)
			}
			if result.Bytes != 15 {
				t.Errorf("Bytes = %d, want 15", result.Bytes)
			}
			sort.Strings(result.Misplaced)
			want := []string{"store/a1/b2/c3/d4e5f6.jpg", "store/loose.txt"}
			if len(result.Misplaced) != 2 || result.Misplaced[0] != want[0] || result.Misplaced[1] != want[1] {
				t.Errorf("Misplaced = %v, want %v", result.Misplaced, want)
			}
			if len(seen) != 5 {
				t.Errorf("callback saw %d files, want 5", len(seen))
			}
		})
	}
}

func TestVerifyEmpty(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			result, err := Verify(context.Background(), b, DefaultLayout(), nil)
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if !result.Valid || result.Files != 0 || result.Bytes != 0 {
				t.Errorf("Verify = %+v", result)
			}
		})
	}
}

func TestVerifySkipsDotFiles(t *testing.T) {
	b := NewOSBackend(t.TempDir(), 0)
	putFile(t, b, "store/zz/zz/zz/.stash-12345", "partial")

	result, err := Verify(context.Background(), b, testLayout, nil)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Files != 0 || !result.Valid {
		t.Errorf("Verify = %+v", result)
	}
}
