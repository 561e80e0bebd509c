package resource

import (
	"encoding/hex"
	"testing"
)

func TestNewName(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		name := NewName()
		if len(name) != 2*tokenBytes {
			t.Fatalf("NewName() = %q, want %d characters", name, 2*tokenBytes)
		}
		if _, err := hex.DecodeString(name); err != nil {
			t.Fatalf("NewName() = %q is not hex: %v", name, err)
		}
		if seen[name] {
			t.Fatalf("NewName() repeated %q", name)
		}
		seen[name] = true
	}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name, stem, ext string
	}{
		{"a1b2c3.jpg", "a1b2c3", "jpg"},
		{"a1b2c3.thumb.jpg", "a1b2c3.thumb", "jpg"},
		{"a1b2c3", "a1b2c3", ""},
		{"a1b2c3_1.png", "a1b2c3_1", "png"},
	}

	for _, tt := range tests {
		stem, ext := splitName(tt.name)
		if stem != tt.stem || ext != tt.ext {
			t.Errorf("splitName(%q) = (%q, %q), want (%q, %q)", tt.name, stem, ext, tt.stem, tt.ext)
		}
		if got := joinExt(stem, ext); got != tt.name {
			t.Errorf("joinExt(%q, %q) = %q, want %q", stem, ext, got, tt.name)
		}
	}
}

func TestCleanExt(t *testing.T) {
	tests := map[string]string{
		"png":    "png",
		".JPG":   "jpg",
		"../x":   "x",
		"tar.gz": "targz",
		"":       "",
		`a\b/c`:  "abc",
	}

	for in, want := range tests {
		if got := cleanExt(in); got != want {
			t.Errorf("cleanExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidName(t *testing.T) {
	valid := []string{"a1b2c3.jpg", "x", "a.b.c"}
	invalid := []string{"", ".", "..", "a/b.jpg", `a\b.jpg`, "uploads/temp/x.png"}

	for _, n := range valid {
		if !validName(n) {
			t.Errorf("validName(%q) = false, want true", n)
		}
	}
	for _, n := range invalid {
		if validName(n) {
			t.Errorf("validName(%q) = true, want false", n)
		}
	}
}
