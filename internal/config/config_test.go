package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.StoreDir != "uploads/store" {
		t.Errorf("expected default store dir uploads/store, got %s", cfg.StoreDir)
	}
	if cfg.TempDir != "uploads/temp" {
		t.Errorf("expected default temp dir uploads/temp, got %s", cfg.TempDir)
	}
	if cfg.FileMode != 0o775 {
		t.Errorf("expected default file mode 0775, got %s", cfg.FileMode)
	}
	if cfg.MaxUploadSize != 32*1024*1024 {
		t.Errorf("expected default max upload size 32MiB, got %d", cfg.MaxUploadSize)
	}
	if cfg.HTTP.RetryAttempts != 3 {
		t.Errorf("expected default retry attempts 3, got %d", cfg.HTTP.RetryAttempts)
	}
	if cfg.HTTP.RetryBackoff != time.Second {
		t.Errorf("expected default retry backoff 1s, got %v", cfg.HTTP.RetryBackoff)
	}
	if cfg.Redis.Key != "stash:records" {
		t.Errorf("expected default redis key stash:records, got %s", cfg.Redis.Key)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
root: /srv/files
store_dir: media/store
temp_dir: media/temp
attribute: avatar
file_mode: "0640"
max_upload_size: 5MiB
log_level: debug
redis:
  addr: localhost:6379
  db: 2
http:
  timeout: 5s
  retry_attempts: 10
  retry_backoff: 2s
  retry_max_backoff: 60s
`
	// Create temp file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.Root != "/srv/files" {
		t.Errorf("expected root /srv/files, got %s", cfg.Root)
	}
	if l := cfg.Layout(); l.StoreDir != "media/store" || l.TempDir != "media/temp" {
		t.Errorf("unexpected layout %+v", l)
	}
	if cfg.Attribute != "avatar" {
		t.Errorf("expected attribute avatar, got %s", cfg.Attribute)
	}
	if cfg.FileMode != 0o640 {
		t.Errorf("expected file mode 0640, got %s", cfg.FileMode)
	}
	if cfg.MaxUploadSize != 5*1024*1024 {
		t.Errorf("expected max upload size 5MiB, got %d", cfg.MaxUploadSize)
	}
	if level, err := cfg.Level(); err != nil || level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v (%v)", level, err)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 2 {
		t.Errorf("unexpected redis config %+v", cfg.Redis)
	}
	// Keys missing from the file keep their defaults.
	if cfg.Redis.Key != "stash:records" {
		t.Errorf("expected default redis key, got %s", cfg.Redis.Key)
	}
	if cfg.Records != "records.json" {
		t.Errorf("expected default records, got %s", cfg.Records)
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.RetryAttempts != 10 {
		t.Errorf("expected retry attempts 10, got %d", cfg.HTTP.RetryAttempts)
	}
	if cfg.HTTP.RetryBackoff != 2*time.Second {
		t.Errorf("expected retry backoff 2s, got %v", cfg.HTTP.RetryBackoff)
	}
	if cfg.HTTP.RetryMaxBackoff != 60*time.Second {
		t.Errorf("expected retry max backoff 60s, got %v", cfg.HTTP.RetryMaxBackoff)
	}
}

func TestLoadFromYAMLBadValues(t *testing.T) {
	tests := map[string]string{
		"file mode": "file_mode: rw-r--r--\n",
		"size":      "max_upload_size: lots\n",
		"duration":  "http:\n  timeout: soon\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
				t.Fatalf("write config file: %v", err)
			}
			if _, err := LoadFromFile(configPath); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	// Set env vars
	t.Setenv("STASH_BUCKET", "mem://")
	t.Setenv("STASH_ATTRIBUTE", "image")
	t.Setenv("STASH_FILE_MODE", "0600")
	t.Setenv("STASH_MAX_UPLOAD_SIZE", "1GiB")
	t.Setenv("STASH_REDIS_ADDR", "redis:6379")
	t.Setenv("STASH_REDIS_DB", "4")
	t.Setenv("STASH_HTTP_RETRY_ATTEMPTS", "7")
	t.Setenv("STASH_HTTP_RETRY_BACKOFF", "500ms")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.Bucket != "mem://" {
		t.Errorf("expected bucket mem://, got %s", cfg.Bucket)
	}
	if cfg.Attribute != "image" {
		t.Errorf("expected attribute image, got %s", cfg.Attribute)
	}
	if cfg.FileMode != 0o600 {
		t.Errorf("expected file mode 0600, got %s", cfg.FileMode)
	}
	if cfg.MaxUploadSize != 1024*1024*1024 {
		t.Errorf("expected max upload size 1GiB, got %d", cfg.MaxUploadSize)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.Redis.DB != 4 {
		t.Errorf("unexpected redis config %+v", cfg.Redis)
	}
	if cfg.HTTP.RetryAttempts != 7 {
		t.Errorf("expected retry attempts 7, got %d", cfg.HTTP.RetryAttempts)
	}
	if cfg.HTTP.RetryBackoff != 500*time.Millisecond {
		t.Errorf("expected retry backoff 500ms, got %v", cfg.HTTP.RetryBackoff)
	}

	// Unset variables keep their values.
	if cfg.StoreDir != "uploads/store" {
		t.Errorf("expected store dir preserved, got %s", cfg.StoreDir)
	}
	if cfg.HTTP.RetryMaxBackoff != 10*time.Second {
		t.Errorf("expected retry max backoff preserved, got %v", cfg.HTTP.RetryMaxBackoff)
	}
}

func TestLoadFromEnvInvalid(t *testing.T) {
	t.Setenv("STASH_FILE_MODE", "999")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("expected error for invalid file mode")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(*Config) {}, false},
		{"bucket only", func(c *Config) { c.Root = ""; c.Bucket = "mem://" }, false},
		{"missing root and bucket", func(c *Config) { c.Root = "" }, true},
		{"missing store dir", func(c *Config) { c.StoreDir = "" }, true},
		{"same dirs", func(c *Config) { c.TempDir = c.StoreDir }, true},
		{"missing attribute", func(c *Config) { c.Attribute = "" }, true},
		{"missing records", func(c *Config) { c.Records = "" }, true},
		{"redis instead of records", func(c *Config) { c.Records = ""; c.Redis.Addr = "localhost:6379" }, false},
		{"redis without key", func(c *Config) { c.Redis.Addr = "localhost:6379"; c.Redis.Key = "" }, true},
		{"file mode too wide", func(c *Config) { c.FileMode = 0o4755 }, true},
		{"negative upload size", func(c *Config) { c.MaxUploadSize = -1 }, true},
		{"invalid retry attempts", func(c *Config) { c.HTTP.RetryAttempts = 0 }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "chatty" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	base.Root = "/srv/files"
	base.Attribute = "image"

	override := Config{
		Attribute: "avatar", // Override attribute
		HTTP:      HTTPConfig{Timeout: time.Minute},
		// Leave other fields at zero values
	}

	merged := base.Merge(override)

	// Should keep base values for non-overridden fields
	if merged.Root != "/srv/files" {
		t.Errorf("expected Root preserved, got %s", merged.Root)
	}
	if merged.StoreDir != "uploads/store" {
		t.Errorf("expected StoreDir preserved, got %s", merged.StoreDir)
	}
	if merged.HTTP.RetryAttempts != 3 {
		t.Errorf("expected RetryAttempts preserved, got %d", merged.HTTP.RetryAttempts)
	}

	// Should use override values
	if merged.Attribute != "avatar" {
		t.Errorf("expected Attribute overridden to avatar, got %s", merged.Attribute)
	}
	if merged.HTTP.Timeout != time.Minute {
		t.Errorf("expected Timeout overridden to 1m, got %v", merged.HTTP.Timeout)
	}
}

func TestFileModeString(t *testing.T) {
	if s := FileMode(0o644).String(); s != "0644" {
		t.Errorf("FileMode(0644).String() = %q", s)
	}
}

func TestLoadYAMLFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}
