package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ligustah/stash/internal/progress"
	"github.com/ligustah/stash/pkg/resource"
)

// EnvPrefix is the prefix of every environment variable read by LoadFromEnv.
const EnvPrefix = "STASH_"

// Config defines configuration for the stash CLI.
type Config struct {
	Root          string      `env:"ROOT"`
	Bucket        string      `env:"BUCKET"`
	StoreDir      string      `env:"STORE_DIR"`
	TempDir       string      `env:"TEMP_DIR"`
	Records       string      `env:"RECORDS"`
	Attribute     string      `env:"ATTRIBUTE"`
	FileMode      FileMode    `env:"FILE_MODE"`
	MaxUploadSize ByteSize    `env:"MAX_UPLOAD_SIZE"`
	LogLevel      string      `env:"LOG_LEVEL"`
	Redis         RedisConfig `envPrefix:"REDIS_"`
	HTTP          HTTPConfig  `envPrefix:"HTTP_"`
}

// RedisConfig selects the Redis record store. An empty Addr keeps records
// in the JSON file named by Config.Records.
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"`
	Key      string `env:"KEY"`
}

// HTTPConfig defines how remote uploads are fetched.
type HTTPConfig struct {
	Timeout         time.Duration `env:"TIMEOUT"`
	RetryAttempts   int           `env:"RETRY_ATTEMPTS"`
	RetryBackoff    time.Duration `env:"RETRY_BACKOFF"`
	RetryMaxBackoff time.Duration `env:"RETRY_MAX_BACKOFF"`
}

// FileMode is a permission set written in octal, e.g. "0644".
type FileMode os.FileMode

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FileMode) UnmarshalText(text []byte) error {
	v, err := parseFileMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m FileMode) String() string {
	return fmt.Sprintf("%#o", uint32(m))
}

// ByteSize is a size written in human-readable form, e.g. "10MiB".
type ByteSize int64

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ByteSize) UnmarshalText(text []byte) error {
	n, err := progress.ParseBytes(string(text))
	if err != nil {
		return err
	}
	*s = ByteSize(n)
	return nil
}

func (s ByteSize) String() string {
	return progress.FormatBytes(int64(s))
}

// Default returns a Config with sensible defaults.
func Default() Config {
	layout := resource.DefaultLayout()
	return Config{
		Root:          ".",
		StoreDir:      layout.StoreDir,
		TempDir:       layout.TempDir,
		Records:       "records.json",
		Attribute:     "file",
		FileMode:      0o775,
		MaxUploadSize: 32 << 20, // 32MiB
		LogLevel:      "info",
		Redis: RedisConfig{
			Key: "stash:records",
		},
		HTTP: HTTPConfig{
			Timeout:         30 * time.Second,
			RetryAttempts:   3,
			RetryBackoff:    time.Second,
			RetryMaxBackoff: 10 * time.Second,
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string sizes, modes and
// durations.
type yamlConfig struct {
	Root          string          `yaml:"root"`
	Bucket        string          `yaml:"bucket"`
	StoreDir      string          `yaml:"store_dir"`
	TempDir       string          `yaml:"temp_dir"`
	Records       string          `yaml:"records"`
	Attribute     string          `yaml:"attribute"`
	FileMode      string          `yaml:"file_mode"`
	MaxUploadSize string          `yaml:"max_upload_size"`
	LogLevel      string          `yaml:"log_level"`
	Redis         yamlRedisConfig `yaml:"redis"`
	HTTP          yamlHTTPConfig  `yaml:"http"`
}

type yamlRedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

type yamlHTTPConfig struct {
	Timeout         string `yaml:"timeout"`
	RetryAttempts   int    `yaml:"retry_attempts"`
	RetryBackoff    string `yaml:"retry_backoff"`
	RetryMaxBackoff string `yaml:"retry_max_backoff"`
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	override := Config{
		Root:      yc.Root,
		Bucket:    yc.Bucket,
		StoreDir:  yc.StoreDir,
		TempDir:   yc.TempDir,
		Records:   yc.Records,
		Attribute: yc.Attribute,
		LogLevel:  yc.LogLevel,
		Redis: RedisConfig{
			Addr:     yc.Redis.Addr,
			Password: yc.Redis.Password,
			DB:       yc.Redis.DB,
			Key:      yc.Redis.Key,
		},
		HTTP: HTTPConfig{
			RetryAttempts: yc.HTTP.RetryAttempts,
		},
	}

	if yc.FileMode != "" {
		mode, err := parseFileMode(yc.FileMode)
		if err != nil {
			return Config{}, fmt.Errorf("parse file_mode: %w", err)
		}
		override.FileMode = mode
	}
	if yc.MaxUploadSize != "" {
		size, err := progress.ParseBytes(yc.MaxUploadSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse max_upload_size: %w", err)
		}
		override.MaxUploadSize = ByteSize(size)
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"http.timeout", yc.HTTP.Timeout, &override.HTTP.Timeout},
		{"http.retry_backoff", yc.HTTP.RetryBackoff, &override.HTTP.RetryBackoff},
		{"http.retry_max_backoff", yc.HTTP.RetryMaxBackoff, &override.HTTP.RetryMaxBackoff},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.dst = v
	}

	return Default().Merge(override), nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the STASH_ prefix, e.g. STASH_ROOT or
// STASH_REDIS_ADDR. Unset variables leave the current value alone.
func (c *Config) LoadFromEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Layout returns the storage layout described by the configuration.
func (c *Config) Layout() resource.Layout {
	return resource.Layout{
		StoreDir: c.StoreDir,
		TempDir:  c.TempDir,
	}
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return level, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Root == "" && c.Bucket == "" {
		return errors.New("config: root or bucket is required")
	}
	if err := c.Layout().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Attribute == "" {
		return errors.New("config: attribute is required")
	}
	if c.Records == "" && c.Redis.Addr == "" {
		return errors.New("config: records or redis.addr is required")
	}
	if c.Redis.Addr != "" && c.Redis.Key == "" {
		return errors.New("config: redis.key is required")
	}
	if c.FileMode&^FileMode(os.ModePerm) != 0 {
		return fmt.Errorf("config: file_mode %s has bits outside 0777", c.FileMode)
	}
	if c.MaxUploadSize < 0 {
		return errors.New("config: max_upload_size must not be negative")
	}
	if c.HTTP.RetryAttempts <= 0 {
		return errors.New("config: http.retry_attempts must be positive")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.Root != "" {
		c.Root = override.Root
	}
	if override.Bucket != "" {
		c.Bucket = override.Bucket
	}
	if override.StoreDir != "" {
		c.StoreDir = override.StoreDir
	}
	if override.TempDir != "" {
		c.TempDir = override.TempDir
	}
	if override.Records != "" {
		c.Records = override.Records
	}
	if override.Attribute != "" {
		c.Attribute = override.Attribute
	}
	if override.FileMode != 0 {
		c.FileMode = override.FileMode
	}
	if override.MaxUploadSize != 0 {
		c.MaxUploadSize = override.MaxUploadSize
	}
	if override.LogLevel != "" {
		c.LogLevel = override.LogLevel
	}
	if override.Redis.Addr != "" {
		c.Redis.Addr = override.Redis.Addr
	}
	if override.Redis.Password != "" {
		c.Redis.Password = override.Redis.Password
	}
	if override.Redis.DB != 0 {
		c.Redis.DB = override.Redis.DB
	}
	if override.Redis.Key != "" {
		c.Redis.Key = override.Redis.Key
	}
	if override.HTTP.Timeout != 0 {
		c.HTTP.Timeout = override.HTTP.Timeout
	}
	if override.HTTP.RetryAttempts != 0 {
		c.HTTP.RetryAttempts = override.HTTP.RetryAttempts
	}
	if override.HTTP.RetryBackoff != 0 {
		c.HTTP.RetryBackoff = override.HTTP.RetryBackoff
	}
	if override.HTTP.RetryMaxBackoff != 0 {
		c.HTTP.RetryMaxBackoff = override.HTTP.RetryMaxBackoff
	}
	return c
}

func parseFileMode(s string) (FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid file mode %q: %w", s, err)
	}
	return FileMode(v), nil
}
