package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/ligustah/stash/internal/config"
	stashhttp "github.com/ligustah/stash/internal/http"
	"github.com/ligustah/stash/internal/record"
	"github.com/ligustah/stash/internal/upload"
	"github.com/ligustah/stash/pkg/resource"
)

// commonFlags are accepted by every command that touches storage.
type commonFlags struct {
	configFile string
	envFile    string
	override   config.Config
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{}
	fs.StringVar(&c.configFile, "config", "", "YAML config file")
	fs.StringVar(&c.envFile, "env-file", "", "dotenv file loaded before reading STASH_* variables")
	fs.StringVar(&c.override.Root, "root", "", "Local directory holding both areas")
	fs.StringVar(&c.override.Bucket, "bucket", "", "Bucket URL used instead of -root (file://, mem://, s3://, gs://)")
	fs.StringVar(&c.override.Records, "records", "", "JSON file holding the records")
	fs.StringVar(&c.override.Attribute, "attribute", "", "Attribute name used in error messages")
	fs.StringVar(&c.override.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	return c
}

// load resolves the configuration: defaults, then the config file, then the
// environment, then flags.
func (c *commonFlags) load() (config.Config, error) {
	cfg := config.Default()
	if c.configFile != "" {
		var err error
		if cfg, err = config.LoadFromFile(c.configFile); err != nil {
			return config.Config{}, err
		}
	}

	if c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil {
			return config.Config{}, fmt.Errorf("load env file: %w", err)
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}

	cfg = cfg.Merge(c.override)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// session holds everything a command needs to run lifecycle operations.
type session struct {
	cfg     config.Config
	log     *slog.Logger
	backend resource.Backend
	store   record.Store
	http    *stashhttp.Client

	closers []func() error
}

// openSession loads the configuration and opens the backend and record
// store. A configured bucket takes precedence over the root directory.
// On failure it prints the error and returns the exit code.
func openSession(ctx context.Context, flags *commonFlags) (*session, int) {
	cfg, err := flags.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, ExitInvalidArgs
	}

	level, _ := cfg.Level()
	s := &session{
		cfg: cfg,
		log: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		http: stashhttp.NewClient(stashhttp.Options{
			Timeout:         cfg.HTTP.Timeout,
			RetryAttempts:   cfg.HTTP.RetryAttempts,
			RetryBackoff:    cfg.HTTP.RetryBackoff,
			RetryMaxBackoff: cfg.HTTP.RetryMaxBackoff,
		}),
	}

	if cfg.Bucket != "" {
		bkt, err := blob.OpenBucket(ctx, cfg.Bucket)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening bucket: %v\n", err)
			return nil, ExitStorageError
		}
		s.closers = append(s.closers, bkt.Close)
		s.backend = resource.NewBucketBackend(bkt)
	} else {
		s.backend = resource.NewOSBackend(cfg.Root, resource.DefaultFileMode)
	}

	if cfg.Redis.Addr != "" {
		store, err := record.NewRedisStore(ctx, record.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Redis.Key,
		})
		if err != nil {
			s.Close()
			fmt.Fprintf(os.Stderr, "Error opening record store: %v\n", err)
			return nil, ExitStorageError
		}
		s.store = store
	} else {
		s.store = record.NewFileStore(cfg.Records)
	}
	s.closers = append(s.closers, s.store.Close)

	return s, ExitSuccess
}

// Close releases the backend and the record store.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.log.Warn("close", "err", err)
		}
	}
}

// load returns the record and a manager for its attribute.
func (s *session) load(ctx context.Context, id string) (*record.Entry, *resource.Manager, int) {
	e, err := s.store.Load(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading record %s: %v\n", id, err)
		if errors.Is(err, record.ErrInvalidID) {
			return nil, nil, ExitInvalidArgs
		}
		return nil, nil, ExitStorageError
	}

	m := resource.New(e, s.cfg.Attribute, s.backend, s.cfg.Layout(),
		resource.WithLogger(s.log.With(slog.String("record", id))),
		resource.WithFileMode(os.FileMode(s.cfg.FileMode)),
	)
	return e, m, ExitSuccess
}

// openUpload builds the upload named by -file or -url.
func (s *session) openUpload(ctx context.Context, file, url string) (resource.Upload, func(), int) {
	switch {
	case file != "" && url != "":
		fmt.Fprintln(os.Stderr, "Error: -file and -url are mutually exclusive")
		return nil, nil, ExitInvalidArgs
	case file != "":
		return upload.File{Path: file, MaxSize: int64(s.cfg.MaxUploadSize)}, func() {}, ExitSuccess
	case url != "":
		r, err := upload.Fetch(ctx, s.http, url, int64(s.cfg.MaxUploadSize))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error accessing source URL: %v\n", err)
			return nil, nil, ExitSourceNotAccess
		}
		return r, func() { r.Close() }, ExitSuccess
	default:
		fmt.Fprintln(os.Stderr, "Error: -file or -url is required")
		return nil, nil, ExitInvalidArgs
	}
}

// commit promotes the record's staged file, saves the record and then moves
// superseded files out of the store.
func (s *session) commit(ctx context.Context, e *record.Entry, m *resource.Manager) int {
	res, err := m.Promote(ctx)
	if res == resource.Failed {
		return s.failed(e, err)
	}

	if e.Dirty() {
		if err := s.store.Save(ctx, e); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving record %s: %v\n", e.ID(), err)
			return ExitStorageError
		}
	}

	res, err = m.Reconcile(ctx)
	if res == resource.Failed {
		fmt.Fprintf(os.Stderr, "[stash] Saved %s, but superseded files stay in the store\n", e.ID())
		return s.failed(e, err)
	}
	return ExitSuccess
}

// failed prints the errors reported to the record and maps err to an exit
// code.
func (s *session) failed(e *record.Entry, err error) int {
	for _, line := range e.Errors() {
		fmt.Fprintf(os.Stderr, "Error: %s\n", line)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	switch {
	case errors.Is(err, upload.ErrTooLarge):
		return ExitInvalidArgs
	case errors.Is(err, resource.ErrUploadWrite) && errors.Is(err, os.ErrNotExist):
		return ExitSourceNotAccess
	case errors.Is(err, context.Canceled):
		return ExitGeneralError
	default:
		return ExitStorageError
	}
}

// describe returns the lifecycle state of a reference.
func (s *session) describe(ref string) string {
	layout := s.cfg.Layout()
	switch {
	case ref == "":
		return "empty"
	case layout.IsStaged(ref):
		return "staged"
	default:
		return "stored"
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\n[stash] Received interrupt, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// parse parses args and reports whether the command should continue. The
// returned code is meaningful only when it should not.
func parse(fs *flag.FlagSet, args []string) (bool, int) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return false, ExitSuccess
		}
		return false, ExitInvalidArgs
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return false, ExitInvalidArgs
	}
	return true, ExitSuccess
}
