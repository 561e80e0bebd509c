package main

import (
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/ligustah/stash/internal/progress"
	"github.com/ligustah/stash/pkg/resource"
)

// runVerify walks the store area and checks that every file lives in the
// shard directory derived from its name.
func runVerify(args []string) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	common := addCommonFlags(fs)

	showProgress := fs.Bool("progress", false, "Show progress output")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: stash verify [options]

Check that every file in the store area sits in the shard directory derived
from its name. Does not read file contents.

Options:`)
		fs.PrintDefaults()
	}

	if ok, code := parse(fs, args); !ok {
		return code
	}

	ctx, cancel := signalContext()
	defer cancel()

	s, code := openSession(ctx, common)
	if s == nil {
		return code
	}
	defer s.Close()

	layout := s.cfg.Layout()

	var reporter *progress.Reporter
	if *showProgress {
		reporter = progress.NewReporter(progress.Options{Label: layout.StoreDir})
		reporter.Start()
	}

	result, err := resource.Verify(ctx, s.backend, layout, func(key string, size int64) {
		if reporter == nil {
			return
		}
		reporter.FileChecked(size)
		if dir, name := path.Split(key); path.Clean(dir) != layout.StoreDirKey(name) {
			reporter.FileFlagged()
		}
	})
	if reporter != nil {
		reporter.Stop()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitStorageError
	}

	// Print results
	fmt.Fprintf(stdout, "Store: %s\n", layout.StoreDir)
	fmt.Fprintf(stdout, "Files: %d\n", result.Files)
	fmt.Fprintf(stdout, "Total size: %s\n", progress.FormatBytes(result.Bytes))

	if result.Valid {
		fmt.Fprintln(stdout, "Status: VALID")
		return ExitSuccess
	}

	fmt.Fprintln(stdout, "Status: INVALID")
	fmt.Fprintf(stdout, "Misplaced files: %d\n", len(result.Misplaced))
	for _, key := range result.Misplaced {
		fmt.Fprintf(stdout, "  - %s\n", key)
	}
	return ExitValidationFailed
}
