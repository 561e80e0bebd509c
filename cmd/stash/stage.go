package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ligustah/stash/pkg/resource"
)

// runStage writes an upload into the staging area and saves the record
// pointing at it. The file reaches the store on a later promote.
func runStage(args []string) int {
	fs := flag.NewFlagSet("stage", flag.ContinueOnError)
	common := addCommonFlags(fs)

	id := fs.String("id", "", "Record id (required)")
	file := fs.String("file", "", "Local file to upload")
	url := fs.String("url", "", "HTTP URL to fetch the upload from")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: stash stage [options]

Write a new upload into the staging area and point the record at it.
Records that already hold a stored file are changed with 'stash replace'.

Options:`)
		fs.PrintDefaults()
	}

	if ok, code := parse(fs, args); !ok {
		return code
	}
	if *id == "" {
		fmt.Fprintln(os.Stderr, "Error: -id is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	ctx, cancel := signalContext()
	defer cancel()

	s, code := openSession(ctx, common)
	if s == nil {
		return code
	}
	defer s.Close()

	e, m, code := s.load(ctx, *id)
	if e == nil {
		return code
	}
	if s.describe(e.Value()) == "stored" {
		fmt.Fprintf(os.Stderr, "Error: record %s holds stored file %s, use replace\n", *id, e.Value())
		return ExitInvalidArgs
	}

	up, release, code := s.openUpload(ctx, *file, *url)
	if up == nil {
		return code
	}
	defer release()

	if res, err := m.Stage(ctx, up); res == resource.Failed {
		return s.failed(e, err)
	}
	if err := s.store.Save(ctx, e); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving record %s: %v\n", *id, err)
		return ExitStorageError
	}

	fmt.Fprintf(os.Stderr, "[stash] Staged: %s -> %s\n", *id, e.Value())
	return ExitSuccess
}
