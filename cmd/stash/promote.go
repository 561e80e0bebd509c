package main

import (
	"flag"
	"fmt"
	"os"
)

// runPromote copies a record's staged file into the store, saves the
// record and moves the file it replaced into the staging area.
func runPromote(args []string) int {
	fs := flag.NewFlagSet("promote", flag.ContinueOnError)
	common := addCommonFlags(fs)

	id := fs.String("id", "", "Record id (required)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: stash promote [options]

Copy the record's staged file into the store under a new name and save the
record. Records that are already stored are left alone.

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
	if e.Value() == "" {
		fmt.Fprintf(os.Stderr, "Error: record %s has no file\n", *id)
		return ExitInvalidArgs
	}

	if code := s.commit(ctx, e, m); code != ExitSuccess {
		return code
	}

	fmt.Fprintf(os.Stderr, "[stash] Stored: %s -> %s\n", *id, m.Path())
	return ExitSuccess
}

// runReplace stages and promotes a new upload in one step. The file the
// record held before is moved into the staging area.
func runReplace(args []string) int {
	fs := flag.NewFlagSet("replace", flag.ContinueOnError)
	common := addCommonFlags(fs)

	id := fs.String("id", "", "Record id (required)")
	file := fs.String("file", "", "Local file to upload")
	url := fs.String("url", "", "HTTP URL to fetch the upload from")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: stash replace [options]

Stage and promote a new upload for the record, creating it if needed. The
previous file is moved into the staging area once the record is saved.

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

	up, release, code := s.openUpload(ctx, *file, *url)
	if up == nil {
		return code
	}
	defer release()

	m.Attach(up)
	if code := s.commit(ctx, e, m); code != ExitSuccess {
		return code
	}

	fmt.Fprintf(os.Stderr, "[stash] Stored: %s -> %s\n", *id, m.Path())
	return ExitSuccess
}
