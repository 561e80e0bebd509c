package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ligustah/stash/pkg/resource"
)

// runShow prints one record, or all of them, with the state and location
// of their file.
func runShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	common := addCommonFlags(fs)

	id := fs.String("id", "", "Record id (default: all records)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: stash show [options]

Print records with their reference, its state (empty, staged, stored) and
the key of the file it points to.

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

	ids := []string{*id}
	if *id == "" {
		var err error
		if ids, err = s.store.List(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error listing records: %v\n", err)
			return ExitStorageError
		}
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVALUE\tSTATE\tKEY")
	for _, rid := range ids {
		e, m, code := s.load(ctx, rid)
		if e == nil {
			return code
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rid, e.Value(), s.describe(e.Value()), m.Path())
	}
	if err := tw.Flush(); err != nil {
		return ExitGeneralError
	}
	return ExitSuccess
}

// runPath prints the backend key of a record's file, or its absolute path
// with -abs when the root is a local directory.
func runPath(args []string) int {
	fs := flag.NewFlagSet("path", flag.ContinueOnError)
	common := addCommonFlags(fs)

	id := fs.String("id", "", "Record id (required)")
	abs := fs.Bool("abs", false, "Print the absolute filesystem path (local root only)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: stash path [options]

Print the location of the record's file. Empty records print nothing.

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

	key := m.Path()
	if key == "" {
		return ExitSuccess
	}
	if *abs {
		osb, ok := s.backend.(*resource.OSBackend)
		if !ok {
			fmt.Fprintln(os.Stderr, "Error: -abs needs a local root")
			return ExitInvalidArgs
		}
		key = osb.Abs(key)
	}
	fmt.Fprintln(stdout, key)
	return ExitSuccess
}
