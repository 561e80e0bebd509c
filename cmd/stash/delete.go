package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ligustah/stash/pkg/resource"
)

// runDelete moves a record's file and its derivatives into the staging area
// and removes the record. By default prompts for confirmation unless
// -force is specified.
func runDelete(args []string) int {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	common := addCommonFlags(fs)

	id := fs.String("id", "", "Record id (required)")
	force := fs.Bool("force", false, "Skip confirmation prompt")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: stash delete [options]

Move the record's file and its derivatives into the staging area, then remove
the record. Nothing is erased; the staging area is swept separately.

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

	// Confirm deletion unless -force
	if !*force {
		fmt.Fprintf(stdout, "Delete record %s? [y/N]: ", *id)
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(os.Stderr, "Cancelled")
			return ExitSuccess
		}
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

	res, err := m.Delete(ctx)
	if res == resource.Failed {
		return s.failed(e, err)
	}
	if err := s.store.Delete(ctx, *id); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting record %s: %v\n", *id, err)
		return ExitStorageError
	}

	if res == resource.Succeeded {
		fmt.Fprintf(os.Stderr, "[stash] Moved to staging: %s\n", s.cfg.Layout().StagingKey(e.Value()))
	}
	fmt.Fprintf(os.Stderr, "[stash] Deleted: %s\n", *id)
	return ExitSuccess
}
