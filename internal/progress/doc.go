// Package progress provides progress reporting for walks over the store.
//
// This package outputs human-readable progress information to stderr,
// including the number of files checked, their total size and how many
// failed the check. It also parses and formats byte sizes for the config
// package.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{
//	    Label:  "uploads/store",
//	    Output: os.Stderr,
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	// Update as files are checked
//	reporter.FileChecked(size)
//
// # Output Format
//
//	[stash] Checking: uploads/store
//	[stash] Files: 10240 | 2.5 GiB | 812 files/s | Flagged: 0
package progress
