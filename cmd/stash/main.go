package main

import (
	"fmt"
	"io"
	"os"
)

// Exit codes
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitInvalidArgs      = 2
	ExitSourceNotAccess  = 3
	ExitStorageError     = 5
	ExitValidationFailed = 7
)

// stdout receives command output; status lines go to stderr.
var stdout io.Writer = os.Stdout

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "stage":
		return runStage(cmdArgs)
	case "promote":
		return runPromote(cmdArgs)
	case "replace":
		return runReplace(cmdArgs)
	case "delete":
		return runDelete(cmdArgs)
	case "show":
		return runShow(cmdArgs)
	case "path":
		return runPath(cmdArgs)
	case "verify":
		return runVerify(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: stash <command> [options]

Commands:
  stage    Write a new upload into the staging area and point the record at it
  promote  Copy the record's staged file into the store and move the old file out
  replace  Stage and promote a new upload in one step
  delete   Move the record's file and its derivatives to staging, drop the record
  show     Print records with their state and location
  path     Print the location of a record's file
  verify   Check that every stored file sits in the shard derived from its name

Run 'stash <command> -h' for command-specific help.`)
}
