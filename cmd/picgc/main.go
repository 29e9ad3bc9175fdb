// Package main provides the entry point for the picgc CLI.
//
// picgc reconciles the file references stored in a database table with the
// files of a storage directory and removes the files nothing refers to.
//
// Usage:
//
//	picgc --simulate
//	picgc --autoconfirm --json -o report.json
//	picgc history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
