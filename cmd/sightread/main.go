// Package main provides the sightread CLI.
//
// Usage:
//
//	sightread [flags] <command> [args]
//
// Commands:
//
//	generate   - generate a practice sheet
//	library    - list, show, apply, delete, export and import saved sheets
//	play       - play a saved sheet or the active one
//	metronome  - run a metronome
//
// Configuration:
//
//	Defaults live in <user config dir>/sightread/config.yaml. Saved sheets
//	are stored next to it in a BadgerDB directory.
package main

import (
	"fmt"
	"os"

	"github.com/Conceptual-Machines/sightread-api/cmd/sightread/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
