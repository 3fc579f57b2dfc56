// Package main is the entry point for the scour CLI.
package main

import (
	"os"

	"github.com/jmylchreest/scour/cmd/scour/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
