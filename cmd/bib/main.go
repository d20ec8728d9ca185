// Package main is the entry point for the bib CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/bib/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
