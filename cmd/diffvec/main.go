// Package main is the entry point for the diffvec CLI.
//
// Usage:
//
//	diffvec [flags] <command> [args]
//
// Commands:
//
//	reduce    - Reduce a vector grid to its unique vectors
//	clusters  - Cluster the seed position's vectors with DBSCAN
//	index     - Index vector magnitudes against a crystal lattice
//	runs      - List recorded analysis runs
package main

import (
	"fmt"
	"os"

	"github.com/stemtools/diffvec/cmd/diffvec/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
