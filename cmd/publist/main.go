// Package main provides the publist CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "publist",
	Short: "Grouped HTML publication lists from BibSonomy",
	Long: `publist turns a user's bibliographic posts on BibSonomy into a
grouped, sorted, cross-linked HTML publication list.

Core features:
  - Year-grouped lists sorted most-recent-first
  - Local caching of attached PDFs and preview images
  - Per-entry action links (abstract, BibTeX, PDF, DOI, URL)
  - Cache inspection and verification of downloaded documents

The generated fragment is meant to be embedded into a static site.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
}
