package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bibsonomy/publist/internal/cacheindex"
	"github.com/bibsonomy/publist/internal/pdf"
)

var cacheDir string

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheDir, "dir", ".", "Output directory holding the cache manifest")
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheVerifyCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and verify the local download cache",
	Long: `Inspect the manifest of documents and previews downloaded by render.

The manifest is advisory metadata; the files themselves remain the
cache. Deleting a file makes the next render fetch it again.`,
}

func openManifest() *cacheindex.DB {
	path := filepath.Join(cacheDir, ManifestFile)
	if _, err := os.Stat(path); err != nil {
		exitWithError(ExitConfigError, "no cache manifest at %s (run render with an output directory first)", path)
	}
	db, err := cacheindex.Open(path)
	if err != nil {
		exitWithError(ExitError, "opening cache manifest: %v", err)
	}
	return db
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached downloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		db := openManifest()
		defer db.Close()

		entries, err := db.List()
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%-8s %10d  %s  (%s from %s/%s)\n",
				e.Kind, e.Size, e.Path, e.SourceFile, e.User, e.IntraHash[:8])
		}
		if len(entries) == 0 {
			fmt.Println("cache is empty")
		}
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the cache contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		db := openManifest()
		defer db.Close()

		s, err := db.GetStats()
		if err != nil {
			return err
		}
		fmt.Printf("documents: %d\npreviews:  %d\ntotal:     %d bytes\n",
			s.Documents, s.Previews, s.TotalSize)
		return nil
	},
}

var cacheVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that cached documents are readable PDFs",
	Long: `Verify every document in the manifest: the file must exist and parse
as a PDF with at least one page. Broken entries usually mean a download
saved an error page; delete the file and re-run render to refetch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db := openManifest()
		defer db.Close()

		entries, err := db.List()
		if err != nil {
			return err
		}

		broken := 0
		for _, e := range entries {
			if e.Kind != "document" {
				continue
			}
			if _, err := os.Stat(e.Path); err != nil {
				fmt.Printf("MISSING  %s\n", e.Path)
				broken++
				continue
			}
			if err := pdf.Verify(e.Path); err != nil {
				fmt.Printf("BROKEN   %s: %v\n", e.Path, err)
				broken++
				continue
			}
			doi, err := pdf.ExtractDOI(e.Path)
			switch {
			case err != nil:
				fmt.Printf("OK       %s\n", e.Path)
			case doi != "":
				fmt.Printf("OK       %s (doi %s)\n", e.Path, doi)
			default:
				fmt.Printf("OK       %s\n", e.Path)
			}
		}

		if broken > 0 {
			exitWithError(ExitDataError, "%d broken cache entries", broken)
		}
		fmt.Println("all cached documents verified")
		return nil
	},
}
