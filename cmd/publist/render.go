package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bibsonomy/publist/internal/bibsonomy"
	"github.com/bibsonomy/publist/internal/cacheindex"
	"github.com/bibsonomy/publist/internal/citation"
	"github.com/bibsonomy/publist/internal/config"
	"github.com/bibsonomy/publist/internal/pipeline"
	"github.com/bibsonomy/publist/internal/render"
)

// ManifestFile is the download manifest name inside the output directory.
const ManifestFile = "publist-cache.db"

var (
	renderUser           string
	renderTags           []string
	renderStyle          string
	renderCount          int
	renderOutput         string
	renderLinkPDFs       bool
	renderPreviews       bool
	renderYearHeadings   bool
	renderGroupMenu      bool
	renderCSSClass       string
	renderDOILink        bool
	renderURLLink        bool
	renderBibtexLink     bool
	renderBibtexEmbedded bool
	renderAbstract       bool
	renderServiceLink    bool
	renderSeparator      string
	renderPostfix        string
)

func init() {
	renderCmd.Flags().StringVar(&renderUser, "user", "", "Display user whose posts are rendered (default: the owner)")
	renderCmd.Flags().StringSliceVar(&renderTags, "tags", nil, "Restrict to posts carrying all of these tags")
	renderCmd.Flags().StringVar(&renderStyle, "style", "", "Citation style (\"plain\" renders locally)")
	renderCmd.Flags().IntVar(&renderCount, "count", bibsonomy.DefaultCount, "Maximum number of posts")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output directory (\"-\" writes the fragment to stdout)")
	renderCmd.Flags().BoolVar(&renderLinkPDFs, "link-pdfs", false, "Cache attached PDFs locally and link them")
	renderCmd.Flags().BoolVar(&renderPreviews, "previews", false, "Cache preview images and show them per entry")
	renderCmd.Flags().BoolVar(&renderYearHeadings, "year-headings", true, "Group entries under year headings")
	renderCmd.Flags().BoolVar(&renderGroupMenu, "group-menu", false, "Emit a year index above the list")
	renderCmd.Flags().StringVar(&renderCSSClass, "css-class", "", "CSS class of the list container")
	renderCmd.Flags().BoolVar(&renderDOILink, "doi-link", false, "Add a DOI action link per entry")
	renderCmd.Flags().BoolVar(&renderURLLink, "url-link", false, "Add a URL action link per entry")
	renderCmd.Flags().BoolVar(&renderBibtexLink, "bibtex-link", false, "Link the remote BibTeX endpoint (wins over --bibtex-embedded)")
	renderCmd.Flags().BoolVar(&renderBibtexEmbedded, "bibtex-embedded", false, "Embed a toggleable BibTeX block per entry")
	renderCmd.Flags().BoolVar(&renderAbstract, "abstract", false, "Add a toggleable abstract per entry")
	renderCmd.Flags().BoolVar(&renderServiceLink, "bibsonomy-link", false, "Link the canonical BibSonomy page per entry")
	renderCmd.Flags().StringVar(&renderSeparator, "separator", "", "Separator between action links")
	renderCmd.Flags().StringVar(&renderPostfix, "public-postfix", "", "File name postfix marking the public document copy")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render OWNER API-KEY",
	Short: "Render a publication list to HTML",
	Long: `Render the publication list of a BibSonomy user to an HTML fragment.

OWNER is the account that owns the API key; API-KEY authenticates the
requests. The rendered list defaults to the owner's posts; --user
renders another user's public posts instead.

Examples:
  publist render jaeschke 1234abcd --tags myown --output site/
  publist render jaeschke 1234abcd --link-pdfs --previews --doi-link -o site/
  publist render jaeschke 1234abcd -o - > fragment.html`,
	Args: requireCredentials,
	RunE: runRender,
}

// requireCredentials enforces the positional OWNER and API-KEY pair.
// Missing credentials are a usage error.
func requireCredentials(cmd *cobra.Command, args []string) error {
	if len(args) != 2 || args[0] == "" || args[1] == "" {
		_ = cmd.Usage()
		return fmt.Errorf("OWNER and API-KEY arguments are required")
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	owner, apiKey := args[0], args[1]

	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	opts := buildOptions(cfg)

	outDir := firstNonEmpty(renderOutput, cfg.OutputDir, ".")
	toStdout := outDir == "-"
	if !toStdout {
		opts.PDFDir = filepath.Join(outDir, "pdf")
		opts.PreviewDir = ""
		if renderPreviews {
			opts.PreviewDir = filepath.Join(outDir, "previews")
		}
	}

	clientOpts := []bibsonomy.ClientOption{bibsonomy.WithAuth(owner, apiKey)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, bibsonomy.WithBaseURL(cfg.BaseURL))
	}
	client := bibsonomy.NewClient(clientOpts...)

	var formatter citation.Formatter = citation.NewPlain()
	if opts.Style != "" && opts.Style != render.DefaultStyle {
		formatter = citation.NewRemote(client)
	}

	pipeOpts := []pipeline.Option{}
	if !toStdout {
		if index, err := cacheindex.Open(filepath.Join(outDir, ManifestFile)); err == nil {
			defer index.Close()
			pipeOpts = append(pipeOpts, pipeline.WithIndex(index))
		} else {
			fmt.Fprintf(os.Stderr, "Warning: cache manifest unavailable: %v\n", err)
		}
	}

	user := firstNonEmpty(renderUser, cfg.User, owner)
	tags := renderTags
	if len(tags) == 0 {
		tags = cfg.Tags
	}

	r := pipeline.New(client, formatter, opts, pipeOpts...)
	html, err := r.Render(cmd.Context(), user, tags, renderCount)
	if err != nil {
		return err
	}

	if toStdout {
		fmt.Print(html)
		return nil
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	target := filepath.Join(outDir, "publications.html")
	if err := os.WriteFile(target, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}

	fmt.Printf("Wrote %s\n", target)
	return nil
}

// buildOptions merges global config defaults with command flags.
func buildOptions(cfg *config.GlobalConfig) render.Options {
	return render.Options{
		LinkPDFs:         renderLinkPDFs,
		Style:            firstNonEmpty(renderStyle, cfg.Style),
		YearHeadings:     renderYearHeadings,
		ShowGroupMenu:    renderGroupMenu,
		CSSClass:         firstNonEmpty(renderCSSClass, cfg.CSSClass),
		DOILink:          renderDOILink,
		URLLink:          renderURLLink,
		BibtexLink:       renderBibtexLink,
		BibtexEmbedded:   renderBibtexEmbedded,
		ShowAbstract:     renderAbstract,
		BibsonomyLink:    renderServiceLink,
		OptionSeparator:  firstNonEmpty(renderSeparator, cfg.OptionSeparator),
		PreviewSize:      cfg.PreviewSize,
		PublicDocPostfix: firstNonEmpty(renderPostfix, cfg.PublicDocPostfix),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
