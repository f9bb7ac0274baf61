// Package render assembles the grouped, cross-linked HTML publication
// list from sorted posts, citation fragments, and cache-resolved paths.
package render

import "github.com/bibsonomy/publist/internal/post"

// BibTeXMode selects how BibTeX is offered per post. The two boolean
// toggles on Options resolve to exactly one mode; the link form wins
// when both are set.
type BibTeXMode int

const (
	BibTeXNone BibTeXMode = iota
	BibTeXLink
	BibTeXEmbedded
)

// Defaults for optional fields.
const (
	DefaultCSSClass    = "publications"
	DefaultSeparator   = " | "
	DefaultPreviewSize = "small"
	DefaultStyle       = "plain"
)

// Options configures one render pass. The struct is passed by value and
// never mutated, so repeated renders cannot leak state into each other.
type Options struct {
	PDFDir           string // Document cache directory; empty disables document caching
	PreviewDir       string // Preview cache directory; empty disables previews
	PreviewSize      string // Subdirectory under PreviewDir; default "small"
	LinkPDFs         bool   // Offer cached documents for download
	Style            string // Citation style passed to the formatter; default "plain"
	YearHeadings     bool   // Start a new sublist with a heading per year
	ShowGroupMenu    bool   // Emit a year index above the list
	CSSClass         string // Class of the outer container; default "publications"
	DOILink          bool   // Action link to doi.org
	URLLink          bool   // Action link to the post's URL
	BibtexLink       bool   // Action link to the remote BibTeX endpoint
	BibtexEmbedded   bool   // Embedded BibTeX block with a toggle
	ShowAbstract     bool   // Abstract toggle when the abstract is non-empty
	BibsonomyLink    bool   // Action link to the canonical service page
	OptionSeparator  string // Separator between action links; default " | "
	PublicDocPostfix string // Open-access marker; default "_oa.pdf"
}

// Normalize returns a copy with defaults filled in.
func (o Options) Normalize() Options {
	if o.CSSClass == "" {
		o.CSSClass = DefaultCSSClass
	}
	if o.OptionSeparator == "" {
		o.OptionSeparator = DefaultSeparator
	}
	if o.PreviewSize == "" {
		o.PreviewSize = DefaultPreviewSize
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.PublicDocPostfix == "" {
		o.PublicDocPostfix = post.DefaultPublicPostfix
	}
	return o
}

// BibTeXMode resolves the two BibTeX toggles into a single mode.
func (o Options) BibTeXMode() BibTeXMode {
	switch {
	case o.BibtexLink:
		return BibTeXLink
	case o.BibtexEmbedded:
		return BibTeXEmbedded
	}
	return BibTeXNone
}
