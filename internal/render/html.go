package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/bibsonomy/publist/internal/post"
)

// toggleScript is emitted once at the top of every fragment. It drives
// the abstract and embedded-BibTeX show/hide controls.
const toggleScript = `<script type="text/javascript">
function togglePubItem(id) {
	var elem = document.getElementById(id);
	if (elem.style.display == 'none') {
		elem.style.display = '';
	} else {
		elem.style.display = 'none';
	}
}
</script>
`

// DocumentLink carries the cache-resolved paths for one qualifying
// document of a post.
type DocumentLink struct {
	FileName    string // Source document name
	Path        string // Document cache path; empty when not cached
	PreviewPath string // Preview cache path; empty when previews are off
}

// Entry is the fully resolved input for rendering one post: the post
// itself, its citation fragment, and everything the pipeline fetched.
// Citation and BibTeX URLs are trusted markup and pass through raw;
// every post field is escaped at this boundary.
type Entry struct {
	Post      post.Post
	Citation  string // Trusted HTML fragment from the citation formatter
	Documents []DocumentLink
	BibTeX    string // BibTeX source for the embedded mode
	BibTeXURL string // Remote BibTeX endpoint for the link mode
	PageURL   string // Canonical service page for the post
}

// Assembler composes the final HTML fragment.
type Assembler struct {
	opts Options
}

// NewAssembler creates an Assembler with normalized options.
func NewAssembler(opts Options) *Assembler {
	return &Assembler{opts: opts.Normalize()}
}

// Assemble renders the fragment for the given display order. Output is
// deterministic for identical inputs.
func (a *Assembler) Assemble(ids []post.ID, entries map[post.ID]Entry) string {
	var b strings.Builder

	b.WriteString(toggleScript)

	if a.opts.ShowGroupMenu {
		a.writeGroupMenu(&b, ids, entries)
	}

	fmt.Fprintf(&b, "<div class=\"%s\">\n", attr(a.opts.CSSClass))

	prevYear := ""
	inList := false
	for _, id := range ids {
		e, ok := entries[id]
		if !ok {
			continue
		}
		year := e.Post.DisplayYear()

		if !inList {
			a.openYearBlock(&b, year)
			inList = true
			prevYear = year
		} else if a.opts.YearHeadings && year != prevYear {
			b.WriteString("</ul>\n")
			a.openYearBlock(&b, year)
			prevYear = year
		}

		a.writeItem(&b, e)
	}
	if inList {
		b.WriteString("</ul>\n")
	}

	b.WriteString("</div>\n")
	return b.String()
}

// writeGroupMenu emits the year index, one link per heading, collected
// at each year change in the sorted sequence.
func (a *Assembler) writeGroupMenu(b *strings.Builder, ids []post.ID, entries map[post.ID]Entry) {
	b.WriteString("<ul class=\"year-menu\">\n")
	prev := ""
	first := true
	for _, id := range ids {
		e, ok := entries[id]
		if !ok {
			continue
		}
		year := e.Post.DisplayYear()
		if first || year != prev {
			fmt.Fprintf(b, "<li><a href=\"#%s\">%s</a></li>\n", yearAnchor(year), esc(year))
			prev = year
			first = false
		}
	}
	b.WriteString("</ul>\n")
}

func (a *Assembler) openYearBlock(b *strings.Builder, year string) {
	if a.opts.YearHeadings {
		fmt.Fprintf(b, "<h3 id=\"%s\">%s</h3>\n", yearAnchor(year), esc(year))
	}
	b.WriteString("<ul>\n")
}

// writeItem renders one list item: previews, citation, action links,
// then any hidden extra blocks (abstract, embedded BibTeX).
func (a *Assembler) writeItem(b *strings.Builder, e Entry) {
	fmt.Fprintf(b, "<li class=\"%s\">\n", attr(e.Post.Type))

	for _, d := range e.Documents {
		if d.PreviewPath == "" {
			continue
		}
		img := fmt.Sprintf("<img src=\"%s\" alt=\"%s\"/>", attr(d.PreviewPath), attr(d.FileName))
		if a.opts.LinkPDFs && d.Path != "" {
			fmt.Fprintf(b, "<a href=\"%s\">%s</a>\n", attr(d.Path), img)
		} else {
			b.WriteString(img)
			b.WriteString("\n")
		}
	}

	// The citation fragment is already markup and passes through raw.
	fmt.Fprintf(b, "<div class=\"citation\">%s</div>\n", e.Citation)

	actions, extras := a.buildActions(e)
	if len(actions) > 0 {
		fmt.Fprintf(b, "<div class=\"actions\">%s</div>\n", strings.Join(actions, a.opts.OptionSeparator))
	}
	for _, extra := range extras {
		b.WriteString(extra)
		b.WriteString("\n")
	}

	b.WriteString("</li>\n")
}

// buildActions assembles the per-post action links in their fixed order
// and the hidden blocks they toggle. An empty abstract, DOI, or URL
// simply produces no corresponding action.
func (a *Assembler) buildActions(e Entry) (actions, extras []string) {
	hash := e.Post.ID.IntraHash()

	if a.opts.ShowAbstract && e.Post.Abstract != "" {
		absID := "abstract-" + hash
		actions = append(actions, toggleLink(absID, "show abstract"))
		extras = append(extras, fmt.Sprintf(
			"<div id=\"%s\" class=\"abstract\" style=\"display:none\">%s %s</div>",
			attr(absID), esc(e.Post.Abstract), toggleLink(absID, "hide")))
	}

	switch a.opts.BibTeXMode() {
	case BibTeXLink:
		if e.BibTeXURL != "" {
			actions = append(actions, link(e.BibTeXURL, "BibTeX"))
		}
	case BibTeXEmbedded:
		if e.BibTeX != "" {
			bibID := "bibtex-" + hash
			actions = append(actions, toggleLink(bibID, "BibTeX"))
			extras = append(extras, fmt.Sprintf(
				"<div id=\"%s\" class=\"bibtex\" style=\"display:none\"><pre>%s</pre> %s</div>",
				attr(bibID), esc(e.BibTeX), toggleLink(bibID, "hide")))
		}
	}

	if a.opts.LinkPDFs {
		for _, d := range e.Documents {
			if d.Path != "" {
				actions = append(actions, link(d.Path, "PDF"))
			}
		}
	}

	if a.opts.DOILink && e.Post.DOI != "" {
		actions = append(actions, link("https://doi.org/"+e.Post.DOI, "DOI"))
	}
	if a.opts.URLLink && e.Post.URL != "" {
		actions = append(actions, link(e.Post.URL, "URL"))
	}
	if a.opts.BibsonomyLink && e.PageURL != "" {
		actions = append(actions, link(e.PageURL, "BibSonomy"))
	}

	return actions, extras
}

// yearAnchor builds the in-page anchor id for a year heading.
func yearAnchor(year string) string {
	return "pubyear-" + attr(strings.ReplaceAll(year, " ", "-"))
}

// esc escapes untrusted text for element content.
func esc(s string) string {
	return html.EscapeString(s)
}

// attr escapes untrusted text for attribute values.
func attr(s string) string {
	return html.EscapeString(s)
}

func link(href, label string) string {
	return fmt.Sprintf("<a href=\"%s\">%s</a>", attr(href), esc(label))
}

func toggleLink(id, label string) string {
	return fmt.Sprintf("<a href=\"javascript:togglePubItem('%s');\">%s</a>", attr(id), esc(label))
}
