package render

import (
	"strings"
	"testing"

	"github.com/bibsonomy/publist/internal/post"
)

func entryID(c byte) post.ID {
	return post.ID(strings.Repeat(string(c), 32) + "testuser")
}

func TestAssemble_YearHeadingsScenario(t *testing.T) {
	older := entryID('a')
	newer := entryID('b')
	posts := map[post.ID]post.Post{
		older: {ID: older, Year: "2020", Type: "article", Authors: []post.Person{{Last: "Smith"}}},
		newer: {ID: newer, Year: "2021", Type: "inproceedings", Authors: []post.Person{{Last: "Adams"}}},
	}
	ids := post.SortForDisplay(posts)

	a := NewAssembler(Options{YearHeadings: true})
	out := a.Assemble(ids, map[post.ID]Entry{
		older: {Post: posts[older], Citation: "Smith 2020"},
		newer: {Post: posts[newer], Citation: "Adams 2021"},
	})

	i2021 := strings.Index(out, ">2021</h3>")
	i2020 := strings.Index(out, ">2020</h3>")
	if i2021 < 0 || i2020 < 0 {
		t.Fatalf("expected headings for both years, got:\n%s", out)
	}
	if i2021 > i2020 {
		t.Error("2021 heading should precede 2020")
	}

	if got := strings.Count(out, "<li class="); got != 2 {
		t.Errorf("list items = %d, want 2", got)
	}
	if strings.Contains(out, "class=\"actions\"") {
		t.Error("no actions list should be rendered with all link options disabled")
	}
}

func TestAssemble_SingleListWithoutYearHeadings(t *testing.T) {
	id1, id2 := entryID('a'), entryID('b')
	posts := map[post.ID]post.Post{
		id1: {ID: id1, Year: "2020", Type: "article"},
		id2: {ID: id2, Year: "2021", Type: "article"},
	}
	ids := post.SortForDisplay(posts)

	out := NewAssembler(Options{}).Assemble(ids, map[post.ID]Entry{
		id1: {Post: posts[id1]},
		id2: {Post: posts[id2]},
	})

	if strings.Contains(out, "<h3") {
		t.Error("no headings expected")
	}
	if got := strings.Count(out, "<ul>"); got != 1 {
		t.Errorf("sublists = %d, want a single list", got)
	}
}

func TestAssemble_GroupMenuListsEachYearOnce(t *testing.T) {
	a, b, c := entryID('a'), entryID('b'), entryID('c')
	posts := map[post.ID]post.Post{
		a: {ID: a, Year: "2021", Type: "article"},
		b: {ID: b, Year: "2021", Type: "book"},
		c: {ID: c, Year: "2019", Type: "article"},
	}
	ids := post.SortForDisplay(posts)

	out := NewAssembler(Options{YearHeadings: true, ShowGroupMenu: true}).Assemble(ids, map[post.ID]Entry{
		a: {Post: posts[a]}, b: {Post: posts[b]}, c: {Post: posts[c]},
	})

	if got := strings.Count(out, "#pubyear-2021"); got != 1 {
		t.Errorf("menu links to 2021 = %d, want 1", got)
	}
	if !strings.Contains(out, "#pubyear-2019") {
		t.Error("menu should link 2019")
	}
	if !strings.Contains(out, "id=\"pubyear-2021\"") {
		t.Error("heading anchor for 2021 missing")
	}
}

func TestAssemble_ItemClassIsPostType(t *testing.T) {
	id := entryID('a')
	out := NewAssembler(Options{}).Assemble([]post.ID{id}, map[post.ID]Entry{
		id: {Post: post.Post{ID: id, Type: "phdthesis"}},
	})
	if !strings.Contains(out, "<li class=\"phdthesis\">") {
		t.Errorf("item class should be the entry type, got:\n%s", out)
	}
}

func TestAssemble_AbstractToggle(t *testing.T) {
	id := entryID('a')
	p := post.Post{ID: id, Type: "article", Abstract: "Folksonomies & more"}

	out := NewAssembler(Options{ShowAbstract: true}).Assemble([]post.ID{id}, map[post.ID]Entry{
		id: {Post: p},
	})

	absID := "abstract-" + id.IntraHash()
	if !strings.Contains(out, "togglePubItem('"+absID+"')") {
		t.Error("abstract toggle control missing")
	}
	if !strings.Contains(out, "id=\""+absID+"\"") {
		t.Error("hidden abstract container missing")
	}
	if !strings.Contains(out, "Folksonomies &amp; more") {
		t.Error("abstract text should be escaped")
	}
	if !strings.Contains(out, ">hide</a>") {
		t.Error("hide control missing from abstract container")
	}
}

func TestAssemble_EmptyAbstractOmitsToggle(t *testing.T) {
	id := entryID('a')
	out := NewAssembler(Options{ShowAbstract: true}).Assemble([]post.ID{id}, map[post.ID]Entry{
		id: {Post: post.Post{ID: id, Type: "article"}},
	})
	if strings.Contains(out, "show abstract") {
		t.Error("empty abstract must not produce a toggle")
	}
}

func TestAssemble_BibTeXLinkWinsOverEmbedded(t *testing.T) {
	id := entryID('a')
	e := Entry{
		Post:      post.Post{ID: id, Type: "article"},
		BibTeX:    "@article{x, title={T}}",
		BibTeXURL: "https://service.example/bib/2" + id.IntraHash(),
	}

	out := NewAssembler(Options{BibtexLink: true, BibtexEmbedded: true}).Assemble([]post.ID{id}, map[post.ID]Entry{id: e})

	if !strings.Contains(out, "href=\""+e.BibTeXURL+"\"") {
		t.Error("BibTeX link action missing")
	}
	if strings.Contains(out, "bibtex-"+id.IntraHash()) {
		t.Error("embedded BibTeX block must not render when the link mode wins")
	}
}

func TestAssemble_EmbeddedBibTeX(t *testing.T) {
	id := entryID('a')
	e := Entry{
		Post:   post.Post{ID: id, Type: "article"},
		BibTeX: "@article{x,\n  title = {Graphs <3}\n}",
	}

	out := NewAssembler(Options{BibtexEmbedded: true}).Assemble([]post.ID{id}, map[post.ID]Entry{id: e})

	bibID := "bibtex-" + id.IntraHash()
	if !strings.Contains(out, "togglePubItem('"+bibID+"')") {
		t.Error("embedded BibTeX toggle missing")
	}
	if !strings.Contains(out, "title = {Graphs &lt;3}") {
		t.Error("BibTeX text should be escaped inside the block")
	}
}

func TestAssemble_ActionOrderAndSeparator(t *testing.T) {
	id := entryID('a')
	e := Entry{
		Post: post.Post{
			ID: id, Type: "article",
			Abstract: "text",
			DOI:      "10.1/x",
			URL:      "https://example.org",
		},
		Documents: []DocumentLink{{FileName: "p.pdf", Path: "pdf/p.pdf"}},
		PageURL:   "https://service.example/bibtex/x",
	}

	opts := Options{
		ShowAbstract:    true,
		LinkPDFs:        true,
		DOILink:         true,
		URLLink:         true,
		BibsonomyLink:   true,
		OptionSeparator: " :: ",
	}
	out := NewAssembler(opts).Assemble([]post.ID{id}, map[post.ID]Entry{id: e})

	order := []string{"show abstract", ">PDF</a>", ">DOI</a>", ">URL</a>", ">BibSonomy</a>"}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		if idx < 0 {
			t.Fatalf("action %q missing from:\n%s", marker, out)
		}
		if idx < last {
			t.Errorf("action %q out of order", marker)
		}
		last = idx
	}

	if !strings.Contains(out, " :: ") {
		t.Error("configured separator should join actions")
	}
}

func TestAssemble_PreviewImageWrappedInDocumentLink(t *testing.T) {
	id := entryID('a')
	e := Entry{
		Post: post.Post{ID: id, Type: "article"},
		Documents: []DocumentLink{{
			FileName:    "p_oa.pdf",
			Path:        "pdf/p.pdf",
			PreviewPath: "previews/small/p_oa.pdf.jpg",
		}},
	}

	out := NewAssembler(Options{LinkPDFs: true}).Assemble([]post.ID{id}, map[post.ID]Entry{id: e})
	if !strings.Contains(out, "<a href=\"pdf/p.pdf\"><img src=\"previews/small/p_oa.pdf.jpg\"") {
		t.Errorf("preview should link to the document, got:\n%s", out)
	}
}

func TestAssemble_PreviewWithoutLinking(t *testing.T) {
	id := entryID('a')
	e := Entry{
		Post:      post.Post{ID: id, Type: "article"},
		Documents: []DocumentLink{{FileName: "p.pdf", PreviewPath: "previews/small/p.pdf.jpg"}},
	}

	out := NewAssembler(Options{}).Assemble([]post.ID{id}, map[post.ID]Entry{id: e})
	if strings.Contains(out, "<a href") {
		t.Error("no link expected when document linking is off")
	}
	if !strings.Contains(out, "<img src=\"previews/small/p.pdf.jpg\"") {
		t.Error("preview image missing")
	}
}

func TestAssemble_EscapesUntrustedFields(t *testing.T) {
	id := entryID('a')
	e := Entry{
		Post: post.Post{
			ID:   id,
			Type: `article"><script>`,
			URL:  `https://example.org/?a=1&b=<x>`,
		},
		Citation: "<em>Trusted</em> fragment",
	}

	out := NewAssembler(Options{URLLink: true}).Assemble([]post.ID{id}, map[post.ID]Entry{id: e})

	if strings.Contains(out, `class="article"><script>`) {
		t.Error("type must be escaped in the class attribute")
	}
	if !strings.Contains(out, "&amp;b=&lt;x&gt;") {
		t.Error("URL must be escaped in the href attribute")
	}
	if !strings.Contains(out, "<em>Trusted</em> fragment") {
		t.Error("citation fragment must pass through unescaped")
	}
}

func TestAssemble_StartsWithToggleScript(t *testing.T) {
	out := NewAssembler(Options{}).Assemble(nil, nil)
	if !strings.HasPrefix(out, "<script type=\"text/javascript\">") {
		t.Error("fragment should start with the toggle script")
	}
	if !strings.Contains(out, "function togglePubItem(id)") {
		t.Error("toggle function missing")
	}
}

func TestOptions_BibTeXModeResolution(t *testing.T) {
	if got := (Options{}).BibTeXMode(); got != BibTeXNone {
		t.Errorf("mode = %v, want BibTeXNone", got)
	}
	if got := (Options{BibtexEmbedded: true}).BibTeXMode(); got != BibTeXEmbedded {
		t.Errorf("mode = %v, want BibTeXEmbedded", got)
	}
	if got := (Options{BibtexLink: true, BibtexEmbedded: true}).BibTeXMode(); got != BibTeXLink {
		t.Errorf("mode = %v, want BibTeXLink to win", got)
	}
}

func TestOptions_NormalizeDefaults(t *testing.T) {
	o := Options{}.Normalize()
	if o.CSSClass != DefaultCSSClass {
		t.Errorf("CSSClass = %q", o.CSSClass)
	}
	if o.OptionSeparator != DefaultSeparator {
		t.Errorf("OptionSeparator = %q", o.OptionSeparator)
	}
	if o.PreviewSize != DefaultPreviewSize {
		t.Errorf("PreviewSize = %q", o.PreviewSize)
	}
	if o.PublicDocPostfix != post.DefaultPublicPostfix {
		t.Errorf("PublicDocPostfix = %q", o.PublicDocPostfix)
	}

	custom := Options{CSSClass: "pubs", OptionSeparator: ", "}.Normalize()
	if custom.CSSClass != "pubs" || custom.OptionSeparator != ", " {
		t.Error("Normalize() must not override set fields")
	}
}
