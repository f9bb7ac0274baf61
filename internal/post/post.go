// Package post defines the core domain types for bibliographic posts
// fetched from BibSonomy.
package post

// Post represents one bibliographic entry for a single render pass.
type Post struct {
	// Identity
	ID ID `json:"id"` // Intra-hash plus owning user name

	// Metadata
	Title    string   `json:"title"`
	Type     string   `json:"type"` // BibTeX entry type, e.g. "article"
	Year     string   `json:"year"` // Literal publication year, may be empty
	Date     string   `json:"date"` // Raw issue date, used when Year is empty
	Authors  []Person `json:"authors"`
	Editors  []Person `json:"editors"`
	Abstract string   `json:"abstract"`
	DOI      string   `json:"doi"`
	URL      string   `json:"url"`

	// Attached files
	Documents []Document `json:"documents,omitempty"`
}

// Person is an author or editor name pair.
type Person struct {
	First string `json:"first"` // First/given name(s)
	Last  string `json:"last"`  // Last/family name
}

// Document is a file attached to a post. The MD5 hash is the content
// handle the transport layer uses to fetch bytes.
type Document struct {
	FileName string `json:"filename"`
	MD5      string `json:"md5hash,omitempty"`
}

// DisplayYear returns the value used both as sort key and heading text:
// the literal year if present, otherwise the raw issue date. The raw
// form is compared as a string, so mixed date formats group lexically.
func (p Post) DisplayYear() string {
	if p.Year != "" {
		return p.Year
	}
	return p.Date
}

// LeadName returns the family name used for alphabetic ordering inside a
// year block: the first author, falling back to the first editor.
func (p Post) LeadName() string {
	if len(p.Authors) > 0 {
		return p.Authors[0].Last
	}
	if len(p.Editors) > 0 {
		return p.Editors[0].Last
	}
	return ""
}
