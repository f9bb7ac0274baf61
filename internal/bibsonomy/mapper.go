package bibsonomy

import (
	"strings"

	"github.com/bibsonomy/publist/internal/post"
)

// convertPost maps one wire post to the domain type.
func convertPost(wp wirePost) post.Post {
	b := wp.BibTex

	p := post.Post{
		ID:       post.MakeID(b.IntraHash, wp.User.Name),
		Title:    b.Title,
		Type:     b.EntryType,
		Year:     b.Year,
		Date:     b.Date,
		Authors:  parsePersons(b.Author),
		Editors:  parsePersons(b.Editor),
		Abstract: b.Abstract,
		DOI:      b.DOI,
		URL:      b.URL,
	}

	if p.DOI == "" {
		p.DOI = doiFromMisc(b.Misc)
	}

	if wp.Documents != nil {
		for _, d := range wp.Documents.Document {
			p.Documents = append(p.Documents, post.Document{
				FileName: d.FileName,
				MD5:      d.MD5Hash,
			})
		}
	}

	return p
}

// parsePersons parses a BibTeX person list ("Last, First and Last, First").
// Names without a comma are split on the last space instead.
func parsePersons(s string) []post.Person {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var people []post.Person
	for _, name := range strings.Split(s, " and ") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if last, first, ok := strings.Cut(name, ","); ok {
			people = append(people, post.Person{
				First: strings.TrimSpace(first),
				Last:  strings.TrimSpace(last),
			})
			continue
		}
		if idx := strings.LastIndex(name, " "); idx >= 0 {
			people = append(people, post.Person{
				First: strings.TrimSpace(name[:idx]),
				Last:  strings.TrimSpace(name[idx+1:]),
			})
			continue
		}
		people = append(people, post.Person{Last: name})
	}
	return people
}

// doiFromMisc extracts a DOI from a BibTeX misc field like
// `doi = {10.1000/xyz}`. Returns "" when no DOI entry is present.
func doiFromMisc(misc string) string {
	lower := strings.ToLower(misc)
	idx := strings.Index(lower, "doi")
	if idx < 0 {
		return ""
	}
	rest := misc[idx+len("doi"):]
	rest = strings.TrimLeft(rest, " \t=")

	var opening, closing string
	switch {
	case strings.HasPrefix(rest, "{"):
		opening, closing = "{", "}"
	case strings.HasPrefix(rest, `"`):
		opening, closing = `"`, `"`
	default:
		return ""
	}

	rest = strings.TrimPrefix(rest, opening)
	end := strings.Index(rest, closing)
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}
