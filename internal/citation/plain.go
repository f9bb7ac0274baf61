package citation

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/bibsonomy/publist/internal/post"
)

// Plain is a local fallback formatter producing "Authors: Title. Year."
// fragments without contacting the remote style engine. It ignores the
// style argument.
type Plain struct{}

// NewPlain creates the local fallback formatter.
func NewPlain() Plain {
	return Plain{}
}

// Format renders every post locally. It never fails.
func (Plain) Format(_ context.Context, posts map[post.ID]post.Post, _ string) (map[post.ID]string, error) {
	out := make(map[post.ID]string, len(posts))
	for id, p := range posts {
		out[id] = renderPlain(p)
	}
	return out, nil
}

func renderPlain(p post.Post) string {
	var b strings.Builder

	names := p.Authors
	if len(names) == 0 {
		names = p.Editors
	}
	if len(names) > 0 {
		b.WriteString(html.EscapeString(formatPersons(names)))
		b.WriteString(": ")
	}

	title := p.Title
	if title == "" {
		title = p.ID.IntraHash()
	}
	if p.URL != "" {
		fmt.Fprintf(&b, "<a href=%q>%s</a>.", p.URL, html.EscapeString(title))
	} else {
		b.WriteString(html.EscapeString(title))
		b.WriteString(".")
	}

	if year := p.DisplayYear(); year != "" {
		b.WriteString(" (")
		b.WriteString(html.EscapeString(year))
		b.WriteString(")")
	}

	return b.String()
}

// formatPersons joins names as "Last, First; Last, First".
func formatPersons(people []post.Person) string {
	parts := make([]string, 0, len(people))
	for _, person := range people {
		if person.First != "" {
			parts = append(parts, fmt.Sprintf("%s, %s", person.Last, person.First))
		} else {
			parts = append(parts, person.Last)
		}
	}
	return strings.Join(parts, "; ")
}
