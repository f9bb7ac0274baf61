package post

import "strings"

// DefaultPublicPostfix marks the one open-access copy to expose when a
// post carries several documents.
const DefaultPublicPostfix = "_oa.pdf"

// PublicDocuments returns the subset of a post's documents eligible for
// linking and download, preserving input order.
//
// Only PDF files qualify. A post with a single document exposes any PDF;
// a post with two or more documents exposes only those whose name ends
// in the public postfix, so that of several candidate files only the
// explicitly marked open-access copy is offered.
func PublicDocuments(docs []Document, publicPostfix string) []Document {
	if publicPostfix == "" {
		publicPostfix = DefaultPublicPostfix
	}

	var out []Document
	for _, d := range docs {
		if !strings.HasSuffix(d.FileName, ".pdf") {
			continue
		}
		if len(docs) >= 2 && !strings.HasSuffix(d.FileName, publicPostfix) {
			continue
		}
		out = append(out, d)
	}
	return out
}
