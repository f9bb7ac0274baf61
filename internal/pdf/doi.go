// Package pdf inspects cached document files: sanity-checking that a
// download is a readable PDF and extracting its DOI for cross-checking
// against the post metadata.
package pdf

import (
	"fmt"
	"regexp"

	"github.com/ledongthuc/pdf"
)

// DOI pattern: 10.XXXX/... with 4+ digit registrant codes.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// Verify checks that the file at path parses as a PDF with at least one
// page. Cached files that fail here are likely truncated downloads or
// error pages saved as documents.
func Verify(path string) error {
	f, r, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("not a readable PDF: %w", err)
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return fmt.Errorf("PDF has no pages")
	}
	return nil
}

// ExtractDOI extracts a DOI from a PDF file, searching the first few
// pages. Returns "" without error when no DOI is found.
func ExtractDOI(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	maxPages := 3
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if doi := FindDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil
}

// FindDOI returns the first DOI-shaped substring of text, trimming
// trailing punctuation that commonly clings to inline DOIs.
func FindDOI(text string) string {
	match := doiPattern.FindString(text)
	for len(match) > 0 {
		switch match[len(match)-1] {
		case '.', ',', ';', ')':
			match = match[:len(match)-1]
		default:
			return match
		}
	}
	return match
}
