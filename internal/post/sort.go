package post

import "sort"

// SortForDisplay returns the post IDs in rendering order: most recent
// year first, then entry type and lead family name ascending within a
// year. Posts sharing a display year therefore stay contiguous, which
// the assembler relies on for year headings.
func SortForDisplay(posts map[ID]Post) []ID {
	ids := make([]ID, 0, len(posts))
	for id := range posts {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		a, b := posts[ids[i]], posts[ids[j]]

		// Years compare as raw strings (see Post.DisplayYear), descending.
		ay, by := a.DisplayYear(), b.DisplayYear()
		if ay != by {
			return ay > by
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		an, bn := a.LeadName(), b.LeadName()
		if an != bn {
			return an < bn
		}
		return ids[i] < ids[j]
	})

	return ids
}
