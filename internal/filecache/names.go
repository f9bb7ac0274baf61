package filecache

import "strings"

// DocumentName derives the cache file name for a source document name.
// The public postfix is stripped back to a plain .pdf extension, so
// "paper_oa.pdf" with postfix "_oa.pdf" caches as "paper.pdf". Names
// without the postfix are used unchanged.
func DocumentName(fileName, publicPostfix string) string {
	if publicPostfix != "" && strings.HasSuffix(fileName, publicPostfix) {
		return strings.TrimSuffix(fileName, publicPostfix) + ".pdf"
	}
	return fileName
}

// ClaimSet tracks target paths claimed during a single render so that
// two different source documents mapping to the same cache file are
// reported. Collisions are advisory: downloads proceed and the later
// writer is skipped by the existence check if the earlier one succeeded.
type ClaimSet struct {
	claimed map[string]string // target path -> source key
}

// NewClaimSet creates an empty claim set for one render pass.
func NewClaimSet() *ClaimSet {
	return &ClaimSet{claimed: make(map[string]string)}
}

// Claim records that source (an identifier for the originating post and
// document) wants to write target. It reports false when the path was
// already claimed by a different source in this render.
func (s *ClaimSet) Claim(target, source string) bool {
	prev, ok := s.claimed[target]
	if ok {
		return prev == source
	}
	s.claimed[target] = source
	return true
}
