package post

import (
	"fmt"
	"strings"
)

// HashLength is the length of the intra-hash prefix of a post ID.
const HashLength = 32

// ID identifies a post: a 32-character hexadecimal intra-hash (content
// fingerprint of the bibliographic entry) concatenated with the owning
// user name. The user name has no fixed length.
type ID string

// ParseID validates the raw id string and returns it as an ID.
func ParseID(s string) (ID, error) {
	if len(s) <= HashLength {
		return "", fmt.Errorf("post id %q too short: need %d-character hash plus user name", s, HashLength)
	}
	hash := s[:HashLength]
	if strings.Trim(hash, "0123456789abcdef") != "" {
		return "", fmt.Errorf("post id %q: hash prefix is not lowercase hex", s)
	}
	return ID(s), nil
}

// MakeID builds an ID from an intra-hash and user name.
func MakeID(intraHash, user string) ID {
	return ID(intraHash + user)
}

// IntraHash returns the 32-character content hash prefix.
func (id ID) IntraHash() string {
	if len(id) < HashLength {
		return string(id)
	}
	return string(id)[:HashLength]
}

// User returns the owning user name following the hash prefix.
func (id ID) User() string {
	if len(id) < HashLength {
		return ""
	}
	return string(id)[HashLength:]
}

func (id ID) String() string {
	return string(id)
}
