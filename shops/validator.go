package shops

import "regexp"

const minIDLength = 5

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// structural keys that look like identifiers but are section metadata
var metadataKeywords = map[string]struct{}{
	"count":  {},
	"flags":  {},
	"lvars":  {},
	"slruck": {},
	"id":     {},
	"strg":   {},
	"bmd":    {},
	"ugid":   {},
	"temp":   {},
	"hint":   {},
	"label":  {},
	"name":   {},
	"image":  {},
	"text":   {},
	"s":      {},
	"h":      {},
	"moral":  {},
}

// IsValidID reports whether candidate is a game object id rather than
// structural metadata. Every sub-parser runs it before accepting a name.
func IsValidID(candidate string) bool {
	if len(candidate) < minIDLength {
		return false
	}
	if _, ok := metadataKeywords[candidate]; ok {
		return false
	}
	return identifierPattern.MatchString(candidate)
}
