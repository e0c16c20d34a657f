package campaign

import (
	"strings"
	"unicode/utf8"
)

const (
	candidateSearchLimit = 100000
	minCandidateLength   = 4
	maxCandidateLength   = 20
	maxCandidateUnits    = 100
)

// words that mark a Cyrillic-looking string as engine data rather than a name
var excludedKeywords = []string{
	"crap", "flags", "clouds", "hero", "nickname",
	"arena", "enemy", "player", "shop", "item",
	"spell", "unit", "quest", "map",
}

// cyrillicStart reports whether lo, hi is a UTF-16LE unit in U+0410..U+044F.
func cyrillicStart(lo byte, hi byte) bool {
	return hi == 0x04 && lo >= 0x10 && lo <= 0x4F
}

// readCandidate collects Cyrillic and printable ASCII units from pos up to a
// NUL unit or anything else. It returns the text and the bytes it covered.
func readCandidate(buf []byte, pos int) (string, int) {
	end := pos + 2*maxCandidateUnits
	if end > len(buf)-1 {
		end = len(buf) - 1
	}

	i := pos
	for i < end {
		lo, hi := buf[i], buf[i+1]
		if lo == 0 && hi == 0 {
			break
		}
		if !nameUnit(lo, hi) {
			break
		}
		i += 2
	}
	if i == pos {
		return "", 0
	}

	text, ok := decodeUTF16(buf[pos:i])
	if !ok {
		return "", 0
	}
	return text, i - pos
}

func excluded(candidate string) bool {
	lower := strings.ToLower(candidate)
	for _, keyword := range excludedKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// scanCandidates is the last resort for saves without readable name fields:
// the first three distinct Cyrillic strings near the start of the buffer are
// a location, then the first and second name.
func scanCandidates(buf []byte) (first string, second string) {
	limit := candidateSearchLimit
	if limit > len(buf) {
		limit = len(buf)
	}

	candidates := make([]string, 0, 3)
	for i := 0; i < limit-4 && len(candidates) < 3; {
		if !cyrillicStart(buf[i], buf[i+1]) {
			i++
			continue
		}

		text, size := readCandidate(buf, i)
		if size == 0 {
			i += 2
			continue
		}
		i += size

		length := utf8.RuneCountInString(text)
		if length < minCandidateLength || length > maxCandidateLength || excluded(text) {
			continue
		}
		if !containsString(candidates, text) {
			candidates = append(candidates, text)
		}
	}

	if len(candidates) > 1 {
		first = candidates[1]
	}
	if len(candidates) > 2 {
		second = candidates[2]
	}
	return first, second
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
