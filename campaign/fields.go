package campaign

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/unicode"
)

const maxFieldLength = 100

var (
	heroMarker     = []byte("hero")
	nameMarker     = []byte("name")
	nicknameMarker = []byte("nickname")
	playerMarker   = []byte("pn")
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// nameUnit reports whether lo, hi is a UTF-16LE unit that can appear in a
// hero name: Cyrillic or printable ASCII.
func nameUnit(lo byte, hi byte) bool {
	return hi == 0x04 || (hi == 0 && lo >= 0x20 && lo <= 0x7E)
}

// decodeUTF16 decodes raw as UTF-16LE. ok is false unless every unit is a
// name unit, so ASCII bytes read as UTF-16 never pass as a name.
func decodeUTF16(raw []byte) (string, bool) {
	if len(raw)%2 != 0 {
		return "", false
	}
	for i := 0; i < len(raw); i += 2 {
		if !nameUnit(raw[i], raw[i+1]) {
			return "", false
		}
	}

	decoded, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}

	text := string(decoded)
	for _, r := range text {
		if r == utf8.RuneError || !strconv.IsPrint(r) {
			return "", false
		}
	}
	return text, true
}

// readField reads the value of the field whose marker starts at pos: a uint32
// count N right after the marker, then N UTF-16LE units.
func readField(buf []byte, pos int, marker []byte) (value string, end int, ok bool) {
	lengthAt := pos + len(marker)
	if lengthAt+4 > len(buf) {
		return "", 0, false
	}

	units := binary.LittleEndian.Uint32(buf[lengthAt : lengthAt+4])
	if units == 0 || units > maxFieldLength {
		return "", 0, false
	}

	start := lengthAt + 4
	end = start + 2*int(units)
	if end > len(buf) {
		return "", 0, false
	}

	value, ok = decodeUTF16(buf[start:end])
	if !ok {
		return "", 0, false
	}
	return strings.TrimSpace(value), end, true
}

// findField returns the first valid field with marker at or after from.
func findField(buf []byte, from int, marker []byte) (string, int, bool) {
	for from < len(buf) {
		idx := bytes.Index(buf[from:], marker)
		if idx < 0 {
			break
		}
		at := from + idx
		from = at + 1

		// "name" is also the tail of "nickname"
		if bytes.Equal(marker, nameMarker) && at >= 4 && bytes.Equal(buf[at-4:at], []byte("nick")) {
			continue
		}

		if value, end, ok := readField(buf, at, marker); ok && value != "" {
			return value, end, true
		}
	}
	return "", 0, false
}

// heroNames reads the first and second name fields, starting at the hero
// block when the buffer has one.
func heroNames(buf []byte, from int) (first string, second string) {
	first, end, ok := findField(buf, from, nameMarker)
	if !ok {
		first, end, ok = findField(buf, from, playerMarker)
	}
	if !ok {
		end = from
	}

	second, _, _ = findField(buf, end, nicknameMarker)
	return first, second
}

// FromBuffer reads the identity from an inflated save or a plain info file.
// Names that cannot be found are left empty.
func FromBuffer(buf []byte) Identity {
	anchor := bytes.Index(buf, heroMarker)
	if anchor < 0 {
		anchor = 0
	}

	first, second := heroNames(buf, anchor)
	if first == "" && second == "" && anchor > 0 {
		first, second = heroNames(buf, 0)
	}

	strategy := "fields"
	if first == "" && second == "" {
		strategy = "candidates"
		first, second = scanCandidates(buf)
	}

	log.Debug().
		Str("first", first).
		Str("second", second).
		Str("strategy", strategy).
		Msg("[FromBuffer] hero names read")

	return newIdentity(first, second)
}
