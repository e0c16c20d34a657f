package shops

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	strgSearchWindow = 200
	maxSlashListSize = 5000
)

var strgMarker = []byte("strg")

// ParseSlashList parses a garrison or shopunits section starting at the
// section marker offset start. The payload is a "strg" string of
// name/quantity pairs. Entries keep the order of the string.
func ParseSlashList(buf []byte, start int, end int) []InventoryEntry {
	entries := make([]InventoryEntry, 0)

	searchEnd := start + strgSearchWindow
	if searchEnd > end {
		searchEnd = end
	}
	if searchEnd > len(buf) {
		searchEnd = len(buf)
	}
	if start < 0 || start >= searchEnd {
		return entries
	}

	idx := bytes.Index(buf[start:searchEnd], strgMarker)
	if idx < 0 {
		log.Debug().Int("section", start).Msg("[ParseSlashList] no strg marker")
		return entries
	}
	pos := start + idx + len(strgMarker)

	length, ok := readUint32(buf, pos)
	if !ok || length == 0 || length > maxSlashListSize {
		log.Debug().Int("section", start).Uint32("length", length).Msg("[ParseSlashList] bad strg length")
		return entries
	}
	pos += 4

	if pos+int(length) > len(buf) {
		log.Debug().Int("section", start).Uint32("length", length).Msg("[ParseSlashList] strg runs past buffer")
		return entries
	}

	content, ok := asciiString(buf[pos : pos+int(length)])
	if !ok {
		log.Debug().Int("section", start).Msg("[ParseSlashList] strg is not ASCII")
		return entries
	}

	return append(entries, ParseSlashContent(content)...)
}

// ParseSlashContent splits "name/qty/name/qty..." into entries. A token
// followed by a non-number is skipped and pairing resumes at the next token.
func ParseSlashContent(content string) []InventoryEntry {
	entries := make([]InventoryEntry, 0)
	parts := strings.Split(content, "/")

	for i := 0; i < len(parts)-1; {
		name := parts[i]
		quantity, err := strconv.ParseUint(parts[i+1], 10, 32)
		if err != nil {
			i++
			continue
		}

		if IsValidID(name) {
			entries = append(entries, InventoryEntry{Name: name, Quantity: uint32(quantity)})
		} else {
			log.Debug().Str("name", name).Msg("[ParseSlashContent] discarded invalid id")
		}
		i += 2
	}

	return entries
}
