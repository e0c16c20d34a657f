package shops

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	slruckScanLimit = 500
	minSlruckLength = 1
	maxSlruckLength = 20

	// bytes left unread at the end of an entry-scanned section
	sectionTail = 20
)

var slruckMarker = []byte("slruck")

// ParseSlruckItems parses an items section starting at the section marker
// offset start. Each item is a length-prefixed name; its quantity is the
// part after the comma of the next "slruck" value ("<slot>,<quantity>"),
// or 1 when there is none.
func ParseSlruckItems(buf []byte, start int, end int) []InventoryEntry {
	entries := make([]InventoryEntry, 0)
	if end > len(buf) {
		end = len(buf)
	}

	for pos := start + len(Items.Marker()); pos < end-sectionTail; {
		if pos+4 > len(buf) {
			break
		}

		name, nameEnd, ok := readName(buf, pos)
		if !ok {
			pos++
			continue
		}
		if !IsValidID(name) {
			log.Debug().Str("name", name).Int("offset", pos).Msg("[ParseSlruckItems] discarded invalid id")
			pos++
			continue
		}

		entries = append(entries, InventoryEntry{
			Name:     name,
			Quantity: slruckQuantity(buf, nameEnd, end),
		})
		pos = nameEnd
	}

	return entries
}

func slruckQuantity(buf []byte, from int, end int) uint32 {
	for pos := from; pos < from+slruckScanLimit; pos++ {
		if pos+len(slruckMarker)+4 > end {
			break
		}
		if !bytes.Equal(buf[pos:pos+len(slruckMarker)], slruckMarker) {
			continue
		}

		valueStart := pos + len(slruckMarker) + 4
		length, _ := readUint32(buf, pos+len(slruckMarker))
		if length < minSlruckLength || length > maxSlruckLength || valueStart+int(length) > len(buf) {
			continue
		}

		value, ok := asciiString(buf[valueStart : valueStart+int(length)])
		if !ok || strings.Count(value, ",") != 1 {
			continue
		}

		quantity, err := strconv.ParseUint(strings.TrimSpace(value[strings.IndexByte(value, ',')+1:]), 10, 32)
		if err != nil {
			log.Debug().Str("value", value).Msg("[slruckQuantity] unparsable quantity")
			continue
		}
		return uint32(quantity)
	}

	return 1
}
