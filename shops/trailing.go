package shops

import (
	"github.com/rs/zerolog/log"
)

const maxTrailingQuantity = 10000

// ParseTrailingQuantity parses a spells section starting at the section
// marker offset start. Each entry is a length-prefixed name followed by a
// uint32 quantity in (0, 10000); anything else means the cursor is off and
// the candidate is dropped. A repeated name keeps its largest quantity.
func ParseTrailingQuantity(buf []byte, start int, end int) []InventoryEntry {
	entries := make([]InventoryEntry, 0)
	if end > len(buf) {
		end = len(buf)
	}

	for pos := start + len(Spells.Marker()); pos < end-sectionTail; {
		if pos+4 > len(buf) {
			break
		}

		name, nameEnd, ok := readName(buf, pos)
		if !ok {
			pos++
			continue
		}
		if !IsValidID(name) {
			log.Debug().Str("name", name).Int("offset", pos).Msg("[ParseTrailingQuantity] discarded invalid id")
			pos++
			continue
		}

		quantity, ok := readUint32(buf, nameEnd)
		if !ok {
			pos++
			continue
		}
		if quantity == 0 || quantity >= maxTrailingQuantity {
			log.Debug().Str("name", name).Uint32("quantity", quantity).
				Msg("[ParseTrailingQuantity] discarded out of range quantity")
			pos++
			continue
		}

		entries = append(entries, InventoryEntry{Name: name, Quantity: quantity})
		pos = nameEnd + 4
	}

	return normalize(entries)
}
