package shops

import (
	"encoding/binary"
	"sort"
)

// InventoryEntry is one stocked object and how many of it the shop holds.
type InventoryEntry struct {
	Name     string `json:"name"`
	Quantity uint32 `json:"quantity"`
}

const (
	minNameLength = 5
	maxNameLength = 100
)

func readUint32(buf []byte, pos int) (uint32, bool) {
	if pos < 0 || pos+4 > len(buf) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(buf[pos : pos+4]), true
}

func asciiString(raw []byte) (string, bool) {
	for _, b := range raw {
		if b >= 0x80 {
			return "", false
		}
	}
	return string(raw), true
}

// readName reads a uint32 length-prefixed ASCII name at pos. ok is false when
// the length is out of range or the bytes are not ASCII; the caller then
// resynchronises one byte further.
func readName(buf []byte, pos int) (name string, nameEnd int, ok bool) {
	length, ok := readUint32(buf, pos)
	if !ok || length < minNameLength || length > maxNameLength {
		return "", 0, false
	}

	nameEnd = pos + 4 + int(length)
	if nameEnd > len(buf) {
		return "", 0, false
	}

	name, ok = asciiString(buf[pos+4 : nameEnd])
	return name, nameEnd, ok
}

// normalize sorts entries by name and collapses repeated names to their
// largest quantity.
func normalize(entries []InventoryEntry) []InventoryEntry {
	best := make(map[string]uint32, len(entries))
	for _, entry := range entries {
		if quantity, seen := best[entry.Name]; !seen || entry.Quantity > quantity {
			best[entry.Name] = entry.Quantity
		}
	}

	out := make([]InventoryEntry, 0, len(best))
	for name, quantity := range best {
		out = append(out, InventoryEntry{Name: name, Quantity: quantity})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
