package shops

import "bytes"

// Lookback bounds how far before a shop token its section markers may sit.
const Lookback = 5000

// LocateSection returns the offset of the last marker of kind in
// [max(shopOffset-Lookback, floor), shopOffset). floor is where the previous
// shop's token ends; markers before it belong to that shop.
func LocateSection(buf []byte, kind SectionKind, shopOffset int, floor int) (int, bool) {
	if shopOffset > len(buf) {
		shopOffset = len(buf)
	}

	lo := shopOffset - Lookback
	if lo < floor {
		lo = floor
	}
	if lo < 0 {
		lo = 0
	}
	if lo >= shopOffset {
		return 0, false
	}

	idx := bytes.LastIndex(buf[lo:shopOffset], kind.Marker())
	if idx < 0 {
		return 0, false
	}
	return lo + idx, true
}

// sectionEnd clamps limit to the first section marker found after start, so
// a parse never runs into a neighbouring .temp or section block.
func sectionEnd(buf []byte, start int, limit int) int {
	if limit > len(buf) {
		limit = len(buf)
	}
	if start+1 >= limit {
		return limit
	}

	end := limit
	area := buf[start+1 : limit]
	for _, marker := range boundaryMarkers {
		if idx := bytes.Index(area, marker); idx >= 0 && start+1+idx < end {
			end = start + 1 + idx
		}
	}
	return end
}
