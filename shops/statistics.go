package shops

// Statistics sums up a decode: how many shops stock each section and how
// many entries each section holds overall.
type Statistics struct {
	Shops       int
	WithContent int
	WithSection map[SectionKind]int
	Products    int
	Entries     map[SectionKind]int
}

// Summarize counts the shops and entries of a decode.
func Summarize(inventories []ShopInventory) Statistics {
	stats := Statistics{
		Shops:       len(inventories),
		WithSection: make(map[SectionKind]int, len(SectionKinds)),
		Entries:     make(map[SectionKind]int, len(SectionKinds)),
	}

	for _, inventory := range inventories {
		if !inventory.IsEmpty() {
			stats.WithContent++
		}
		for _, kind := range SectionKinds {
			entries := len(inventory.Section(kind))
			if entries > 0 {
				stats.WithSection[kind]++
			}
			stats.Entries[kind] += entries
			stats.Products += entries
		}
	}

	return stats
}
