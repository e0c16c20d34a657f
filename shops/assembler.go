package shops

import (
	"github.com/rs/zerolog/log"
)

// ShopInventory is the decoded stock of one shop. Every section is sorted by
// name and holds each name once.
type ShopInventory struct {
	ShopID   string           `json:"shop"`
	Offset   int              `json:"offset"`
	Garrison []InventoryEntry `json:"garrison"`
	Items    []InventoryEntry `json:"items"`
	Units    []InventoryEntry `json:"units"`
	Spells   []InventoryEntry `json:"spells"`
}

// Section returns the entries of one section kind.
func (inventory ShopInventory) Section(kind SectionKind) []InventoryEntry {
	switch kind {
	case Garrison:
		return inventory.Garrison
	case Items:
		return inventory.Items
	case ShopUnits:
		return inventory.Units
	case Spells:
		return inventory.Spells
	}
	return nil
}

// IsEmpty reports whether no section holds anything.
func (inventory ShopInventory) IsEmpty() bool {
	for _, kind := range SectionKinds {
		if len(inventory.Section(kind)) > 0 {
			return false
		}
	}
	return true
}

// Quantity returns the quantity of name in the section, or false.
func (inventory ShopInventory) Quantity(kind SectionKind, name string) (uint32, bool) {
	for _, entry := range inventory.Section(kind) {
		if entry.Name == name {
			return entry.Quantity, true
		}
	}
	return 0, false
}

func (inventory *ShopInventory) set(kind SectionKind, entries []InventoryEntry) {
	switch kind {
	case Garrison:
		inventory.Garrison = entries
	case Items:
		inventory.Items = entries
	case ShopUnits:
		inventory.Units = entries
	case Spells:
		inventory.Spells = entries
	}
}

func parseSection(kind SectionKind, buf []byte, start int, end int) []InventoryEntry {
	switch kind {
	case Garrison, ShopUnits:
		return ParseSlashList(buf, start, end)
	case Items:
		return ParseSlruckItems(buf, start, end)
	case Spells:
		return ParseTrailingQuantity(buf, start, end)
	}
	return nil
}

// assembleShop parses the four sections in front of shop. floor is the end
// of the previous shop's token. A section that is missing or unparsable is
// left empty; nothing here fails the shop.
func assembleShop(buf []byte, shop ShopIdentifier, floor int) ShopInventory {
	inventory := ShopInventory{
		ShopID:   shop.ID,
		Offset:   shop.Offset,
		Garrison: []InventoryEntry{},
		Items:    []InventoryEntry{},
		Units:    []InventoryEntry{},
		Spells:   []InventoryEntry{},
	}

	offsets := make(map[SectionKind]int, len(SectionKinds))
	for _, kind := range SectionKinds {
		if offset, ok := LocateSection(buf, kind, shop.Offset, floor); ok {
			offsets[kind] = offset
		}
	}

	for _, kind := range SectionKinds {
		start, ok := offsets[kind]
		if !ok {
			continue
		}

		limit := shop.Offset
		for other, offset := range offsets {
			if other != kind && offset > start && offset < limit {
				limit = offset
			}
		}

		// the garrison strg sits right under its header; the entry-scanned
		// sections also stop at any stray marker such as .temp
		end := limit
		if kind != Garrison {
			end = sectionEnd(buf, start, limit)
		}

		inventory.set(kind, normalize(parseSection(kind, buf, start, end)))
	}

	log.Debug().
		Str("shop", shop.ID).
		Int("offset", shop.Offset).
		Int("garrison", len(inventory.Garrison)).
		Int("items", len(inventory.Items)).
		Int("units", len(inventory.Units)).
		Int("spells", len(inventory.Spells)).
		Msg("[assembleShop] shop assembled")

	return inventory
}
