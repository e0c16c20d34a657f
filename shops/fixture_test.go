package shops

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// saveBuilder writes synthetic save buffers laid out like the game's.
type saveBuilder struct {
	bytes.Buffer
}

func (b *saveBuilder) raw(s string) {
	b.WriteString(s)
}

func (b *saveBuilder) u32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.Write(tmp[:])
}

// lstr writes a uint32 length-prefixed ASCII string.
func (b *saveBuilder) lstr(s string) {
	b.u32(uint32(len(s)))
	b.raw(s)
}

func (b *saveBuilder) pad(n int) {
	b.Write(make([]byte, n))
}

func (b *saveBuilder) align() {
	if b.Len()%2 != 0 {
		b.WriteByte(0)
	}
}

// utf16 writes s as UTF-16LE at an even offset and returns that offset.
func (b *saveBuilder) utf16(s string) int {
	b.align()
	offset := b.Len()
	for _, r := range s {
		b.WriteByte(byte(r))
		b.WriteByte(0)
	}
	return offset
}

type fixtureItem struct {
	name string
	slot int
	qty  uint32
}

type fixtureShop struct {
	token    string
	garrison []InventoryEntry
	items    []fixtureItem
	units    []InventoryEntry
	spells   []InventoryEntry
}

func slashContent(entries []InventoryEntry) string {
	parts := make([]string, 0, 2*len(entries))
	for _, entry := range entries {
		parts = append(parts, entry.Name, fmt.Sprint(entry.Quantity))
	}
	return strings.Join(parts, "/")
}

// writeShop writes the four sections followed by the shop token and returns
// the token offset. Empty sections are left out entirely.
func (b *saveBuilder) writeShop(shop fixtureShop) int {
	if len(shop.garrison) > 0 {
		b.raw(".garrison")
		b.lstr("flags")
		b.raw("strg")
		b.lstr(slashContent(shop.garrison))
		b.pad(16)
	}

	if len(shop.items) > 0 {
		b.raw(".items")
		for _, item := range shop.items {
			b.lstr(item.name)
			b.lstr("count")
			b.u32(1)
			b.lstr("slruck")
			b.lstr(fmt.Sprintf("%d,%d", item.slot, item.qty))
			b.pad(3)
		}
		b.pad(32)
	}

	if len(shop.units) > 0 {
		b.raw(".shopunits")
		b.pad(4)
		b.raw("strg")
		b.lstr(slashContent(shop.units))
		b.pad(16)
	}

	if len(shop.spells) > 0 {
		b.raw(".spells")
		for _, spell := range shop.spells {
			b.lstr(spell.Name)
			b.u32(spell.Quantity)
		}
		b.pad(32)
	}

	offset := b.utf16(shop.token)
	b.pad(8)
	return offset
}

// referenceShop mirrors the stock of m_zcom_1422 in the sample save.
func referenceShop() fixtureShop {
	garrison := []InventoryEntry{
		{"dread_eye", 53},
		{"cyclop", 27},
		{"gargoyle", 159},
	}

	itemNames := []string{
		"addon4_dwarf_shield_generator",
		"addon4_dwarf_simple_belt",
		"addon4_elf_bird_armor",
		"addon4_elf_botanic_book",
		"addon4_elf_fairy_amulet",
		"addon4_human_life_cup",
		"dragon_heart",
		"exorcist_necklace",
		"fire_master_braces",
		"moon_sword",
		"tournament_helm",
	}
	items := make([]fixtureItem, 0, len(itemNames))
	for i, name := range itemNames {
		items = append(items, fixtureItem{name: name, slot: i, qty: 1})
	}

	units := []InventoryEntry{
		{"dark_ethereal", 8273}, {"dark_priest", 1220}, {"dark_bowman", 696},
		{"icemage", 3204}, {"dark_horseman", 50}, {"dark_sprite", 8800},
		{"dark_dryad", 1375}, {"dark_elf", 2849}, {"dark_druid", 2896},
		{"dark_ent", 552}, {"dark_blacksmith", 35875}, {"dark_miner", 17641},
		{"dark_dwarf", 1394}, {"dark_ingeneer", 2629}, {"dark_alchemist", 857},
		{"dark_peasant", 28000}, {"dark_footman2", 300}, {"dark_archmage", 1150},
		{"dark_sprite_lake", 28000}, {"dark_satyr", 16500}, {"dark_werewolf", 1300},
		{"dark_elf2", 100}, {"dark_cannoner", 422}, {"dark_priest2", 2500},
		{"dark_powerman", 250}, {"dark_runemage", 140}, {"dark_unicorn", 800},
		{"dark_hawk", 110}, {"dark_runemaster", 1000}, {"dark_underguard", 750},
		{"dark_giant", 140}, {"dark_priestes", 6000}, {"dark_clown", 1000},
		{"dark_knight", 300}, {"dark_unicorn_runic", 300}, {"dark_ent2", 30},
		{"dark_footman", 10000}, {"dark_paladin", 500}, {"dark_elf3", 500},
	}

	spells := []InventoryEntry{
		{"spell_blind", 1}, {"spell_chaos_coagulate", 2}, {"spell_cold_grasp", 2},
		{"spell_defenseless", 1}, {"spell_demonologist", 1}, {"spell_desintegration", 4},
		{"spell_dispell", 4}, {"spell_dragon_arrow", 2}, {"spell_empathy", 4},
		{"spell_fire_breath", 3}, {"spell_fire_shield", 1}, {"spell_ghost_sword", 2},
		{"spell_gold_rush", 4}, {"spell_healing", 6}, {"spell_holy_rain", 1},
		{"spell_horde_totem", 1}, {"spell_kamikaze", 2}, {"spell_life_stealer", 2},
		{"spell_lull", 7}, {"spell_magic_source", 2}, {"spell_mine_field", 2},
		{"spell_pain_mirror", 2}, {"spell_plague", 1}, {"spell_raise_dead", 3},
		{"spell_revival", 2}, {"spell_scare", 3}, {"spell_shifted_time", 2},
		{"spell_slow", 1}, {"spell_undertaker", 3}, {"spell_wasp_swarm", 1},
	}

	return fixtureShop{
		token:    "itext_m_zcom_1422",
		garrison: garrison,
		items:    items,
		units:    units,
		spells:   spells,
	}
}
