package shops

// SectionKind is one of the four stock categories of a shop.
type SectionKind int

const (
	Garrison SectionKind = iota
	Items
	ShopUnits
	Spells
)

// SectionKinds lists every kind in the order sections appear before a shop.
var SectionKinds = []SectionKind{Garrison, Items, ShopUnits, Spells}

// markers that end a section when they appear after its start
var boundaryMarkers = [][]byte{
	[]byte(".items"),
	[]byte(".spells"),
	[]byte(".shopunits"),
	[]byte(".garrison"),
	[]byte(".temp"),
}

// Marker returns the ASCII marker that opens the section in the buffer.
func (kind SectionKind) Marker() []byte {
	switch kind {
	case Garrison:
		return []byte(".garrison")
	case Items:
		return []byte(".items")
	case ShopUnits:
		return []byte(".shopunits")
	case Spells:
		return []byte(".spells")
	}
	return nil
}

func (kind SectionKind) String() string {
	switch kind {
	case Garrison:
		return "garrison"
	case Items:
		return "items"
	case ShopUnits:
		return "units"
	case Spells:
		return "spells"
	}
	return "unknown"
}
