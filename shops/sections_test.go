package shops

import "testing"

func TestLocateSectionNearestPreceding(t *testing.T) {
	var b saveBuilder
	far := b.Len()
	b.raw(".spells")
	b.pad(100)
	near := b.Len()
	b.raw(".spells")
	b.pad(100)
	shop := b.utf16("itext_m_zcom_1422")
	b.raw(".spells")

	offset, ok := LocateSection(b.Bytes(), Spells, shop, 0)
	if !ok {
		t.Fatalf("section not found")
	}
	if offset != near {
		t.Errorf("offset = %v, want %v (not %v)", offset, near, far)
	}

	if _, ok := LocateSection(b.Bytes(), Garrison, shop, 0); ok {
		t.Errorf("garrison found but none was written")
	}
}

func TestLocateSectionBoundedLookback(t *testing.T) {
	var b saveBuilder
	b.raw(".items")
	b.pad(Lookback)
	shop := b.utf16("itext_m_zcom_1422")

	if _, ok := LocateSection(b.Bytes(), Items, shop, 0); ok {
		t.Errorf("marker %v bytes before the shop was attributed to it", shop)
	}

	var edge saveBuilder
	edge.pad(2)
	at := edge.Len()
	edge.raw(".items")
	edge.pad(Lookback - len(".items"))
	edgeShop := edge.utf16("itext_m_zcom_1422")
	if edgeShop-at != Lookback {
		t.Fatalf("fixture distance = %v, want %v", edgeShop-at, Lookback)
	}

	offset, ok := LocateSection(edge.Bytes(), Items, edgeShop, 0)
	if !ok || offset != at {
		t.Errorf("marker exactly %v bytes back: got %v, %v; want %v, true", Lookback, offset, ok, at)
	}
}

func TestLocateSectionFloor(t *testing.T) {
	var b saveBuilder
	b.raw(".garrison")
	b.pad(50)
	previous := b.utf16("itext_m_orc_3")
	floor := b.Len()
	b.pad(50)
	shop := b.utf16("itext_m_zcom_1422")

	if _, ok := LocateSection(b.Bytes(), Garrison, shop, 0); !ok {
		t.Fatalf("without a floor the marker should be found")
	}
	if _, ok := LocateSection(b.Bytes(), Garrison, shop, floor); ok {
		t.Errorf("marker before the previous shop at %v was re-attributed", previous)
	}
}

func TestSectionEnd(t *testing.T) {
	var b saveBuilder
	start := b.Len()
	b.raw(".items")
	b.pad(40)
	temp := b.Len()
	b.raw(".temp")
	b.pad(40)
	limit := b.Len()

	if end := sectionEnd(b.Bytes(), start, limit); end != temp {
		t.Errorf("end = %v, want %v", end, temp)
	}
	if end := sectionEnd(b.Bytes(), start, temp-1); end != temp-1 {
		t.Errorf("end = %v, want limit %v", end, temp-1)
	}
	if end := sectionEnd(b.Bytes(), start, limit+100); end != temp {
		t.Errorf("end past buffer = %v, want %v", end, temp)
	}
}
