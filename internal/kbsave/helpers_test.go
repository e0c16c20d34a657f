package kbsave

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"github.com/ptolstoi/kbsave/slcb"
)

type testSave struct {
	bytes.Buffer
}

func (b *testSave) u32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.Write(tmp[:])
}

func (b *testSave) pad(n int) {
	b.Write(make([]byte, n))
}

func (b *testSave) units(s string) {
	for _, unit := range utf16.Encode([]rune(s)) {
		b.WriteByte(byte(unit))
		b.WriteByte(byte(unit >> 8))
	}
}

// utf16 writes s at the next even offset, where shop tokens live.
func (b *testSave) utf16(s string) {
	if b.Len()%2 != 0 {
		b.WriteByte(0)
	}
	b.units(s)
}

func (b *testSave) spells(token string, name string, quantity uint32) {
	b.WriteString(".spells")
	b.u32(uint32(len(name)))
	b.WriteString(name)
	b.u32(quantity)
	b.pad(32)
	b.utf16(token)
	b.pad(8)
}

func (b *testSave) field(marker string, value string) {
	b.WriteString(marker)
	b.u32(uint32(len(utf16.Encode([]rune(value)))))
	b.units(value)
	b.pad(4)
}

// sampleSave is a data container with two shops and a hero called
// Неолина Очаровательная.
func sampleSave(t *testing.T) []byte {
	t.Helper()

	var b testSave
	b.pad(16)
	b.spells("itext_m_orc_3", "spell_haste", 3)
	b.pad(40)
	b.spells("itext_m_zcom_1422", "spell_slow", 2)
	b.pad(40)
	b.field("name", "Неолина")
	b.field("nickname", "Очаровательная")

	container, err := slcb.Compress(b.Bytes())
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	return container
}

func writeSlot(t *testing.T, root string, name string, data []byte) string {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func newTestApp(t *testing.T, root string) *app {
	t.Helper()

	config := DefaultConfig()
	config.SavesRoot = root
	config.CachePath = filepath.Join(t.TempDir(), "cache.db")

	app, err := newApp(config)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}
