package slcb

import (
	"archive/zip"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %v: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write %v: %v", path, err)
	}
}

func writeArchive(t *testing.T, path string, files map[string][]byte) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip create %v: %v", name, err)
		}
		if _, err := f.Write(content); err != nil {
			t.Fatalf("zip write %v: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	writeFile(t, path, buf.Bytes())
}

func TestReadSlotFileDirectory(t *testing.T) {
	root := t.TempDir()
	slot := filepath.Join(root, "1707047253")
	writeFile(t, filepath.Join(slot, "data"), []byte("data-bytes"))
	writeFile(t, filepath.Join(slot, "saveinfo"), []byte("info-bytes"))

	data, err := ReadSlotFile(slot, DataFile)
	if err != nil {
		t.Fatalf("read data: %v", err)
	}
	if string(data) != "data-bytes" {
		t.Errorf("data = %q, want %q", data, "data-bytes")
	}

	info, err := ReadSlotFile(slot, InfoFile)
	if err != nil {
		t.Fatalf("read info: %v", err)
	}
	if string(info) != "info-bytes" {
		t.Errorf("info = %q, want %q", info, "info-bytes")
	}

	direct, err := ReadSlotFile(filepath.Join(slot, "data"), InfoFile)
	if err != nil {
		t.Fatalf("read direct: %v", err)
	}
	if string(direct) != "data-bytes" {
		t.Errorf("direct = %q, want %q", direct, "data-bytes")
	}
}

func TestReadSlotFileMissing(t *testing.T) {
	slot := t.TempDir()

	_, err := ReadSlotFile(slot, DataFile)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, want fs.ErrNotExist", err)
	}

	_, err = ReadSlotFile(filepath.Join(slot, "nope"), DataFile)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, want fs.ErrNotExist", err)
	}
}

func TestReadSlotFileArchive(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(root, "1707047300.sav")
	writeArchive(t, archive, map[string][]byte{
		"savedata": []byte("zipped-data"),
		"info":     []byte("zipped-info"),
	})

	data, err := ReadSlotFile(archive, DataFile)
	if err != nil {
		t.Fatalf("read data: %v", err)
	}
	if string(data) != "zipped-data" {
		t.Errorf("data = %q, want %q", data, "zipped-data")
	}

	info, err := ReadSlotFile(archive, InfoFile)
	if err != nil {
		t.Fatalf("read info: %v", err)
	}
	if string(info) != "zipped-info" {
		t.Errorf("info = %q, want %q", info, "zipped-info")
	}

	empty := filepath.Join(root, "1.sav")
	writeArchive(t, empty, map[string][]byte{"other": []byte("x")})
	if _, err := ReadSlotFile(empty, DataFile); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, want fs.ErrNotExist", err)
	}
}

func TestReadSlotFileArchiveTooLarge(t *testing.T) {
	root := t.TempDir()
	archive := filepath.Join(root, "2.sav")
	writeArchive(t, archive, map[string][]byte{
		"data": bytes.Repeat([]byte{0}, MaxArchiveSize+1),
	})

	if _, err := ReadSlotFile(archive, DataFile); err == nil {
		t.Errorf("expected error for oversized archive")
	}
}

func TestListSlots(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "1700000000", "data"), []byte("a"))
	writeFile(t, filepath.Join(root, "1700000200", "data"), []byte("b"))
	writeFile(t, filepath.Join(root, "notes", "data"), []byte("c"))
	writeFile(t, filepath.Join(root, "readme.txt"), []byte("d"))
	writeArchive(t, filepath.Join(root, "1700000100.sav"), map[string][]byte{"data": []byte("e")})

	slots, err := ListSlots(root, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"1700000200", "1700000100.sav", "1700000000"}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots, want %d: %+v", len(slots), len(want), slots)
	}
	for i, name := range want {
		if slots[i].Name != name {
			t.Errorf("slot %d = %v, want %v", i, slots[i].Name, name)
		}
	}

	limited, err := ListSlots(root, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited: got %d slots, want 2", len(limited))
	}

	found, err := FindSlot(root, "1700000100")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Name != "1700000100.sav" {
		t.Errorf("find = %v, want 1700000100.sav", found.Name)
	}
	if _, err := FindSlot(root, "42"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("find missing: got %v, want fs.ErrNotExist", err)
	}
}

func TestLatest(t *testing.T) {
	root := t.TempDir()
	older := filepath.Join(root, "1700000200")
	newer := filepath.Join(root, "1700000000")
	writeFile(t, filepath.Join(older, "data"), []byte("a"))
	writeFile(t, filepath.Join(newer, "data"), []byte("b"))

	past := time.Now().Add(-time.Hour)
	for _, path := range []string{filepath.Join(older, "data"), older} {
		if err := os.Chtimes(path, past, past); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	latest, err := Latest(root)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Name != "1700000000" {
		t.Errorf("latest = %v, want 1700000000", latest.Name)
	}

	// a container rewritten in place makes its slot the newest
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(filepath.Join(older, "data"), future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	latest, err = Latest(root)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Name != filepath.Base(older) {
		t.Errorf("latest = %v, want %v", latest.Name, filepath.Base(older))
	}

	if _, err := Latest(t.TempDir()); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("empty root: got %v, want fs.ErrNotExist", err)
	}
}
