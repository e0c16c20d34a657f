package slcb

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FileKind selects which container of a save slot to read.
type FileKind int

const (
	DataFile FileKind = iota
	InfoFile
)

// MaxArchiveSize caps the total uncompressed size of a .sav archive.
const MaxArchiveSize = 10 * 1024 * 1024

const archiveExt = ".sav"

func (kind FileKind) names() []string {
	if kind == InfoFile {
		return []string{"info", "saveinfo"}
	}
	return []string{"data", "savedata"}
}

func (kind FileKind) String() string {
	if kind == InfoFile {
		return "info"
	}
	return "data"
}

// Slot is one save slot under a game's save directory.
type Slot struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Timestamp int64     `json:"timestamp"`
	ModTime   time.Time `json:"modTime"`
}

// ReadSlotFile returns the raw container bytes of the given kind. path is a
// slot directory, a .sav archive or the container file itself.
func ReadSlotFile(path string, kind FileKind) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if strings.EqualFold(filepath.Ext(path), archiveExt) {
			return readFromArchive(path, kind)
		}
		return os.ReadFile(path)
	}

	for _, name := range kind.names() {
		data, err := os.ReadFile(filepath.Join(path, name))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%v file in %v: %w", kind, path, fs.ErrNotExist)
}

func readFromArchive(path string, kind FileKind) ([]byte, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %v: %w", path, err)
	}
	defer archive.Close()

	var total uint64
	for _, entry := range archive.File {
		total += entry.UncompressedSize64
	}
	if total > MaxArchiveSize {
		return nil, fmt.Errorf("archive %v too large: %v bytes (max %v)", path, total, MaxArchiveSize)
	}

	for _, name := range kind.names() {
		for _, entry := range archive.File {
			if entry.Name != name {
				continue
			}

			reader, err := entry.Open()
			if err != nil {
				return nil, fmt.Errorf("open %v in %v: %w", name, path, err)
			}
			data, err := io.ReadAll(io.LimitReader(reader, MaxArchiveSize))
			_ = reader.Close()
			if err != nil {
				return nil, fmt.Errorf("read %v in %v: %w", name, path, err)
			}
			return data, nil
		}
	}

	return nil, fmt.Errorf("%v file in archive %v: %w", kind, path, fs.ErrNotExist)
}

// ListSlots lists the save slots under root, newest timestamp first. Slots
// are numeric directories (unix timestamps) or .sav archives. limit <= 0
// returns all of them.
func ListSlots(root string, limit int) ([]Slot, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	slots := make([]Slot, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		stem := name
		if !entry.IsDir() {
			if !strings.EqualFold(filepath.Ext(name), archiveExt) {
				continue
			}
			stem = strings.TrimSuffix(name, filepath.Ext(name))
		}

		timestamp, err := strconv.ParseInt(stem, 10, 64)
		if err != nil {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(root, name)
		modTime := info.ModTime()
		if entry.IsDir() {
			modTime = newestModTime(path, modTime)
		}

		slots = append(slots, Slot{
			Name:      name,
			Path:      path,
			Timestamp: timestamp,
			ModTime:   modTime,
		})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Timestamp != slots[j].Timestamp {
			return slots[i].Timestamp > slots[j].Timestamp
		}
		return slots[i].Name < slots[j].Name
	})

	if limit > 0 && len(slots) > limit {
		slots = slots[:limit]
	}

	return slots, nil
}

// newestModTime looks at the containers inside a slot directory; the game
// rewrites them in place, which leaves the directory's own time alone.
func newestModTime(dir string, modTime time.Time) time.Time {
	for _, kind := range []FileKind{DataFile, InfoFile} {
		for _, name := range kind.names() {
			info, err := os.Stat(filepath.Join(dir, name))
			if err == nil && info.ModTime().After(modTime) {
				modTime = info.ModTime()
			}
		}
	}
	return modTime
}

// FindSlot returns the slot called name under root.
func FindSlot(root string, name string) (Slot, error) {
	slots, err := ListSlots(root, 0)
	if err != nil {
		return Slot{}, err
	}
	for _, slot := range slots {
		if slot.Name == name || strings.TrimSuffix(slot.Name, archiveExt) == name {
			return slot, nil
		}
	}
	return Slot{}, fmt.Errorf("slot %v: %w", name, fs.ErrNotExist)
}

// Latest returns the most recently modified slot under root.
func Latest(root string) (Slot, error) {
	slots, err := ListSlots(root, 0)
	if err != nil {
		return Slot{}, err
	}
	if len(slots) == 0 {
		return Slot{}, fmt.Errorf("no save slots in %v: %w", root, fs.ErrNotExist)
	}

	latest := slots[0]
	for _, slot := range slots[1:] {
		if slot.ModTime.After(latest.ModTime) {
			latest = slot
		}
	}
	return latest, nil
}
