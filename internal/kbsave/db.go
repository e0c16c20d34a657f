package kbsave

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

type scanKind string

const (
	shopsScan    scanKind = "shops"
	campaignScan scanKind = "campaign"
)

// cachedScan is the JSON result of one scan of a slot. It is valid for as
// long as the slot's modification time is lastModified.
type cachedScan struct {
	slot         string
	kind         scanKind
	lastModified time.Time
	content      []byte
}

func (app *app) initDB(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open cache %v: %w", path, err)
	}

	// the autoscanner and requests share the file
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS
			scans
		(
			slot TEXT NOT NULL,
			lastModified TEXT,
			kind TEXT,
			content BLOB,

			CONSTRAINT slot_kind UNIQUE (slot, kind)
		)
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("create cache table: %w", err)
	}

	app.db = db
	return nil
}

// getScanFromCache returns the cached scan, or nil when there is none for the
// slot's current modification time.
func (app *app) getScanFromCache(slot string, kind scanKind, modTime time.Time) (*cachedScan, error) {
	log.Debug().Str("slot", slot).Str("kind", string(kind)).Msg("[getScanFromCache] lookup")

	row := app.db.QueryRow(`
	SELECT
		slot,
		lastModified,
		kind,
		content
	FROM
		scans
	WHERE
		slot = ? AND kind = ?`, slot, string(kind))

	scan := cachedScan{}
	var lastModified, scannedKind string

	err := row.Scan(
		&scan.slot,
		&lastModified,
		&scannedKind,
		&scan.content,
	)
	if err == sql.ErrNoRows {
		log.Debug().Str("slot", slot).Str("kind", string(kind)).Msg("[getScanFromCache] not found")
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	scan.kind = scanKind(scannedKind)

	scan.lastModified, err = time.Parse(time.RFC1123Z, lastModified)
	if err != nil {
		return nil, err
	}

	if lastModified != formatModTime(modTime) {
		log.Debug().Str("slot", slot).Time("cached", scan.lastModified).Time("current", modTime).
			Msg("[getScanFromCache] stale")
		return nil, nil
	}

	return &scan, nil
}

func (app *app) saveScanToCache(scan *cachedScan) error {
	log.Debug().Str("slot", scan.slot).Str("kind", string(scan.kind)).Int("bytes", len(scan.content)).
		Msg("[saveScanToCache] storing")

	_, err := app.db.Exec(`
		INSERT OR REPLACE INTO
			scans
				(
					slot, lastModified, kind, content
				)
		VALUES
				(?, ?, ?, ?)
	`, scan.slot, formatModTime(scan.lastModified), string(scan.kind), scan.content)

	return err
}

func formatModTime(modTime time.Time) string {
	return modTime.UTC().Format(time.RFC1123Z)
}

func (app *app) closeDB() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}
