// Package catalog owns the relational schema described in spec.md §3: a
// row per artist/album/track/playlist plus the join tables that carry
// multi-artist rank ordering. Grounded on internal/db/db.go's Connect/
// Migrate shape (teacher) and other_examples/59caf694_anyuan-chen-splitter's
// sql.Open("sqlite3", ...) + inline schema idiom, generalized to the
// per-handle-open-per-operation model spec.md §4.2 requires.
package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	"surfmt/internal/logging"
)

const schemaVersion = 1

const schemaDDL = `
CREATE TABLE IF NOT EXISTS ARTISTS (
	ID   TEXT PRIMARY KEY,
	NAME TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ALBUMS (
	ID          TEXT PRIMARY KEY,
	TITLE       TEXT NOT NULL,
	ARTISTSORT  TEXT NOT NULL,
	COVERART    TEXT,
	YEAR        INTEGER NOT NULL DEFAULT 0,
	MONTH       INTEGER NOT NULL DEFAULT 0,
	DAY         INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS TRACKS (
	ID         TEXT PRIMARY KEY,
	FORMAT     TEXT NOT NULL,
	BITRATE    INTEGER NOT NULL DEFAULT 0,
	DURATION   INTEGER NOT NULL DEFAULT 0,
	TITLE      TEXT NOT NULL,
	TRACKNUM   INTEGER NOT NULL DEFAULT 0,
	DISCNUM    INTEGER NOT NULL DEFAULT 0,
	ARTISTSORT TEXT NOT NULL,
	ALBUM      TEXT NOT NULL REFERENCES ALBUMS(ID),
	LOCATION   TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS TRACKARTISTS (
	TRACK  TEXT NOT NULL REFERENCES TRACKS(ID),
	ARTIST TEXT NOT NULL REFERENCES ARTISTS(ID),
	RANK   INTEGER NOT NULL,
	UNIQUE(TRACK, ARTIST)
);

CREATE TABLE IF NOT EXISTS ALBUMARTISTS (
	ALBUM  TEXT NOT NULL REFERENCES ALBUMS(ID),
	ARTIST TEXT NOT NULL REFERENCES ARTISTS(ID),
	RANK   INTEGER NOT NULL,
	UNIQUE(ALBUM, ARTIST)
);

CREATE TABLE IF NOT EXISTS PLAYLISTS (
	ID   TEXT PRIMARY KEY,
	NAME TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS PLAYLISTTRACKS (
	PLAYLIST TEXT NOT NULL REFERENCES PLAYLISTS(ID) ON DELETE CASCADE,
	RANK     INTEGER NOT NULL,
	TRACK    TEXT NOT NULL REFERENCES TRACKS(ID),
	UNIQUE(PLAYLIST, RANK)
);

CREATE TABLE IF NOT EXISTS META (
	SCHEMAVERSION INTEGER NOT NULL
);
`

// Catalog owns one *sql.DB handle. Per spec.md §4.2/§9, callers open a
// fresh Catalog per request or per scan rather than sharing a handle, to
// exploit SQLite's intra-process parallelism.
type Catalog struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at path, applies the pragmas spec.md
// §4.2 names, ensures the schema exists, and seeds/validates the meta row.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	if _, err := db.Exec(`PRAGMA synchronous=OFF; PRAGMA journal_mode=MEMORY;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: pragma: %w", err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: schema: %w", err)
	}
	c := &Catalog{db: db, path: path}
	if err := c.ensureMetaRow(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Catalog) ensureMetaRow() error {
	var count int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM META`).Scan(&count); err != nil {
		return fmt.Errorf("catalog: meta count: %w", err)
	}
	if count == 0 {
		if _, err := c.db.Exec(`INSERT INTO META(SCHEMAVERSION) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("catalog: seed meta: %w", err)
		}
	}
	return nil
}

// SchemaVersion returns the META.SCHEMAVERSION value.
func (c *Catalog) SchemaVersion() (int, error) {
	var v int
	err := c.db.QueryRow(`SELECT SCHEMAVERSION FROM META LIMIT 1`).Scan(&v)
	return v, err
}

// DB exposes the underlying handle for packages that need a raw query
// (read handlers, search).
func (c *Catalog) DB() *sql.DB { return c.db }

// Close releases the underlying handle.
func (c *Catalog) Close() error { return c.db.Close() }

// Begin starts a transaction. The scanner wraps an entire scan in one
// transaction per spec.md §4.3: "without a transaction the store is
// orders of magnitude slower."
func (c *Catalog) Begin() (*sql.Tx, error) {
	return c.db.Begin()
}

// IsBusy reports whether err is SQLite's "database is busy" condition,
// which spec.md §4.2 says must be retried indefinitely rather than
// surfaced as an error.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	// mattn/go-sqlite3 surfaces SQLITE_BUSY as a *sqlite3.Error whose
	// string form contains "database is locked"/"busy"; matching on the
	// message lets callers decide retry without importing the driver
	// package just for its error type.
	msg := err.Error()
	return containsAny(msg, "database is locked", "database is busy", "SQLITE_BUSY")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// RetryBusy runs fn, retrying indefinitely while it fails with a busy
// error, per spec.md §4.2's busy-step policy. A non-busy error is
// returned immediately (a fatal programmer error per spec.md §4.2 for
// "misuse" conditions, or a propagated CatalogError for everything else).
func RetryBusy(fn func() error) error {
	for {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsBusy(err) {
			return err
		}
		logging.Debugf("catalog: busy, retrying")
	}
}
