// Package scanner walks a media root, extracts tags for every eligible
// file, and upserts the result into the catalog within a single
// transaction, per spec.md §4.3. Grounded on the teacher's
// internal/scanner/scanner.go WalkDir idiom (symlink-following directory
// walk, permission-error tolerance), narrowed from its concurrent
// multi-media-type pipeline to the spec's single-pass, single-transaction
// music scan.
package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"surfmt/internal/apperr"
	"surfmt/internal/catalog"
	"surfmt/internal/logging"
	"surfmt/internal/tagging"
)

const dbFileName = "surfmt.db"

// Scanner records, per scanned root, the instant the scan finished, so
// the HTTP layer's conditional-GET can compare against
// "latest_mod_time" without re-touching the catalog.
type Scanner struct {
	mu       sync.RWMutex
	modTimes map[string]time.Time
}

func New() *Scanner {
	return &Scanner{modTimes: make(map[string]time.Time)}
}

// LatestModTime returns the maximum recorded scan instant over all
// roots scanned so far, per spec.md §4.3. The zero Time if no scan has
// completed yet.
func (s *Scanner) LatestModTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest time.Time
	for _, t := range s.modTimes {
		if t.After(latest) {
			latest = t
		}
	}
	return latest
}

// Scan canonicalizes root, walks its tree, tags every eligible file, and
// upserts the catalog within a single transaction (spec.md §4.3:
// "without a transaction the store is orders of magnitude slower").
// Extractor failures and invariant mismatches are logged and the file is
// skipped; a SQL error during upsert is fatal and aborts the whole scan.
func (s *Scanner) Scan(cat *catalog.Catalog, root string) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return apperr.IOError("resolve scan root", err)
	}

	tx, err := cat.Begin()
	if err != nil {
		return apperr.CatalogError("begin scan transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	up, err := catalog.PrepareUpserts(tx)
	if err != nil {
		return apperr.CatalogError("prepare upserts", err)
	}
	defer up.Close()

	visited := map[string]bool{}
	var walkFn filepath.WalkFunc
	walkFn = func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Permission-denied or transient stat errors are skipped, not
			// fatal, per spec.md §4.3.
			return nil
		}
		if info.Mode()&os.ModeSymlink != 0 {
			// filepath.Walk does not descend into a symlinked directory by
			// itself: walk its target, with visited guarding against loops.
			if target, serr := os.Stat(path); serr == nil && target.IsDir() {
				real, everr := filepath.EvalSymlinks(path)
				if everr != nil {
					return nil
				}
				return filepath.Walk(real, walkFn)
			}
		}
		if info.IsDir() {
			real, everr := filepath.EvalSymlinks(path)
			if everr != nil {
				return nil
			}
			if visited[real] {
				return filepath.SkipDir
			}
			visited[real] = true
			return nil
		}

		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") || base == dbFileName {
			return nil
		}

		if err := ingestFile(up, path); err != nil {
			if apperr.As(err) == apperr.KindCatalogError {
				return err
			}
			logging.Warnf("scanner: skip %s: %v", path, err)
		}
		return nil
	}
	walkErr := filepath.Walk(root, walkFn)
	if walkErr != nil {
		return walkErr
	}

	if err := tx.Commit(); err != nil {
		return apperr.CatalogError("commit scan transaction", err)
	}
	committed = true

	s.mu.Lock()
	s.modTimes[root] = time.Now()
	s.mu.Unlock()
	return nil
}

// ingestFile extracts tags for one file and upserts the catalog rows
// spec.md §4.3 lists, in order: artists, album, track, album-artist
// ranks, track-artist ranks.
func ingestFile(up *catalog.Upserts, path string) error {
	t, err := tagging.Extract(path)
	if err != nil {
		return err
	}

	aIDs := artistIDs(t.ArtistNames, t.ArtistIDs)
	aaIDs := artistIDs(t.AlbumArtistNames, t.AlbumArtistIDs)
	if len(aIDs) != len(t.ArtistNames) || len(aaIDs) != len(t.AlbumArtistNames) {
		// Invariant 4: a MusicBrainz id tag that tokenizes to a different
		// count than the corresponding names list skips the file, matching
		// mediascan.cpp's scan_file artist_uuid_mismatch/album_artist_uuid_mismatch guards.
		return apperr.TagError("ingest", nil)
	}

	trkID, err := trackID(path, t)
	if err != nil {
		return apperr.IOError("hash track content", err)
	}
	alID := albumID(t)
	artistSort := joinNames(t.ArtistNames)
	albumArtistSort := joinNames(t.AlbumArtistNames)

	for i, name := range t.ArtistNames {
		if err := up.Artist(aIDs[i], name); err != nil {
			return apperr.CatalogError("upsert artist", err)
		}
	}
	for i, name := range t.AlbumArtistNames {
		if err := up.Artist(aaIDs[i], name); err != nil {
			return apperr.CatalogError("upsert album artist", err)
		}
	}

	var coverArt *string
	if t.CoverArtPath != "" {
		coverArt = &t.CoverArtPath
	}
	if err := up.Album(alID, t.AlbumTitle, albumArtistSort, coverArt, t.Year, t.Month, t.Day); err != nil {
		return apperr.CatalogError("upsert album", err)
	}

	if err := up.Track(trkID, t.Format, t.Bitrate, t.DurationMs, t.Title, t.TrackNum, t.DiscNum, artistSort, alID, path); err != nil {
		return apperr.CatalogError("upsert track", err)
	}

	for i, id := range aaIDs {
		if err := up.AlbumArtist(alID, id, i+1); err != nil {
			return apperr.CatalogError("upsert album-artist rank", err)
		}
	}
	for i, id := range aIDs {
		if err := up.TrackArtist(trkID, id, i+1); err != nil {
			return apperr.CatalogError("upsert track-artist rank", err)
		}
	}

	return nil
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
