// Read queries for the list/detail endpoints named in spec.md §4.7. Each
// multi-row shape is built from a single ORDER-BY-primary-key query folded
// in memory (spec.md §9), rather than N+1 nested queries. The fold state
// machine compares primary keys by value (spec.md §9's "pointer-equality
// bug" note: the teacher compared a string against a *const char in C++
// with `==`; here it is a plain Go string comparison) and never flushes an
// accumulator for a zero-row result set.
package catalog

import (
	"database/sql"
	"fmt"
)

// sortWhitelist translates the tracks endpoint's comma-separated `sort`
// tokens into concrete SQL column lists, per spec.md §4.7.
var sortWhitelist = map[string][]string{
	"album_artist": {"al.ARTISTSORT"},
	"album_date":   {"al.YEAR", "al.MONTH", "al.DAY"},
	"album_title":  {"al.TITLE"},
	"track_number": {"t.DISCNUM", "t.TRACKNUM"},
	"track_title":  {"t.TITLE"},
	"track_artist": {"t.ARTISTSORT"},
}

// TranslateSort turns the whitelist-checked sort tokens into an ORDER BY
// clause body. Unknown tokens yield an error (400 at the HTTP layer).
// The result is always suffixed with the track-artist rank column so
// multi-artist grouping stays stable, per spec.md §4.7.
func TranslateSort(tokens []string) (string, error) {
	var cols []string
	for _, tok := range tokens {
		cs, ok := sortWhitelist[tok]
		if !ok {
			return "", fmt.Errorf("unknown sort token %q", tok)
		}
		cols = append(cols, cs...)
	}
	if len(cols) == 0 {
		cols = append(cols, sortWhitelist["track_title"]...)
	}
	cols = append(cols, "ta.RANK")
	out := cols[0]
	for _, c := range cols[1:] {
		out += ", " + c
	}
	return out, nil
}

// ListAlbums returns every album with its billed artists, folded from a
// single query ordered by album id.
func (c *Catalog) ListAlbums() ([]Album, error) {
	rows, err := c.db.Query(`
		SELECT al.ID, al.TITLE, al.ARTISTSORT, al.YEAR, al.MONTH, al.DAY,
		       COALESCE((SELECT COUNT(*) FROM TRACKS t2 WHERE t2.ALBUM = al.ID), 0),
		       COALESCE((SELECT SUM(t3.DURATION) FROM TRACKS t3 WHERE t3.ALBUM = al.ID), 0),
		       ar.ID, ar.NAME
		FROM ALBUMS al
		LEFT JOIN ALBUMARTISTS aa ON aa.ALBUM = al.ID
		LEFT JOIN ARTISTS ar ON ar.ID = aa.ARTIST
		ORDER BY al.ID, aa.RANK`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list albums: %w", err)
	}
	defer rows.Close()

	var out []Album
	var cur *Album
	var lastID string

	for rows.Next() {
		var (
			id, title, artistSort       string
			year, month, day, numTracks int
			durationMs                  int64
			artistID, artistName        sql.NullString
		)
		if err := rows.Scan(&id, &title, &artistSort, &year, &month, &day,
			&numTracks, &durationMs, &artistID, &artistName); err != nil {
			return nil, fmt.Errorf("catalog: scan album row: %w", err)
		}
		if cur == nil || id != lastID {
			if cur != nil {
				out = append(out, *cur)
			}
			cur = &Album{ID: id, Title: title, ArtistSort: artistSort,
				Year: year, Month: month, Day: day,
				NumTracks: numTracks, DurationMs: durationMs}
			lastID = id
		}
		if artistID.Valid {
			cur.Artists = append(cur.Artists, ArtistRef{ID: artistID.String, Name: artistName.String})
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out, rows.Err()
}

// AlbumDetail returns the album row (with billed artists) and its tracks
// (each with their track-artists), ordered by disc/track number.
func (c *Catalog) AlbumDetail(id string) (*Album, []Track, error) {
	var album *Album
	rows, err := c.db.Query(`
		SELECT al.ID, al.TITLE, al.ARTISTSORT, al.YEAR, al.MONTH, al.DAY, ar.ID, ar.NAME
		FROM ALBUMS al
		LEFT JOIN ALBUMARTISTS aa ON aa.ALBUM = al.ID
		LEFT JOIN ARTISTS ar ON ar.ID = aa.ARTIST
		WHERE al.ID = ?
		ORDER BY aa.RANK`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog: album detail: %w", err)
	}
	for rows.Next() {
		var (
			aID, title, artistSort string
			year, month, day       int
			artistID, artistName   sql.NullString
		)
		if err := rows.Scan(&aID, &title, &artistSort, &year, &month, &day, &artistID, &artistName); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("catalog: scan album detail row: %w", err)
		}
		if album == nil {
			album = &Album{ID: aID, Title: title, ArtistSort: artistSort, Year: year, Month: month, Day: day}
		}
		if artistID.Valid {
			album.Artists = append(album.Artists, ArtistRef{ID: artistID.String, Name: artistName.String})
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	if album == nil {
		return nil, nil, nil
	}

	tracks, err := c.tracksWhere("t.ALBUM = ?", []any{id}, "t.DISCNUM, t.TRACKNUM, ta.RANK")
	if err != nil {
		return nil, nil, err
	}
	return album, tracks, nil
}

// ListTracks returns every track with its track-artists, ordered per the
// whitelist-translated sort clause.
func (c *Catalog) ListTracks(orderBy string) ([]Track, error) {
	return c.tracksWhere("1=1", nil, orderBy)
}

func (c *Catalog) tracksWhere(where string, args []any, orderBy string) ([]Track, error) {
	query := fmt.Sprintf(`
		SELECT t.ID, t.DURATION, t.TITLE, t.DISCNUM, t.TRACKNUM, al.ID, al.TITLE, ar.ID, ar.NAME
		FROM TRACKS t
		JOIN ALBUMS al ON al.ID = t.ALBUM
		LEFT JOIN TRACKARTISTS ta ON ta.TRACK = t.ID
		LEFT JOIN ARTISTS ar ON ar.ID = ta.ARTIST
		WHERE %s
		ORDER BY %s`, where, orderBy)
	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: list tracks: %w", err)
	}
	defer rows.Close()

	var out []Track
	var cur *Track
	var lastID string

	for rows.Next() {
		var (
			id, title, albumID, albumTitle string
			durationMs, discNum, trackNum  int
			artistID, artistName           sql.NullString
		)
		if err := rows.Scan(&id, &durationMs, &title, &discNum, &trackNum,
			&albumID, &albumTitle, &artistID, &artistName); err != nil {
			return nil, fmt.Errorf("catalog: scan track row: %w", err)
		}
		if cur == nil || id != lastID {
			if cur != nil {
				out = append(out, *cur)
			}
			cur = &Track{ID: id, DurationMs: durationMs, Title: title,
				DiscNum: discNum, TrackNum: trackNum,
				AlbumID: albumID, AlbumTitle: albumTitle}
			lastID = id
		}
		if artistID.Valid {
			cur.Artists = append(cur.Artists, ArtistRef{ID: artistID.String, Name: artistName.String})
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out, rows.Err()
}

// ListArtists returns every artist with the albums they are billed on,
// the albums they merely appear on (track-artist only), and their total
// track count, per spec.md §4.7's billed-vs-appearance distinction.
func (c *Catalog) ListArtists() ([]Artist, error) {
	rows, err := c.db.Query(`
		SELECT a.ID, a.NAME, al.ID,
		       CASE WHEN aa.ARTIST IS NOT NULL THEN 1 ELSE 0 END AS billed
		FROM ARTISTS a
		LEFT JOIN (
			SELECT DISTINCT ta.ARTIST, t.ALBUM
			FROM TRACKARTISTS ta JOIN TRACKS t ON t.ID = ta.TRACK
			UNION
			SELECT DISTINCT aa2.ARTIST, aa2.ALBUM FROM ALBUMARTISTS aa2
		) al ON al.ARTIST = a.ID
		LEFT JOIN ALBUMARTISTS aa ON aa.ALBUM = al.ALBUM AND aa.ARTIST = a.ID
		ORDER BY a.ID, al.ALBUM`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list artists: %w", err)
	}
	defer rows.Close()

	var out []Artist
	var cur *Artist
	var lastID string
	seen := map[string]bool{}

	for rows.Next() {
		var id, name string
		var albumID sql.NullString
		var billed int
		if err := rows.Scan(&id, &name, &albumID, &billed); err != nil {
			return nil, fmt.Errorf("catalog: scan artist row: %w", err)
		}
		if cur == nil || id != lastID {
			if cur != nil {
				out = append(out, *cur)
			}
			cur = &Artist{ID: id, Name: name}
			lastID = id
			seen = map[string]bool{}
		}
		if albumID.Valid && !seen[albumID.String] {
			seen[albumID.String] = true
			if billed == 1 {
				cur.Albums = append(cur.Albums, albumID.String)
			} else {
				cur.Appearances = append(cur.Appearances, albumID.String)
			}
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts, err := c.artistTrackCounts()
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].TotalTracks = counts[out[i].ID]
	}
	return out, nil
}

func (c *Catalog) artistTrackCounts() (map[string]int, error) {
	rows, err := c.db.Query(`
		SELECT ARTIST, COUNT(DISTINCT TRACK) FROM TRACKARTISTS GROUP BY ARTIST`)
	if err != nil {
		return nil, fmt.Errorf("catalog: artist track counts: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}

// LatestModTime is provided by the scanner (root→instant map); the
// catalog package does not itself track modification times.
