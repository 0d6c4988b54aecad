package catalog

import (
	"database/sql"
	"fmt"
)

// ListPlaylists returns every playlist's id/name (no tracks).
func (c *Catalog) ListPlaylists() ([]Playlist, error) {
	rows, err := c.db.Query(`SELECT ID, NAME FROM PLAYLISTS ORDER BY ID`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list playlists: %w", err)
	}
	defer rows.Close()

	var out []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PlaylistDetail returns a playlist's name and its tracks in rank order.
// Returns (nil, nil) if the playlist does not exist.
func (c *Catalog) PlaylistDetail(id string) (*Playlist, error) {
	var name string
	err := c.db.QueryRow(`SELECT NAME FROM PLAYLISTS WHERE ID = ?`, id).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: playlist detail: %w", err)
	}

	rows, err := c.db.Query(`
		SELECT t.ID, t.DURATION, t.TITLE, t.DISCNUM, t.TRACKNUM, al.ID, al.TITLE,
		       ar.ID, ar.NAME
		FROM PLAYLISTTRACKS pt
		JOIN TRACKS t ON t.ID = pt.TRACK
		JOIN ALBUMS al ON al.ID = t.ALBUM
		LEFT JOIN TRACKARTISTS ta ON ta.TRACK = t.ID
		LEFT JOIN ARTISTS ar ON ar.ID = ta.ARTIST
		WHERE pt.PLAYLIST = ?
		ORDER BY pt.RANK, ta.RANK`, id)
	if err != nil {
		return nil, fmt.Errorf("catalog: playlist tracks: %w", err)
	}
	defer rows.Close()

	p := &Playlist{ID: id, Name: name}
	var cur *Track
	var lastID string
	for rows.Next() {
		var (
			tID, title, albumID, albumTitle string
			durationMs, discNum, trackNum   int
			artistID, artistName            sql.NullString
		)
		if err := rows.Scan(&tID, &durationMs, &title, &discNum, &trackNum,
			&albumID, &albumTitle, &artistID, &artistName); err != nil {
			return nil, fmt.Errorf("catalog: scan playlist track row: %w", err)
		}
		if cur == nil || tID != lastID {
			if cur != nil {
				p.Tracks = append(p.Tracks, *cur)
			}
			cur = &Track{ID: tID, DurationMs: durationMs, Title: title,
				DiscNum: discNum, TrackNum: trackNum, AlbumID: albumID, AlbumTitle: albumTitle}
			lastID = tID
		}
		if artistID.Valid {
			cur.Artists = append(cur.Artists, ArtistRef{ID: artistID.String, Name: artistName.String})
		}
	}
	if cur != nil {
		p.Tracks = append(p.Tracks, *cur)
	}
	return p, rows.Err()
}

// ReplacePlaylist implements the PUT /api/v1/plist/{id} semantics of
// spec.md §4.7: delete existing rows, optionally rename, then insert a
// row per trackID with rank 1..N. Per spec.md §9's "Playlist replace
// atomicity" note, the delete-then-insert pair is wrapped in a single
// transaction here (the source did not, and a concurrent reader could
// observe an empty playlist as a result).
func (c *Catalog) ReplacePlaylist(id string, name *string, trackIDs []string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("catalog: replace playlist begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM PLAYLISTTRACKS WHERE PLAYLIST = ?`, id); err != nil {
		return fmt.Errorf("catalog: delete playlist tracks: %w", err)
	}

	if name != nil {
		if _, err := tx.Exec(`
			INSERT INTO PLAYLISTS(ID, NAME) VALUES (?, ?)
			ON CONFLICT(ID) DO UPDATE SET NAME = excluded.NAME`, id, *name); err != nil {
			return fmt.Errorf("catalog: upsert playlist: %w", err)
		}
	} else {
		if _, err := tx.Exec(`
			INSERT INTO PLAYLISTS(ID, NAME) VALUES (?, ?)
			ON CONFLICT(ID) DO NOTHING`, id, id); err != nil {
			return fmt.Errorf("catalog: insert playlist: %w", err)
		}
	}

	stmt, err := tx.Prepare(`INSERT INTO PLAYLISTTRACKS(PLAYLIST, RANK, TRACK) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("catalog: prepare playlist-track insert: %w", err)
	}
	defer stmt.Close()

	for i, trackID := range trackIDs {
		if _, err := stmt.Exec(id, i+1, trackID); err != nil {
			return fmt.Errorf("catalog: insert playlist track %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// DeletePlaylist deletes a playlist's tracks then the playlist row itself,
// per spec.md §4.7.
func (c *Catalog) DeletePlaylist(id string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("catalog: delete playlist begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM PLAYLISTTRACKS WHERE PLAYLIST = ?`, id); err != nil {
		return fmt.Errorf("catalog: delete playlist tracks: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM PLAYLISTS WHERE ID = ?`, id); err != nil {
		return fmt.Errorf("catalog: delete playlist: %w", err)
	}
	return tx.Commit()
}

// TrackLocation returns a track's file location, for the stream handler's
// cache-miss path. Returns ("", false) if the track id is unknown.
func (c *Catalog) TrackLocation(trackID string) (string, bool, error) {
	var loc string
	err := c.db.QueryRow(`SELECT LOCATION FROM TRACKS WHERE ID = ?`, trackID).Scan(&loc)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("catalog: track location: %w", err)
	}
	return loc, true, nil
}

// CoverArtPath returns an album's cover art file path, or ("", false) if
// none was recorded.
func (c *Catalog) CoverArtPath(albumID string) (string, bool, error) {
	var path sql.NullString
	err := c.db.QueryRow(`SELECT COVERART FROM ALBUMS WHERE ID = ?`, albumID).Scan(&path)
	if err == sql.ErrNoRows || !path.Valid {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("catalog: cover art path: %w", err)
	}
	return path.String, path.String != "", nil
}
