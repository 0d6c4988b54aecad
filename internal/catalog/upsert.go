package catalog

import (
	"database/sql"
	"fmt"
)

// Upserts holds the prepared statements the scanner retains for the
// lifetime of a single scan transaction, per spec.md §4.2 ("Prepared
// statements are retained per scan").
type Upserts struct {
	artist       *sql.Stmt
	album        *sql.Stmt
	track        *sql.Stmt
	trackArtist  *sql.Stmt
	albumArtist  *sql.Stmt
}

// PrepareUpserts prepares the artist/album/track/track-artist/album-artist
// upserts against tx. Artist/track-artist/album-artist use "do nothing on
// conflict"; album and track use "update all columns on conflict(id)", per
// spec.md §4.2.
func PrepareUpserts(tx *sql.Tx) (*Upserts, error) {
	u := &Upserts{}
	var err error

	u.artist, err = tx.Prepare(`
		INSERT INTO ARTISTS(ID, NAME) VALUES (?, ?)
		ON CONFLICT(ID) DO NOTHING`)
	if err != nil {
		return nil, fmt.Errorf("catalog: prepare artist upsert: %w", err)
	}

	u.album, err = tx.Prepare(`
		INSERT INTO ALBUMS(ID, TITLE, ARTISTSORT, COVERART, YEAR, MONTH, DAY)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ID) DO UPDATE SET
			TITLE=excluded.TITLE, ARTISTSORT=excluded.ARTISTSORT,
			COVERART=excluded.COVERART, YEAR=excluded.YEAR,
			MONTH=excluded.MONTH, DAY=excluded.DAY`)
	if err != nil {
		return nil, fmt.Errorf("catalog: prepare album upsert: %w", err)
	}

	u.track, err = tx.Prepare(`
		INSERT INTO TRACKS(ID, FORMAT, BITRATE, DURATION, TITLE, TRACKNUM, DISCNUM, ARTISTSORT, ALBUM, LOCATION)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ID) DO UPDATE SET
			FORMAT=excluded.FORMAT, BITRATE=excluded.BITRATE, DURATION=excluded.DURATION,
			TITLE=excluded.TITLE, TRACKNUM=excluded.TRACKNUM, DISCNUM=excluded.DISCNUM,
			ARTISTSORT=excluded.ARTISTSORT, ALBUM=excluded.ALBUM, LOCATION=excluded.LOCATION`)
	if err != nil {
		return nil, fmt.Errorf("catalog: prepare track upsert: %w", err)
	}

	u.trackArtist, err = tx.Prepare(`
		INSERT INTO TRACKARTISTS(TRACK, ARTIST, RANK) VALUES (?, ?, ?)
		ON CONFLICT(TRACK, ARTIST) DO NOTHING`)
	if err != nil {
		return nil, fmt.Errorf("catalog: prepare track-artist upsert: %w", err)
	}

	u.albumArtist, err = tx.Prepare(`
		INSERT INTO ALBUMARTISTS(ALBUM, ARTIST, RANK) VALUES (?, ?, ?)
		ON CONFLICT(ALBUM, ARTIST) DO NOTHING`)
	if err != nil {
		return nil, fmt.Errorf("catalog: prepare album-artist upsert: %w", err)
	}

	return u, nil
}

// Close releases all prepared statements.
func (u *Upserts) Close() {
	for _, stmt := range []*sql.Stmt{u.artist, u.album, u.track, u.trackArtist, u.albumArtist} {
		if stmt != nil {
			stmt.Close()
		}
	}
}

func (u *Upserts) Artist(id, name string) error {
	_, err := u.artist.Exec(id, name)
	return err
}

func (u *Upserts) Album(id, title, artistSort string, coverArt *string, year, month, day int) error {
	_, err := u.album.Exec(id, title, artistSort, coverArt, year, month, day)
	return err
}

func (u *Upserts) Track(id, format string, bitrate, durationMs int, title string, trackNum, discNum int, artistSort, albumID, location string) error {
	_, err := u.track.Exec(id, format, bitrate, durationMs, title, trackNum, discNum, artistSort, albumID, location)
	return err
}

func (u *Upserts) TrackArtist(track, artist string, rank int) error {
	_, err := u.trackArtist.Exec(track, artist, rank)
	return err
}

func (u *Upserts) AlbumArtist(album, artist string, rank int) error {
	_, err := u.albumArtist.Exec(album, artist, rank)
	return err
}
