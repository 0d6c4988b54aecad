package api

import "surfmt/internal/catalog"

// artistRefJSON is the {uuid,name} pair attached to albums and tracks,
// per spec.md §6.
type artistRefJSON struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

func artistRefsJSON(refs []catalog.ArtistRef) []artistRefJSON {
	out := make([]artistRefJSON, 0, len(refs))
	for _, r := range refs {
		out = append(out, artistRefJSON{UUID: r.ID, Name: r.Name})
	}
	return out
}

// albumListJSON is one row of GET /api/v1/albums.
type albumListJSON struct {
	UUID          string          `json:"uuid"`
	Title         string          `json:"title"`
	ArtistSort    string          `json:"artist_sort"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	Day           int             `json:"day"`
	NumTracks     int             `json:"num_tracks"`
	TotalDuration float64         `json:"total_duration"`
	Artists       []artistRefJSON `json:"artists"`
}

func albumListFromCatalog(a catalog.Album) albumListJSON {
	return albumListJSON{
		UUID:          a.ID,
		Title:         a.Title,
		ArtistSort:    a.ArtistSort,
		Year:          a.Year,
		Month:         a.Month,
		Day:           a.Day,
		NumTracks:     a.NumTracks,
		TotalDuration: float64(a.DurationMs) / 60000,
		Artists:       artistRefsJSON(a.Artists),
	}
}

// albumTrackJSON is a track nested under an album-detail response: it
// omits the album back-reference since the parent object already names it.
type albumTrackJSON struct {
	UUID    string          `json:"uuid"`
	Duration int            `json:"duration"`
	Title   string          `json:"title"`
	Disc    int             `json:"disc"`
	Track   int             `json:"track"`
	Artists []artistRefJSON `json:"artists"`
}

func albumTrackFromCatalog(t catalog.Track) albumTrackJSON {
	return albumTrackJSON{
		UUID:     t.ID,
		Duration: t.DurationMs,
		Title:    t.Title,
		Disc:     t.DiscNum,
		Track:    t.TrackNum,
		Artists:  artistRefsJSON(t.Artists),
	}
}

// albumDetailJSON is the body of GET /api/v1/album/{id}.
type albumDetailJSON struct {
	UUID          string           `json:"uuid"`
	Title         string           `json:"title"`
	ArtistSort    string           `json:"artist_sort"`
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	Day           int              `json:"day"`
	TotalDuration float64          `json:"total_duration"`
	Artists       []artistRefJSON  `json:"artists"`
	Tracks        []albumTrackJSON `json:"tracks"`
}

func albumDetailFromCatalog(a catalog.Album, tracks []catalog.Track) albumDetailJSON {
	var totalMs int64
	trackRows := make([]albumTrackJSON, 0, len(tracks))
	for _, t := range tracks {
		totalMs += int64(t.DurationMs)
		trackRows = append(trackRows, albumTrackFromCatalog(t))
	}
	return albumDetailJSON{
		UUID:          a.ID,
		Title:         a.Title,
		ArtistSort:    a.ArtistSort,
		Year:          a.Year,
		Month:         a.Month,
		Day:           a.Day,
		TotalDuration: float64(totalMs) / 60000,
		Artists:       artistRefsJSON(a.Artists),
		Tracks:        trackRows,
	}
}

// artistJSON is one row of GET /api/v1/artists.
type artistJSON struct {
	UUID        string   `json:"uuid"`
	Name        string   `json:"name"`
	Albums      []string `json:"albums"`
	Appearances []string `json:"appearances"`
	TotalTracks int      `json:"total_tracks"`
}

func artistFromCatalog(a catalog.Artist) artistJSON {
	albums := a.Albums
	if albums == nil {
		albums = []string{}
	}
	appearances := a.Appearances
	if appearances == nil {
		appearances = []string{}
	}
	return artistJSON{
		UUID:        a.ID,
		Name:        a.Name,
		Albums:      albums,
		Appearances: appearances,
		TotalTracks: a.TotalTracks,
	}
}

// albumRefJSON is the {uuid,title} pair a list/playlist track carries for
// its parent album.
type albumRefJSON struct {
	UUID  string `json:"uuid"`
	Title string `json:"title"`
}

// trackJSON is one row of GET /api/v1/tracks or a playlist-detail entry.
type trackJSON struct {
	UUID     string          `json:"uuid"`
	Duration int             `json:"duration"`
	Title    string          `json:"title"`
	Disc     int             `json:"disc"`
	Track    int             `json:"track"`
	Album    albumRefJSON    `json:"album"`
	Artists  []artistRefJSON `json:"artists"`
}

func trackFromCatalog(t catalog.Track) trackJSON {
	return trackJSON{
		UUID:     t.ID,
		Duration: t.DurationMs,
		Title:    t.Title,
		Disc:     t.DiscNum,
		Track:    t.TrackNum,
		Album:    albumRefJSON{UUID: t.AlbumID, Title: t.AlbumTitle},
		Artists:  artistRefsJSON(t.Artists),
	}
}

func tracksFromCatalog(tracks []catalog.Track) []trackJSON {
	out := make([]trackJSON, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, trackFromCatalog(t))
	}
	return out
}

// playlistJSON is the body of GET /api/v1/plist/{id}.
type playlistJSON struct {
	UUID   string      `json:"uuid"`
	Name   string      `json:"name"`
	Tracks []trackJSON `json:"tracks,omitempty"`
}

func playlistFromCatalog(p catalog.Playlist) playlistJSON {
	return playlistJSON{UUID: p.ID, Name: p.Name, Tracks: tracksFromCatalog(p.Tracks)}
}

// searchHitJSON is one row of GET /api/v1/search.
type searchHitJSON struct {
	UUID  string  `json:"uuid"`
	Score float64 `json:"score"`
	Type  string  `json:"type"`
}

func searchHitsFromCatalog(hits []catalog.SearchHit) []searchHitJSON {
	out := make([]searchHitJSON, 0, len(hits))
	for _, h := range hits {
		out = append(out, searchHitJSON{UUID: h.ID, Score: h.Score, Type: h.Type})
	}
	return out
}
