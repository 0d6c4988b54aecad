package api

import (
	"strconv"
	"strings"

	"surfmt/internal/apperr"
	"surfmt/internal/catalog"
	"surfmt/internal/httpserver"
)

func (a *API) handleListPlaylists(w *httpserver.ResponseWriter, r *httpserver.Request) {
	if checkConditionalGet(w, r, a.scanner.LatestModTime()) {
		return
	}
	var playlists []catalog.Playlist
	err := a.withCatalog(func(c *catalog.Catalog) error {
		var err error
		playlists, err = c.ListPlaylists()
		return err
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	out := make([]playlistJSON, 0, len(playlists))
	for _, p := range playlists {
		out = append(out, playlistJSON{UUID: p.ID, Name: p.Name})
	}
	writeJSON(w, 200, out)
}

func (a *API) handlePlaylistDetail(w *httpserver.ResponseWriter, r *httpserver.Request) {
	if checkConditionalGet(w, r, a.scanner.LatestModTime()) {
		return
	}
	id := r.Params["id"]
	var p *catalog.Playlist
	err := a.withCatalog(func(c *catalog.Catalog) error {
		var err error
		p, err = c.PlaylistDetail(id)
		return err
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	if p == nil {
		writeError(w, 404, "Not Found")
		return
	}
	writeJSON(w, 200, playlistFromCatalog(*p))
}

// splitTrackTokens tokenizes a playlist PUT body on commas or newlines,
// per spec.md §4.7.
func splitTrackTokens(body []byte) []string {
	s := strings.ReplaceAll(string(body), "\r\n", "\n")
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (a *API) handlePlaylistReplace(w *httpserver.ResponseWriter, r *httpserver.Request) {
	id := r.Params["id"]
	if r.ContentLength() <= 0 || len(r.Body) == 0 {
		writeAppErr(w, apperr.BadInput("playlist replace requires a non-empty body", nil))
		return
	}
	trackIDs := splitTrackTokens(r.Body)

	var name *string
	if n := r.QueryGet("name"); n != "" {
		name = &n
	}

	err := a.withCatalog(func(c *catalog.Catalog) error {
		return c.ReplacePlaylist(id, name, trackIDs)
	})
	if err != nil {
		writeAppErr(w, apperr.CatalogError("replace playlist", err))
		return
	}
	writeJSON(w, 200, trackIDs)
}

func (a *API) handlePlaylistDelete(w *httpserver.ResponseWriter, r *httpserver.Request) {
	id := r.Params["id"]
	err := a.withCatalog(func(c *catalog.Catalog) error {
		return c.DeletePlaylist(id)
	})
	if err != nil {
		writeAppErr(w, apperr.CatalogError("delete playlist", err))
		return
	}
	body := "Playlist deleted.\r\n"
	w.SetHeader("Content-Type", "text/plain")
	w.SetHeader("Content-Length", strconv.Itoa(len(body)))
	if err := w.SetStatus(200); err != nil {
		writeAppErr(w, err)
		return
	}
	w.Write([]byte(body))
}
