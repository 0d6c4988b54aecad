package api

import (
	"surfmt/internal/catalog"
	"surfmt/internal/httpserver"
)

func (a *API) handleListAlbums(w *httpserver.ResponseWriter, r *httpserver.Request) {
	if checkConditionalGet(w, r, a.scanner.LatestModTime()) {
		return
	}
	var albums []catalog.Album
	err := a.withCatalog(func(c *catalog.Catalog) error {
		var err error
		albums, err = c.ListAlbums()
		return err
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	out := make([]albumListJSON, 0, len(albums))
	for _, al := range albums {
		out = append(out, albumListFromCatalog(al))
	}
	writeJSON(w, 200, out)
}

func (a *API) handleAlbumDetail(w *httpserver.ResponseWriter, r *httpserver.Request) {
	if checkConditionalGet(w, r, a.scanner.LatestModTime()) {
		return
	}
	id := r.Params["id"]
	var album *catalog.Album
	var tracks []catalog.Track
	err := a.withCatalog(func(c *catalog.Catalog) error {
		var err error
		album, tracks, err = c.AlbumDetail(id)
		return err
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	if album == nil {
		writeError(w, 404, "Not Found")
		return
	}
	writeJSON(w, 200, albumDetailFromCatalog(*album, tracks))
}
