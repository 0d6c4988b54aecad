package api

import (
	"surfmt/internal/catalog"
	"surfmt/internal/httpserver"
)

func (a *API) handleListArtists(w *httpserver.ResponseWriter, r *httpserver.Request) {
	if checkConditionalGet(w, r, a.scanner.LatestModTime()) {
		return
	}
	var artists []catalog.Artist
	err := a.withCatalog(func(c *catalog.Catalog) error {
		var err error
		artists, err = c.ListArtists()
		return err
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	out := make([]artistJSON, 0, len(artists))
	for _, ar := range artists {
		out = append(out, artistFromCatalog(ar))
	}
	writeJSON(w, 200, out)
}
