package api

import (
	"surfmt/internal/catalog"
	"surfmt/internal/httpserver"
)

func (a *API) handleSearch(w *httpserver.ResponseWriter, r *httpserver.Request) {
	if checkConditionalGet(w, r, a.scanner.LatestModTime()) {
		return
	}
	q := r.QueryGet("q")
	var hits []catalog.SearchHit
	err := a.withCatalog(func(c *catalog.Catalog) error {
		var err error
		hits, err = c.Search(q)
		return err
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeJSON(w, 200, searchHitsFromCatalog(hits))
}
