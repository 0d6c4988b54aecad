package api

import (
	"strings"

	"surfmt/internal/apperr"
	"surfmt/internal/catalog"
	"surfmt/internal/httpserver"
)

func (a *API) handleListTracks(w *httpserver.ResponseWriter, r *httpserver.Request) {
	if checkConditionalGet(w, r, a.scanner.LatestModTime()) {
		return
	}
	var tokens []string
	if raw := r.QueryGet("sort"); raw != "" {
		for _, tok := range strings.Split(raw, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				tokens = append(tokens, tok)
			}
		}
	}
	orderBy, err := catalog.TranslateSort(tokens)
	if err != nil {
		writeAppErr(w, apperr.BadInput("unknown sort token", err))
		return
	}

	var tracks []catalog.Track
	err = a.withCatalog(func(c *catalog.Catalog) error {
		var err error
		tracks, err = c.ListTracks(orderBy)
		return err
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	writeJSON(w, 200, tracksFromCatalog(tracks))
}
