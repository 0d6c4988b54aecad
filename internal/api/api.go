// Package api builds the route table and handlers of spec.md §4.7 on top
// of the hand-rolled httpserver engine, querying the catalog store and
// shaping SQL result sets into the JSON response bodies spec.md §6
// names. Grounded in spirit on the teacher's internal/api handler family
// (one handler per concern, a shared JSON envelope helper) but rewired
// from net/http onto httpserver.Router, since the spec's conditional-GET,
// Range, and chunked-stream requirements need the raw connection the
// custom engine exposes.
package api

import (
	"surfmt/internal/cache"
	"surfmt/internal/catalog"
	"surfmt/internal/httpserver"
	"surfmt/internal/scanner"
)

// API holds the dependencies every handler needs: a fresh catalog handle
// is opened per request per spec.md §3's ownership model, so API stores
// the database path rather than a shared *catalog.Catalog.
type API struct {
	dbPath  string
	scanner *scanner.Scanner
	cache   *cache.Cache
}

func New(dbPath string, sc *scanner.Scanner, ca *cache.Cache) *API {
	return &API{dbPath: dbPath, scanner: sc, cache: ca}
}

// withCatalog opens a fresh catalog handle for the duration of fn, per
// spec.md §4.2/§3 ("one handle is opened per request/scan to exploit the
// underlying engine's intra-process parallelism").
func (a *API) withCatalog(fn func(c *catalog.Catalog) error) error {
	c, err := catalog.Open(a.dbPath)
	if err != nil {
		return err
	}
	defer c.Close()
	return catalog.RetryBusy(func() error { return fn(c) })
}

// Routes builds the complete route table of spec.md §4.7.
func (a *API) Routes() *httpserver.Router {
	rt := httpserver.NewRouter(handleNotFound, handleMethodNotAllowed)

	rt.Handle("GET", "/api/v1/albums", a.handleListAlbums)
	rt.Handle("GET", "/api/v1/artists", a.handleListArtists)
	rt.Handle("GET", "/api/v1/tracks", a.handleListTracks)
	rt.Handle("GET", "/api/v1/album/{id}", a.handleAlbumDetail)
	rt.Handle("GET", "/api/v1/coverart/{id}", a.handleCoverArt)
	rt.Handle("GET", "/api/v1/search", a.handleSearch)
	rt.Handle("GET", "/api/v1/plists", a.handleListPlaylists)
	rt.Handle("GET", "/api/v1/plist/{id}", a.handlePlaylistDetail)
	rt.Handle("PUT", "/api/v1/plist/{id}", a.handlePlaylistReplace)
	rt.Handle("DELETE", "/api/v1/plist/{id}", a.handlePlaylistDelete)
	rt.Handle("GET", "/api/v1/stream/{id}", a.handleStream)

	// Deliberate stubs preserving the route surface, per spec.md §4.7.
	rt.Handle("POST", "/api/v1/plist/insert/{id}", handleUnimplemented)
	rt.Handle("POST", "/api/v1/plist/reorder/{id}", handleUnimplemented)
	rt.Handle("POST", "/api/v1/plist/remove/{id}", handleUnimplemented)

	return rt
}
