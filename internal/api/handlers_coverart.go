package api

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"surfmt/internal/apperr"
	"surfmt/internal/catalog"
	"surfmt/internal/httpserver"
)

func (a *API) handleCoverArt(w *httpserver.ResponseWriter, r *httpserver.Request) {
	id := r.Params["id"]
	var path string
	var found bool
	err := a.withCatalog(func(c *catalog.Catalog) error {
		var err error
		path, found, err = c.CoverArtPath(id)
		return err
	})
	if err != nil {
		writeAppErr(w, err)
		return
	}
	if !found {
		writeError(w, 404, "Not Found")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		writeAppErr(w, apperr.NotFound("cover art file", err))
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		writeAppErr(w, apperr.IOError("stat cover art", err))
		return
	}

	w.SetHeader("Content-Type", coverArtContentType(path))
	w.SetHeader("Cache-Control", "public, max-age=31536000, immutable")
	w.SetHeader("Last-Modified", a.scanner.LatestModTime().UTC().Format(time.RFC1123))
	w.SetHeader("Content-Length", strconv.FormatInt(info.Size(), 10))
	if err := w.SetStatus(200); err != nil {
		writeAppErr(w, err)
		return
	}
	if _, err := io.Copy(w, f); err != nil {
		return
	}
}

// coverArtContentType normalizes .jpg to jpeg and otherwise treats the
// extension as the image subtype, per spec.md §4.7.
func coverArtContentType(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "jpg" {
		ext = "jpeg"
	}
	if ext == "" {
		ext = "xyz"
	}
	return "image/" + ext
}
