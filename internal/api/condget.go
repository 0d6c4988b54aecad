package api

import (
	"strings"
	"time"

	"surfmt/internal/httpserver"
)

// checkConditionalGet implements spec.md §4.7's read-handler preamble:
// if If-Modified-Since parses and is >= latestModTime, reply 304 with
// Last-Modified and report handled=true so the caller skips the body.
func checkConditionalGet(w *httpserver.ResponseWriter, r *httpserver.Request, latestModTime time.Time) (handled bool) {
	w.SetHeader("Last-Modified", latestModTime.UTC().Format(time.RFC1123))

	v, ok := r.Header("if-modified-since")
	if !ok {
		return false
	}
	since, ok := parseHTTPDate(v)
	if !ok {
		return false
	}
	if !since.Before(latestModTime) {
		w.SetStatus(304)
		w.Write(nil)
		return true
	}
	return false
}

func parseHTTPDate(v string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC1123, v); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC1123, strings.Replace(v, "GMT", "UTC", 1)); err == nil {
		return t, true
	}
	return time.Time{}, false
}
