package api

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"surfmt/internal/apperr"
	"surfmt/internal/catalog"
	"surfmt/internal/httpserver"
	"surfmt/internal/transcode"
)

const defaultStreamQuality = 6

func parseStreamQuality(r *httpserver.Request) (int, error) {
	raw := r.QueryGet("q")
	if raw == "" {
		return defaultStreamQuality, nil
	}
	q, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.BadInput("q must be an integer", err)
	}
	if err := transcode.ValidateQuality(q); err != nil {
		return 0, err
	}
	return q, nil
}

// chunkedSink adapts a ResponseWriter's chunked-framing calls to the
// plain io.Writer the transcoder dual-sinks into, per spec.md §4.5.
type chunkedSink struct {
	w *httpserver.ResponseWriter
}

func (s chunkedSink) Write(p []byte) (int, error) {
	if err := s.w.WriteChunk(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (a *API) handleStream(w *httpserver.ResponseWriter, r *httpserver.Request) {
	id := r.Params["id"]
	quality, err := parseStreamQuality(r)
	if err != nil {
		writeAppErr(w, err)
		return
	}

	if path, present := a.cache.GetCachedTranscode(id, quality); present {
		a.serveCachedTranscode(w, r, path)
		return
	}

	var location string
	var found bool
	err = a.withCatalog(func(c *catalog.Catalog) error {
		var err error
		location, found, err = c.TrackLocation(id)
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

	w.SetHeader("Content-Type", "audio/mpeg")
	w.SetHeader("Transfer-Encoding", "chunked")
	w.SetHeader("Accept-Ranges", "bytes")
	w.SetHeader("Cache-Control", "public, max-age=31536000, immutable")
	w.SetStatus(200)

	sink := chunkedSink{w: w}
	if err := transcode.Run(context.Background(), sink, a.cache, id, location, quality); err != nil {
		if !w.Flushed() {
			writeAppErr(w, err)
			return
		}
		w.Abort()
		return
	}
	w.WriteFinalChunk()
}

// serveCachedTranscode implements spec.md §4.7's api_v1_stream_cached
// Range semantics: either bound absent is treated as 0 (the source's
// strtoul-on-empty-string behavior, reproduced here rather than the
// RFC-correct open-ended-range meaning; see DESIGN.md). The caller has
// already promoted (trackID, quality) to MRU front via
// cache.GetCachedTranscode before resolving path.
func (a *API) serveCachedTranscode(w *httpserver.ResponseWriter, r *httpserver.Request, path string) {
	f, err := os.Open(path)
	if err != nil {
		writeAppErr(w, apperr.IOError("open cached transcode", err))
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		writeAppErr(w, apperr.IOError("stat cached transcode", err))
		return
	}
	size := info.Size()

	w.SetHeader("Content-Type", "audio/mpeg")
	w.SetHeader("Accept-Ranges", "bytes")
	w.SetHeader("Cache-Control", "public, max-age=31536000, immutable")

	rangeHeader, hasRange := r.Header("range")
	if !hasRange {
		w.SetHeader("Content-Length", strconv.FormatInt(size, 10))
		w.SetStatus(200)
		io.Copy(w, f)
		return
	}

	start, end, err := parseByteRange(rangeHeader)
	if err != nil {
		writeAppErr(w, err)
		return
	}
	if start >= size || end >= size {
		w.SetHeader("Content-Range", "bytes */"+strconv.FormatInt(size, 10))
		writeAppErr(w, apperr.RangeNotSatisfiable("range outside file bounds"))
		return
	}

	length := end - start + 1
	w.SetHeader("Content-Range", "bytes "+strconv.FormatInt(start, 10)+"-"+strconv.FormatInt(end, 10)+"/"+strconv.FormatInt(size, 10))
	w.SetHeader("Content-Length", strconv.FormatInt(length, 10))
	w.SetStatus(206)

	if _, err := f.Seek(start, io.SeekStart); err != nil {
		writeAppErr(w, apperr.IOError("seek cached transcode", err))
		return
	}
	io.CopyN(w, f, length)
}

// parseByteRange parses "bytes=<a>-<b>", filling an empty bound with 0 to
// match the source's unsigned-integer-parser-on-empty-input behavior
// (spec.md §9's "ambiguous behavior to not guess" note: replicated as-is
// rather than given RFC-correct open-ended-range meaning).
func parseByteRange(header string) (start, end int64, err error) {
	spec := strings.TrimPrefix(header, "bytes=")
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return 0, 0, apperr.BadInput("malformed Range header", nil)
	}
	start = atoi64OrZero(parts[0])
	end = atoi64OrZero(parts[1])
	return start, end, nil
}

func atoi64OrZero(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
