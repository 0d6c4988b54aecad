package httpserver

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Request is a parsed HTTP/1.1 request. Header names are normalized to
// lowercase on parse, per spec.md §4.6.
type Request struct {
	Method  string
	Path    string
	Query   map[string][]string
	Headers map[string]string
	Body    []byte
	Minor   int // HTTP/1.<minor>

	// Params carries router-captured path segments (spec.md §9's fix for
	// "request_path() returns the first captured regex group": the
	// router here captures every segment explicitly instead).
	Params map[string]string
}

// Header fetches a normalized (lowercase) header value.
func (r *Request) Header(name string) (string, bool) {
	v, ok := r.Headers[strings.ToLower(name)]
	return v, ok
}

// QueryGet returns the first value of a query parameter, or "".
func (r *Request) QueryGet(name string) string {
	vs := r.Query[name]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// ContentLength parses the Content-Length header, returning -1 if
// absent or malformed.
func (r *Request) ContentLength() int {
	v, ok := r.Header("content-length")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return -1
	}
	return n
}

var errMalformedRequest = errors.New("httpserver: malformed request")

// parseRequestLine splits "METHOD PATH HTTP/1.N" per spec.md §4.6.
func parseRequestLine(line string) (method, target string, minor int, err error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return "", "", 0, errMalformedRequest
	}
	method, target = parts[0], parts[1]
	version := parts[2]
	if !strings.HasPrefix(version, "HTTP/1.") {
		return "", "", 0, errMalformedRequest
	}
	minor, err = strconv.Atoi(strings.TrimPrefix(version, "HTTP/1."))
	if err != nil {
		return "", "", 0, errMalformedRequest
	}
	return method, target, minor, nil
}

// splitTargetQuery implements spec.md §4.6's request-target splitting:
// split at the first '?' into path + query; split the query-string at
// the last '#' (if any) for fragment; tokenize on '&'; split each on
// the first '='; URL-decode key and value.
func splitTargetQuery(target string) (path string, query map[string][]string, err error) {
	path = target
	rawQuery := ""
	if i := strings.Index(target, "?"); i >= 0 {
		path = target[:i]
		rawQuery = target[i+1:]
	}
	if j := strings.LastIndex(rawQuery, "#"); j >= 0 {
		rawQuery = rawQuery[:j]
	}

	query = map[string][]string{}
	if rawQuery == "" {
		return path, query, nil
	}
	for _, tok := range strings.Split(rawQuery, "&") {
		if tok == "" {
			continue
		}
		kv := strings.SplitN(tok, "=", 2)
		key, err := url.QueryUnescape(kv[0])
		if err != nil {
			return "", nil, fmt.Errorf("httpserver: bad query key: %w", err)
		}
		val := ""
		if len(kv) == 2 {
			val, err = url.QueryUnescape(kv[1])
			if err != nil {
				return "", nil, fmt.Errorf("httpserver: bad query value: %w", err)
			}
		}
		query[key] = append(query[key], val)
	}
	return path, query, nil
}
