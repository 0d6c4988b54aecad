package httpserver

import "testing"

func TestTryParseCompleteRequestNoBody(t *testing.T) {
	raw := []byte("GET /api/v1/albums HTTP/1.1\r\nHost: x\r\n\r\n")
	req, consumed, ok := tryParse(raw)
	if !ok {
		t.Fatalf("expected complete parse")
	}
	if consumed != len(raw) {
		t.Fatalf("consumed = %d, want %d", consumed, len(raw))
	}
	if req.Method != "GET" || req.Path != "/api/v1/albums" {
		t.Fatalf("req = %+v", req)
	}
	if req.Minor != 1 {
		t.Fatalf("Minor = %d, want 1", req.Minor)
	}
}

func TestTryParseIncompleteHeaders(t *testing.T) {
	raw := []byte("GET /x HTTP/1.1\r\nHost: x\r\n")
	if _, _, ok := tryParse(raw); ok {
		t.Fatalf("expected incomplete parse")
	}
}

func TestTryParseWaitsForBody(t *testing.T) {
	raw := []byte("PUT /api/v1/plist/abc HTTP/1.1\r\nContent-Length: 5\r\n\r\nabc")
	if _, _, ok := tryParse(raw); ok {
		t.Fatalf("expected incomplete parse while body is short")
	}
	full := []byte("PUT /api/v1/plist/abc HTTP/1.1\r\nContent-Length: 5\r\n\r\nabcde")
	req, consumed, ok := tryParse(full)
	if !ok {
		t.Fatalf("expected complete parse once body arrives")
	}
	if string(req.Body) != "abcde" || consumed != len(full) {
		t.Fatalf("body = %q consumed = %d", req.Body, consumed)
	}
}

func TestTryParseMalformedRequestLine(t *testing.T) {
	raw := []byte("GARBAGE\r\n\r\n")
	if _, _, ok := tryParse(raw); ok {
		t.Fatalf("expected malformed request to fail parse")
	}
}

func TestTryParseHeaderNamesLowercased(t *testing.T) {
	raw := []byte("GET / HTTP/1.1\r\nIf-Modified-Since: x\r\n\r\n")
	req, _, ok := tryParse(raw)
	if !ok {
		t.Fatalf("expected complete parse")
	}
	if _, found := req.Header("If-Modified-Since"); !found {
		t.Fatalf("expected case-insensitive header lookup to succeed")
	}
}

func TestSplitTargetQuery(t *testing.T) {
	path, query, err := splitTargetQuery("/api/v1/search?q=foo%20bar&x=1#frag")
	if err != nil {
		t.Fatalf("splitTargetQuery: %v", err)
	}
	if path != "/api/v1/search" {
		t.Fatalf("path = %q", path)
	}
	if query["q"][0] != "foo bar" || query["x"][0] != "1" {
		t.Fatalf("query = %v", query)
	}
}

func TestSplitTargetQueryNoQuery(t *testing.T) {
	path, query, err := splitTargetQuery("/api/v1/albums")
	if err != nil {
		t.Fatalf("splitTargetQuery: %v", err)
	}
	if path != "/api/v1/albums" || len(query) != 0 {
		t.Fatalf("path=%q query=%v", path, query)
	}
}
