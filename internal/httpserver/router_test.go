package httpserver

import "testing"

func TestRouterCapturesPathParam(t *testing.T) {
	rt := NewRouter(
		func(w *ResponseWriter, r *Request) { w.SetStatus(404) },
		func(w *ResponseWriter, r *Request) { w.SetStatus(405) },
	)
	var gotID string
	rt.Handle("GET", "/api/v1/album/{id}", func(w *ResponseWriter, r *Request) {
		gotID = r.Params["id"]
	})

	req := &Request{Method: "GET", Path: "/api/v1/album/abc123", Params: map[string]string{}}
	w := &ResponseWriter{headers: map[string]string{}}
	rt.dispatch(w, req)
	if gotID != "abc123" {
		t.Fatalf("captured id = %q, want %q", gotID, "abc123")
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	var calledNotAllowed bool
	rt := NewRouter(
		func(w *ResponseWriter, r *Request) {},
		func(w *ResponseWriter, r *Request) { calledNotAllowed = true },
	)
	rt.Handle("GET", "/api/v1/plist/{id}", func(w *ResponseWriter, r *Request) {})

	req := &Request{Method: "DELETE", Path: "/api/v1/plist/abc", Params: map[string]string{}}
	w := &ResponseWriter{headers: map[string]string{}}
	rt.dispatch(w, req)
	if !calledNotAllowed {
		t.Fatalf("expected method-not-allowed handler to run")
	}
}

func TestRouterNotFound(t *testing.T) {
	var calledNotFound bool
	rt := NewRouter(
		func(w *ResponseWriter, r *Request) { calledNotFound = true },
		func(w *ResponseWriter, r *Request) {},
	)
	rt.Handle("GET", "/api/v1/albums", func(w *ResponseWriter, r *Request) {})

	req := &Request{Method: "GET", Path: "/api/v1/nope", Params: map[string]string{}}
	w := &ResponseWriter{headers: map[string]string{}}
	rt.dispatch(w, req)
	if !calledNotFound {
		t.Fatalf("expected not-found handler to run")
	}
}
