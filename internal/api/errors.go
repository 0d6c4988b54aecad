package api

import (
	"encoding/json"
	"strconv"

	"surfmt/internal/apperr"
	"surfmt/internal/httpserver"
	"surfmt/internal/logging"
)

func writeJSON(w *httpserver.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, 500, "failed to encode response")
		return
	}
	w.SetHeader("Content-Type", "application/json")
	w.SetHeader("Content-Length", strconv.Itoa(len(body)))
	if err := w.SetStatus(status); err != nil {
		logging.Errorf("api: %v", err)
		status = 500
		w.SetStatus(status)
	}
	w.Write(body)
}

// writeError mirrors the source's plain-text error bodies (spec.md §8's
// "Not Found\r\n" / "Content-Length: 11" end-to-end scenario).
func writeError(w *httpserver.ResponseWriter, status int, reason string) {
	body := reason + "\r\n"
	w.SetHeader("Content-Type", "text/plain")
	w.SetHeader("Content-Length", strconv.Itoa(len(body)))
	if err := w.SetStatus(status); err != nil {
		status = 500
		w.SetStatus(status)
	}
	w.Write([]byte(body))
}

// writeAppErr maps an apperr.Kind to its status code and a plain-text
// body, per spec.md §7.
func writeAppErr(w *httpserver.ResponseWriter, err error) {
	kind := apperr.As(err)
	status := apperr.StatusCode(kind)
	reason := statusReason(status)
	if status >= 500 {
		logging.Errorf("api: %v", err)
	}
	writeError(w, status, reason)
}

func statusReason(status int) string {
	switch status {
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 416:
		return "Range Not Satisfiable"
	case 501:
		return "Not Implemented"
	default:
		return "Internal Server Error"
	}
}

func handleNotFound(w *httpserver.ResponseWriter, r *httpserver.Request) {
	writeError(w, 404, "Not Found")
}

func handleMethodNotAllowed(w *httpserver.ResponseWriter, r *httpserver.Request) {
	writeError(w, 405, "Method Not Allowed")
}

func handleUnimplemented(w *httpserver.ResponseWriter, r *httpserver.Request) {
	writeError(w, 501, "Not Implemented")
}
