package httpserver

import (
	"bufio"
	"fmt"
	"net"
	"time"
)

const serverHeader = "surf-mt/0.0.1"

var statusText = map[int]string{
	200: "OK",
	206: "Partial Content",
	304: "Not Modified",
	400: "Bad Request",
	404: "Not Found",
	405: "Method Not Allowed",
	416: "Range Not Satisfiable",
	500: "Internal Server Error",
	501: "Not Implemented",
}

// ResponseWriter assembles and writes one HTTP/1.1 response over a raw
// connection, per spec.md §4.6: status and headers are buffered until
// the first body write (or finish, for bodyless responses), after which the status
// line and header block are emitted once.
type ResponseWriter struct {
	conn        net.Conn
	bw          *bufio.Writer
	status      int
	headers     map[string]string
	flushed     bool
	shouldClose bool
	writeErr    error
}

func newResponseWriter(conn net.Conn) *ResponseWriter {
	return &ResponseWriter{
		conn:    conn,
		bw:      bufio.NewWriter(conn),
		status:  200,
		headers: map[string]string{},
	}
}

// SetStatus sets the response status code. An unknown status code is
// rejected at set time, per spec.md §4.6.
func (w *ResponseWriter) SetStatus(code int) error {
	if _, ok := statusText[code]; !ok {
		return fmt.Errorf("httpserver: unknown status code %d", code)
	}
	w.status = code
	return nil
}

// SetHeader sets a response header, overwriting any prior value.
func (w *ResponseWriter) SetHeader(name, value string) {
	w.headers[name] = value
}

// Write flushes headers on first call, then writes body bytes.
// Broken-pipe writes are fatal at the session level per spec.md §5
// ("fatal at the session level (connection closes on next write
// error)"): the session loop observes this via Err().
func (w *ResponseWriter) Write(p []byte) (int, error) {
	if !w.flushed {
		if err := w.flushHeaders(); err != nil {
			w.fail(err)
			return 0, err
		}
	}
	n, err := w.bw.Write(p)
	if err != nil {
		w.fail(err)
	}
	return n, err
}

func (w *ResponseWriter) fail(err error) {
	w.writeErr = err
	w.shouldClose = true
}

// Err reports the first write error observed, if any.
func (w *ResponseWriter) Err() error { return w.writeErr }

// Flushed reports whether the status line and headers have already been
// written, per spec.md §4.5's framing note: once the header is flushed, a
// mid-stream failure cannot be replaced with an error response.
func (w *ResponseWriter) Flushed() bool { return w.flushed }

// Abort marks the session for closure without writing anything further,
// for handlers that fail after the header is already flushed.
func (w *ResponseWriter) Abort() { w.shouldClose = true }

func (w *ResponseWriter) flushHeaders() error {
	w.flushed = true
	reason := statusText[w.status]
	if _, err := fmt.Fprintf(w.bw, "HTTP/1.1 %d %s\r\n", w.status, reason); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.bw, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.bw, "Server: %s\r\n", serverHeader); err != nil {
		return err
	}
	connVal := "keep-alive"
	if w.shouldClose {
		connVal = "close"
	}
	if _, err := fmt.Fprintf(w.bw, "Connection: %s\r\n", connVal); err != nil {
		return err
	}
	for k, v := range w.headers {
		if _, err := fmt.Fprintf(w.bw, "%s: %s\r\n", k, v); err != nil {
			return err
		}
	}
	_, err := w.bw.WriteString("\r\n")
	return err
}

// WriteChunk emits one HTTP chunked-transfer-encoding frame, per
// spec.md §4.5: "<hex-size>\r\n", the payload, "\r\n".
func (w *ResponseWriter) WriteChunk(p []byte) error {
	if _, err := w.Write([]byte(fmt.Sprintf("%x\r\n", len(p)))); err != nil {
		return err
	}
	if _, err := w.Write(p); err != nil {
		return err
	}
	_, err := w.Write([]byte("\r\n"))
	return err
}

// WriteFinalChunk writes the terminating "0\r\n\r\n" chunk.
func (w *ResponseWriter) WriteFinalChunk() error {
	_, err := w.Write([]byte("0\r\n\r\n"))
	return err
}

// finish flushes headers (for bodyless responses like 304) and the
// buffered writer to the connection.
func (w *ResponseWriter) finish() error {
	if !w.flushed {
		if err := w.flushHeaders(); err != nil {
			w.fail(err)
			return err
		}
	}
	if err := w.bw.Flush(); err != nil {
		w.fail(err)
		return err
	}
	return w.writeErr
}
