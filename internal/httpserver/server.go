// Package httpserver is the hand-rolled HTTP/1.1 engine of spec.md §4.6:
// a TCP acceptor, a mutex+condvar socket queue, and a fixed worker pool
// that parses requests incrementally off a per-session buffer. No
// library in the example corpus implements this model (every web-serving
// example delegates to net/http or a router framework); see DESIGN.md for
// why that rules a library out here specifically.
package httpserver

import (
	"net"
	"runtime"
	"sync"

	"surfmt/internal/logging"
)

// WorkerCount implements spec.md §4.6/§5's formula:
// floor(hardware_concurrency * 8/5).
func WorkerCount() int {
	n := runtime.NumCPU() * 8 / 5
	if n < 1 {
		n = 1
	}
	return n
}

// Server owns the TCP listener, the socket queue, and the worker pool.
type Server struct {
	ln      net.Listener
	router  *Router
	workers int

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []net.Conn
	stopped bool
}

// New binds addr and prepares a Server with WorkerCount() workers.
func New(addr string, router *Router) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{ln: ln, router: router, workers: WorkerCount()}
	s.cond = sync.NewCond(&s.mu)
	return s, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Serve spawns the worker pool and runs the accept loop until the
// listener is closed (typically via Shutdown from another goroutine).
func (s *Server) Serve() error {
	for i := 0; i < s.workers; i++ {
		go s.worker()
	}

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			s.mu.Lock()
			stopped := s.stopped
			s.mu.Unlock()
			if stopped {
				return nil
			}
			return err
		}
		s.enqueue(conn)
	}
}

// Shutdown stops accepting new connections and wakes every worker so it
// can observe the stop flag and exit, per spec.md §5's queue-discipline
// note ("shutdown sets a stop flag and broadcasts").
func (s *Server) Shutdown() error {
	s.mu.Lock()
	s.stopped = true
	s.cond.Broadcast()
	s.mu.Unlock()
	return s.ln.Close()
}

func (s *Server) enqueue(conn net.Conn) {
	s.mu.Lock()
	s.queue = append(s.queue, conn)
	s.cond.Signal()
	s.mu.Unlock()
}

func (s *Server) dequeue() (net.Conn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.queue) == 0 && !s.stopped {
		s.cond.Wait()
	}
	if len(s.queue) == 0 {
		return nil, false
	}
	conn := s.queue[0]
	s.queue = s.queue[1:]
	return conn, true
}

func (s *Server) worker() {
	for {
		conn, ok := s.dequeue()
		if !ok {
			return
		}
		s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()
	sess := newSession(conn)
	for {
		req, err := sess.readRequest()
		if err != nil {
			if err != errConnectionClosed {
				logging.Debugf("httpserver: %v", err)
			}
			return
		}

		w := newResponseWriter(conn)
		s.router.dispatch(w, req)
		if err := w.finish(); err != nil {
			return
		}
		if w.shouldClose {
			return
		}
		sess.reset()
	}
}
