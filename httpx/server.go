package httpx

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"dqx0.com/go/tinyhttp/internal/obs"
)

const (
	DefaultAddr            = ":4221"
	DefaultMaxRequestBytes = 64 << 10
)

// Server accepts connections and answers exactly one request on each before
// closing it.
type Server struct {
	Addr   string
	// Router answers requests; nil serves the default routes with no
	// files directory.
	Router *Router
	// ReadTimeout bounds the wait for the request bytes.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// MaxRequestBytes is the size of the single read buffer. Requests larger
	// than this are truncated.
	MaxRequestBytes int
	Logger          obs.Logger
	Meter           obs.Meter

	mu        sync.Mutex
	listeners map[net.Listener]struct{}
	conns     map[net.Conn]struct{}
	wg        sync.WaitGroup
	closed    atomic.Bool
}

func (s *Server) ListenAndServe() error {
	addr := s.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on l until it fails or the server is shut down,
// in which case ErrServerClosed is returned.
func (s *Server) Serve(l net.Listener) error {
	if !s.trackListener(l, true) {
		l.Close()
		return ErrServerClosed
	}
	defer s.trackListener(l, false)
	defer l.Close()
	if s.Router == nil {
		s.Router = NewRouter(RouterConfig{}, WithLogger(s.Logger))
	}
	s.logf(obs.Info, "listening on %s", l.Addr())
	for {
		c, err := l.Accept()
		if err != nil {
			if s.closed.Load() {
				return ErrServerClosed
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				s.logf(obs.Warn, "accept: %v", err)
				continue
			}
			return err
		}
		if !s.trackConn(c, true) {
			c.Close()
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.trackConn(c, false)
			s.serveConn(c)
		}()
	}
}

// Shutdown closes all listeners and waits for in-flight connections to
// finish. If ctx ends first, remaining connections are closed.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closed.Store(true)
	s.mu.Lock()
	for l := range s.listeners {
		l.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		for c := range s.conns {
			c.Close()
		}
		s.mu.Unlock()
		return ctx.Err()
	}
}

func (s *Server) trackListener(l net.Listener, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		if s.closed.Load() {
			return false
		}
		if s.listeners == nil {
			s.listeners = make(map[net.Listener]struct{})
		}
		s.listeners[l] = struct{}{}
		return true
	}
	delete(s.listeners, l)
	return true
}

func (s *Server) trackConn(c net.Conn, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		if s.closed.Load() {
			return false
		}
		if s.conns == nil {
			s.conns = make(map[net.Conn]struct{})
		}
		s.conns[c] = struct{}{}
		return true
	}
	delete(s.conns, c)
	return true
}

func (s *Server) serveConn(c net.Conn) {
	defer c.Close()
	start := time.Now()
	id := genID()

	if s.ReadTimeout > 0 {
		_ = c.SetReadDeadline(time.Now().Add(s.ReadTimeout))
	}
	buf := make([]byte, s.requestLimit())
	n, err := c.Read(buf)
	if n == 0 {
		if err != nil {
			s.logf(obs.Debug, "%s: read: %v", id, err)
		}
		return
	}

	route := "none"
	var spec ResponseSpec
	req, err := ParseRequest(buf[:n])
	if err != nil {
		route = "parse-error"
		s.metricCounter("httpx_parse_errors_total", 1)
		s.logf(obs.Warn, "%s: %v", id, err)
		spec = Status(StatusFor(err))
	} else {
		req.ID = id
		req.RemoteAddr = c.RemoteAddr().String()
		rt := s.Router
		if r, ok := rt.Lookup(req); ok {
			route = r.Name
		}
		spec = rt.Dispatch(req)
	}

	res, err := spec.Build()
	if err != nil {
		s.logf(obs.Error, "%s: build response: %v", id, err)
		spec = Status(500)
		res, _ = spec.Build()
	}

	if s.WriteTimeout > 0 {
		_ = c.SetWriteDeadline(time.Now().Add(s.WriteTimeout))
	}
	if _, err := res.WriteTo(c); err != nil {
		s.logf(obs.Warn, "%s: write: %v", id, err)
	}

	dur := time.Since(start)
	status := strconv.Itoa(spec.StatusCode)
	s.metricCounter("httpx_requests_total", 1, obs.Label{Key: "route", Value: route}, obs.Label{Key: "status", Value: status})
	s.metricHistogram("httpx_request_duration_seconds", dur.Seconds(), obs.Label{Key: "route", Value: route})
	s.accessLog(id, req, spec.StatusCode, res.Len(), dur)
}

func (s *Server) accessLog(id string, req *Request, status, size int, dur time.Duration) {
	f, ok := s.Logger.(obs.Fielder)
	if !ok {
		if req != nil {
			s.logf(obs.Info, "%s: %s %s -> %d (%d bytes, %s)", id, req.Method, req.Path, status, size, dur)
		}
		return
	}
	fields := map[string]interface{}{
		"id":       id,
		"status":   status,
		"bytes":    size,
		"duration": dur.String(),
	}
	if req != nil {
		fields["method"] = req.Method
		fields["path"] = req.Path
		fields["remote"] = req.RemoteAddr
		if ua := req.Header.Get(HeaderUserAgent); ua != "" {
			fields["ua_family"] = ClassifyUserAgent(ua).Family
		}
	}
	f.Event(obs.Info, "request", fields)
}

func (s *Server) requestLimit() int {
	if s.MaxRequestBytes <= 0 {
		return DefaultMaxRequestBytes
	}
	return s.MaxRequestBytes
}

func (s *Server) logf(level obs.Level, format string, args ...interface{}) {
	if s.Logger == nil {
		return
	}
	s.Logger.Logf(level, format, args...)
}

func (s *Server) metricCounter(name string, value float64, labels ...obs.Label) {
	if s.Meter == nil {
		return
	}
	s.Meter.Counter(name, value, labels...)
}

func (s *Server) metricHistogram(name string, value float64, labels ...obs.Label) {
	if s.Meter == nil {
		return
	}
	s.Meter.Histogram(name, value, labels...)
}
