package httpx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"dqx0.com/go/tinyhttp/internal/obs"
)

func startServer(t *testing.T, cfg func(*Server)) (*Server, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &Server{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	if cfg != nil {
		cfg(s)
	}
	errc := make(chan error, 1)
	go func() { errc <- s.Serve(ln) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
		if err := <-errc; !errors.Is(err, ErrServerClosed) {
			t.Errorf("Serve returned %v", err)
		}
	})
	return s, ln.Addr().String()
}

// roundTrip sends raw in one write and reads until the server closes.
func roundTrip(t *testing.T, addr string, raw []byte) []byte {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()
	_ = c.SetDeadline(time.Now().Add(5 * time.Second))
	if _, err := c.Write(raw); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := io.ReadAll(c)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return b
}

func do(t *testing.T, addr, raw string) *fasthttp.Response {
	t.Helper()
	return readWire(t, roundTrip(t, addr, []byte(raw)))
}

func TestServer_Echo(t *testing.T) {
	_, addr := startServer(t, nil)
	b := roundTrip(t, addr, []byte("GET /echo/hello HTTP/1.1\r\nHost: localhost\r\n\r\n"))
	want := "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 5\r\n\r\nhello"
	if string(b) != want {
		t.Fatalf("got %q", b)
	}
}

func TestServer_EchoGzip(t *testing.T) {
	_, addr := startServer(t, nil)
	resp := do(t, addr, "GET /echo/hello HTTP/1.1\r\nAccept-Encoding: gzip\r\n\r\n")
	if resp.StatusCode() != 200 || string(resp.Header.Peek("Content-Encoding")) != "gzip" {
		t.Fatalf("status=%d headers=%q", resp.StatusCode(), resp.Header.Header())
	}
	dec, err := resp.BodyGunzip()
	if err != nil || string(dec) != "hello" {
		t.Fatalf("decoded=%q err=%v", dec, err)
	}
}

func TestServer_UserAgent(t *testing.T) {
	_, addr := startServer(t, nil)
	resp := do(t, addr, "GET /user-agent HTTP/1.1\r\nUser-Agent: test-client/1.0\r\n\r\n")
	if resp.StatusCode() != 200 || string(resp.Body()) != "test-client/1.0" {
		t.Fatalf("status=%d body=%q", resp.StatusCode(), resp.Body())
	}
	resp = do(t, addr, "GET /user-agent HTTP/1.1\r\n\r\n")
	if resp.StatusCode() != 400 || len(resp.Body()) != 0 {
		t.Fatalf("status=%d body=%q", resp.StatusCode(), resp.Body())
	}
}

func TestServer_Files(t *testing.T) {
	dir := t.TempDir()
	_, addr := startServer(t, func(s *Server) {
		s.Router = NewRouter(RouterConfig{Directory: dir})
	})
	resp := do(t, addr, "POST /files/foo.txt HTTP/1.1\r\nContent-Type: application/octet-stream\r\nContent-Length: 6\r\n\r\nabc123")
	if resp.StatusCode() != 201 {
		t.Fatalf("post status=%d", resp.StatusCode())
	}
	resp = do(t, addr, "GET /files/foo.txt HTTP/1.1\r\n\r\n")
	if resp.StatusCode() != 200 || string(resp.Header.ContentType()) != ContentTypeBinary {
		t.Fatalf("get status=%d ct=%q", resp.StatusCode(), resp.Header.ContentType())
	}
	if string(resp.Body()) != "abc123" {
		t.Fatalf("body=%q", resp.Body())
	}
	resp = do(t, addr, "GET /files/missing.txt HTTP/1.1\r\n\r\n")
	if resp.StatusCode() != 404 || len(resp.Body()) != 0 {
		t.Fatalf("missing status=%d", resp.StatusCode())
	}
}

func TestServer_BinaryFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	_, addr := startServer(t, func(s *Server) {
		s.Router = NewRouter(RouterConfig{Directory: dir})
	})
	payload := []byte{0x00, 0xff, 0xfe, '\r', '\n', '\r', '\n', 0x80}
	raw := append([]byte("POST /files/blob HTTP/1.1\r\nContent-Length: 8\r\n\r\n"), payload...)
	if resp := readWire(t, roundTrip(t, addr, raw)); resp.StatusCode() != 201 {
		t.Fatalf("post status=%d", resp.StatusCode())
	}
	resp := do(t, addr, "GET /files/blob HTTP/1.1\r\nAccept-Encoding: gzip\r\n\r\n")
	if !bytes.Equal(resp.Body(), payload) {
		t.Fatalf("body=%v", resp.Body())
	}
	if len(resp.Header.Peek("Content-Encoding")) != 0 {
		t.Fatal("file downloads must not be compressed")
	}
}

func TestServer_MalformedRequest(t *testing.T) {
	meter := obs.NewMemoryMeter()
	_, addr := startServer(t, func(s *Server) { s.Meter = meter })
	resp := do(t, addr, "NONSENSE\r\n\r\n")
	if resp.StatusCode() != 400 {
		t.Fatalf("status=%d", resp.StatusCode())
	}
	if got := meter.CounterValue("httpx_parse_errors_total"); got != 1 {
		t.Fatalf("parse errors=%v", got)
	}
}

func TestServer_UnknownAndRoot(t *testing.T) {
	meter := obs.NewMemoryMeter()
	_, addr := startServer(t, func(s *Server) { s.Meter = meter })
	if resp := do(t, addr, "GET /unknown/path HTTP/1.1\r\n\r\n"); resp.StatusCode() != 404 {
		t.Fatalf("status=%d", resp.StatusCode())
	}
	if resp := do(t, addr, "GET / HTTP/1.1\r\nUser-Agent: x\r\n\r\n"); resp.StatusCode() != 200 || len(resp.Body()) != 0 {
		t.Fatalf("status=%d body=%q", resp.StatusCode(), resp.Body())
	}
	if got := meter.CounterValue("httpx_requests_total", obs.Label{Key: "route", Value: "none"}, obs.Label{Key: "status", Value: "404"}); got != 1 {
		t.Fatalf("404 counter=%v", got)
	}
	if got := meter.CounterValue("httpx_requests_total", obs.Label{Key: "route", Value: "root"}, obs.Label{Key: "status", Value: "200"}); got != 1 {
		t.Fatalf("root counter=%v", got)
	}
}

func TestServer_AccessLog(t *testing.T) {
	var buf syncBuffer
	logger := obs.NewZerolog(&buf, obs.Info, false)
	_, addr := startServer(t, func(s *Server) { s.Logger = logger })
	do(t, addr, "GET /echo/abc HTTP/1.1\r\nUser-Agent: Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0\r\n\r\n")
	// The access line is written before the connection is closed.
	if !bytes.Contains(buf.Bytes(), []byte(`"ua_family":"Firefox"`)) {
		t.Fatalf("access log=%q", buf.Bytes())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"path":"/echo/abc"`)) {
		t.Fatalf("access log=%q", buf.Bytes())
	}
}

func TestServer_ShutdownRejectsServe(t *testing.T) {
	s := &Server{}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	if err := s.Serve(ln); !errors.Is(err, ErrServerClosed) {
		t.Fatalf("Serve after Shutdown=%v", err)
	}
}
