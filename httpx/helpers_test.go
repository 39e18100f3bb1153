package httpx

import (
	"bufio"
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/valyala/fasthttp"
)

// readWire parses a serialized response with fasthttp's parser so the
// framing is checked by an independent implementation.
func readWire(t *testing.T, raw []byte) *fasthttp.Response {
	t.Helper()
	resp := new(fasthttp.Response)
	if err := resp.Read(bufio.NewReader(bytes.NewReader(raw))); err != nil {
		t.Fatalf("fasthttp read: %v (%q)", err, raw)
	}
	return resp
}

func build(t *testing.T, s ResponseSpec) Response {
	t.Helper()
	res, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return res
}

type memStore struct {
	mu       sync.Mutex
	files    map[string][]byte
	writeErr error
}

func newMemStore() *memStore { return &memStore{files: make(map[string][]byte)} }

func (m *memStore) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[name]
	return ok
}

func (m *memStore) ReadAll(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return append([]byte(nil), b...), nil
}

func (m *memStore) WriteAll(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return fmt.Errorf("%w: %v", ErrStorage, m.writeErr)
	}
	m.files[name] = append([]byte(nil), data...)
	return nil
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}
