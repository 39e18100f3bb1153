package http1

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
)

var (
	ErrEmptyRequest         = errors.New("http1: empty request")
	ErrMalformedRequestLine = errors.New("http1: malformed request line")
)

var crlf = []byte("\r\n")

// ParsedRequest is a minimal representation parsed from the wire.
type ParsedRequest struct {
	Method     string
	RequestURI string
	Proto      string
	// Header holds only the recognized fields, keyed by their exact name.
	Header map[string]string
	Body   []byte
}

// recognized lists the header names kept by Parse. Matching is case-sensitive.
var recognized = map[string]struct{}{
	"User-Agent":      {},
	"Accept-Encoding": {},
	"Content-Type":    {},
	"Content-Length":  {},
}

// Parse turns the bytes of a single read into a request. The buffer must hold
// the whole message; fragmented requests are not reassembled.
func Parse(raw []byte) (*ParsedRequest, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyRequest
	}
	line, rest, more := cutLine(raw)
	parts := strings.Split(string(line), " ")
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" {
		return nil, ErrMalformedRequestLine
	}
	pr := &ParsedRequest{
		Method:     parts[0],
		RequestURI: parts[1],
		Proto:      parts[2],
		Header:     make(map[string]string),
	}
	for more {
		line, rest, more = cutLine(rest)
		if len(line) == 0 {
			break
		}
		parseHeaderLine(pr.Header, string(line))
	}
	pr.Body = bytes.Clone(rest)
	if v, ok := pr.Header["Content-Length"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < len(pr.Body) {
			pr.Body = pr.Body[:n]
		}
	}
	return pr, nil
}

// cutLine splits b around the first CRLF. more reports whether a CRLF was found.
func cutLine(b []byte) (line, rest []byte, more bool) {
	i := bytes.Index(b, crlf)
	if i < 0 {
		return b, nil, false
	}
	return b[:i], b[i+len(crlf):], true
}

func parseHeaderLine(h map[string]string, line string) {
	i := strings.IndexByte(line, ':')
	if i <= 0 {
		return
	}
	k := line[:i]
	if _, ok := recognized[k]; !ok {
		return
	}
	// Later occurrences overwrite earlier ones.
	h[k] = strings.TrimSpace(line[i+1:])
}
