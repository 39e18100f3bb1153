package httpx

import (
	"fmt"

	"dqx0.com/go/tinyhttp/httpx/internal/http1"
)

// Request is a request parsed from a single read of a connection.
//
// Path is the literal request target: it is not decoded, cleaned, or
// stripped of a query string. Header carries only the recognized fields.
type Request struct {
	Method  string
	Path    string
	Version string
	Header  Header
	Body    []byte
	// RemoteAddr is the peer address, set by the Server.
	RemoteAddr string
	// ID identifies the request in logs, set by the Server.
	ID string
}

// ParseRequest parses raw as one complete HTTP/1.1 request. Failures wrap
// ErrParse.
func ParseRequest(raw []byte) (*Request, error) {
	pr, err := http1.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &Request{
		Method:  pr.Method,
		Path:    pr.RequestURI,
		Version: pr.Proto,
		Header:  Header(pr.Header),
		Body:    pr.Body,
	}, nil
}
