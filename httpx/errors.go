package httpx

import "errors"

var (
	ErrParse           = errors.New("httpx: malformed request")
	ErrMissingHeader   = errors.New("httpx: missing header")
	ErrNotFound        = errors.New("httpx: not found")
	ErrStorage         = errors.New("httpx: storage failure")
	ErrBadPath         = errors.New("httpx: bad path")
	ErrInvalidResponse = errors.New("httpx: invalid response")
	ErrServerClosed    = errors.New("httpx: server closed")
)

// StatusFor maps an error to the status code sent to the client.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return 200
	case errors.Is(err, ErrParse), errors.Is(err, ErrMissingHeader), errors.Is(err, ErrBadPath):
		return 400
	case errors.Is(err, ErrNotFound):
		return 404
	default:
		return 500
	}
}
