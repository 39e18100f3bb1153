package http1

import (
	"fmt"
	"io"
	"strings"
)

// Head is the fixed set of fields a response header block carries.
type Head struct {
	StatusCode int
	Reason     string
	// Gzip emits the Accept-Encoding and Content-Encoding gzip pair.
	Gzip          bool
	ContentType   string
	ContentLength int
}

// WriteHead writes the status line and header block of an HTTP/1.1 response,
// terminated by a single blank line. Fields are always emitted in the same
// order: encoding pair, Content-Type, Content-Length.
func WriteHead(w io.Writer, h Head) error {
	reason := h.Reason
	if reason == "" {
		reason = ReasonPhrase(h.StatusCode)
	}
	if _, err := fmt.Fprintf(w, "HTTP/1.1 %d %s\r\n", h.StatusCode, sanitizeHeaderValue(reason)); err != nil {
		return err
	}
	if h.Gzip {
		if _, err := io.WriteString(w, "Accept-Encoding: gzip\r\nContent-Encoding: gzip\r\n"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Content-Type: %s\r\n", sanitizeHeaderValue(h.ContentType)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n", h.ContentLength); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// ReasonPhrase returns the standard reason phrase for code, or "" if unknown.
func ReasonPhrase(code int) string {
	switch code {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 204:
		return "No Content"
	case 400:
		return "Bad Request"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 413:
		return "Payload Too Large"
	case 500:
		return "Internal Server Error"
	case 501:
		return "Not Implemented"
	default:
		return ""
	}
}

// sanitizeHeaderValue removes CR/LF and control chars except HTAB.
func sanitizeHeaderValue(v string) string {
	if v == "" {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' || c == 0x7f {
			continue
		}
		if c < 0x20 && c != '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
