package httpx

import (
	"bytes"
	"fmt"
	"io"
	"net"

	"dqx0.com/go/tinyhttp/httpx/internal/http1"
)

const (
	ContentTypeText   = "text/plain"
	ContentTypeBinary = "application/octet-stream"
)

// ResponseSpec describes a response before serialization.
//
// Compress requires AcceptEncoding to be EncodingGzip and Body to be
// non-empty. Content-Length is always taken from the final body.
type ResponseSpec struct {
	StatusCode    int
	StatusMessage string
	// ContentType defaults to text/plain.
	ContentType    string
	Body           []byte
	AcceptEncoding string
	Compress       bool
}

// Response is a serialized response: the header block and the body that
// follows it.
type Response struct {
	Head []byte
	Body []byte
}

// Build serializes s into its wire form.
func (s ResponseSpec) Build() (Response, error) {
	gz := s.AcceptEncoding == EncodingGzip
	body := s.Body
	if s.Compress {
		if !gz {
			return Response{}, fmt.Errorf("%w: compression without gzip encoding", ErrInvalidResponse)
		}
		if len(body) == 0 {
			return Response{}, fmt.Errorf("%w: compression of empty body", ErrInvalidResponse)
		}
		z, err := http1.Gzip(body)
		if err != nil {
			return Response{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		body = z
	}
	ct := s.ContentType
	if ct == "" {
		ct = ContentTypeText
	}
	var head bytes.Buffer
	err := http1.WriteHead(&head, http1.Head{
		StatusCode:    s.StatusCode,
		Reason:        s.StatusMessage,
		Gzip:          gz,
		ContentType:   ct,
		ContentLength: len(body),
	})
	if err != nil {
		return Response{}, err
	}
	return Response{Head: head.Bytes(), Body: body}, nil
}

// Bytes returns the complete message.
func (r Response) Bytes() []byte {
	b := make([]byte, 0, len(r.Head)+len(r.Body))
	b = append(b, r.Head...)
	return append(b, r.Body...)
}

// Len is the total number of bytes on the wire.
func (r Response) Len() int { return len(r.Head) + len(r.Body) }

// WriteTo writes the header block then the body to w.
func (r Response) WriteTo(w io.Writer) (int64, error) {
	bufs := net.Buffers{r.Head, r.Body}
	return bufs.WriteTo(w)
}

// Status returns a response with the standard reason phrase and no body.
func Status(code int) ResponseSpec {
	return ResponseSpec{StatusCode: code, StatusMessage: http1.ReasonPhrase(code)}
}

// Text returns a 200 text/plain response for body. If encoding is gzip and
// body is non-empty the body is compressed; an empty body is never marked
// as encoded.
func Text(body []byte, encoding string) ResponseSpec {
	s := Status(200)
	s.ContentType = ContentTypeText
	s.Body = body
	if encoding == EncodingGzip && len(body) > 0 {
		s.AcceptEncoding = EncodingGzip
		s.Compress = true
	}
	return s
}
