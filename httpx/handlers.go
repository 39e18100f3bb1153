package httpx

import (
	"errors"
	"strings"

	"dqx0.com/go/tinyhttp/internal/obs"
)

const echoPrefix = "/echo/"

func (rt *Router) serveRoot(r *Request) ResponseSpec {
	return Status(200)
}

func (rt *Router) serveUserAgent(r *Request) ResponseSpec {
	ua := r.Header.Get(HeaderUserAgent)
	if ua == "" {
		rt.log.Logf(obs.Debug, "%s: %v: %s", r.ID, ErrMissingHeader, HeaderUserAgent)
		return Status(StatusFor(ErrMissingHeader))
	}
	c := rt.uaparse(ua)
	rt.log.Logf(obs.Debug, "%s: user-agent family=%s version=%s.%s.%s", r.ID, c.Family, c.Major, c.Minor, c.Patch)
	return Text([]byte(ua), NegotiateEncoding(r.Header.Get(HeaderAcceptEncoding)))
}

func (rt *Router) serveEcho(r *Request) ResponseSpec {
	msg := r.Path[len(echoPrefix):]
	return Text([]byte(msg), NegotiateEncoding(r.Header.Get(HeaderAcceptEncoding)))
}

// fileName extracts the segment following /files/. Paths with further
// segments or traversal names are rejected with ErrBadPath.
func fileName(path string) (string, error) {
	parts := strings.Split(path, "/")
	if len(parts) != 3 || !ValidFileName(parts[2]) {
		return "", ErrBadPath
	}
	return parts[2], nil
}

func (rt *Router) serveFileGet(r *Request) ResponseSpec {
	name, err := fileName(r.Path)
	if err != nil {
		return Status(StatusFor(err))
	}
	if rt.store == nil || !rt.store.Exists(name) {
		return Status(404)
	}
	data, err := rt.store.ReadAll(name)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			rt.log.Logf(obs.Error, "%s: read %s: %v", r.ID, name, err)
		}
		return Status(StatusFor(err))
	}
	s := Status(200)
	s.ContentType = ContentTypeBinary
	s.Body = data
	return s
}

func (rt *Router) serveFilePost(r *Request) ResponseSpec {
	name, err := fileName(r.Path)
	if err != nil {
		return Status(StatusFor(err))
	}
	if rt.store == nil {
		rt.log.Logf(obs.Error, "%s: write %s: %v: no directory configured", r.ID, name, ErrStorage)
		return Status(500)
	}
	if err := rt.store.WriteAll(name, r.Body); err != nil {
		rt.log.Logf(obs.Error, "%s: write %s: %v", r.ID, name, err)
		return Status(StatusFor(err))
	}
	return Status(201)
}
