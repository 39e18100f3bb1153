package httpx

import (
	"strings"

	"dqx0.com/go/tinyhttp/internal/obs"
)

// HandlerFunc produces the response for a matched request.
type HandlerFunc func(*Request) ResponseSpec

// Matcher decides whether a route applies to a path.
type Matcher interface {
	Match(path string) bool
	String() string
}

// Exact matches one literal path.
type Exact string

func (e Exact) Match(path string) bool { return path == string(e) }
func (e Exact) String() string         { return string(e) }

// Prefix matches every path starting with the literal prefix.
type Prefix string

func (p Prefix) Match(path string) bool { return strings.HasPrefix(path, string(p)) }
func (p Prefix) String() string         { return string(p) + "*" }

// Route binds a matcher to a handler. An empty Methods list accepts any
// method.
type Route struct {
	Name    string
	Path    Matcher
	Methods []string
	Handler HandlerFunc
}

func (rt Route) matches(r *Request) bool {
	if !rt.Path.Match(r.Path) {
		return false
	}
	if len(rt.Methods) == 0 {
		return true
	}
	for _, m := range rt.Methods {
		if m == r.Method {
			return true
		}
	}
	return false
}

// RouterConfig is the externally supplied router configuration.
type RouterConfig struct {
	// Directory is the served-files directory. Empty disables file access:
	// GET /files/* answers 404 and POST /files/* answers 500.
	Directory string
}

// RouterOption configures a Router at construction time.
type RouterOption func(*Router)

// WithStore replaces the directory-backed FileStore.
func WithStore(s FileStore) RouterOption {
	return func(rt *Router) { rt.store = s }
}

// WithLogger sets the logger used by handlers.
func WithLogger(l obs.Logger) RouterOption {
	return func(rt *Router) {
		if l != nil {
			rt.log = l
		}
	}
}

// WithUserAgentParser replaces ClassifyUserAgent.
func WithUserAgentParser(fn UserAgentParser) RouterOption {
	return func(rt *Router) {
		if fn != nil {
			rt.uaparse = fn
		}
	}
}

// Router dispatches requests over a fixed, ordered route table. It holds no
// mutable state and is safe for concurrent use.
type Router struct {
	routes  []Route
	store   FileStore
	log     obs.Logger
	uaparse UserAgentParser
}

// NewRouter builds the route table. Exact routes come before prefix routes
// and the first match wins.
func NewRouter(cfg RouterConfig, opts ...RouterOption) *Router {
	rt := &Router{
		log:     obs.NopLogger{},
		uaparse: ClassifyUserAgent,
	}
	if cfg.Directory != "" {
		rt.store = NewDirStore(cfg.Directory)
	}
	for _, o := range opts {
		o(rt)
	}
	rt.routes = []Route{
		{Name: "root", Path: Exact("/"), Handler: rt.serveRoot},
		{Name: "user-agent", Path: Exact("/user-agent"), Handler: rt.serveUserAgent},
		{Name: "echo", Path: Prefix("/echo/"), Handler: rt.serveEcho},
		{Name: "files-get", Path: Prefix("/files/"), Methods: []string{"GET"}, Handler: rt.serveFileGet},
		{Name: "files-post", Path: Prefix("/files/"), Methods: []string{"POST"}, Handler: rt.serveFilePost},
	}
	return rt
}

// Routes returns a copy of the route table in match order.
func (rt *Router) Routes() []Route {
	out := make([]Route, len(rt.routes))
	copy(out, rt.routes)
	return out
}

// Lookup returns the first route matching r.
func (rt *Router) Lookup(r *Request) (Route, bool) {
	for _, route := range rt.routes {
		if route.matches(r) {
			return route, true
		}
	}
	return Route{}, false
}

// Dispatch runs the handler of the first matching route, or answers 404.
func (rt *Router) Dispatch(r *Request) ResponseSpec {
	route, ok := rt.Lookup(r)
	if !ok {
		return Status(404)
	}
	return route.Handler(r)
}
