package httpx

// Recognized request header names. Lookups are case-sensitive.
const (
	HeaderUserAgent      = "User-Agent"
	HeaderAcceptEncoding = "Accept-Encoding"
	HeaderContentType    = "Content-Type"
	HeaderContentLength  = "Content-Length"
)

// Header maps a recognized header name to its single value.
type Header map[string]string

// Get returns the value for key, or "" if absent. key is matched exactly.
func (h Header) Get(key string) string {
	if h == nil {
		return ""
	}
	return h[key]
}
