package httpx

import "strings"

const EncodingGzip = "gzip"

// NegotiateEncoding picks the response encoding for an Accept-Encoding
// value. Any value containing "gzip" selects gzip; q-values are not
// interpreted.
func NegotiateEncoding(acceptEncoding string) string {
	if strings.Contains(acceptEncoding, EncodingGzip) {
		return EncodingGzip
	}
	return ""
}
