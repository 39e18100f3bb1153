package httpx

import (
	"sync"

	"github.com/ua-parser/uap-go/uaparser"
)

// UserAgent is a classified User-Agent string.
type UserAgent struct {
	Family string
	Major  string
	Minor  string
	Patch  string
}

// UserAgentParser classifies a raw User-Agent value.
type UserAgentParser func(ua string) UserAgent

var (
	uapOnce   sync.Once
	uapParser *uaparser.Parser
)

// ClassifyUserAgent parses ua with the bundled uap-core regexes. The
// regex set is compiled on first use.
func ClassifyUserAgent(ua string) UserAgent {
	if ua == "" {
		return UserAgent{}
	}
	uapOnce.Do(func() { uapParser = uaparser.NewFromSaved() })
	c := uapParser.ParseUserAgent(ua)
	return UserAgent{Family: c.Family, Major: c.Major, Minor: c.Minor, Patch: c.Patch}
}
