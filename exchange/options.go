package exchange

import (
	"net/http"
	"time"
)

type Options struct {
	Timeout         time.Duration
	FollowRedirects bool
	SkipVerify      bool
	ForceHTTP1      bool

	// Transport replaces the default transport when set.
	Transport http.RoundTripper
}
