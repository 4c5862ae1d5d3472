package telegram

import (
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/bankbot/core/telegram/netutil"
)

// NewHTTPClient returns the client used for Bot API calls. Its timeout must
// exceed the long poll timeout.
func NewHTTPClient() *http.Client {
	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout:   time.Minute,
		Transport: &resendTransport{base: base, attempts: 3, backoff: time.Second},
	}
}

// resendTransport repeats requests that never left the host, so non
// idempotent Bot API calls are never duplicated.
type resendTransport struct {
	base     http.RoundTripper
	attempts int
	backoff  time.Duration
}

func (t *resendTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	for attempt := 1; err != nil && netutil.NotSent(err) && attempt < t.attempts; attempt++ {
		if req.Body != nil && req.GetBody == nil {
			return nil, err
		}
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(t.backoff * time.Duration(attempt)):
		}
		r := req.Clone(req.Context())
		if req.GetBody != nil {
			body, bodyErr := req.GetBody()
			if bodyErr != nil {
				return nil, bodyErr
			}
			r.Body = body
		}
		resp, err = t.base.RoundTrip(r)
	}
	return resp, err
}
