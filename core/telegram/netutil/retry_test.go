package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassification(t *testing.T) {
	t.Parallel()

	dial := &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}}
	read := &net.OpError{Op: "read", Err: errors.New("connection reset by peer")}
	lookup := fmt.Errorf("send: %w", &net.DNSError{Err: "no such host", Name: "api.telegram.org"})
	timeout := &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: timeoutErr{}}

	cases := []struct {
		name           string
		err            error
		notSent, retry bool
	}{
		{"nil", nil, false, false},
		{"dial", dial, true, true},
		{"dns", lookup, true, true},
		{"reset after send", read, false, false},
		{"timeout", timeout, false, true},
		{"cancelled", fmt.Errorf("poll: %w", context.Canceled), false, false},
		{"plain", errors.New("bad request"), false, false},
	}
	for _, tc := range cases {
		if got := NotSent(tc.err); got != tc.notSent {
			t.Fatalf("%s: NotSent = %v", tc.name, got)
		}
		if got := ShouldRetry(tc.err); got != tc.retry {
			t.Fatalf("%s: ShouldRetry = %v", tc.name, got)
		}
	}
}
