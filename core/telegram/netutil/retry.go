// Package netutil classifies transport errors of outbound HTTP calls.
package netutil

import (
	"context"
	"errors"
	"net"
)

// NotSent reports whether err happened before the request reached the
// server: a failed dial or name lookup. Such calls are safe to repeat even
// when they are not idempotent.
func NotSent(err error) bool {
	if err == nil {
		return false
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// ShouldRetry reports whether err is transient: NotSent, or a timeout that
// was not caused by the caller cancelling.
func ShouldRetry(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if NotSent(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
