/*
Package wireclient is the thin adapter over "github.com/miekg/dns" that the query state machine
(internal/resolve) drives. It exposes exactly one operation - Query - and classifies every failure
into the three-way taxonomy spec.md §4.1 requires: Timeout, Canceled, Other. No retransmission
happens here; retry policy belongs entirely to the caller.
*/
package wireclient

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/miekg/dns"
)

// Kind classifies why a Query call failed.
type Kind int

const (
	// KindTimeout means no response arrived within the client's internal window.
	KindTimeout Kind = iota
	// KindCanceled means the reactor shut down, the socket closed, or the query was dropped
	// mid-flight (e.g. the caller's context was canceled).
	KindCanceled
	// KindOther covers malformed responses, I/O errors and anything else.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	default:
		return "other"
	}
}

// Error wraps a wire-level failure with its Kind. Canceled errors carry the reason string
// (typically the underlying context or I/O error) so callers can log it on the final retry.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("wireclient: %s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("wireclient: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Client is implemented by anything that can issue one DNS question and await one response. It
// exists so internal/resolve can be driven against a mock in tests without opening real sockets.
type Client interface {
	Query(ctx context.Context, server, name string, class, rtype uint16) (*dns.Msg, error)
}

// UDP is the production Client, a small wrapper around dns.Client operating over UDP. A fresh
// *dns.Client is constructed per call, matching spec.md §4.1's "creates a fresh UDP client bound to
// server within the calling reactor" - there is no connection state to share across queries.
type UDP struct{}

// NewUDP constructs the production wire client adapter.
func NewUDP() *UDP {
	return &UDP{}
}

// Query issues one question of the given class/rtype to server and awaits one response, or returns
// a classified *Error.
func (u *UDP) Query(ctx context.Context, server, name string, class, rtype uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), rtype)
	msg.Question[0].Qclass = class
	msg.RecursionDesired = true

	client := &dns.Client{Net: "udp"}
	reply, _, err := client.ExchangeContext(ctx, msg, server)
	if err != nil {
		return nil, classify(ctx, err)
	}

	return reply, nil
}

// classify maps a raw error from dns.Client.ExchangeContext into the Timeout/Canceled/Other
// taxonomy spec.md §4.1 requires. A context deadline is the caller's per-query timeout window, so
// it classifies as Timeout; an explicit cancellation (shutdown, socket closed mid-flight)
// classifies as Canceled.
func classify(ctx context.Context, err error) *Error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Err: err}
	case errors.Is(ctx.Err(), context.Canceled):
		return &Error{Kind: KindCanceled, Reason: ctx.Err().Error(), Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}

	if errors.Is(err, net.ErrClosed) {
		return &Error{Kind: KindCanceled, Reason: "connection closed", Err: err}
	}

	return &Error{Kind: KindOther, Reason: err.Error(), Err: err}
}
