/*
Package config holds the immutable configuration snapshot consumed by the resolution core: the DNS
server pool, the aggregate queries-per-second target and the per-query timeout-retry count.

A Snapshot is built once, at program start, from defaults and an optional TOML file, then handed by
reference to the core (internal/batch, internal/worker, internal/resolve; internal/pacer receives
only its server list). None of those packages mutate it, so no locking is required once the
Snapshot exists - this is the "process-wide mutable state behind a reader-writer guard" of the
original design, collapsed into a single read-only value per run.
*/
package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/markdingo/batchresolve/internal/constants"
)

var consts = constants.Get()

// Snapshot is the read-only configuration consumed by the core. All fields are normalized: every
// DNSServers entry is a dialable "host:port" string.
type Snapshot struct {
	dnsServers     []string
	qps            uint32
	timeoutRetries uint32
}

// Default returns the Snapshot the original batch_resolve source ships with: Google's public
// resolvers, a 5000 QPS aggregate ceiling and 10 timeout retries per query.
func Default() *Snapshot {
	s, err := New([]string{"8.8.8.8:53", "8.8.4.4:53"}, consts.DefaultQPS, consts.DefaultTimeoutRetries)
	if err != nil {
		panic("config: default snapshot failed to validate: " + err.Error()) // Can't happen
	}

	return s
}

// New validates and normalizes the supplied values into a Snapshot. servers must be non-empty;
// bare addresses (no port) default to DNSDefaultPort. qps must be greater than zero and
// timeoutRetries must be at least one, matching spec.md's Config snapshot invariant.
func New(servers []string, qps, timeoutRetries uint32) (*Snapshot, error) {
	if len(servers) == 0 {
		return nil, fmt.Errorf("config: at least one dns server is required")
	}
	if qps == 0 {
		return nil, fmt.Errorf("config: queries_per_second must be greater than zero")
	}
	if timeoutRetries == 0 {
		return nil, fmt.Errorf("config: retry must be at least one")
	}

	normalized := make([]string, 0, len(servers))
	for _, s := range servers {
		addr, err := normalizeServer(s)
		if err != nil {
			return nil, fmt.Errorf("config: dns server %q: %w", s, err)
		}
		normalized = append(normalized, addr)
	}

	return &Snapshot{dnsServers: normalized, qps: qps, timeoutRetries: timeoutRetries}, nil
}

// DNSServers returns the ordered, normalized list of "host:port" DNS servers. The pacer
// round-robins this list; order is preserved from however the caller supplied it.
func (s *Snapshot) DNSServers() []string {
	return append([]string{}, s.dnsServers...)
}

// QPS returns the aggregate queries-per-second ceiling.
func (s *Snapshot) QPS() uint32 {
	return s.qps
}

// TimeoutRetries returns the total number of attempts a single query gets, each client timeout or
// cancellation consuming one, before the query gives up.
func (s *Snapshot) TimeoutRetries() uint32 {
	return s.timeoutRetries
}

// normalizeServer appends the default DNS port to a bare address, wrapping naked IPv6 addresses in
// brackets first so the result is always a valid dialable "host:port" string.
func normalizeServer(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("empty address")
	}

	if host, port, err := net.SplitHostPort(addr); err == nil {
		if port == "" {
			return "", fmt.Errorf("missing port")
		}
		return net.JoinHostPort(host, port), nil
	}

	// SplitHostPort failed - either there's no port at all, or it's a naked (unbracketed) IPv6
	// address whose embedded colons defeat the simple host:port split. JoinHostPort brackets
	// the host automatically if it contains a colon, so both cases fall through here.
	return net.JoinHostPort(addr, consts.DNSDefaultPort), nil
}
