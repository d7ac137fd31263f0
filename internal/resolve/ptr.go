package resolve

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/miekg/dns"
	log "github.com/sirupsen/logrus"

	"github.com/markdingo/batchresolve/internal/config"
	"github.com/markdingo/batchresolve/internal/wireclient"
)

// ptrName builds the "<reversed-octets>.in-addr.arpa." (or nibble-reversed ip6.arpa for IPv6)
// query name for addr, using miekg/dns's own reversal so IPv4 and IPv6 share one code path.
func ptrName(addr string) (string, error) {
	ip := net.ParseIP(addr)
	if ip == nil {
		return "", fmt.Errorf("resolve: %q is not a valid IP address", addr)
	}

	name, err := dns.ReverseAddr(addr)
	if err != nil {
		return "", fmt.Errorf("resolve: reversing %q: %w", addr, err)
	}

	return name, nil
}

// resolveNS turns a nameserver value into a dialable "host:port" address. A known nameserver is
// already one; an unknown one is an NS authority record's bare domain, resolved with a single A
// lookup against the same server this walk was triggered with (Open Question (a) resolved this
// way: the triggering server already bore the task's share of the QPS budget, so reusing it avoids
// an extra, unbudgeted server pick).
func resolveNS(ctx context.Context, client wireclient.Client, cfg *config.Snapshot, server string, ns nameserver, logger *log.Entry) (string, error) {
	if ns.known {
		return ns.addr, nil
	}

	msg, err := retryLoop(ctx, client, server, dns.Fqdn(ns.domain), dns.ClassINET, dns.TypeA, cfg.TimeoutRetries(), logger)
	if err != nil {
		return "", &NameServerNotResolvedError{Domain: ns.domain, Err: err}
	}

	addrs := extractAnswer(msg, A)
	if len(addrs) == 0 {
		return "", &NameServerNotResolvedError{Domain: ns.domain, Err: ErrNotFound}
	}

	return net.JoinHostPort(addrs[0], "53"), nil
}

// ptrWalk implements the recursive PTR resolution: start from the bootstrap server, and whenever a
// response carries no PTR answer but does carry NS authority records, push the unvisited ones onto
// an explicit stack and keep going. The visited set guarantees termination even if nameservers
// refer to each other in a cycle. Terminates with the first non-empty answer, or ErrNotFound once
// the stack is empty.
func ptrWalk(ctx context.Context, client wireclient.Client, cfg *config.Snapshot, server, addr string, logger *log.Entry) ([]string, error) {
	name, err := ptrName(addr)
	if err != nil {
		return nil, err
	}

	stack := []nameserver{knownNS(server)}
	visited := map[nameserver]bool{knownNS(server): true}

	for len(stack) > 0 {
		ns := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		dialAddr, err := resolveNS(ctx, client, cfg, server, ns, logger)
		if err != nil {
			if logger != nil {
				logger.WithError(err).Debug("dropping unresolved nameserver from ptr walk")
			}
			continue
		}

		msg, err := retryLoop(ctx, client, dialAddr, name, dns.ClassINET, dns.TypePTR, cfg.TimeoutRetries(), logger)
		if err != nil {
			if _, ok := err.(*DNSClientError); ok {
				return nil, err
			}
			continue // ErrConnectionTimeout against this one nameserver: try the next candidate
		}

		if answer := extractAnswer(msg, PTR); len(answer) > 0 {
			return answer, nil
		}

		for _, rr := range msg.Ns {
			nsrr, ok := rr.(*dns.NS)
			if !ok || nsrr.Ns == "" || nsrr.Ns == "." {
				continue
			}

			candidate := unknownNS(strings.TrimSuffix(nsrr.Ns, "."))
			if !visited[candidate] {
				visited[candidate] = true
				stack = append(stack, candidate)
			}
		}
	}

	return nil, ErrNotFound
}
