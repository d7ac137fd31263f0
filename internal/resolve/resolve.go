package resolve

import (
	"context"

	"github.com/miekg/dns"
	log "github.com/sirupsen/logrus"

	"github.com/markdingo/batchresolve/internal/config"
	"github.com/markdingo/batchresolve/internal/wireclient"
)

// Resolve runs one task to completion: a bounded retry against server for A/AAAA/NS lookups, or
// the full recursive nameserver walk for PTR lookups. input is the hostname for A/AAAA/NS and the
// dotted-decimal or colon-form IP address for PTR. The returned strings are the extracted record
// values in wire order; a successful call always returns at least one.
//
// Forward lookups fail with ErrConnectionTimeout, ErrNotFound or *DNSClientError. PTR lookups fail
// with ErrNotFound, *DNSClientError, or a plain error when input is not an IP address; nameservers
// that time out or cannot be resolved are skipped by the walk rather than reported.
func Resolve(ctx context.Context, client wireclient.Client, cfg *config.Snapshot, server, input string, qtype QueryType, logger *log.Entry) ([]string, error) {
	if qtype == PTR {
		return ptrWalk(ctx, client, cfg, server, input, logger)
	}

	msg, err := retryLoop(ctx, client, server, dns.Fqdn(input), dns.ClassINET, qtype.dnsType(), cfg.TimeoutRetries(), logger)
	if err != nil {
		return nil, err
	}

	answer := extractAnswer(msg, qtype)
	if len(answer) == 0 {
		return nil, ErrNotFound
	}

	return answer, nil
}
