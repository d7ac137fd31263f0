/*
Package resolve implements the per-task query state machine: a bounded retry loop for forward
lookups (A, AAAA, NS) and a depth-first, cycle-avoiding recursive walk for reverse (PTR) lookups
that follow NS authority referrals. It is driven by internal/worker, one task at a time, against an
internal/wireclient.Client - production code supplies the real UDP adapter, tests supply a fake.
*/
package resolve

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// QueryType is the set of record types a task may request.
type QueryType int

const (
	A QueryType = iota
	AAAA
	PTR
	NS
)

func (q QueryType) String() string {
	switch q {
	case A:
		return "A"
	case AAAA:
		return "AAAA"
	case PTR:
		return "PTR"
	case NS:
		return "NS"
	default:
		return "UNKNOWN"
	}
}

// ParseQueryType maps a case-insensitive CLI/config token onto a QueryType.
func ParseQueryType(s string) (QueryType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return A, nil
	case "AAAA":
		return AAAA, nil
	case "PTR":
		return PTR, nil
	case "NS":
		return NS, nil
	}

	return 0, fmt.Errorf("resolve: unknown query type %q", s)
}

// dnsType maps a QueryType onto the wire-level RR type miekg/dns expects.
func (q QueryType) dnsType() uint16 {
	switch q {
	case A:
		return dns.TypeA
	case AAAA:
		return dns.TypeAAAA
	case PTR:
		return dns.TypePTR
	case NS:
		return dns.TypeNS
	default:
		panic("resolve: invalid QueryType")
	}
}
