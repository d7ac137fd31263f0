package resolve

import (
	"context"
	"net"
	"sync"

	"github.com/miekg/dns"
)

func mustParseIP(s string) net.IP {
	ip := net.ParseIP(s)
	if ip == nil {
		panic("resolve: bad test IP literal " + s)
	}
	return ip
}

// fakeCall records one Query invocation against a fakeClient, for tests that assert exactly how
// many wire queries a scenario should have produced and against which server.
type fakeCall struct {
	server string
	name   string
	rtype  uint16
}

// fakeClient is a scriptable wireclient.Client: each test supplies a handler that decides the
// reply (or error) for the n-th call, given full visibility into what was asked.
type fakeClient struct {
	mu      sync.Mutex
	n       int
	calls   []fakeCall
	handler func(n int, server, name string, class, rtype uint16) (*dns.Msg, error)
}

func (f *fakeClient) Query(_ context.Context, server, name string, class, rtype uint16) (*dns.Msg, error) {
	f.mu.Lock()
	n := f.n
	f.n++
	f.calls = append(f.calls, fakeCall{server: server, name: name, rtype: rtype})
	f.mu.Unlock()

	return f.handler(n, server, name, class, rtype)
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.n
}

func aRecord(name, ip string) *dns.A {
	return &dns.A{
		Hdr: dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypeA, Class: dns.ClassINET},
		A:   mustParseIP(ip),
	}
}

func ptrRecord(name, target string) *dns.PTR {
	return &dns.PTR{
		Hdr: dns.RR_Header{Name: dns.Fqdn(name), Rrtype: dns.TypePTR, Class: dns.ClassINET},
		Ptr: dns.Fqdn(target),
	}
}

func nsAuthority(zone, ns string) *dns.NS {
	return &dns.NS{
		Hdr: dns.RR_Header{Name: dns.Fqdn(zone), Rrtype: dns.TypeNS, Class: dns.ClassINET},
		Ns:  dns.Fqdn(ns),
	}
}

func answerMsg(rrs ...dns.RR) *dns.Msg {
	msg := new(dns.Msg)
	msg.Answer = rrs
	return msg
}

func referralMsg(rrs ...dns.RR) *dns.Msg {
	msg := new(dns.Msg)
	msg.Ns = rrs
	return msg
}
