package resolve

import "github.com/miekg/dns"

// extractAnswer pulls the printable record values matching qtype out of a message's answer
// section, selecting by the RR's concrete Go type rather than by the question's declared rtype.
// A server that replies to an A query with a CNAME chain terminated by the A record the caller
// actually wants is common; walking the whole answer section and filtering by type captures that
// chain's useful record without the caller having to unwind CNAMEs itself.
func extractAnswer(msg *dns.Msg, qtype QueryType) []string {
	var out []string

	for _, rr := range msg.Answer {
		switch qtype {
		case A:
			if a, ok := rr.(*dns.A); ok {
				out = append(out, a.A.String())
			}
		case AAAA:
			if aaaa, ok := rr.(*dns.AAAA); ok {
				out = append(out, aaaa.AAAA.String())
			}
		case NS:
			if ns, ok := rr.(*dns.NS); ok {
				out = append(out, ns.Ns)
			}
		case PTR:
			if ptr, ok := rr.(*dns.PTR); ok {
				out = append(out, ptr.Ptr)
			}
		}
	}

	return out
}
