/*
Package task holds the small set of types internal/worker and internal/batch both need without
either depending on the other: the per-input unit of work a worker drives through internal/resolve,
and the sink interface a successful resolution is delivered to.
*/
package task

import "github.com/markdingo/batchresolve/internal/resolve"

// Task is one input fully described: what to look up, which record type, and where a successful
// answer goes. Sink is deliberately an interface rather than a channel - spec.md §6's scenario of
// several logical tasks sharing one output file is just several Tasks carrying the same Sink value.
type Task struct {
	Input string
	QType resolve.QueryType
	Sink  ResolvedSink
}

// ResolvedSink receives the extracted record values for one successfully resolved input. A sink
// implementation decides how to dedupe, sort and persist; the core only knows it got an answer.
type ResolvedSink interface {
	Resolved(input string, values []string)
}
