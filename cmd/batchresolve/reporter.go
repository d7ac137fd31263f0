package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/markdingo/batchresolve/internal/reporter"
)

// statusReport prints one status line for every reporter, the same shape as the TEACHER's
// cmd/trustydns-proxy/main.go helper of the same name.
func statusReport(out io.Writer, what string, resetCounters bool, reporters []reporter.Reporter, uptime time.Duration) {
	fmt.Fprintln(out, "Status Up:", consts.ProgramName, consts.Version, uptime.Truncate(time.Second))
	for _, r := range reporters {
		for _, line := range strings.Split(r.Report(resetCounters), "\n") {
			if len(line) > 0 {
				fmt.Fprintf(out, "%s %s: %s\n", what, r.Name(), line)
			}
		}
	}
}
