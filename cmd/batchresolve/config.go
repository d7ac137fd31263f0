package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/markdingo/batchresolve/internal/flagutil"
)

// cliConfig holds everything parseCommandLine fills in from the command line. It is deliberately
// distinct from internal/config.Snapshot: this struct is mutable CLI state, the Snapshot it feeds
// is the validated, immutable core input.
type cliConfig struct {
	help    bool
	version bool

	in    flagutil.StringValue
	out   flagutil.StringValue
	query flagutil.StringValue

	configPath string

	verboseCount int

	progress bool
	gops     bool
}

// logrusLevel maps a -v repeat count onto spec.md §6's five named verbosity levels, topping out at
// logrus.TraceLevel - logrus is one of the few leveled loggers in the retrieved corpus that ships a
// trace level natively, which is exactly what "the five named levels" needs.
func (c *cliConfig) logrusLevel() log.Level {
	switch {
	case c.verboseCount <= 0:
		return log.ErrorLevel
	case c.verboseCount == 1:
		return log.WarnLevel
	case c.verboseCount == 2:
		return log.InfoLevel
	case c.verboseCount == 3:
		return log.DebugLevel
	default:
		return log.TraceLevel
	}
}
