package main

import (
	"fmt"
	"io"
	"text/template"
)

const usageMessageTemplate = `
NAME
          {{.ProgramName}} -- {{.PackageName}}

SYNOPSIS
          {{.ProgramName}} [options] --in file --out file --query {A|AAAA|PTR|NS} ...

DESCRIPTION
          {{.ProgramName}} reads names (or, for PTR lookups, dotted-decimal IP addresses) from one
          or more input files and resolves each of them against a pool of recursive nameservers,
          writing deduplicated, sorted results to the corresponding output file.

          --in, --out and --query are repeatable and positionally paired: the Nth --in is read as
          the Nth --query type and its results are written to the Nth --out. Several entries may
          share the same --out path, in which case their results are merged into one file.

          The aggregate query rate across every in-flight lookup is capped at the configured
          queries-per-second; forward (A/AAAA/NS) lookups retry on timeout, and reverse (PTR)
          lookups follow NS authority referrals until an answer is found or every candidate
          nameserver has been tried.

CONFIGURATION
          DNS servers, the QPS ceiling and the per-query retry count are read from a TOML file
          (--config, or else the first of ./{{.ConfigFileName}}, $HOME/.config/{{.ConfigFileName}},
          /etc/{{.ConfigFileName}} that exists) recognizing the keys "dns", "retry" and
          "queries_per_second". Any key not present falls back to its built-in default.

OPTIONS
          [-v ...] [--config file] [--progress] [--gops]
          [--in file --out file --query {A|AAAA|PTR|NS}] ...

`

func usage(out io.Writer) {
	tmpl, err := template.New("usage").Parse(usageMessageTemplate)
	if err != nil {
		panic(err) // We've messed up our template
	}
	if err := tmpl.Execute(out, consts); err != nil {
		panic(err)
	}
	flagSet.SetOutput(out)
	flagSet.PrintDefaults()
	fmt.Fprintln(out, "\nVersion:", consts.Version)
}

// parseCommandLine sets up the flags-to-cliConfig mapping and parses args. It registers its flags on
// the FlagSet that mainExecute creates afresh each run, so test wrappers can invoke mainExecute
// repeatedly within one process.
func parseCommandLine(args []string) error {
	flagSet.BoolVar(&cfg.help, "h", false, "Print usage message to Stdout then exit(0)")
	flagSet.BoolVar(&cfg.version, "version", false, "Print version and exit")

	flagSet.Var(&cfg.in, "in", "input `file` of names/addresses to resolve (repeatable)")
	flagSet.Var(&cfg.out, "out", "output `file` for resolved results (repeatable)")
	flagSet.Var(&cfg.query, "query", "query `type`: A, AAAA, PTR or NS (repeatable)")

	flagSet.StringVar(&cfg.configPath, "config", "", "`path` to a batch_resolve.toml config file")

	flagSet.BoolFunc("v", "increase verbosity (repeatable)", func(string) error {
		cfg.verboseCount++
		return nil
	})

	flagSet.BoolVar(&cfg.progress, "progress", true, "show a progress bar on stderr")
	flagSet.BoolVar(&cfg.gops, "gops", false, "start github.com/google/gops agent")

	return flagSet.Parse(args[1:])
}
