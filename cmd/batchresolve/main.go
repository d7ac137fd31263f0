// batchresolve resolves many names or addresses against a pool of recursive nameservers at a
// bounded aggregate query rate.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/gops/agent"
	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"

	"github.com/markdingo/batchresolve/internal/batch"
	"github.com/markdingo/batchresolve/internal/config"
	"github.com/markdingo/batchresolve/internal/constants"
	"github.com/markdingo/batchresolve/internal/osutil"
	"github.com/markdingo/batchresolve/internal/reporter"
	"github.com/markdingo/batchresolve/internal/resolve"
	"github.com/markdingo/batchresolve/internal/status"
	"github.com/markdingo/batchresolve/internal/wireclient"
)

var (
	consts = constants.Get()
	cfg    *cliConfig

	stdout io.Writer
	stderr io.Writer

	startTime   time.Time
	flagSet     *flag.FlagSet
	stopChannel chan os.Signal
)

func fatal(args ...interface{}) int {
	fmt.Fprint(stderr, "Fatal: ", consts.ProgramName, ": ")
	fmt.Fprintln(stderr, args...)
	return 1
}

func mainInit(out, err io.Writer) {
	cfg = &cliConfig{}
	stdout = out
	stderr = err
	startTime = time.Now()
	stopChannel = make(chan os.Signal, 4)
	osutil.SignalNotify(stopChannel)
}

func main() {
	mainInit(os.Stdout, os.Stderr)
	os.Exit(mainExecute(os.Args))
}

func mainExecute(args []string) int {
	flagSet = flag.NewFlagSet(args[0], flag.ContinueOnError)
	flagSet.SetOutput(stderr)

	if err := parseCommandLine(args); err != nil {
		return 1 // Error already printed by the flag package
	}
	if cfg.help {
		usage(stdout)
		return 0
	}
	if cfg.version {
		fmt.Fprintln(stdout, consts.ProgramName, "Version:", consts.Version)
		return 0
	}

	if cfg.in.NArg() == 0 {
		return fatal("at least one --in/--out/--query set is required")
	}
	if cfg.in.NArg() != cfg.out.NArg() || cfg.in.NArg() != cfg.query.NArg() {
		usage(stderr)
		return fatal("--in, --out and --query must each appear the same number of times")
	}

	logger := log.New()
	logger.SetLevel(cfg.logrusLevel())
	logger.SetOutput(stderr)
	entry := log.NewEntry(logger)

	snapshot, err := loadConfig(cfg.configPath)
	if err != nil {
		return fatal(err)
	}

	if cfg.gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			return fatal("gops:", err)
		}
		defer agent.Close()
	}

	controller := batch.NewController(snapshot, wireclient.NewUDP(), 0, entry)

	sinks := map[string]*fileSink{}
	var allSinks []*fileSink
	var totalInputs int

	for i := 0; i < cfg.in.NArg(); i++ {
		qtype, err := resolve.ParseQueryType(cfg.query.Args()[i])
		if err != nil {
			return fatal(err)
		}

		inputs, err := readInputs(cfg.in.Args()[i])
		if err != nil {
			return fatal(err)
		}

		outPath := cfg.out.Args()[i]
		sink, ok := sinks[outPath]
		if !ok {
			sink = newFileSink(outPath)
			sinks[outPath] = sink
			allSinks = append(allSinks, sink)
		}

		controller.AddTasks(inputs, sink, qtype)
		totalInputs += len(inputs)
	}

	aggregator := status.New()
	reporters := []reporter.Reporter{aggregator}

	var bar *progressbar.ProgressBar
	if cfg.progress {
		bar = progressbar.Default(int64(totalInputs), consts.ProgramName)
	}

	aggregator.OnUpdate(func(s status.Snapshot) {
		if bar != nil {
			bar.Set64(int64(s.Total()))
		}
	})

	controller.RegisterStatusCallback(aggregator.Handle)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	statusInterval, err := time.ParseDuration(consts.StatusInterval)
	if err != nil {
		statusInterval = 10 * time.Second
	}

	done := make(chan error, 1)
	go func() { done <- controller.Run(ctx) }()

	exitCode := 0

Running:
	for {
		select {
		case sig := <-stopChannel:
			if osutil.IsSignalUSR1(sig) {
				statusReport(stderr, "User1", false, reporters, time.Since(startTime))
				continue
			}
			entry.WithField("signal", sig).Warn("shutting down")
			cancel()
			exitCode = 1

		case err := <-done:
			if err != nil && exitCode == 0 {
				exitCode = 1
			}
			break Running

		case <-time.After(statusInterval):
			if cfg.verboseCount > 0 {
				statusReport(stderr, "Status", true, reporters, time.Since(startTime))
			}
		}
	}

	if bar != nil {
		bar.Finish()
	}

	for _, s := range allSinks {
		if err := s.flush(); err != nil {
			fmt.Fprintln(stderr, err)
			exitCode = 1
		}
	}

	statusReport(stderr, "Status", false, reporters, time.Since(startTime))

	return exitCode
}

func loadConfig(explicit string) (*config.Snapshot, error) {
	path, err := config.FindConfigFile(explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return config.Default(), nil
	}

	return config.ParseFile(path)
}
