/*
Package batch implements the top-level orchestration (C5/C6): partitioning every enqueued task
across a fixed worker pool, wiring each worker to its own slice of the paced trigger, and fanning the
resulting status events out to a registered callback. golang.org/x/sync/errgroup plays the role of
the original's crossbeam::scope - a scoped group of goroutines whose first error cancels the rest
and whose completion is awaited in one place.
*/
package batch

import (
	"context"
	"runtime"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/markdingo/batchresolve/internal/config"
	"github.com/markdingo/batchresolve/internal/pacer"
	"github.com/markdingo/batchresolve/internal/resolve"
	"github.com/markdingo/batchresolve/internal/task"
	"github.com/markdingo/batchresolve/internal/wireclient"
	"github.com/markdingo/batchresolve/internal/worker"
)

// Controller accumulates tasks from one or more calls to AddTasks and runs them all to completion
// against a fixed-size worker pool when Run is called.
type Controller struct {
	cfg     *config.Snapshot
	client  wireclient.Client
	logger  *log.Entry
	workers int // 0 means runtime.NumCPU()
	tasks   []task.Task
	onEvent func(resolve.Event)
}

// NewController builds a Controller against cfg and client. workers <= 0 defaults to
// runtime.NumCPU(), mirroring ResolverThreadPool::num_cpus in the original.
func NewController(cfg *config.Snapshot, client wireclient.Client, workers int, logger *log.Entry) *Controller {
	return &Controller{cfg: cfg, client: client, workers: workers, logger: logger}
}

// AddTasks enqueues one task per input, all sharing sink and qtype. Calling AddTasks more than
// once with the same sink is how several logical batches come to share one output (spec.md §6,
// scenario E6) - the sink itself does the deduping/merging, not the controller.
func (c *Controller) AddTasks(inputs []string, sink task.ResolvedSink, qtype resolve.QueryType) {
	for _, input := range inputs {
		c.tasks = append(c.tasks, task.Task{Input: input, QType: qtype, Sink: sink})
	}
}

// RegisterStatusCallback installs fn to be invoked, from a single internal goroutine, once for
// every status event any worker emits. fn must not block.
func (c *Controller) RegisterStatusCallback(fn func(resolve.Event)) {
	c.onEvent = fn
}

// Run partitions every enqueued task across the worker pool, starts the pacer and every worker
// under one errgroup, and blocks until they all finish or ctx is canceled. It returns the first
// error any worker or the pacer produced (the pacer itself never errors; only context cancellation
// propagates through it).
func (c *Controller) Run(ctx context.Context) error {
	if len(c.tasks) == 0 {
		return nil
	}

	workers := c.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(c.tasks) {
		workers = len(c.tasks)
	}

	chunkSize := len(c.tasks)/workers + 1
	chunks := partition(c.tasks, chunkSize)

	perWorkerQPS := ceilDiv(c.cfg.QPS(), uint32(len(chunks)))

	taskCounts := make([]int, len(chunks))
	for i, chunk := range chunks {
		taskCounts[i] = len(chunk)
	}

	p := pacer.New(c.cfg.DNSServers(), int(perWorkerQPS), taskCounts)

	statusCh := make(chan resolve.Event, len(c.tasks)*2+1)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for e := range statusCh {
			if c.onEvent != nil {
				c.onEvent(e)
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p.Run(gctx)
		return nil
	})

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			w := &worker.Worker{
				ID:          i,
				Client:      c.client,
				Config:      c.cfg,
				Tasks:       chunk,
				Trigger:     p.Channel(i),
				Status:      statusCh,
				Concurrency: int(perWorkerQPS),
				Logger:      c.logger,
			}
			return w.Run(gctx)
		})
	}

	err := g.Wait()
	close(statusCh)
	<-consumerDone

	return err
}

func partition(tasks []task.Task, chunkSize int) [][]task.Task {
	var chunks [][]task.Task
	for chunkSize > 0 && len(tasks) > 0 {
		if chunkSize >= len(tasks) {
			chunks = append(chunks, tasks)
			break
		}
		chunks = append(chunks, tasks[:chunkSize])
		tasks = tasks[chunkSize:]
	}
	return chunks
}

func ceilDiv(a, b uint32) uint32 {
	if b == 0 {
		return a
	}
	return (a + b - 1) / b
}
