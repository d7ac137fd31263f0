/*
Package worker implements one reactor: a goroutine that drains its chunk of tasks one trigger token
at a time, fanning each task out to a bounded set of concurrently in-flight resolutions via a
weighted semaphore. This is the Go analogue of the original's single-threaded futures reactor
zipping a task stream against a trigger stream and bounding it with buffer_unordered(k) - a
goroutine pool plus golang.org/x/sync/semaphore stands in for the per-thread async runtime.
*/
package worker

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	log "github.com/sirupsen/logrus"

	"github.com/markdingo/batchresolve/internal/config"
	"github.com/markdingo/batchresolve/internal/resolve"
	"github.com/markdingo/batchresolve/internal/task"
	"github.com/markdingo/batchresolve/internal/wireclient"
)

// Worker drains one chunk of tasks, pacing each against a trigger channel and bounding in-flight
// resolutions to Concurrency.
type Worker struct {
	ID          int
	Client      wireclient.Client
	Config      *config.Snapshot
	Tasks       []task.Task
	Trigger     <-chan string
	Status      chan<- resolve.Event
	Concurrency int
	Logger      *log.Entry
}

// Run drives every task in w.Tasks to completion, or until ctx is canceled. It returns ctx's error
// if acquiring a concurrency slot is interrupted by cancellation; a nil return means every task
// that received a trigger token ran to completion. Tasks left without a token because the pacer
// shut down early are simply skipped - this is the graceful-drain behavior, not a bug.
func (w *Worker) Run(ctx context.Context) error {
	sem := semaphore.NewWeighted(int64(w.Concurrency))
	var wg sync.WaitGroup

	for _, t := range w.Tasks {
		server, ok := <-w.Trigger
		if !ok {
			break
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return err
		}

		wg.Add(1)
		go func(t task.Task, server string) {
			defer wg.Done()
			defer sem.Release(1)
			w.resolveOne(ctx, t, server)
		}(t, server)
	}

	wg.Wait()
	return nil
}

func (w *Worker) resolveOne(ctx context.Context, t task.Task, server string) {
	w.emit(resolve.Started)

	values, err := resolve.Resolve(ctx, w.Client, w.Config, server, t.Input, t.QType, w.Logger)
	if err == nil {
		t.Sink.Resolved(t.Input, values)
		w.emit(resolve.Success)
		return
	}

	if isDNSClientError(err) {
		w.emit(resolve.Error)
		return
	}

	w.emit(resolve.Failure)
}

func (w *Worker) emit(e resolve.Event) {
	if w.Status != nil {
		w.Status <- e
	}
}

func isDNSClientError(err error) bool {
	_, ok := err.(*resolve.DNSClientError)
	return ok
}
