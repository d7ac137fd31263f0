package batch

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/miekg/dns"

	"github.com/markdingo/batchresolve/internal/config"
	"github.com/markdingo/batchresolve/internal/resolve"
)

type fakeClient struct {
	handler func(server, name string, rtype uint16) (*dns.Msg, error)
}

func (f *fakeClient) Query(_ context.Context, server, name string, class, rtype uint16) (*dns.Msg, error) {
	return f.handler(server, name, rtype)
}

func alwaysSucceeds() *fakeClient {
	return &fakeClient{handler: func(server, name string, rtype uint16) (*dns.Msg, error) {
		msg := new(dns.Msg)
		msg.Answer = []dns.RR{&dns.A{Hdr: dns.RR_Header{Name: name, Rrtype: dns.TypeA}, A: net.ParseIP("1.2.3.4")}}
		return msg, nil
	}}
}

type fakeSink struct {
	mu      sync.Mutex
	results map[string][]string
}

func newFakeSink() *fakeSink { return &fakeSink{results: map[string][]string{}} }

func (s *fakeSink) Resolved(input string, values []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[input] = values
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

func testConfig(t *testing.T, qps uint32) *config.Snapshot {
	t.Helper()
	cfg, err := config.New([]string{"8.8.8.8:53", "8.8.4.4:53"}, qps, 2)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestControllerRunResolvesAllTasks(t *testing.T) {
	sink := newFakeSink()
	c := NewController(testConfig(t, 50), alwaysSucceeds(), 3, nil)

	var started, success int
	var mu sync.Mutex
	c.RegisterStatusCallback(func(e resolve.Event) {
		mu.Lock()
		defer mu.Unlock()
		switch e {
		case resolve.Started:
			started++
		case resolve.Success:
			success++
		}
	})

	inputs := make([]string, 37)
	for i := range inputs {
		inputs[i] = "host.example"
	}
	c.AddTasks(inputs, sink, resolve.A)

	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if sink.count() != 1 { // same input 37 times into a map-backed fake sink collapses to 1 key
		t.Errorf("expected the fake sink to have recorded the shared key, got %d", sink.count())
	}
	if started != 37 || success != 37 {
		t.Errorf("expected 37 started/success events, got %d/%d", started, success)
	}
}

// TestControllerRunSharesSinkAcrossAddTasksCalls exercises scenario E6: two logical batches that
// share one sink both land in it.
func TestControllerRunSharesSinkAcrossAddTasksCalls(t *testing.T) {
	sink := newFakeSink()
	c := NewController(testConfig(t, 50), alwaysSucceeds(), 2, nil)

	c.AddTasks([]string{"a.example"}, sink, resolve.A)
	c.AddTasks([]string{"b.example"}, sink, resolve.A)

	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if sink.count() != 2 {
		t.Errorf("expected both tasks' inputs in the shared sink, got %d entries", sink.count())
	}
}

func TestControllerRunEmptyIsNoop(t *testing.T) {
	c := NewController(testConfig(t, 50), alwaysSucceeds(), 2, nil)
	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestControllerRunRespectsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	client := &fakeClient{handler: func(server, name string, rtype uint16) (*dns.Msg, error) {
		<-block
		return new(dns.Msg), nil
	}}

	sink := newFakeSink()
	c := NewController(testConfig(t, 1000), client, 2, nil)

	var inputs []string
	for i := 0; i < 20; i++ {
		inputs = append(inputs, "host.example")
	}
	c.AddTasks(inputs, sink, resolve.A)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	close(block)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return promptly after context cancellation")
	}
}
