package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/miekg/dns"

	"github.com/markdingo/batchresolve/internal/wireclient"
)

func TestRetryLoopSucceedsFirstTry(t *testing.T) {
	want := answerMsg(aRecord("example.com.", "1.2.3.4"))
	client := &fakeClient{handler: func(n int, server, name string, class, rtype uint16) (*dns.Msg, error) {
		return want, nil
	}}

	got, err := retryLoop(context.Background(), client, "8.8.8.8:53", "example.com.", dns.ClassINET, dns.TypeA, 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Error("expected the first successful message to be returned")
	}
	if client.callCount() != 1 {
		t.Errorf("expected exactly 1 call, got %d", client.callCount())
	}
}

// TestRetryLoopExhaustsOnRepeatedTimeout exercises spec.md testable property 4: a server that
// always times out produces exactly timeout_retries wire queries and a final ErrConnectionTimeout.
func TestRetryLoopExhaustsOnRepeatedTimeout(t *testing.T) {
	client := &fakeClient{handler: func(n int, server, name string, class, rtype uint16) (*dns.Msg, error) {
		return nil, &wireclient.Error{Kind: wireclient.KindTimeout}
	}}

	_, err := retryLoop(context.Background(), client, "8.8.8.8:53", "example.com.", dns.ClassINET, dns.TypeA, 3, nil)
	if !errors.Is(err, ErrConnectionTimeout) {
		t.Fatalf("expected ErrConnectionTimeout, got %v", err)
	}
	if client.callCount() != 3 {
		t.Errorf("expected exactly 3 calls, got %d", client.callCount())
	}
}

func TestRetryLoopSucceedsAfterTransientTimeout(t *testing.T) {
	want := answerMsg(aRecord("example.com.", "1.2.3.4"))
	client := &fakeClient{handler: func(n int, server, name string, class, rtype uint16) (*dns.Msg, error) {
		if n < 2 {
			return nil, &wireclient.Error{Kind: wireclient.KindTimeout}
		}
		return want, nil
	}}

	got, err := retryLoop(context.Background(), client, "8.8.8.8:53", "example.com.", dns.ClassINET, dns.TypeA, 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Error("expected the eventual successful message to be returned")
	}
	if client.callCount() != 3 {
		t.Errorf("expected exactly 3 calls, got %d", client.callCount())
	}
}

func TestRetryLoopOtherErrorNotRetried(t *testing.T) {
	client := &fakeClient{handler: func(n int, server, name string, class, rtype uint16) (*dns.Msg, error) {
		return nil, &wireclient.Error{Kind: wireclient.KindOther, Reason: "malformed response"}
	}}

	_, err := retryLoop(context.Background(), client, "8.8.8.8:53", "example.com.", dns.ClassINET, dns.TypeA, 5, nil)
	var dnsErr *DNSClientError
	if !errors.As(err, &dnsErr) {
		t.Fatalf("expected *DNSClientError, got %T: %v", err, err)
	}
	if client.callCount() != 1 {
		t.Errorf("expected a KindOther failure to abort after exactly 1 call, got %d", client.callCount())
	}
}

func TestRetryLoopCanceledCountsAsAttempt(t *testing.T) {
	client := &fakeClient{handler: func(n int, server, name string, class, rtype uint16) (*dns.Msg, error) {
		return nil, &wireclient.Error{Kind: wireclient.KindCanceled, Reason: "shutting down"}
	}}

	_, err := retryLoop(context.Background(), client, "8.8.8.8:53", "example.com.", dns.ClassINET, dns.TypeA, 2, nil)
	if !errors.Is(err, ErrConnectionTimeout) {
		t.Fatalf("expected ErrConnectionTimeout once retries are exhausted by cancellation, got %v", err)
	}
	if client.callCount() != 2 {
		t.Errorf("expected exactly 2 calls, got %d", client.callCount())
	}
}

func TestRetryLoopRespectsNonWireclientError(t *testing.T) {
	client := &fakeClient{handler: func(n int, server, name string, class, rtype uint16) (*dns.Msg, error) {
		return nil, errors.New("some unrelated failure")
	}}

	_, err := retryLoop(context.Background(), client, "8.8.8.8:53", "example.com.", dns.ClassINET, dns.TypeA, 5, nil)
	var dnsErr *DNSClientError
	if !errors.As(err, &dnsErr) {
		t.Fatalf("expected a non-wireclient error to be wrapped as *DNSClientError, got %T", err)
	}
	if client.callCount() != 1 {
		t.Errorf("expected exactly 1 call, got %d", client.callCount())
	}
}
