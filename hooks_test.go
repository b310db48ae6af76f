package quorum

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/capitan"
)

// waitForHooks waits for the listener WaitGroup with a bounded timeout.
func waitForHooks(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		// Success
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for hook")
	}
}

// TestDispatchStartedHook verifies that dispatch.started is emitted with
// identification fields.
func TestDispatchStartedHook(t *testing.T) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var dispatchID string
	var gateway string
	var backendCount int

	wg.Add(1)
	listener := capitan.Hook(DispatchStarted, func(_ context.Context, e *capitan.Event) {
		defer wg.Done()
		mu.Lock()
		defer mu.Unlock()
		dispatchID, _ = DispatchIDKey.From(e)
		gateway, _ = GatewayKey.From(e)
		backendCount, _ = BackendCountKey.From(e)
	})
	defer listener.Close()

	dispatcher := NewDispatcher(NewMockQuerier())
	_, _ = dispatcher.Dispatch(context.Background(),
		[]string{"a/1", "b/2"}, newTestConversation())

	waitForHooks(t, &wg)

	mu.Lock()
	defer mu.Unlock()
	if dispatchID == "" {
		t.Error("Dispatch ID was not set in hook")
	}
	if gateway != "mock" {
		t.Errorf("Expected gateway 'mock', got %q", gateway)
	}
	if backendCount != 2 {
		t.Errorf("Expected backend count 2, got %d", backendCount)
	}
}

// TestDispatchCompletedHook verifies that dispatch.completed carries the
// failure count alongside the backend count.
func TestDispatchCompletedHook(t *testing.T) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var backendCount int
	var failureCount int

	wg.Add(1)
	listener := capitan.Hook(DispatchCompleted, func(_ context.Context, e *capitan.Event) {
		defer wg.Done()
		mu.Lock()
		defer mu.Unlock()
		backendCount, _ = BackendCountKey.From(e)
		failureCount, _ = FailureCountKey.From(e)
	})
	defer listener.Close()

	querier := NewMockQuerier()
	querier.SetResult("bad/model", Failure(ErrorHTTP, "503: unavailable"))

	dispatcher := NewDispatcher(querier)
	_, _ = dispatcher.Dispatch(context.Background(),
		[]string{"good/model", "bad/model"}, newTestConversation())

	waitForHooks(t, &wg)

	mu.Lock()
	defer mu.Unlock()
	if backendCount != 2 {
		t.Errorf("Expected backend count 2, got %d", backendCount)
	}
	if failureCount != 1 {
		t.Errorf("Expected failure count 1, got %d", failureCount)
	}
}
