package quorum

import (
	"context"
	"sync"
	"time"
)

// MockQuerier simulates backend behavior for testing.
// It returns canned outcomes per model and can delay individual models to
// exercise timeout and isolation behavior.
type MockQuerier struct {
	name    string
	mu      sync.RWMutex
	results map[string]Result
	delays  map[string]time.Duration
	fixed   Result
}

// NewMockQuerier creates a mock that answers every model with a fixed
// success unless a per-model outcome is set.
func NewMockQuerier() *MockQuerier {
	return &MockQuerier{
		name:    "mock",
		results: make(map[string]Result),
		delays:  make(map[string]time.Duration),
		fixed:   Success("Mock response", nil),
	}
}

// Name returns the gateway identifier.
func (m *MockQuerier) Name() string {
	return m.name
}

// SetResult assigns a canned outcome for a model.
func (m *MockQuerier) SetResult(model string, result Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[model] = result
}

// SetDelay makes a model's query wait before answering.
// The wait respects context cancellation, reporting it as a transport
// failure the way a real gateway call would.
func (m *MockQuerier) SetDelay(model string, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[model] = delay
}

// Query returns the configured outcome for the model.
func (m *MockQuerier) Query(ctx context.Context, model string, _ []Message) Result {
	m.mu.RLock()
	delay := m.delays[model]
	result, ok := m.results[model]
	if !ok {
		result = m.fixed
	}
	m.mu.RUnlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return Failure(ErrorTransport, "request failed: "+ctx.Err().Error())
		}
	}

	return result
}

// NewMockQuerierWithCallback creates a mock that calls a function to
// generate each outcome.
func NewMockQuerierWithCallback(callback func(ctx context.Context, model string, messages []Message) Result) Querier {
	return &mockQuerierCallback{callback: callback}
}

// mockQuerierCallback uses a callback to generate outcomes.
type mockQuerierCallback struct {
	callback func(context.Context, string, []Message) Result
}

func (m *mockQuerierCallback) Query(ctx context.Context, model string, messages []Message) Result {
	return m.callback(ctx, model, messages)
}

func (m *mockQuerierCallback) Name() string {
	return "mock-callback"
}
