package quorum

import (
	"context"
	"testing"
	"time"
)

func TestMockQuerierDefaults(t *testing.T) {
	querier := NewMockQuerier()

	if querier.Name() != "mock" {
		t.Errorf("Expected name 'mock', got %q", querier.Name())
	}

	result := querier.Query(context.Background(), "any/model", nil)
	if !result.OK() || result.Content != "Mock response" {
		t.Errorf("Unexpected default result: %+v", result)
	}
}

func TestMockQuerierPerModelResults(t *testing.T) {
	querier := NewMockQuerier()
	querier.SetResult("bad/model", Failure(ErrorHTTP, "500: broken"))

	if querier.Query(context.Background(), "bad/model", nil).OK() {
		t.Error("Expected failure for configured model")
	}
	if !querier.Query(context.Background(), "other/model", nil).OK() {
		t.Error("Expected default success for unconfigured model")
	}
}

func TestMockQuerierDelayHonorsContext(t *testing.T) {
	querier := NewMockQuerier()
	querier.SetDelay("slow/model", 500*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	result := querier.Query(ctx, "slow/model", nil)
	elapsed := time.Since(start)

	if result.OK() || result.Err.Kind != ErrorTransport {
		t.Errorf("Expected transport_error on canceled context, got %+v", result)
	}
	if elapsed >= 500*time.Millisecond {
		t.Errorf("Query waited out the full delay (%v) despite cancellation", elapsed)
	}
}
