// Package quorum queries one or more LLM backends through an
// OpenRouter-style gateway, optionally fanning a single conversation out to
// several models at once and collecting each model's outcome independently.
//
// The core primitive is isolated parallel fan-out with per-branch failure
// containment: every backend gets its own branch, a branch failure is held as
// a value inside that branch's Result, and the dispatch completes only once
// every branch has finished. Partial failure across backends is the expected,
// common case — callers inspect each entry of the DispatchResult on its own.
//
// Basic usage:
//
//	gateway := openrouter.New(openrouter.Config{APIKey: apiKey})
//	dispatcher := quorum.NewDispatcher(gateway)
//
//	conv := quorum.NewConversation()
//	conv.System("You are one voice on an advisory council.")
//	conv.User("Should we ship on Friday?")
//
//	results, err := dispatcher.Dispatch(ctx, []string{
//		"openai/gpt-4o",
//		"anthropic/claude-sonnet-4",
//		"google/gemini-2.5-pro",
//	}, conv)
//	for model, result := range results {
//		if result.OK() {
//			fmt.Printf("%s: %s\n", model, result.Content)
//		} else {
//			fmt.Printf("%s failed: %v\n", model, result.Err)
//		}
//	}
//
// There are no retries, rate limits, streaming, or caching here. The gateway
// is treated as opaque; invalid model identifiers surface as upstream errors.
package quorum

import (
	"context"
	"encoding/json"
	"fmt"
)

// Role constants for message types.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    string // RoleSystem, RoleUser, or RoleAssistant
	Content string // The message content
}

// Querier performs one request/response cycle against a named backend and
// classifies the outcome. Implementations never return a Go error — every
// exit, including transport failures and timeouts, is folded into the Result.
type Querier interface {
	// Query sends the conversation to the named backend model.
	// Messages should be in chronological order (oldest first).
	Query(ctx context.Context, model string, messages []Message) Result

	// Name returns the gateway identifier (e.g., "openrouter")
	Name() string
}

// ErrorKind classifies a query failure.
type ErrorKind string

// Failure classifications for query outcomes.
const (
	// ErrorHTTP marks a non-2xx response from the gateway.
	ErrorHTTP ErrorKind = "http_error"

	// ErrorTransport marks a network-level failure before a response was
	// obtained: connection refused, DNS failure, or an elapsed timeout.
	ErrorTransport ErrorKind = "transport_error"

	// ErrorEmptyContent marks a 200-status response whose extracted content
	// was absent, empty, or entirely whitespace. Some backends return HTTP
	// success with no usable content under certain finish conditions, so
	// this is a failure despite the apparent success.
	ErrorEmptyContent ErrorKind = "empty_content"

	// ErrorUnknown marks any other failure while processing a response.
	ErrorUnknown ErrorKind = "unknown_error"
)

// QueryError describes a classified query failure.
type QueryError struct {
	Kind   ErrorKind // Failure classification
	Detail string    // Human-readable description
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Result is the outcome of querying a single backend. Exactly one variant is
// populated: either Content (with optional ReasoningDetails) on success, or
// Err on failure. Use the Success and Failure constructors; a Result is
// immutable once built.
type Result struct {
	Content          string          // The text response content
	ReasoningDetails json.RawMessage // Opaque reasoning metadata, if the backend supplied any
	Err              *QueryError     // Non-nil when the query failed
}

// Success builds a successful Result from content and optional reasoning
// metadata.
func Success(content string, reasoningDetails json.RawMessage) Result {
	return Result{
		Content:          content,
		ReasoningDetails: reasoningDetails,
	}
}

// Failure builds a failed Result with the given classification and detail.
func Failure(kind ErrorKind, detail string) Result {
	return Result{
		Err: &QueryError{
			Kind:   kind,
			Detail: detail,
		},
	}
}

// OK reports whether the query succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// DispatchResult maps each requested backend identifier to its outcome.
// Every requested identifier appears exactly once; no ordering is implied.
type DispatchResult map[string]Result

// Failures returns the identifiers whose queries failed.
func (d DispatchResult) Failures() []string {
	var failed []string
	for model, result := range d {
		if !result.OK() {
			failed = append(failed, model)
		}
	}
	return failed
}
