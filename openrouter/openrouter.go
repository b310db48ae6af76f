// Package openrouter implements the quorum Querier against an
// OpenRouter-compatible chat completions gateway.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/quorum"
)

// DefaultURL is the OpenRouter chat completions endpoint.
const DefaultURL = "https://openrouter.ai/api/v1/chat/completions"

// maxErrorBody caps how much of an upstream error body is kept in a failure
// detail, so a misbehaving gateway cannot balloon logs.
const maxErrorBody = 500

// Config holds configuration for the OpenRouter gateway.
type Config struct {
	APIKey  string
	URL     string        // Optional, defaults to DefaultURL
	Timeout time.Duration // Optional, defaults to 120s
}

// Gateway routes queries to named backend models through OpenRouter.
// It implements the quorum Querier interface.
type Gateway struct {
	apiKey     string
	url        string
	httpClient *http.Client
	name       string
}

// New creates a new OpenRouter gateway.
func New(config Config) *Gateway {
	if config.URL == "" {
		config.URL = DefaultURL
	}
	if config.Timeout == 0 {
		config.Timeout = 120 * time.Second
	}

	return &Gateway{
		apiKey: config.APIKey,
		url:    config.URL,
		name:   "openrouter",
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Name returns the gateway identifier.
func (g *Gateway) Name() string {
	return g.name
}

// Query sends the conversation to the named backend model and classifies the
// outcome. Every exit is a quorum.Result — no error crosses this boundary.
// Each failure is also reported through the quorum.QueryFailed hook signal.
func (g *Gateway) Query(ctx context.Context, model string, messages []quorum.Message) quorum.Result {
	startTime := time.Now()

	// Emit query.started hook
	capitan.Info(ctx, quorum.QueryStarted,
		quorum.GatewayKey.Field(g.name),
		quorum.BackendKey.Field(model),
	)

	// Convert quorum.Message to the gateway wire format
	apiMessages := make([]message, len(messages))
	for i, msg := range messages {
		apiMessages[i] = message{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	jsonBody, err := json.Marshal(chatCompletionRequest{
		Model:    model,
		Messages: apiMessages,
	})
	if err != nil {
		return g.fail(ctx, model, startTime, quorum.ErrorUnknown,
			fmt.Sprintf("failed to marshal request: %v", err), 0)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.url, bytes.NewReader(jsonBody))
	if err != nil {
		return g.fail(ctx, model, startTime, quorum.ErrorUnknown,
			fmt.Sprintf("failed to create request: %v", err), 0)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	// One connection per call; nothing is pooled across branches.
	req.Close = true

	// Make the request
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return g.fail(ctx, model, startTime, quorum.ErrorTransport,
			fmt.Sprintf("request failed: %v", err), 0)
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return g.fail(ctx, model, startTime, quorum.ErrorUnknown,
			fmt.Sprintf("failed to read response: %v", err), resp.StatusCode)
	}

	// Handle non-2xx responses
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := fmt.Sprintf("%d: %s", resp.StatusCode, truncate(string(body), maxErrorBody))
		return g.fail(ctx, model, startTime, quorum.ErrorHTTP, detail, resp.StatusCode)
	}

	// Parse successful response
	var completionResp chatCompletionResponse
	if err := json.Unmarshal(body, &completionResp); err != nil {
		return g.fail(ctx, model, startTime, quorum.ErrorUnknown,
			fmt.Sprintf("failed to parse response: %v", err), resp.StatusCode)
	}

	if len(completionResp.Choices) == 0 {
		return g.fail(ctx, model, startTime, quorum.ErrorUnknown,
			"no response choices returned", resp.StatusCode)
	}

	// Only the first choice is consulted
	choice := completionResp.Choices[0]

	// Some backends return HTTP 200 with empty content under certain finish
	// conditions; treat that as a failure, not a success.
	if strings.TrimSpace(choice.Message.Content) == "" {
		reason := choice.FinishReason
		if reason == "" {
			reason = "unknown"
		}
		detail := fmt.Sprintf("%s returned empty content (finish_reason=%s)", model, reason)
		return g.fail(ctx, model, startTime, quorum.ErrorEmptyContent, detail, resp.StatusCode,
			quorum.FinishReasonKey.Field(reason))
	}

	duration := time.Since(startTime)

	// Emit query.completed hook
	capitan.Info(ctx, quorum.QueryCompleted,
		quorum.GatewayKey.Field(g.name),
		quorum.BackendKey.Field(model),
		quorum.HTTPStatusCodeKey.Field(resp.StatusCode),
		quorum.DurationMsKey.Field(int(duration.Milliseconds())),
		quorum.ContentLengthKey.Field(len(choice.Message.Content)),
	)

	return quorum.Success(choice.Message.Content, choice.Message.ReasoningDetails)
}

// fail reports a classified failure to the hook sink and folds it into a
// Result. Emission never blocks or fails the call.
func (g *Gateway) fail(ctx context.Context, model string, start time.Time, kind quorum.ErrorKind, detail string, status int, extra ...capitan.Field) quorum.Result {
	fields := []capitan.Field{
		quorum.GatewayKey.Field(g.name),
		quorum.BackendKey.Field(model),
		quorum.ErrorKindKey.Field(string(kind)),
		quorum.ErrorKey.Field(detail),
		quorum.DurationMsKey.Field(int(time.Since(start).Milliseconds())),
	}
	if status != 0 {
		fields = append(fields, quorum.HTTPStatusCodeKey.Field(status))
	}
	fields = append(fields, extra...)

	capitan.Error(ctx, quorum.QueryFailed, fields...)

	return quorum.Failure(kind, detail)
}

// truncate bounds s to at most n bytes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Request/Response types for the OpenRouter API

type chatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Message      responseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

type responseMessage struct {
	Content          string          `json:"content"`
	ReasoningDetails json.RawMessage `json:"reasoning_details"`
}
