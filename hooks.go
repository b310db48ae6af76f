package quorum

import "github.com/zoobzio/capitan"

// Signals for hook events.
var (
	DispatchStarted   = capitan.NewSignal("quorum.dispatch.started", "Dispatch started")
	DispatchCompleted = capitan.NewSignal("quorum.dispatch.completed", "Dispatch completed")
	QueryStarted      = capitan.NewSignal("quorum.query.started", "Query started")
	QueryCompleted    = capitan.NewSignal("quorum.query.completed", "Query completed")
	QueryFailed       = capitan.NewSignal("quorum.query.failed", "Query failed")
)

// Keys for hook event fields.
var (
	// Dispatch identification.
	DispatchIDKey   = capitan.NewStringKey("quorum.dispatch.id")
	BackendCountKey = capitan.NewIntKey("quorum.backend.count")
	FailureCountKey = capitan.NewIntKey("quorum.failure.count")

	// Backend identification.
	GatewayKey = capitan.NewStringKey("quorum.gateway")
	BackendKey = capitan.NewStringKey("quorum.backend")

	// Error information.
	ErrorKey     = capitan.NewStringKey("quorum.error")
	ErrorKindKey = capitan.NewStringKey("quorum.error.kind")

	// Call metadata.
	HTTPStatusCodeKey = capitan.NewIntKey("quorum.http.status.code")
	DurationMsKey     = capitan.NewIntKey("quorum.duration.ms")
	FinishReasonKey   = capitan.NewStringKey("quorum.finish.reason")
	ContentLengthKey  = capitan.NewIntKey("quorum.content.length")
)
