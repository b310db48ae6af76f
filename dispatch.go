package quorum

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds each branch's full network round trip unless
// overridden with WithTimeout.
const DefaultTimeout = 120 * time.Second

// queryRequest flows through the per-branch pipz pipeline.
type queryRequest struct {
	Model    string    // Backend identifier for this branch
	Messages []Message // Shared conversation snapshot

	// Output field (populated by the terminal)
	Result Result
}

// Dispatcher fans a conversation out to multiple backends concurrently and
// assembles their independent outcomes. One backend's failure or slowness
// never delays or corrupts another's result; the dispatch completes only
// once every branch has finished.
type Dispatcher struct {
	querier  Querier
	pipeline pipz.Chainable[*queryRequest]
	timeout  time.Duration
	limit    int
}

// DispatcherOption modifies dispatcher behavior.
type DispatcherOption func(*Dispatcher)

// WithTimeout overrides the default per-branch timeout.
// A branch exceeding this duration fails with ErrorTransport; its siblings
// are unaffected.
func WithTimeout(duration time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.timeout = duration
	}
}

// WithLimit bounds the number of branches running at once.
// The default is unbounded, which is fine for the typical handful of models;
// set a limit when the backend set can grow large.
func WithLimit(n int) DispatcherOption {
	return func(d *Dispatcher) {
		d.limit = n
	}
}

// NewDispatcher creates a dispatcher bound to a querier.
func NewDispatcher(querier Querier, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		querier: querier,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.pipeline = pipz.NewTimeout(pipz.NewIdentity("query-timeout", "Bounds a branch's backend query"), newTerminal(querier), d.timeout)
	return d
}

// newTerminal creates the pipeline terminal that performs the backend call.
// The querier folds its own failures into the Result, so the terminal itself
// never errors; pipeline errors can only come from the timeout connector.
func newTerminal(querier Querier) pipz.Chainable[*queryRequest] {
	return pipz.Apply(pipz.NewIdentity("backend-query", "Performs the backend call"), func(ctx context.Context, req *queryRequest) (*queryRequest, error) {
		req.Result = querier.Query(ctx, req.Model, req.Messages)
		return req, nil
	})
}

// Dispatch queries every listed backend concurrently with the same
// conversation and returns a DispatchResult holding exactly one entry per
// identifier. It waits for every branch to complete — there is no
// short-circuit on first failure, and no partial result is ever observable.
//
// Duplicate identifiers each run their own branch but collapse to a single
// entry. The only whole-call error is an empty backend list.
func (d *Dispatcher) Dispatch(ctx context.Context, models []string, conv *Conversation) (DispatchResult, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("no backends to dispatch to")
	}

	dispatchID := uuid.New().String()
	messages := conv.Messages()

	capitan.Info(ctx, DispatchStarted,
		DispatchIDKey.Field(dispatchID),
		GatewayKey.Field(d.querier.Name()),
		BackendCountKey.Field(len(models)),
	)

	startTime := time.Now()
	results := make([]Result, len(models))

	var group errgroup.Group
	if d.limit > 0 {
		group.SetLimit(d.limit)
	}

	for i, model := range models {
		group.Go(func() error {
			req := &queryRequest{
				Model:    model,
				Messages: messages,
			}

			processed, err := d.pipeline.Process(ctx, req)
			if err != nil {
				// Timeout connector expired before the querier returned.
				results[i] = Failure(ErrorTransport, err.Error())
				return nil
			}

			results[i] = processed.Result
			return nil
		})
	}

	// Branches never return errors; Wait is purely the join point.
	_ = group.Wait()

	dispatched := make(DispatchResult, len(models))
	for i, model := range models {
		dispatched[model] = results[i]
	}

	failures := 0
	for _, result := range dispatched {
		if !result.OK() {
			failures++
		}
	}

	capitan.Info(ctx, DispatchCompleted,
		DispatchIDKey.Field(dispatchID),
		GatewayKey.Field(d.querier.Name()),
		BackendCountKey.Field(len(dispatched)),
		FailureCountKey.Field(failures),
		DurationMsKey.Field(int(time.Since(startTime).Milliseconds())),
	)

	return dispatched, nil
}
