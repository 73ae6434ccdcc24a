package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/oshokin/httpkit/internal/logger"
)

//go:generate $MOCKGEN -source=task.go -destination=mocks/doer_mock.go

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ResponseHandler turns a response into a result.
// contentType and body are nil when the response carries no entity.
// The body is closed by the task after the handler returns.
type ResponseHandler[T any] func(
	req *http.Request,
	resp *http.Response,
	contentType *ContentType,
	body io.Reader,
) (T, error)

// DefaultProgressStep is the number of body bytes between progress updates.
const DefaultProgressStep = 2048

// Static error definitions for better error handling.
var (
	// ErrNilClient indicates that no Doer was given to NewTask.
	ErrNilClient = errors.New("client is nil")
	// ErrNilHandler indicates that no ResponseHandler was given to NewTask.
	ErrNilHandler = errors.New("response handler is nil")
	// ErrNilRequest indicates a nil request in the sequence.
	ErrNilRequest = errors.New("request is nil")
)

// TaskOption customizes a Task.
type TaskOption func(*taskOptions)

type taskOptions struct {
	progressStep int64
	updateBuffer int
}

// WithProgressStep sets how many body bytes separate progress updates.
// Non-positive values are ignored.
func WithProgressStep(step int64) TaskOption {
	return func(o *taskOptions) {
		if step > 0 {
			o.progressStep = step
		}
	}
}

// WithUpdateBuffer sets the capacity of the updates channel.
// Negative values are ignored.
func WithUpdateBuffer(size int) TaskOption {
	return func(o *taskOptions) {
		if size >= 0 {
			o.updateBuffer = size
		}
	}
}

// Task executes request sequences with a shared client and handler.
// A Task may be started any number of times; every Start is independent.
type Task[T any] struct {
	client       Doer
	handler      ResponseHandler[T]
	progressStep int64
	updateBuffer int
}

// NewTask creates a task.
func NewTask[T any](client Doer, handler ResponseHandler[T], opts ...TaskOption) (*Task[T], error) {
	if client == nil {
		return nil, ErrNilClient
	}

	if handler == nil {
		return nil, ErrNilHandler
	}

	options := taskOptions{
		progressStep: DefaultProgressStep,
	}

	for _, opt := range opts {
		opt(&options)
	}

	return &Task[T]{
		client:       client,
		handler:      handler,
		progressStep: options.progressStep,
		updateBuffer: options.updateBuffer,
	}, nil
}

// Execution is one running request sequence.
type Execution[T any] struct {
	id      uuid.UUID
	updates chan Update
	done    chan struct{}
	results []T
	err     error
}

// ID identifies the execution in logs.
func (e *Execution[T]) ID() uuid.UUID {
	return e.id
}

// Updates returns the ordered update stream. It is closed when the sequence ends.
// Sends block until the update is received or the context is canceled.
func (e *Execution[T]) Updates() <-chan Update {
	return e.updates
}

// Done returns a channel that is closed when the sequence ends.
func (e *Execution[T]) Done() <-chan struct{} {
	return e.done
}

// Wait blocks until the sequence ends and returns the results collected
// before any failure, together with the failure.
// Updates nobody has received are discarded.
func (e *Execution[T]) Wait() ([]T, error) {
	for {
		select {
		case <-e.done:
			return e.results, e.err
		case _, ok := <-e.updates:
			if !ok {
				<-e.done

				return e.results, e.err
			}
		}
	}
}

// Start runs the requests one after another on a new goroutine.
// The first failure publishes an ERROR update and ends the sequence.
func (t *Task[T]) Start(ctx context.Context, requests ...*http.Request) *Execution[T] {
	execution := &Execution[T]{
		id:      uuid.New(),
		updates: make(chan Update, t.updateBuffer),
		done:    make(chan struct{}),
	}

	go t.run(ctx, execution, requests)

	return execution
}

// Observer receives the updates of an execution.
type Observer interface {
	OnUpdate(update Update)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(update Update)

// OnUpdate calls f(update).
func (f ObserverFunc) OnUpdate(update Update) {
	f(update)
}

// Run starts the requests, delivers every update to observer in order on a
// separate goroutine, and returns once both the sequence and the delivery are done.
// A nil observer discards updates.
func (t *Task[T]) Run(ctx context.Context, observer Observer, requests ...*http.Request) ([]T, error) {
	execution := t.Start(ctx, requests...)

	var wg sync.WaitGroup

	wg.Go(func() {
		for update := range execution.Updates() {
			if observer != nil {
				observer.OnUpdate(update)
			}
		}
	})

	wg.Wait()

	return execution.Wait()
}

func (t *Task[T]) run(ctx context.Context, execution *Execution[T], requests []*http.Request) {
	defer close(execution.done)
	defer close(execution.updates)

	logger.DebugKV(ctx, "Execution started", "execution_id", execution.id, "requests", len(requests))

	for i, req := range requests {
		result, requestLine, err := t.exchange(ctx, execution, req)
		if err != nil {
			logger.DebugKV(ctx, "Execution failed",
				"execution_id", execution.id,
				"request", i,
				"error", err)

			execution.err = err
			execution.publish(ctx, ErrorUpdate(requestLine, err))

			return
		}

		execution.results = append(execution.results, result)
	}

	logger.DebugKV(ctx, "Execution finished", "execution_id", execution.id, "results", len(execution.results))
}

func (t *Task[T]) exchange(
	ctx context.Context,
	execution *Execution[T],
	req *http.Request,
) (T, RequestLine, error) {
	var zero T

	if req == nil {
		return zero, RequestLine{}, ErrNilRequest
	}

	requestLine := NewRequestLine(req)

	if err := ctx.Err(); err != nil {
		return zero, requestLine, err
	}

	if !execution.publish(ctx, RequestUpdate(requestLine)) {
		return zero, requestLine, ctx.Err()
	}

	resp, err := t.client.Do(req.WithContext(ctx))
	if err != nil {
		return zero, requestLine, fmt.Errorf("failed to execute %s: %w", requestLine, err)
	}

	statusLine := NewStatusLine(resp)

	if resp.Body == nil || resp.Body == http.NoBody {
		if !execution.publish(ctx, ResponseUpdate(requestLine, statusLine, 0, 0)) {
			return zero, requestLine, ctx.Err()
		}

		result, handlerErr := t.handler(req, resp, nil, nil)
		if handlerErr != nil {
			return zero, requestLine, handlerErr
		}

		return result, requestLine, nil
	}

	defer resp.Body.Close()

	total := resp.ContentLength
	if !execution.publish(ctx, ResponseUpdate(requestLine, statusLine, 0, total)) {
		return zero, requestLine, ctx.Err()
	}

	body := newProgressReader(resp.Body, t.progressStep, total, func(current, total int64) error {
		if !execution.publish(ctx, ResponseUpdate(requestLine, statusLine, current, total)) {
			return ctx.Err()
		}

		return nil
	})

	contentType := ParseContentTypeLenient(resp.Header.Get("Content-Type"))

	result, err := t.handler(req, resp, contentType, body)

	switch {
	case body.err != nil:
		return zero, requestLine, fmt.Errorf("failed to read response body: %w", body.err)
	case err != nil:
		return zero, requestLine, err
	}

	if err = ctx.Err(); err != nil {
		return zero, requestLine, err
	}

	return result, requestLine, nil
}

// publish sends update unless ctx is canceled while the send is blocked.
// It reports whether the update was delivered.
func (e *Execution[T]) publish(ctx context.Context, update Update) bool {
	select {
	case e.updates <- update:
		return true
	default:
	}

	select {
	case e.updates <- update:
		return true
	case <-ctx.Done():
		return false
	}
}
