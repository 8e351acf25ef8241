package testsupport

import (
	"context"
	"sync"

	"github.com/goliatone/go-siteform/pkg/submit"
)

// TransportCall records one Send.
type TransportCall struct {
	Endpoint string
	Payload  submit.Payload
}

// StubTransport records calls and answers with Result, or with Handler when
// set.
type StubTransport struct {
	Result  submit.Result
	Handler func(ctx context.Context, endpoint string, payload submit.Payload) submit.Result

	mu    sync.Mutex
	calls []TransportCall
}

var _ submit.Transport = (*StubTransport)(nil)

// NewStubTransport returns a transport that always answers result.
func NewStubTransport(result submit.Result) *StubTransport {
	return &StubTransport{Result: result}
}

// Send records the call and returns the canned result.
func (s *StubTransport) Send(ctx context.Context, endpoint string, payload submit.Payload) submit.Result {
	s.mu.Lock()
	s.calls = append(s.calls, TransportCall{Endpoint: endpoint, Payload: payload})
	handler := s.Handler
	result := s.Result
	s.mu.Unlock()

	if handler != nil {
		return handler(ctx, endpoint, payload)
	}
	return result
}

// Calls returns the recorded calls.
func (s *StubTransport) Calls() []TransportCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TransportCall(nil), s.calls...)
}

// BlockingTransport parks each Send until Release is called, so tests can
// observe the in-flight state.
type BlockingTransport struct {
	*StubTransport
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

// NewBlockingTransport returns a transport that answers result once released.
func NewBlockingTransport(result submit.Result) *BlockingTransport {
	b := &BlockingTransport{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
	b.StubTransport = &StubTransport{
		Result: result,
		Handler: func(ctx context.Context, _ string, _ submit.Payload) submit.Result {
			b.started <- struct{}{}
			select {
			case <-b.release:
			case <-ctx.Done():
				return submit.NetworkFailure(ctx.Err())
			}
			return result
		},
	}
	return b
}

// Started is signalled whenever a Send begins.
func (b *BlockingTransport) Started() <-chan struct{} {
	return b.started
}

// Release unblocks every pending and future Send.
func (b *BlockingTransport) Release() {
	b.once.Do(func() { close(b.release) })
}
