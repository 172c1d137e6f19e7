package applescript

import (
	"context"
	"errors"
	"sync"
)

// ErrMockExhausted is returned by MockRunner when no response is queued.
var ErrMockExhausted = errors.New("applescript: mock runner has no queued response")

// MockResponse is one canned MockRunner result.
type MockResponse struct {
	Output string
	Err    error
	// Release, when set, blocks Run until closed. The block ignores ctx so
	// tests can model an interpreter that never returns.
	Release <-chan struct{}
}

// MockRunner replays queued responses in order and records every call.
type MockRunner struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     []Invocation
}

// NewMockRunner returns a MockRunner preloaded with responses.
func NewMockRunner(responses ...MockResponse) *MockRunner {
	return &MockRunner{responses: append([]MockResponse(nil), responses...)}
}

// Push appends responses to the queue.
func (m *MockRunner) Push(responses ...MockResponse) {
	m.mu.Lock()
	m.responses = append(m.responses, responses...)
	m.mu.Unlock()
}

// Run records inv and returns the next queued response.
func (m *MockRunner) Run(_ context.Context, inv Invocation) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Invocation{
		Lines:   append([]string(nil), inv.Lines...),
		Timeout: inv.Timeout,
	})
	if len(m.responses) == 0 {
		m.mu.Unlock()
		return "", ErrMockExhausted
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if resp.Release != nil {
		<-resp.Release
	}
	return resp.Output, resp.Err
}

// Calls returns a copy of every recorded invocation.
func (m *MockRunner) Calls() []Invocation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Invocation(nil), m.calls...)
}
