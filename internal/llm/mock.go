package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

var errMockExhausted = errors.New("mock provider has no queued responses")

// MockResponse is one scripted reply. Err, when set, is returned instead
// of Content after Delay has elapsed.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
	Delay   time.Duration

	// Text is raw model output. When set it replaces Content and goes
	// through the same extraction and schema check as a vendor reply.
	Text string
}

// MockProvider replays scripted replies in order and keeps every request
// it saw. Selecting provider "mock" with nothing queued makes every call
// fail as unavailable, which exercises the offline fallbacks end to end.
type MockProvider struct {
	mu      sync.Mutex
	pending []MockResponse
	Calls   []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{pending: responses}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	next, ok := m.take(req)
	if !ok {
		return nil, &ErrProviderUnavailable{Err: errMockExhausted}
	}

	if next.Delay > 0 {
		timer := time.NewTimer(next.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	if next.Text != "" {
		content, err := decodeContent(req.Schema, next.Text)
		if err != nil {
			return nil, err
		}
		next.Content = content
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: "mock", StopReason: "end"}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse queues another reply behind the existing ones.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	m.pending = append(m.pending, resp)
	m.mu.Unlock()
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func (m *MockProvider) take(req Request) (MockResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if len(m.pending) == 0 {
		return MockResponse{}, false
	}
	next := m.pending[0]
	m.pending = m.pending[1:]
	return next, true
}
