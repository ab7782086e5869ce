package appsync

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// MockCall is one request seen by a MockCaller
type MockCall struct {
	Operation string
	Request   Request
	Timeout   time.Duration
}

// MockCaller is an in-memory Caller keyed by operation name
type MockCaller struct {
	Handlers map[string]func(req Request) (*Result, error)
	Calls    []MockCall
}

// NewMockCaller creates an empty mock caller
func NewMockCaller() *MockCaller {
	return &MockCaller{
		Handlers: make(map[string]func(req Request) (*Result, error)),
	}
}

// On registers the handler for an operation name
func (m *MockCaller) On(operation string, handler func(req Request) (*Result, error)) {
	m.Handlers[operation] = handler
}

// Do mock implementation
func (m *MockCaller) Do(ctx context.Context, req Request, opts ...CallOption) (*Result, error) {
	cc := callConfig{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&cc)
	}

	op, err := ParseOperation(req.Query)
	if err != nil {
		return nil, err
	}
	m.Calls = append(m.Calls, MockCall{Operation: op.Name, Request: req, Timeout: cc.timeout})

	handler, ok := m.Handlers[op.Name]
	if !ok {
		return nil, fmt.Errorf("mock: no handler for operation %s", op.Label())
	}
	return handler(req)
}

// CallCount returns how many times an operation was called
func (m *MockCaller) CallCount(operation string) int {
	count := 0
	for _, call := range m.Calls {
		if call.Operation == operation {
			count++
		}
	}
	return count
}

// MockResponse answers every call with a 200 carrying body
func MockResponse(body string) func(req Request) (*Result, error) {
	return func(Request) (*Result, error) {
		return interpret(http.StatusOK, []byte(body))
	}
}

// MockStatus answers every call with the given status and body
func MockStatus(status int, body string) func(req Request) (*Result, error) {
	return func(Request) (*Result, error) {
		return interpret(status, []byte(body))
	}
}

// MockError answers every call with err and no result
func MockError(err error) func(req Request) (*Result, error) {
	return func(Request) (*Result, error) {
		return nil, err
	}
}
