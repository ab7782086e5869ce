// Package appsynctest provides a fake AppSync endpoint that dispatches on the
// GraphQL operation name.
package appsynctest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/raulc0399/arcane-kitchen/internal/appsync"
)

// Handler answers one operation with a status code and raw body
type Handler func(variables map[string]any) (int, string)

// Call is one request the server received
type Call struct {
	Operation     string
	Variables     map[string]any
	Authorization string
	ContentType   string
}

// Server is a fake GraphQL endpoint
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	calls    []Call
}

// NewServer starts a server that is closed when the test ends
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{handlers: make(map[string]Handler)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// On registers h for the named operation
func (s *Server) On(operation string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[operation] = h
}

// Respond answers the named operation with a fixed 200 body
func (s *Server) Respond(operation, body string) {
	s.On(operation, func(map[string]any) (int, string) { return http.StatusOK, body })
}

// Calls returns a copy of the received requests
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Count returns how many times operation was called
func (s *Server) Count(operation string) int {
	n := 0
	for _, call := range s.Calls() {
		if call.Operation == operation {
			n++
		}
	}
	return n
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	op, err := appsync.ParseOperation(req.Query)
	if err != nil {
		writeBody(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Operation:     op.Name,
		Variables:     req.Variables,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
	})
	h, ok := s.handlers[op.Name]
	s.mu.Unlock()

	if !ok {
		writeBody(w, http.StatusOK, errorBody(fmt.Sprintf("no handler for %s", op.Label())))
		return
	}
	status, body := h(req.Variables)
	writeBody(w, status, body)
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.Copy(w, strings.NewReader(body))
}

func errorBody(message string) string {
	body, _ := json.Marshal(map[string]any{
		"data":   nil,
		"errors": []map[string]string{{"message": message, "errorType": "FakeError"}},
	})
	return string(body)
}
