// Package appsync issues SigV4-signed GraphQL requests against an AWS AppSync endpoint.
package appsync

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

const (
	// ServiceName is the SigV4 signing name of AppSync
	ServiceName = "appsync"
	// ContentType is the header value AppSync accepts for IAM-signed requests
	ContentType = "application/x-amz-json-1.1"

	defaultTimeout = 10 * time.Second
)

// Request is the JSON body of a GraphQL call
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// Body serializes the request. The variables key is present whenever Variables
// is non-nil, including an empty map, and omitted only when nil.
func (r Request) Body() ([]byte, error) {
	if r.Variables == nil {
		return json.Marshal(struct {
			Query string `json:"query"`
		}{Query: r.Query})
	}
	return json.Marshal(struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}{Query: r.Query, Variables: r.Variables})
}

// GraphQLError is one entry of a response's errors array
type GraphQLError struct {
	Message   string          `json:"message"`
	ErrorType string          `json:"errorType,omitempty"`
	Path      []any           `json:"path,omitempty"`
	Locations []ErrorLocation `json:"locations,omitempty"`
}

// ErrorLocation points into the query document
type ErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Result holds a decoded response
type Result struct {
	StatusCode int
	Raw        []byte
	Data       json.RawMessage
	Errors     []GraphQLError
}

// Field returns the raw value stored under data.<name>. The bool is false when
// the field is missing; a JSON null is returned as is.
func (r *Result) Field(name string) (json.RawMessage, bool) {
	if r == nil || len(r.Data) == 0 {
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(r.Data, &fields); err != nil {
		return nil, false
	}
	value, ok := fields[name]
	return value, ok
}

// IsNull reports whether data.<name> is present and null, the AppSync way of
// saying the record does not exist.
func (r *Result) IsNull(name string) bool {
	value, ok := r.Field(name)
	if !ok {
		return false
	}
	trimmed := bytes.TrimSpace(value)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Decode unmarshals data.<name> into out
func (r *Result) Decode(name string, out any) error {
	value, ok := r.Field(name)
	if !ok {
		return &MissingFieldError{Field: name}
	}
	return json.Unmarshal(value, out)
}

// Pretty renders the raw body as indented JSON, falling back to the raw text
func (r *Result) Pretty() string {
	if r == nil {
		return ""
	}
	var out bytes.Buffer
	if err := json.Indent(&out, r.Raw, "", "  "); err != nil {
		return string(r.Raw)
	}
	return out.String()
}

// Caller is the single operation the domain code needs from a client
type Caller interface {
	Do(ctx context.Context, req Request, opts ...CallOption) (*Result, error)
}

// Operation identifies the first operation defined in a query document
type Operation struct {
	Name string
	Type string
}

// Label is the name used in logs; anonymous operations are labelled by type
func (o Operation) Label() string {
	if o.Name != "" {
		return o.Name
	}
	if o.Type != "" {
		return "anonymous " + o.Type
	}
	return "anonymous"
}
