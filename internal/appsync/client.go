package appsync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/raulc0399/arcane-kitchen/internal/logging"
)

// Config identifies the endpoint a Client talks to
type Config struct {
	Endpoint string
	Region   string
	Service  string
	Timeout  time.Duration
}

// CallRecord describes one finished call
type CallRecord struct {
	Operation     string
	OperationType string
	StatusCode    int
	Outcome       string
	Elapsed       time.Duration
	Error         string
}

// CallRecorder receives a record of every call; failures to record are logged only
type CallRecorder interface {
	RecordCall(ctx context.Context, rec CallRecord) error
}

// Client provides signed access to an AppSync GraphQL endpoint
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	signer     *Signer
	logger     logging.Logger
	recorder   CallRecorder
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRecorder sets the call recorder
func WithRecorder(recorder CallRecorder) Option {
	return func(c *Client) { c.recorder = recorder }
}

// WithClock overrides the signing time source
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.signer.now = now }
}

// CallOption adjusts a single call
type CallOption func(*callConfig)

type callConfig struct {
	timeout time.Duration
}

// WithTimeout bounds a single call
func WithTimeout(d time.Duration) CallOption {
	return func(cc *callConfig) { cc.timeout = d }
}

// NewClient creates a client for cfg.Endpoint signing with credentials
func NewClient(cfg Config, credentials aws.CredentialsProvider, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("appsync: invalid endpoint %q: %w", cfg.Endpoint, err)
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, fmt.Errorf("appsync: endpoint must be an absolute http(s) URL, got %q", cfg.Endpoint)
	}
	if cfg.Region == "" {
		return nil, errors.New("appsync: region is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		endpoint:   u.String(),
		timeout:    timeout,
		httpClient: &http.Client{},
		signer:     NewSigner(credentials, cfg.Region, cfg.Service),
		logger:     logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the GraphQL URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Do signs and sends req. On any HTTP response the returned Result is non-nil,
// even when err is set, so callers can print the status and raw body. Nothing
// is retried.
func (c *Client) Do(ctx context.Context, req Request, opts ...CallOption) (*Result, error) {
	cc := callConfig{timeout: c.timeout}
	for _, opt := range opts {
		opt(&cc)
	}

	op, err := ParseOperation(req.Query)
	if err != nil {
		c.finish(ctx, op, nil, err, 0)
		return nil, err
	}

	body, err := req.Body()
	if err != nil {
		err = fmt.Errorf("appsync: failed to marshal request: %w", err)
		c.finish(ctx, op, nil, err, 0)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cc.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		err = fmt.Errorf("appsync: failed to create request: %w", err)
		c.finish(ctx, op, nil, err, 0)
		return nil, err
	}
	httpReq.Header.Set("Content-Type", ContentType)

	if err := c.signer.Sign(ctx, httpReq, body); err != nil {
		c.finish(ctx, op, nil, err, 0)
		return nil, err
	}

	c.logger.Debug("Sending GraphQL request",
		logging.F("operation", op.Label()),
		logging.F("endpoint", c.endpoint),
		logging.F("timeout", cc.timeout.String()),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = &TransportError{Operation: op.Label(), Err: err}
		c.finish(ctx, op, nil, err, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		err = &TransportError{Operation: op.Label(), Err: err}
		c.finish(ctx, op, nil, err, time.Since(start))
		return nil, err
	}

	result, err := interpret(resp.StatusCode, raw)
	c.finish(ctx, op, result, err, time.Since(start))
	return result, err
}

// interpret turns a status code and body into a Result and the matching error
func interpret(status int, raw []byte) (*Result, error) {
	result := &Result{StatusCode: status, Raw: raw}

	if status != http.StatusOK {
		return result, &StatusError{StatusCode: status, Body: string(raw)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return result, ErrEmptyResponse
	}

	var payload struct {
		Data   json.RawMessage `json:"data"`
		Errors []GraphQLError  `json:"errors"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return result, &DecodeError{Raw: string(raw), Err: err}
	}

	result.Data = payload.Data
	result.Errors = payload.Errors
	if len(payload.Errors) > 0 {
		return result, GraphQLErrors(payload.Errors)
	}
	if data := bytes.TrimSpace(payload.Data); len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return result, ErrNoData
	}
	return result, nil
}

func (c *Client) finish(ctx context.Context, op Operation, result *Result, err error, elapsed time.Duration) {
	rec := CallRecord{
		Operation:     op.Label(),
		OperationType: op.Type,
		Outcome:       Classify(err),
		Elapsed:       elapsed,
	}
	if result != nil {
		rec.StatusCode = result.StatusCode
	}
	if err != nil {
		rec.Error = err.Error()
	}

	fields := []logging.Field{
		logging.F("operation", rec.Operation),
		logging.F("status", rec.StatusCode),
		logging.F("outcome", rec.Outcome),
		logging.F("elapsed", elapsed.Round(time.Millisecond).String()),
	}
	switch rec.Outcome {
	case OutcomeOK:
		c.logger.Info("GraphQL call completed", fields...)
	case OutcomeGraphQLError, OutcomeEmpty, OutcomeNoData:
		c.logger.Warn("GraphQL call returned no usable data", append(fields, logging.F("error", err))...)
	default:
		c.logger.Error("GraphQL call failed", append(fields, logging.F("error", err))...)
	}

	if c.recorder == nil {
		return
	}
	if recErr := c.recorder.RecordCall(context.WithoutCancel(ctx), rec); recErr != nil {
		c.logger.Warn("Failed to record call", logging.F("operation", rec.Operation), logging.F("error", recErr))
	}
}
