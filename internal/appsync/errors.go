package appsync

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	// ErrEmptyResponse is returned when a 200 response carries no body
	ErrEmptyResponse = errors.New("appsync: empty response")
	// ErrNoData is returned when a 200 JSON response has neither data nor errors
	ErrNoData = errors.New("appsync: response carries neither data nor errors")
	// ErrMissingCredentials is returned when no usable credentials could be resolved.
	// The request is never sent in that case.
	ErrMissingCredentials = errors.New("appsync: missing AWS credentials")
)

// Call outcomes as recorded in the journal
const (
	OutcomeOK             = "ok"
	OutcomeGraphQLError   = "graphql_error"
	OutcomeHTTPError      = "http_error"
	OutcomeEmpty          = "empty"
	OutcomeNoData         = "no_data"
	OutcomeDecodeError    = "decode_error"
	OutcomeTransportError = "transport_error"
	OutcomeSigningError   = "signing_error"
	OutcomeInvalidRequest = "invalid_request"
)

// TransportError wraps timeouts, DNS failures and connection errors
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("appsync: %s: request failed: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the call ran out of time
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// StatusError is returned for any non-200 response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("appsync: API returned status %d: %s", e.StatusCode, e.Body)
}

// DecodeError keeps the raw body of a response that was not JSON
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("appsync: failed to decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// GraphQLErrors is the errors array of a response
type GraphQLErrors []GraphQLError

func (e GraphQLErrors) Error() string {
	msgs := make([]string, len(e))
	for i, gqlErr := range e {
		if gqlErr.ErrorType != "" {
			msgs[i] = gqlErr.ErrorType + ": " + gqlErr.Message
			continue
		}
		msgs[i] = gqlErr.Message
	}
	return "appsync: " + strings.Join(msgs, "; ")
}

// QueryError is returned when the query document does not parse
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("appsync: invalid query document: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// MissingFieldError is returned when data lacks the requested field
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("appsync: response has no data.%s", e.Field)
}

// Classify maps a Do error onto a journal outcome
func Classify(err error) string {
	if err == nil {
		return OutcomeOK
	}

	var (
		gqlErrs   GraphQLErrors
		statusErr *StatusError
		decodeErr *DecodeError
		transErr  *TransportError
		queryErr  *QueryError
	)
	switch {
	case errors.As(err, &gqlErrs):
		return OutcomeGraphQLError
	case errors.As(err, &statusErr):
		return OutcomeHTTPError
	case errors.Is(err, ErrEmptyResponse):
		return OutcomeEmpty
	case errors.Is(err, ErrNoData):
		return OutcomeNoData
	case errors.As(err, &decodeErr):
		return OutcomeDecodeError
	case errors.As(err, &transErr):
		return OutcomeTransportError
	case errors.Is(err, ErrMissingCredentials):
		return OutcomeSigningError
	case errors.As(err, &queryErr):
		return OutcomeInvalidRequest
	default:
		return OutcomeInvalidRequest
	}
}
