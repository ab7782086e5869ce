package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/raulc0399/arcane-kitchen/internal/appsync"
)

// PrintExchange writes the status and body of a raw call. field names the data
// field that is reported as not found when it comes back null.
func PrintExchange(w io.Writer, field string, result *appsync.Result, err error) {
	if result == nil {
		fmt.Fprintf(w, "Request failed: %v\n", err)
		return
	}

	fmt.Fprintf(w, "Status: %d\n", result.StatusCode)

	var decodeErr *appsync.DecodeError
	switch {
	case len(bytes.TrimSpace(result.Raw)) == 0:
		fmt.Fprintln(w, "Empty response")
	case errors.As(err, &decodeErr):
		fmt.Fprintf(w, "Raw Response: %s\n", decodeErr.Raw)
	default:
		fmt.Fprintf(w, "Response: %s\n", result.Pretty())
	}

	if err == nil && field != "" && result.IsNull(field) {
		fmt.Fprintf(w, "Not found: %s returned null\n", field)
	}
}
