package appsync

import (
	"errors"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// ParseOperation parses the query document and returns its first operation.
// Only syntax is checked; the document is never validated against a schema.
func ParseOperation(query string) (Operation, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "request", Input: query})
	if err != nil {
		return Operation{}, &QueryError{Err: err}
	}
	if len(doc.Operations) == 0 {
		return Operation{}, &QueryError{Err: errors.New("no operation defined")}
	}

	op := doc.Operations[0]
	return Operation{Name: op.Name, Type: string(op.Operation)}, nil
}
