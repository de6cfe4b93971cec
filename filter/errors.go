package filter

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr/file"
)

var (
	// ErrEmptyExpression is returned when a filter has no expression text.
	ErrEmptyExpression = errors.New("empty expression")
	// ErrNotBool is returned when an expression yields something other than a bool.
	ErrNotBool = errors.New("expression did not return a bool")
)

// Location is a 1-based position inside an expression. The zero value means
// the position is unknown.
type Location struct {
	Line   int
	Column int
}

func (l Location) known() bool {
	return l.Line > 0
}

// locate extracts the source position expr attaches to its errors.
func locate(err error) (Location, string) {
	var fileErr *file.Error
	if errors.As(err, &fileErr) {
		return Location{Line: fileErr.Line, Column: fileErr.Column + 1}, fileErr.Message
	}
	return Location{}, err.Error()
}

// CompilationError indicates a filter expression could not be compiled
type CompilationError struct {
	Expression string
	Message    string
	Location   Location
	Err        error
}

func newCompilationError(expression string, err error) *CompilationError {
	loc, msg := locate(err)
	return &CompilationError{Expression: expression, Message: msg, Location: loc, Err: err}
}

func (e *CompilationError) Error() string {
	if e.Location.known() {
		return fmt.Sprintf("filter %q: %s (line %d, column %d)", e.Expression, e.Message, e.Location.Line, e.Location.Column)
	}
	return fmt.Sprintf("filter %q: %s", e.Expression, e.Message)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// EvaluationError indicates a compiled filter failed against one entity
type EvaluationError struct {
	Expression string
	EntityID   string
	Message    string
	Location   Location
	Err        error
}

func newEvaluationError(expression, entityID string, err error) *EvaluationError {
	loc, msg := locate(err)
	return &EvaluationError{Expression: expression, EntityID: entityID, Message: msg, Location: loc, Err: err}
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("filter %q on %s: %s", e.Expression, e.EntityID, e.Message)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
