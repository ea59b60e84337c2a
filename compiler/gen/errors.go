package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/dbmlgen/compiler/load"
)

// Sentinel errors for common failure cases.
var (
	// ErrSemantic indicates a schema resolution error.
	ErrSemantic = errors.New("dbmlgen: semantic error")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("dbmlgen: code generation failed")
)

// SemanticError represents a resolution error: an undefined, duplicate
// or ambiguous reference, or a conflicting declaration. It carries the
// source position of the offending declaration.
type SemanticError struct {
	Pos     load.Position
	Table   string // table name (if applicable)
	Column  string // column name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SemanticError) Error() string {
	var b strings.Builder
	b.WriteString("dbmlgen: semantic error")
	if e.Pos != (load.Position{}) {
		b.WriteString(" at ")
		b.WriteString(e.Pos.String())
	}
	if e.Table != "" {
		b.WriteString(" on table ")
		b.WriteString(e.Table)
	}
	if e.Column != "" {
		b.WriteString(" column ")
		b.WriteString(e.Column)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SemanticError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SemanticError.
func (e *SemanticError) Is(target error) bool {
	return target == ErrSemantic
}

// NewSemanticError creates a new SemanticError.
func NewSemanticError(pos load.Position, table, column, message string, cause error) *SemanticError {
	return &SemanticError{
		Pos:     pos,
		Table:   table,
		Column:  column,
		Message: message,
		Cause:   cause,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("dbmlgen: generation error")
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(file, message string, cause error) *GenerationError {
	return &GenerationError{File: file, Message: message, Cause: cause}
}

// ErrorList batches resolution errors so a document reports every
// undefined reference at once instead of stopping at the first.
type ErrorList []error

// Error implements the error interface.
func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "dbmlgen: no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (and %d more errors)", l[0], len(l)-1)
	return b.String()
}

// Unwrap returns the batched errors for errors.Is/As traversal.
func (l ErrorList) Unwrap() []error {
	return l
}

// Err returns the list as an error, or nil when it is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// IsSemanticError reports whether the error is (or contains) a SemanticError.
func IsSemanticError(err error) bool {
	var se *SemanticError
	return errors.As(err, &se)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
