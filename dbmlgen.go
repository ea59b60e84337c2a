// Package dbmlgen compiles DBML documents into typed ORM entity code.
//
// The package is a thin facade over the compiler pipeline: Compile
// lexes and parses the source, resolves it into a graph and renders
// one Go module per table. The result is an ordered list of in-memory
// files; callers decide where (and whether) they land on disk.
package dbmlgen

import (
	"errors"

	"github.com/syssam/dbmlgen/compiler/gen"
	"github.com/syssam/dbmlgen/compiler/gen/entity"
	"github.com/syssam/dbmlgen/compiler/load"
)

// File is one generated source file.
type File = gen.File

// Option configures code generation.
type Option = gen.Option

// Re-exported configuration options.
var (
	WithHeader        = gen.WithHeader
	WithPackage       = gen.WithPackage
	WithTypeOverrides = gen.WithTypeOverrides
	WithWorkers       = gen.WithWorkers
)

// Compile generates entity code for a DBML document. Lexical and
// syntactic failures abort at the first error; semantic analysis
// collects every error in the document before giving up. No files are
// produced unless the whole document compiles.
func Compile(source string, opts ...Option) ([]File, error) {
	c := &gen.Config{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	schema, err := load.Parse(source)
	if err != nil {
		return nil, err
	}
	graph, err := gen.NewGraph(c, schema)
	if err != nil {
		return nil, err
	}
	return gen.NewWriter(graph, entity.NewRenderer(), c.Workers).Write()
}

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityError marks a failure that prevented code generation.
	SeverityError Severity = iota + 1
)

// Diagnostic is one position-annotated failure extracted from a
// Compile error.
type Diagnostic struct {
	Pos      load.Position
	Severity Severity
	Message  string
}

// Diagnostics flattens a Compile error into position-annotated
// diagnostics. Batched semantic errors yield one diagnostic each;
// errors without a position yield a single diagnostic at the zero
// position.
func Diagnostics(err error) []Diagnostic {
	if err == nil {
		return nil
	}
	var list gen.ErrorList
	if errors.As(err, &list) {
		out := make([]Diagnostic, 0, len(list))
		for _, e := range list {
			out = append(out, diagnostic(e))
		}
		return out
	}
	return []Diagnostic{diagnostic(err)}
}

func diagnostic(err error) Diagnostic {
	d := Diagnostic{Severity: SeverityError, Message: err.Error()}
	var (
		lexErr *load.LexError
		parErr *load.ParseError
		semErr *gen.SemanticError
	)
	switch {
	case errors.As(err, &semErr):
		d.Pos = semErr.Pos
	case errors.As(err, &parErr):
		d.Pos = parErr.Pos
	case errors.As(err, &lexErr):
		d.Pos = lexErr.Pos
	}
	return d
}
