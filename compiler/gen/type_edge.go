package gen

import (
	"strings"

	"github.com/syssam/dbmlgen/compiler/load"
)

// =============================================================================
// Rel type
// =============================================================================

// Rel is the cardinality of a relationship. The behavior set is fixed,
// so generation matches it exhaustively.
type Rel int

// Relation types.
const (
	Unk Rel = iota // Unknown.
	O2O            // One to one.
	O2M            // One to many.
	M2O            // Many to one.
	M2M            // Many to many.
)

// String returns the relation name.
func (r Rel) String() string {
	s := "Unknown"
	switch r {
	case O2O:
		s = "O2O"
	case O2M:
		s = "O2M"
	case M2O:
		s = "M2O"
	case M2M:
		s = "M2M"
	}
	return s
}

// Inverse returns the cardinality seen from the other endpoint.
func (r Rel) Inverse() Rel {
	switch r {
	case O2M:
		return M2O
	case M2O:
		return O2M
	default:
		return r
	}
}

// =============================================================================
// Relationship
// =============================================================================

// Relationship is a resolved relation between two tables, stored once
// centrally on the Graph and viewed from both endpoints through their
// edges. For non-M2M relations Table is the owning side: the table
// holding the foreign-key column(s).
type Relationship struct {
	// Rel holds the resolved cardinality.
	Rel Rel
	// Name is the optional constraint name from the source.
	Name string
	// Table and Columns identify the owning endpoint.
	Table   *Type
	Columns []string
	// RefTable and RefColumns identify the referenced endpoint.
	RefTable   *Type
	RefColumns []string
	// Through is the junction table of a detected many-to-many
	// relation. Nil for non-M2M relations and for logical M2M
	// relations whose junction is synthesized by name only.
	Through *Type
	// JoinTable is the junction table name: Through's name when
	// detected, a synthesized one otherwise.
	JoinTable string
	// JoinColumns and JoinRefColumns are the junction columns pointing
	// at Table and RefTable respectively. Only set for M2M relations.
	JoinColumns    []string
	JoinRefColumns []string
	// Referential actions, passed through to generated metadata.
	OnDelete string
	OnUpdate string

	pos load.Position
}

// SelfReferencing reports if both endpoints are the same table.
func (r *Relationship) SelfReferencing() bool {
	return r.Table == r.RefTable
}

// Pos returns the source position of the declaring ref.
func (r *Relationship) Pos() load.Position {
	return r.pos
}

// =============================================================================
// Edge
// =============================================================================

// Edge is one table's view of a relationship. Every relationship
// produces two edges, one per endpoint, so generation always sees the
// reciprocal side.
type Edge struct {
	// Name is the edge name, unique within its table.
	Name string
	// Rel is the cardinality seen from the holding table.
	Rel Rel
	// Type is the table the edge points to.
	Type *Type
	// Owner indicates this side declared the foreign key (or, for
	// M2M, the left-hand side of the declaring ref).
	Owner bool
	// Relationship points to the central relationship entry.
	Relationship *Relationship
}

// M2M indicates if this edge is an M2M edge.
func (e Edge) M2M() bool { return e.Rel == M2M }

// M2O indicates if this edge is an M2O edge.
func (e Edge) M2O() bool { return e.Rel == M2O }

// O2M indicates if this edge is an O2M edge.
func (e Edge) O2M() bool { return e.Rel == O2M }

// O2O indicates if this edge is an O2O edge.
func (e Edge) O2O() bool { return e.Rel == O2O }

// StructField returns the Go name of the edge.
func (e Edge) StructField() string {
	return pascal(e.Name)
}

// Columns returns the join columns on the holding table's side.
func (e Edge) Columns() []string {
	if e.Owner {
		return e.Relationship.Columns
	}
	return e.Relationship.RefColumns
}

// RefColumns returns the join columns on the target table's side.
func (e Edge) RefColumns() []string {
	if e.Owner {
		return e.Relationship.RefColumns
	}
	return e.Relationship.Columns
}

// edgeBaseName derives the edge name of the owning side from its
// foreign-key column: "user_id" becomes "user", so self-referencing
// tables with several refs ("manager_id", "mentor_id") get distinct
// edge names for free.
func edgeBaseName(columns []string, target *Type) string {
	if len(columns) == 1 {
		if base := strings.TrimSuffix(columns[0], "_id"); base != columns[0] && base != "" {
			return snake(base)
		}
	}
	return snake(rules.Singularize(target.Name))
}
