// Package orm holds the small runtime referenced by generated entity
// code: relationship and index descriptors plus the behavior hook
// type. It has no dependencies and performs no database work itself.
package orm

import "context"

// Cardinality classifies a relationship from the declaring entity's
// point of view.
type Cardinality int

const (
	// OneToOne relates a single row to a single row.
	OneToOne Cardinality = iota + 1
	// OneToMany relates a single row to many rows.
	OneToMany
	// ManyToOne relates many rows to a single row.
	ManyToOne
	// ManyToMany relates many rows to many rows through a junction
	// table.
	ManyToMany
)

func (c Cardinality) String() string {
	switch c {
	case OneToOne:
		return "one-to-one"
	case OneToMany:
		return "one-to-many"
	case ManyToOne:
		return "many-to-one"
	case ManyToMany:
		return "many-to-many"
	}
	return "unknown"
}

// RelationDesc describes one relationship variant of an entity. The
// Columns/RefColumns pairs are aligned by index. Join fields are set
// only for many-to-many relations.
type RelationDesc struct {
	Cardinality Cardinality
	// Table and Columns are the declaring entity's side.
	Table   string
	Columns []string
	// RefTable and RefColumns are the related entity's side.
	RefTable   string
	RefColumns []string
	// JoinTable names the junction table of a many-to-many relation,
	// with JoinColumns pointing back at Table and JoinRefColumns at
	// RefTable.
	JoinTable      string
	JoinColumns    []string
	JoinRefColumns []string
	// OnDelete and OnUpdate carry the declared referential actions,
	// empty when unset.
	OnDelete string
	OnUpdate string
}

// IndexDesc describes a secondary index declared on an entity's table.
type IndexDesc struct {
	Name    string
	Unique  bool
	Columns []string
}

// Hook is a lifecycle callback attached to an entity's behavior. The
// generated behavior stubs satisfy Behavior with no-op hooks; users
// extend them in separate files.
type Hook func(ctx context.Context, entity any) error

// Behavior is implemented by the generated per-entity behavior types.
type Behavior interface {
	// BeforeSave runs before an entity is persisted.
	BeforeSave(ctx context.Context, entity any) error
	// AfterSave runs after an entity is persisted.
	AfterSave(ctx context.Context, entity any) error
}
