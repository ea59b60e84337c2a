// Package field provides the column type system used by the dbmlgen
// compiler: a closed set of target scalar kinds, the descriptor
// attached to every resolved column, and the total mapping from DBML
// primitive type names to those descriptors.
package field

import (
	"errors"
	"fmt"
	"strings"
)

// Type is the target scalar kind of a column.
type Type uint8

// Target scalar kinds.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeString
	TypeTime
	TypeBytes
	TypeUUID
	TypeJSON
	TypeEnum
	endTypes
)

var typeNames = [endTypes]string{
	TypeInvalid: "invalid",
	TypeBool:    "bool",
	TypeInt8:    "int8",
	TypeInt16:   "int16",
	TypeInt32:   "int32",
	TypeInt64:   "int64",
	TypeFloat32: "float32",
	TypeFloat64: "float64",
	TypeString:  "string",
	TypeTime:    "time.Time",
	TypeBytes:   "[]byte",
	TypeUUID:    "uuid.UUID",
	TypeJSON:    "json.RawMessage",
	TypeEnum:    "enum",
}

// String returns the Go spelling of the scalar kind.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Valid reports if the type is a valid scalar kind.
func (t Type) Valid() bool { return t > TypeInvalid && t < endTypes }

// Numeric reports whether the type is a numeric kind.
func (t Type) Numeric() bool { return t >= TypeInt8 && t <= TypeFloat64 }

var typePkgs = map[Type]string{
	TypeTime: "time",
	TypeUUID: "github.com/google/uuid",
	TypeJSON: "encoding/json",
}

// TypeInfo is the fully resolved descriptor of a column type: the
// target scalar kind, its Go identifier, the ORM column tag emitted
// into struct tags, and nullability. Enum-typed columns carry the
// canonical enum name instead of a primitive identifier.
type TypeInfo struct {
	Type     Type
	Ident    string // Go type identifier, e.g. "time.Time"
	PkgPath  string // import path providing Ident, if any
	Column   string // ORM column tag, e.g. "varchar(255)"
	Nullable bool
	Enum     string // canonical enum name for TypeEnum
}

// String returns the Go identifier of the type.
func (t TypeInfo) String() string {
	if t.Ident != "" {
		return t.Ident
	}
	return t.Type.String()
}

// Valid reports if the descriptor carries a valid kind.
func (t TypeInfo) Valid() bool { return t.Type.Valid() }

// DefaultKind tags how a column default is encoded.
type DefaultKind uint8

// Default encodings.
const (
	DefaultNone DefaultKind = iota
	DefaultString
	DefaultInt
	DefaultFloat
	DefaultBool
	DefaultExpr // raw expression, passed through verbatim
)

// Default is a tagged default value carried from the AST to the
// generator so no stage re-parses literals.
type Default struct {
	Kind DefaultKind
	Raw  string
}

// IsZero reports whether no default was declared.
func (d Default) IsZero() bool { return d.Kind == DefaultNone }

// String encodes the default for struct tags and comments.
func (d Default) String() string {
	switch d.Kind {
	case DefaultNone:
		return ""
	case DefaultString:
		return fmt.Sprintf("'%s'", d.Raw)
	default:
		return d.Raw
	}
}

// ErrUnknownType is the sentinel error matched by all unknown-type errors.
var ErrUnknownType = errors.New("dbmlgen: unknown column type")

// UnknownTypeError reports a DBML type name with no mapping. Unknown
// names fail rather than silently defaulting, so generated column
// definitions are never guessed.
type UnknownTypeError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("dbmlgen: unknown column type %q", e.Name)
}

// Is reports whether the target matches the sentinel error for UnknownTypeError.
func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}

// NewUnknownTypeError creates a new UnknownTypeError.
func NewUnknownTypeError(name string) *UnknownTypeError {
	return &UnknownTypeError{Name: name}
}

// IsUnknownTypeError reports whether the error is an UnknownTypeError.
func IsUnknownTypeError(err error) bool {
	var ute *UnknownTypeError
	return errors.As(err, &ute)
}

// mapping is the fixed, total table from lowercased DBML primitive
// names to scalar kinds. Parameterized variants (length, precision,
// scale) reuse the base entry; arguments only shape the column tag.
var mapping = map[string]Type{
	"bool":              TypeBool,
	"boolean":           TypeBool,
	"tinyint":           TypeInt8,
	"int1":              TypeInt8,
	"smallint":          TypeInt16,
	"int2":              TypeInt16,
	"int":               TypeInt32,
	"integer":           TypeInt32,
	"int4":              TypeInt32,
	"mediumint":         TypeInt32,
	"serial":            TypeInt32,
	"bigint":            TypeInt64,
	"int8":              TypeInt64,
	"bigserial":         TypeInt64,
	"float":             TypeFloat32,
	"real":              TypeFloat32,
	"float4":            TypeFloat32,
	"double":            TypeFloat64,
	"float8":            TypeFloat64,
	"decimal":           TypeFloat64,
	"numeric":           TypeFloat64,
	"money":             TypeFloat64,
	"char":              TypeString,
	"character":         TypeString,
	"varchar":           TypeString,
	"character varying": TypeString,
	"text":              TypeString,
	"tinytext":          TypeString,
	"mediumtext":        TypeString,
	"longtext":          TypeString,
	"citext":            TypeString,
	"date":              TypeTime,
	"time":              TypeTime,
	"datetime":          TypeTime,
	"timestamp":         TypeTime,
	"timestamptz":       TypeTime,
	"binary":            TypeBytes,
	"varbinary":         TypeBytes,
	"blob":              TypeBytes,
	"tinyblob":          TypeBytes,
	"mediumblob":        TypeBytes,
	"longblob":          TypeBytes,
	"bytea":             TypeBytes,
	"uuid":              TypeUUID,
	"json":              TypeJSON,
	"jsonb":             TypeJSON,
}

// autoIncrement lists type names that imply auto-increment.
var autoIncrement = map[string]bool{
	"serial":    true,
	"bigserial": true,
}

// Mapper translates raw DBML column types into TypeInfo descriptors.
// It is a pure lookup; the same input always yields the same
// descriptor. Overrides let callers redirect individual DBML names to
// another primitive (for database-specific extensions).
type Mapper struct {
	overrides map[string]string
}

// NewMapper returns a mapper with the given name overrides. Override
// keys and values are DBML type names; values must map to a known
// primitive.
func NewMapper(overrides map[string]string) *Mapper {
	m := &Mapper{}
	if len(overrides) > 0 {
		m.overrides = make(map[string]string, len(overrides))
		for k, v := range overrides {
			m.overrides[strings.ToLower(k)] = strings.ToLower(v)
		}
	}
	return m
}

// Map resolves a raw DBML type name plus arguments and nullability
// into a TypeInfo, or returns an UnknownTypeError for unmapped names.
func (m *Mapper) Map(name string, args []string, nullable bool) (TypeInfo, error) {
	lower := strings.ToLower(name)
	if m.overrides != nil {
		if o, ok := m.overrides[lower]; ok {
			lower = o
		}
	}
	t, ok := mapping[lower]
	if !ok {
		return TypeInfo{}, NewUnknownTypeError(name)
	}
	info := TypeInfo{
		Type:     t,
		Ident:    typeNames[t],
		PkgPath:  typePkgs[t],
		Column:   columnTag(lower, args),
		Nullable: nullable,
	}
	return info, nil
}

// AutoIncrement reports whether the raw type name implies an
// auto-incrementing column (serial variants).
func (m *Mapper) AutoIncrement(name string) bool {
	return autoIncrement[strings.ToLower(name)]
}

// columnTag renders the ORM column tag: the lowercased type name with
// its arguments, e.g. "varchar(255)" or "decimal(10,2)".
func columnTag(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ","))
}
