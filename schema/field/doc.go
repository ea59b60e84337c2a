// Package field maps DBML column types to target-language descriptors.
//
// The mapping is a pure, total lookup over the DBML primitive names:
//
//	field.NewMapper(nil).Map("varchar", []string{"255"}, false)
//	// TypeInfo{Type: TypeString, Ident: "string", Column: "varchar(255)"}
//
// Parameterized variants share their base entry; arguments only shape
// the column tag. Names outside the table fail with an
// UnknownTypeError instead of defaulting, so generated column
// definitions are never guessed. Overrides redirect individual names
// to another primitive for database-specific extensions:
//
//	field.NewMapper(map[string]string{"money": "numeric"})
package field
