// Package gen resolves parsed DBML documents and generates entity code.
//
// This package is the middle of the pipeline: it turns the syntax tree
// produced by compiler/load into a validated Graph and renders one Go
// module per table.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	DBML source
//	        ↓
//	   load.Parse (syntax tree)
//	        ↓
//	   Graph (resolved tables, enums and relationships)
//	        ↓
//	   Renderer (entity package, jennifer)
//	        ↓
//	   Generated code (model structs, relation enums, behavior stubs)
//
// # Key Types
//
// The package provides several key types:
//
//   - Graph: Holds all resolved Type definitions and relationships
//   - Type: Represents a table with fields, edges, indexes
//   - Field: Column with mapped type info and constraints
//   - Relationship: One relation, stored once and viewed from both ends
//   - Edge: A table's view of a relationship (O2O, O2M, M2O, M2M)
//   - Config: Global configuration for code generation
//
// Resolution is two-pass, so tables and enums may be referenced before
// they are declared. All semantic errors in a document are collected
// and returned together as an ErrorList rather than one at a time.
package gen
