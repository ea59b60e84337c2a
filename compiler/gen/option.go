package gen

import (
	"fmt"

	"github.com/syssam/dbmlgen/schema/field"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the output package import path.
// For example: "github.com/org/project/model".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return fmt.Errorf("package path cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTypeOverrides remaps DBML column types before the built-in
// primitive table is consulted. Keys and values are case-insensitive
// DBML type names, e.g. {"money": "numeric"}.
func WithTypeOverrides(overrides map[string]string) Option {
	return func(c *Config) error {
		for k, v := range overrides {
			if k == "" || v == "" {
				return fmt.Errorf("type override %q=%q: names cannot be empty", k, v)
			}
		}
		c.Mapper = field.NewMapper(overrides)
		return nil
	}
}

// WithWorkers caps the number of concurrent file renders.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("workers cannot be negative: %d", n)
		}
		c.Workers = n
		return nil
	}
}
