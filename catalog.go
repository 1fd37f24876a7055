package jsonapi

import (
	"reflect"
	"sort"

	"github.com/syssam/jsonapi/internal/record"
)

// Catalog is the host's table of entity types and custom schemas.
//
// A catalog is filled once at start-up and then only read; it is not safe
// to register entries while encoders are being built from it.
type Catalog struct {
	types   map[string]reflect.Type
	schemas map[string]SchemaFactory
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		types:   make(map[string]reflect.Type),
		schemas: make(map[string]SchemaFactory),
	}
}

// Register records the Go type of sample under the entity name. Pointers
// are dereferenced, so Article{} and (*Article)(nil) register the same type.
func (c *Catalog) Register(name string, sample any) *Catalog {
	if t := record.TypeOf(sample); t != nil {
		c.types[name] = t
	}
	return c
}

// RegisterSchema records a custom schema factory for the entity name.
func (c *Catalog) RegisterSchema(name string, factory SchemaFactory) *Catalog {
	if factory != nil {
		c.schemas[name] = factory
	}
	return c
}

// EntityType returns the Go type registered under name.
func (c *Catalog) EntityType(name string) (reflect.Type, bool) {
	t, ok := c.types[name]
	return t, ok
}

// SchemaFactory returns the custom schema factory registered under name.
func (c *Catalog) SchemaFactory(name string) (SchemaFactory, bool) {
	f, ok := c.schemas[name]
	return f, ok
}

// Entities returns the registered entity names in sorted order.
func (c *Catalog) Entities() []string {
	names := make([]string, 0, len(c.types))
	for name := range c.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
