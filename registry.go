package jsonapi

import (
	"reflect"
	"sync"

	"github.com/syssam/jsonapi/internal/record"
)

// Entity declares an entity the encoder serializes.
type Entity struct {
	// Name is the declared entity name, e.g. "Article".
	Name string
	// As names the catalog entity backing this declaration when it differs
	// from Name. The schema is looked up under As as well.
	As string
	// Schema overrides the schema factory for this entity.
	Schema SchemaFactory
}

// entityName returns the name the entity resolves under in the catalog.
func (e Entity) entityName() string {
	if e.As != "" {
		return e.As
	}
	return e.Name
}

// SchemaRegistry maps declared entities to schemas.
//
// Entries are keyed by the resolved Go type, so aliases that resolve to the
// same type share one entry. Schemas are created on first use and then
// reused; the registry is safe for concurrent use once built.
type SchemaRegistry struct {
	catalog *Catalog
	helpers Helpers
	entries []*registryEntry
	byType  map[reflect.Type]*registryEntry
	byName  map[string]*registryEntry
}

type registryEntry struct {
	entity  string
	typ     reflect.Type
	factory SchemaFactory

	once   sync.Once
	schema Schema
}

func (e *registryEntry) get(helpers Helpers) Schema {
	e.once.Do(func() {
		e.schema = e.factory(SchemaContext{Entity: e.entity, Helpers: helpers})
	})
	return e.schema
}

// NewSchemaRegistry builds a registry for the declared entities.
//
// Every declared entity must be registered in the catalog; the first one
// that is not fails with a MissingEntityTypeError. A later declaration
// resolving to an already declared type replaces that entry's schema.
func NewSchemaRegistry(catalog *Catalog, helpers Helpers, entities ...Entity) (*SchemaRegistry, error) {
	if catalog == nil {
		catalog = NewCatalog()
	}
	if helpers == nil {
		helpers = urlHelpers{}
	}
	r := &SchemaRegistry{
		catalog: catalog,
		helpers: helpers,
		byType:  make(map[reflect.Type]*registryEntry),
		byName:  make(map[string]*registryEntry),
	}
	for _, ent := range entities {
		name := ent.entityName()
		typ, ok := catalog.EntityType(name)
		if !ok {
			return nil, NewMissingEntityTypeError(ent.Name, NewUnknownEntityError(name))
		}
		factory := r.factoryFor(name, ent.Schema)
		e, ok := r.byType[typ]
		if !ok {
			e = &registryEntry{typ: typ}
			r.byType[typ] = e
			r.entries = append(r.entries, e)
		}
		e.entity = name
		e.factory = factory
		r.byName[ent.Name] = e
		r.byName[name] = e
	}
	return r, nil
}

// factoryFor picks the explicit override, then the catalog schema, then the
// default EntitySchema.
func (r *SchemaRegistry) factoryFor(name string, override SchemaFactory) SchemaFactory {
	if override != nil {
		return override
	}
	if f, ok := r.catalog.SchemaFactory(name); ok {
		return f
	}
	return func(ctx SchemaContext) Schema {
		return NewEntitySchema(ctx)
	}
}

// Len returns the number of distinct entity types in the registry.
func (r *SchemaRegistry) Len() int {
	return len(r.entries)
}

// Resolve returns the schema for an entity name. Declared entities return
// their shared schema. Names only known to the catalog get a fresh schema,
// the default one when no custom schema is registered. Names unknown to the
// catalog fail with an UnknownEntityError.
func (r *SchemaRegistry) Resolve(name string) (Schema, error) {
	if e, ok := r.byName[name]; ok {
		return e.get(r.helpers), nil
	}
	if _, ok := r.catalog.EntityType(name); !ok {
		return nil, NewUnknownEntityError(name)
	}
	return r.factoryFor(name, nil)(SchemaContext{Entity: name, Helpers: r.helpers}), nil
}

// SchemaFor returns the schema for a record.
func (r *SchemaRegistry) SchemaFor(rec any) (Schema, error) {
	typ := record.TypeOf(rec)
	if e, ok := r.byType[typ]; ok {
		return e.get(r.helpers), nil
	}
	name := "<nil>"
	if typ != nil {
		name = typ.String()
	}
	return nil, &SchemaNotFoundError{Type: name}
}
