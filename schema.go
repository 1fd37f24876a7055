package jsonapi

// Schema renders records of one entity type as resources.
//
// Implementations must be pure functions of the record and must not keep
// per-encode state: a schema instance is shared by every encode that uses
// the registry it was built by.
type Schema interface {
	// ResourceType returns the resource type name, e.g. "articles".
	ResourceType() string

	// ID returns the resource id of rec.
	ID(rec any) (string, error)

	// Attributes returns the attributes of rec. The identifier field must
	// not be part of the result.
	Attributes(rec any) (map[string]any, error)

	// Relationships returns the relationships of rec. include lists the
	// relationship names requested for inclusion below this resource, so
	// schemas can skip loading data nobody asked for.
	Relationships(rec any, include []string) (map[string]Relationship, error)
}

// LinksProvider is implemented by schemas that attach links to resources.
type LinksProvider interface {
	ResourceLinks(rec any) Links
}

// MetaProvider is implemented by schemas that attach meta to resources.
type MetaProvider interface {
	ResourceMeta(rec any) Meta
}

// Relationship describes one relationship of a record.
//
// Data holds the related record, a slice of records, a ResourceIdentity,
// a []ResourceIdentity, or nil. Records are rendered as identifiers in the
// relationship and may be sideloaded through include paths; bare
// identities are only linked.
type Relationship struct {
	Data  any
	Links Links
	Meta  Meta
}

// Helpers is the read-only view of the encoder that schemas may use.
type Helpers interface {
	// URL prefixes path with the encoder base URL.
	URL(path string) string
}

// SchemaContext is passed to schema factories.
type SchemaContext struct {
	// Entity is the declared entity name the schema serves, e.g. "Article".
	Entity string
	// Helpers exposes URL building to the schema.
	Helpers Helpers
}

// SchemaFactory creates a schema for the entity named in ctx.
type SchemaFactory func(ctx SchemaContext) Schema

// urlHelpers implements Helpers for a base URL.
type urlHelpers struct {
	base string
}

func (h urlHelpers) URL(path string) string {
	return NewLink(path).resolve(h.base).Href
}
