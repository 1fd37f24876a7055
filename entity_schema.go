package jsonapi

import (
	"fmt"
	"strconv"

	"github.com/go-openapi/inflect"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/jsonapi/internal/record"
)

// DefaultIDField is the record field read as resource id by EntitySchema.
const DefaultIDField = "id"

// ResourceTypeName returns the default resource type of an entity: the
// plural of its lower-cased name ("Article" becomes "articles", "Person"
// becomes "people").
func ResourceTypeName(entity string) string {
	return inflect.Pluralize(cases.Lower(language.Und).String(entity))
}

// EntitySchema is the schema used for entities without a custom one.
//
// It reads the id from IDField and exposes every other field as an
// attribute. It has no relationships. Custom schemas embed *EntitySchema and
// override the methods they need.
type EntitySchema struct {
	// IDField is the field holding the resource id.
	IDField string

	entity       string
	resourceType string
	selfLink     bool
	helpers      Helpers
}

// SchemaOption configures an EntitySchema.
type SchemaOption func(*EntitySchema)

// WithResourceType overrides the resource type name.
func WithResourceType(typ string) SchemaOption {
	return func(s *EntitySchema) {
		s.resourceType = typ
	}
}

// WithIDField sets the field the id is read from.
func WithIDField(name string) SchemaOption {
	return func(s *EntitySchema) {
		s.IDField = name
	}
}

// WithSelfLink adds a "self" link of the form <url>/<type>/<id> to every resource.
func WithSelfLink() SchemaOption {
	return func(s *EntitySchema) {
		s.selfLink = true
	}
}

// NewEntitySchema returns the default schema for the entity in ctx.
func NewEntitySchema(ctx SchemaContext, opts ...SchemaOption) *EntitySchema {
	s := &EntitySchema{
		IDField: DefaultIDField,
		entity:  ctx.Entity,
		helpers: ctx.Helpers,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resourceType == "" {
		s.resourceType = ResourceTypeName(ctx.Entity)
	}
	if s.helpers == nil {
		s.helpers = urlHelpers{}
	}
	return s
}

// Entity returns the entity name the schema was created for.
func (s *EntitySchema) Entity() string {
	return s.entity
}

// Helpers returns the helpers the schema was created with.
func (s *EntitySchema) Helpers() Helpers {
	return s.helpers
}

// ResourceType implements Schema.
func (s *EntitySchema) ResourceType() string {
	return s.resourceType
}

// ID implements Schema. The id field is coerced to a string.
func (s *EntitySchema) ID(rec any) (string, error) {
	v, ok, err := record.Field(rec, s.IDField)
	if err != nil {
		return "", err
	}
	if !ok || v == nil {
		return "", fmt.Errorf("field %q is not set", s.IDField)
	}
	return IDString(v), nil
}

// Attributes implements Schema. The result is a new map without the id
// field; rec is left untouched.
func (s *EntitySchema) Attributes(rec any) (map[string]any, error) {
	fields, err := record.Fields(rec)
	if err != nil {
		return nil, err
	}
	delete(fields, s.IDField)
	return fields, nil
}

// Relationships implements Schema. The default schema has none.
func (s *EntitySchema) Relationships(any, []string) (map[string]Relationship, error) {
	return nil, nil
}

// ResourceLinks implements LinksProvider.
func (s *EntitySchema) ResourceLinks(rec any) Links {
	if !s.selfLink {
		return nil
	}
	id, err := s.ID(rec)
	if err != nil {
		return nil
	}
	return Links{LinkSelf: NewLink("/" + s.resourceType + "/" + id)}
}

// IDString coerces an identifier value to its string form.
func IDString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case uuid.UUID:
		return id.String()
	case fmt.Stringer:
		return id.String()
	case []byte:
		return string(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
