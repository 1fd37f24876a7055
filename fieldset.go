package jsonapi

// Fieldsets restricts the fields rendered per resource type. A type without
// an entry renders all of its fields.
type Fieldsets map[string][]string

// Allows reports whether field may be rendered for resources of typ.
func (f Fieldsets) Allows(typ, field string) bool {
	fields, ok := f[typ]
	if !ok {
		return true
	}
	for _, name := range fields {
		if name == field {
			return true
		}
	}
	return false
}

// Apply returns the attributes of a resource of typ that the fieldset
// allows. The input map is returned as is when typ has no entry.
func (f Fieldsets) Apply(typ string, attrs map[string]any) map[string]any {
	if _, ok := f[typ]; !ok || attrs == nil {
		return attrs
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if f.Allows(typ, k) {
			out[k] = v
		}
	}
	return out
}

// applyRelationships filters relationship objects the same way as attributes.
func (f Fieldsets) applyRelationships(typ string, rels map[string]*RelationshipObject) map[string]*RelationshipObject {
	if _, ok := f[typ]; !ok || rels == nil {
		return rels
	}
	out := make(map[string]*RelationshipObject, len(rels))
	for k, v := range rels {
		if f.Allows(typ, k) {
			out[k] = v
		}
	}
	return out
}
