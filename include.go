package jsonapi

import (
	"slices"
	"strings"

	"github.com/syssam/jsonapi/internal/record"
)

// ParseIncludePath splits a dot-delimited inclusion path into its
// relationship names. Empty segments are dropped.
func ParseIncludePath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, ".") {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// includeNode is one relationship name in the tree of requested paths.
type includeNode struct {
	name     string
	children []*includeNode
}

func (n *includeNode) child(name string) *includeNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	c := &includeNode{name: name}
	n.children = append(n.children, c)
	return c
}

func (n *includeNode) names() []string {
	if len(n.children) == 0 {
		return nil
	}
	names := make([]string, len(n.children))
	for i, c := range n.children {
		names[i] = c.name
	}
	return names
}

// buildIncludeTree merges paths into a tree. Paths sharing a prefix share
// nodes; children keep the order in which they were first requested.
func buildIncludeTree(paths []string) *includeNode {
	root := &includeNode{}
	for _, p := range paths {
		n := root
		for _, seg := range ParseIncludePath(p) {
			n = n.child(seg)
		}
	}
	return root
}

// IncludedResource is a record selected for the included section.
type IncludedResource struct {
	Identity ResourceIdentity
	Record   any
	Schema   Schema
	// Include lists the relationship names requested below the resource,
	// merged over every path that reached it.
	Include []string
}

// InclusionResolver walks relationships along inclusion paths.
type InclusionResolver struct {
	registry *SchemaRegistry
}

// NewInclusionResolver returns a resolver using the schemas of registry.
func NewInclusionResolver(registry *SchemaRegistry) *InclusionResolver {
	return &InclusionResolver{registry: registry}
}

// Resolve returns the resources reachable from roots along paths, in order of
// first encounter. Each identity appears once; the first record seen for it
// wins. A relationship name the schema does not produce yields nothing.
// No paths means nothing is included.
func (r *InclusionResolver) Resolve(roots []any, paths []string) ([]IncludedResource, error) {
	tree := buildIncludeTree(paths)
	if len(tree.children) == 0 {
		return nil, nil
	}
	w := &includeWalker{
		registry: r.registry,
		seen:     make(map[ResourceIdentity]int),
		visited:  make(map[visitKey]bool),
	}
	for _, rec := range roots {
		s, err := r.registry.SchemaFor(rec)
		if err != nil {
			return nil, err
		}
		if err := w.walk(rec, s, tree); err != nil {
			return nil, err
		}
	}
	return w.out, nil
}

type visitKey struct {
	id   ResourceIdentity
	node *includeNode
}

type includeWalker struct {
	registry *SchemaRegistry
	seen     map[ResourceIdentity]int // index into out
	visited  map[visitKey]bool
	out      []IncludedResource
}

func (w *includeWalker) walk(rec any, s Schema, node *includeNode) error {
	rels, err := s.Relationships(rec, node.names())
	if err != nil {
		return NewRecordError(s.ResourceType(), "relationships", err)
	}
	for _, c := range node.children {
		rel, ok := rels[c.name]
		if !ok {
			continue
		}
		items, _ := relatedItems(rel.Data)
		for _, item := range items {
			if _, ok := item.(ResourceIdentity); ok {
				continue
			}
			rs, err := w.registry.SchemaFor(item)
			if err != nil {
				return err
			}
			id, err := identify(rs, item)
			if err != nil {
				return err
			}
			idx, ok := w.seen[id]
			if !ok {
				idx = len(w.out)
				w.seen[id] = idx
				w.out = append(w.out, IncludedResource{Identity: id, Record: item, Schema: rs})
			}
			for _, name := range c.names() {
				if !slices.Contains(w.out[idx].Include, name) {
					w.out[idx].Include = append(w.out[idx].Include, name)
				}
			}
			if len(c.children) == 0 {
				continue
			}
			key := visitKey{id: id, node: c}
			if w.visited[key] {
				continue
			}
			w.visited[key] = true
			if err := w.walk(item, rs, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// identify returns the identity of rec under s.
func identify(s Schema, rec any) (ResourceIdentity, error) {
	id, err := s.ID(rec)
	if err != nil {
		return ResourceIdentity{}, NewRecordError(s.ResourceType(), "id", err)
	}
	return ResourceIdentity{Type: s.ResourceType(), ID: id}, nil
}

// relatedItems flattens relationship data. many reports whether data is a
// to-many relationship.
func relatedItems(data any) (items []any, many bool) {
	switch d := data.(type) {
	case nil:
		return nil, false
	case ResourceIdentity:
		return []any{d}, false
	case *ResourceIdentity:
		if d == nil {
			return nil, false
		}
		return []any{*d}, false
	case []ResourceIdentity:
		items = make([]any, len(d))
		for i, id := range d {
			items[i] = id
		}
		return items, true
	}
	if items, ok := record.Collection(data); ok {
		out := items[:0:0]
		for _, it := range items {
			if !record.IsNil(it) {
				out = append(out, it)
			}
		}
		return out, true
	}
	if record.IsNil(data) {
		return nil, false
	}
	return []any{data}, false
}
