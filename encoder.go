package jsonapi

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/jsonapi/internal/record"
)

// Encoder assembles and serializes documents.
//
// An Encoder is immutable once built and safe for concurrent use; every call
// to Encode is independent of the others.
type Encoder struct {
	url         string
	entities    []Entity
	meta        Meta
	escape      EscapeFlags
	development bool
	concurrency int
	logger      *slog.Logger

	registry *SchemaRegistry
	includer *InclusionResolver
}

// Option configures an Encoder.
type Option func(*Encoder) error

// WithURL sets the base URL prefixed to relative link hrefs. Trailing
// slashes are removed.
func WithURL(u string) Option {
	return func(e *Encoder) error {
		e.url = trimURL(u)
		return nil
	}
}

// WithEntities declares entities by name.
func WithEntities(names ...string) Option {
	return func(e *Encoder) error {
		for _, name := range names {
			e.entities = append(e.entities, Entity{Name: name})
		}
		return nil
	}
}

// WithEntity declares an entity with an alias or a schema override.
func WithEntity(ent Entity) Option {
	return func(e *Encoder) error {
		e.entities = append(e.entities, ent)
		return nil
	}
}

// WithMeta sets meta added to every document. Repeated calls are merged.
func WithMeta(m Meta) Option {
	return func(e *Encoder) error {
		e.meta = MergeMeta(e.meta, m)
		return nil
	}
}

// WithEscape sets the default escape flags. Use EscapeNone to disable escaping.
func WithEscape(f EscapeFlags) Option {
	return func(e *Encoder) error {
		e.escape = f
		return nil
	}
}

// WithDevelopmentMode enables pretty-printed output.
func WithDevelopmentMode(on bool) Option {
	return func(e *Encoder) error {
		e.development = on
		return nil
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Encoder) error {
		if l == nil {
			return fmt.Errorf("jsonapi: logger cannot be nil")
		}
		e.logger = l
		return nil
	}
}

// WithConcurrency limits how many documents EncodeAll encodes at once.
// The default is GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(e *Encoder) error {
		if n < 1 {
			return fmt.Errorf("jsonapi: concurrency must be positive, got %d", n)
		}
		e.concurrency = n
		return nil
	}
}

// NewEncoder builds an encoder for the entities declared in opts. Every
// declared entity must be registered in catalog, otherwise a
// MissingEntityTypeError is returned.
func NewEncoder(catalog *Catalog, opts ...Option) (*Encoder, error) {
	e := &Encoder{
		escape:      EscapeDefault,
		concurrency: runtime.GOMAXPROCS(0),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	reg, err := NewSchemaRegistry(catalog, urlHelpers{base: e.url}, e.entities...)
	if err != nil {
		return nil, err
	}
	e.registry = reg
	e.includer = NewInclusionResolver(reg)
	return e, nil
}

// Registry returns the schema registry of the encoder.
func (e *Encoder) Registry() *SchemaRegistry {
	return e.registry
}

// URL returns the base URL of the encoder.
func (e *Encoder) URL() string {
	return e.url
}

// Options are the per-call encode inputs.
type Options struct {
	// Vars holds the variables a named serialize target refers to.
	Vars *ViewVars
	// Include lists dot-delimited inclusion paths, e.g. "articles.comments".
	Include []string
	// Fieldsets restricts rendered fields per resource type.
	Fieldsets Fieldsets
	// Links are the top-level links.
	Links Links
	// Meta is merged over the encoder meta.
	Meta Meta
	// Escape overrides the encoder escape flags when non-zero.
	Escape EscapeFlags
	// DevelopmentMode pretty-prints the output.
	DevelopmentMode bool
}

// Document assembles the document for target without serializing it.
func (e *Encoder) Document(target any, opts Options) (*Document, error) {
	meta := MergeMeta(e.meta, opts.Meta)
	payload, ok := resolveTarget(target, opts.Vars, e.logger)
	if (!ok || isEmptyPayload(payload)) && len(meta) > 0 {
		return &Document{Meta: meta}, nil
	}

	doc := &Document{
		Links: e.links(opts.Links),
		Meta:  meta,
	}
	roots, many := record.Collection(payload)
	if !ok || (!many && record.IsNil(payload)) {
		doc.Data = NullData()
		return doc, nil
	}
	if !many {
		roots = []any{payload}
	}
	roots = compact(roots)
	if len(roots) > 0 && e.registry.Len() == 0 {
		return nil, NewMissingRequiredInputError("entities")
	}

	r := &renderer{registry: e.registry, fieldsets: opts.Fieldsets, enc: e}
	top := buildIncludeTree(opts.Include).names()
	primary := make(map[ResourceIdentity]bool, len(roots))
	resources := make([]*Resource, 0, len(roots))
	for _, rec := range roots {
		res, err := r.resource(rec, top)
		if err != nil {
			return nil, err
		}
		primary[res.Identity()] = true
		resources = append(resources, res)
	}
	if many {
		doc.Data = ListData(resources)
	} else {
		doc.Data = SingleData(resources[0])
	}

	if len(opts.Include) > 0 {
		included, err := e.includer.Resolve(roots, opts.Include)
		if err != nil {
			return nil, err
		}
		for _, inc := range included {
			if primary[inc.Identity] {
				continue
			}
			res, err := r.render(inc.Record, inc.Schema, inc.Identity, inc.Include)
			if err != nil {
				return nil, err
			}
			doc.Included = append(doc.Included, res)
		}
	}
	e.logger.Debug("jsonapi: document assembled",
		"resources", len(resources), "included", len(doc.Included))
	return doc, nil
}

// Encode assembles the document for target and returns it as JSON text.
func (e *Encoder) Encode(target any, opts Options) ([]byte, error) {
	doc, err := e.Document(target, opts)
	if err != nil {
		return nil, err
	}
	return e.marshal(doc, opts)
}

// EncodeMsgpack assembles the document for target and returns it as
// MessagePack. Escape and pretty-print options do not apply.
func (e *Encoder) EncodeMsgpack(target any, opts Options) ([]byte, error) {
	doc, err := e.Document(target, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("jsonapi: msgpack encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Job is one document for EncodeAll.
type Job struct {
	Target  any
	Options Options
}

// EncodeAll encodes jobs concurrently and returns the documents in job
// order. The first failure cancels the remaining jobs.
func (e *Encoder) EncodeAll(ctx context.Context, jobs []Job) ([][]byte, error) {
	out := make([][]byte, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := e.Encode(job.Target, job.Options)
			if err != nil {
				return fmt.Errorf("jsonapi: job %d: %w", i, err)
			}
			out[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Encoder) marshal(doc *Document, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if opts.DevelopmentMode || e.development {
		enc.SetIndent("", "    ")
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("jsonapi: json encode: %w", err)
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	return escapeJSON(out, opts.Escape.effective(e.escape)), nil
}

// links keeps the well-known links of the merged sources and resolves them
// against the base URL.
func (e *Encoder) links(sources ...Links) Links {
	var out Links
	for name, l := range MergeLinks(sources...) {
		if !IsWellKnownLink(name) {
			e.logger.Warn("jsonapi: dropping link with unsupported relation name", "name", name)
			continue
		}
		if out == nil {
			out = make(Links)
		}
		out[name] = l.resolve(e.url)
	}
	return out
}

// renderer turns records into resource objects for one encode call.
type renderer struct {
	registry  *SchemaRegistry
	fieldsets Fieldsets
	enc       *Encoder
}

// compact drops nil records.
func compact(recs []any) []any {
	out := recs[:0:0]
	for _, rec := range recs {
		if !record.IsNil(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (r *renderer) resource(rec any, include []string) (*Resource, error) {
	s, err := r.registry.SchemaFor(rec)
	if err != nil {
		return nil, err
	}
	id, err := identify(s, rec)
	if err != nil {
		return nil, err
	}
	return r.render(rec, s, id, include)
}

func (r *renderer) render(rec any, s Schema, id ResourceIdentity, include []string) (*Resource, error) {
	attrs, err := s.Attributes(rec)
	if err != nil {
		return nil, NewRecordError(id.Type, "attributes", err)
	}
	rels, err := s.Relationships(rec, include)
	if err != nil {
		return nil, NewRecordError(id.Type, "relationships", err)
	}
	res := &Resource{
		Type:       id.Type,
		ID:         id.ID,
		Attributes: r.fieldsets.Apply(id.Type, attrs),
	}
	if len(rels) > 0 {
		res.Relationships = make(map[string]*RelationshipObject, len(rels))
		for name, rel := range rels {
			obj, err := r.relationship(rel)
			if err != nil {
				return nil, err
			}
			res.Relationships[name] = obj
		}
		res.Relationships = r.fieldsets.applyRelationships(id.Type, res.Relationships)
		if len(res.Relationships) == 0 {
			res.Relationships = nil
		}
	}
	if lp, ok := s.(LinksProvider); ok {
		res.Links = r.enc.links(lp.ResourceLinks(rec))
	}
	if mp, ok := s.(MetaProvider); ok {
		res.Meta = MergeMeta(mp.ResourceMeta(rec))
	}
	return res, nil
}

func (r *renderer) relationship(rel Relationship) (*RelationshipObject, error) {
	items, many := relatedItems(rel.Data)
	ids := make([]ResourceIdentity, 0, len(items))
	for _, item := range items {
		if id, ok := item.(ResourceIdentity); ok {
			ids = append(ids, id)
			continue
		}
		s, err := r.registry.SchemaFor(item)
		if err != nil {
			return nil, err
		}
		id, err := identify(s, item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	linkage := &Linkage{many: many}
	if many {
		linkage.Many = ids
	} else if len(ids) > 0 {
		linkage.One = &ids[0]
	}
	return &RelationshipObject{
		Data:  linkage,
		Links: r.enc.links(rel.Links),
		Meta:  MergeMeta(rel.Meta),
	}, nil
}
