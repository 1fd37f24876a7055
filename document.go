package jsonapi

import (
	"maps"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

// Document is an assembled JSON:API document.
//
// A nil Data omits the "data" member entirely, which only happens for
// meta-only documents. Use NullData for an explicit null.
type Document struct {
	Data     *PrimaryData `json:"data,omitempty" msgpack:"data,omitempty"`
	Included []*Resource  `json:"included,omitempty" msgpack:"included,omitempty"`
	Links    Links        `json:"links,omitempty" msgpack:"links,omitempty"`
	Meta     Meta         `json:"meta,omitempty" msgpack:"meta,omitempty"`
}

// Resource is a rendered resource object.
type Resource struct {
	Type          string                         `json:"type" msgpack:"type"`
	ID            string                         `json:"id" msgpack:"id"`
	Attributes    map[string]any                 `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
	Relationships map[string]*RelationshipObject `json:"relationships,omitempty" msgpack:"relationships,omitempty"`
	Links         Links                          `json:"links,omitempty" msgpack:"links,omitempty"`
	Meta          Meta                           `json:"meta,omitempty" msgpack:"meta,omitempty"`
}

// Identity returns the identity of the resource.
func (r *Resource) Identity() ResourceIdentity {
	return ResourceIdentity{Type: r.Type, ID: r.ID}
}

// EncodeMsgpack implements msgpack.CustomEncoder. Members and map keys are
// written in a fixed order so equal resources encode to equal bytes.
func (r *Resource) EncodeMsgpack(enc *msgpack.Encoder) error {
	n := 2
	for _, present := range []bool{len(r.Attributes) > 0, len(r.Relationships) > 0, len(r.Links) > 0, len(r.Meta) > 0} {
		if present {
			n++
		}
	}
	if err := enc.EncodeMapLen(n); err != nil {
		return err
	}
	if err := encodeMember(enc, "type", r.Type); err != nil {
		return err
	}
	if err := encodeMember(enc, "id", r.ID); err != nil {
		return err
	}
	if len(r.Attributes) > 0 {
		if err := enc.EncodeString("attributes"); err != nil {
			return err
		}
		if err := encodeSortedMap(enc, r.Attributes); err != nil {
			return err
		}
	}
	if len(r.Relationships) > 0 {
		if err := enc.EncodeString("relationships"); err != nil {
			return err
		}
		if err := encodeSortedMap(enc, r.Relationships); err != nil {
			return err
		}
	}
	if len(r.Links) > 0 {
		if err := encodeMember(enc, "links", r.Links); err != nil {
			return err
		}
	}
	if len(r.Meta) > 0 {
		if err := encodeMember(enc, "meta", r.Meta); err != nil {
			return err
		}
	}
	return nil
}

func encodeMember(enc *msgpack.Encoder, name string, v any) error {
	if err := enc.EncodeString(name); err != nil {
		return err
	}
	return enc.Encode(v)
}

// encodeSortedMap writes m with its keys in ascending order.
func encodeSortedMap[V any](enc *msgpack.Encoder, m map[string]V) error {
	if err := enc.EncodeMapLen(len(m)); err != nil {
		return err
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if err := encodeMember(enc, k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

// RelationshipObject is a rendered relationship.
type RelationshipObject struct {
	Data  *Linkage `json:"data" msgpack:"data"`
	Links Links    `json:"links,omitempty" msgpack:"links,omitempty"`
	Meta  Meta     `json:"meta,omitempty" msgpack:"meta,omitempty"`
}

// PrimaryData is the "data" member of a document: null, one resource, or a
// list of resources.
type PrimaryData struct {
	One  *Resource
	Many []*Resource
	many bool
}

// NullData returns primary data rendered as null.
func NullData() *PrimaryData {
	return &PrimaryData{}
}

// SingleData returns primary data holding one resource.
func SingleData(r *Resource) *PrimaryData {
	return &PrimaryData{One: r}
}

// ListData returns primary data holding a list of resources. An empty list
// is rendered as [].
func ListData(rs []*Resource) *PrimaryData {
	if rs == nil {
		rs = []*Resource{}
	}
	return &PrimaryData{Many: rs, many: true}
}

// IsMany reports whether the data is a list.
func (d *PrimaryData) IsMany() bool {
	return d.many
}

// Resources returns the resources held by d.
func (d *PrimaryData) Resources() []*Resource {
	if d.many {
		return d.Many
	}
	if d.One != nil {
		return []*Resource{d.One}
	}
	return nil
}

func (d *PrimaryData) value() any {
	if d.many {
		return d.Many
	}
	if d.One == nil {
		return nil
	}
	return d.One
}

// MarshalJSON implements json.Marshaler.
func (d *PrimaryData) MarshalJSON() ([]byte, error) {
	return marshalRaw(d.value())
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (d *PrimaryData) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(d.value())
}

// Linkage is the "data" member of a relationship: null, one identifier, or a
// list of identifiers.
type Linkage struct {
	One  *ResourceIdentity
	Many []ResourceIdentity
	many bool
}

// IsMany reports whether the linkage is to-many.
func (l *Linkage) IsMany() bool {
	return l.many
}

func (l *Linkage) value() any {
	if l.many {
		if l.Many == nil {
			return []ResourceIdentity{}
		}
		return l.Many
	}
	if l.One == nil {
		return nil
	}
	return l.One
}

// MarshalJSON implements json.Marshaler.
func (l *Linkage) MarshalJSON() ([]byte, error) {
	return marshalRaw(l.value())
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (l *Linkage) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(l.value())
}
