package jsonapi

import (
	"maps"
	"net/url"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// MediaType is the content type hosts should declare for encoded documents.
// The encoder never sets transport headers itself.
const MediaType = "application/vnd.api+json"

// Well-known link relation names. Links under any other name are dropped.
const (
	LinkSelf    = "self"
	LinkRelated = "related"
	LinkFirst   = "first"
	LinkLast    = "last"
	LinkPrev    = "prev"
	LinkNext    = "next"
)

var wellKnownLinks = []string{LinkSelf, LinkRelated, LinkFirst, LinkLast, LinkPrev, LinkNext}

// IsWellKnownLink reports whether name is one of the supported link relations.
func IsWellKnownLink(name string) bool {
	for _, n := range wellKnownLinks {
		if n == name {
			return true
		}
	}
	return false
}

// ResourceIdentity identifies a single resource. Two resources with the same
// identity are the same resource; the encoder never emits one twice.
type ResourceIdentity struct {
	Type string `json:"type" msgpack:"type"`
	ID   string `json:"id" msgpack:"id"`
}

// String returns "type:id".
func (r ResourceIdentity) String() string {
	return r.Type + ":" + r.ID
}

// Meta holds free-form metadata.
type Meta map[string]any

// MergeMeta shallow-merges the given sources into a new Meta. Later sources
// win on key collision. It returns nil when every source is empty.
func MergeMeta(sources ...Meta) Meta {
	var out Meta
	for _, m := range sources {
		if len(m) == 0 {
			continue
		}
		if out == nil {
			out = make(Meta, len(m))
		}
		maps.Copy(out, m)
	}
	return out
}

// Link is a JSON:API link. A link without meta is rendered as a bare URL
// string, otherwise as {"href": ..., "meta": ...}.
type Link struct {
	Href string
	Meta Meta
}

// NewLink returns a link to href. Relative hrefs are prefixed with the
// encoder URL when rendered.
func NewLink(href string) Link {
	return Link{Href: href}
}

// NewLinkWithMeta returns a link carrying metadata.
func NewLinkWithMeta(href string, meta Meta) Link {
	return Link{Href: href, Meta: meta}
}

type linkObject struct {
	Href string `json:"href" msgpack:"href"`
	Meta Meta   `json:"meta,omitempty" msgpack:"meta,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (l Link) MarshalJSON() ([]byte, error) {
	if len(l.Meta) == 0 {
		return marshalRaw(l.Href)
	}
	return marshalRaw(linkObject{Href: l.Href, Meta: l.Meta})
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (l Link) EncodeMsgpack(enc *msgpack.Encoder) error {
	if len(l.Meta) == 0 {
		return enc.EncodeString(l.Href)
	}
	return enc.Encode(linkObject{Href: l.Href, Meta: l.Meta})
}

// resolve prefixes a relative href with base.
func (l Link) resolve(base string) Link {
	if base == "" || l.Href == "" {
		return l
	}
	if u, err := url.Parse(l.Href); err == nil && u.IsAbs() {
		return l
	}
	href := l.Href
	if !strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "?") {
		href = "/" + href
	}
	return Link{Href: base + href, Meta: l.Meta}
}

// Links maps relation names to links. Assigning a name twice keeps the last link.
type Links map[string]Link

// EncodeMsgpack implements msgpack.CustomEncoder. Links are written in name
// order.
func (l Links) EncodeMsgpack(enc *msgpack.Encoder) error {
	return encodeSortedMap(enc, l)
}

// MergeLinks merges the given sources into a new Links. Later sources
// overwrite earlier links with the same name.
func MergeLinks(sources ...Links) Links {
	var out Links
	for _, l := range sources {
		if len(l) == 0 {
			continue
		}
		if out == nil {
			out = make(Links, len(l))
		}
		maps.Copy(out, l)
	}
	return out
}

// trimURL removes trailing slashes from a base URL.
func trimURL(base string) string {
	return strings.TrimRight(base, "/")
}
