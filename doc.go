// Package jsonapi serializes in-memory entities into JSON:API documents.
//
// An Encoder turns records (structs, maps, or values with a
// ToMap() map[string]any method) into a document with primary data,
// sideloaded resources, top-level links and metadata. Each record is
// rendered through the Schema registered for its Go type.
//
// # Quick Start
//
// Register the entity types the host knows about, then declare which of them
// the encoder serializes:
//
//	catalog := jsonapi.NewCatalog()
//	catalog.Register("Article", Article{})
//	catalog.Register("Author", Author{})
//	catalog.RegisterSchema("Author", NewAuthorSchema)
//
//	enc, err := jsonapi.NewEncoder(catalog,
//	    jsonapi.WithURL("http://localhost/"),
//	    jsonapi.WithEntities("Article", "Author"),
//	)
//	if err != nil {
//	    return err
//	}
//	body, err := enc.Encode("authors", jsonapi.Options{
//	    Vars:      jsonapi.NewViewVars().Set("authors", authors),
//	    Include:   []string{"articles"},
//	    Fieldsets: jsonapi.Fieldsets{"articles": {"title"}},
//	})
//
// # Schemas
//
// Entity types without a custom schema are rendered by EntitySchema: the "id"
// field becomes the resource id and every other field becomes an attribute.
// The resource type defaults to the lower-cased plural of the entity name
// ("Article" becomes "articles").
//
// Custom schemas embed *EntitySchema and override what they need:
//
//	type AuthorSchema struct{ *jsonapi.EntitySchema }
//
//	func NewAuthorSchema(ctx jsonapi.SchemaContext) jsonapi.Schema {
//	    return AuthorSchema{jsonapi.NewEntitySchema(ctx)}
//	}
//
//	func (AuthorSchema) Relationships(rec any, _ []string) (map[string]jsonapi.Relationship, error) {
//	    a := rec.(*Author)
//	    return map[string]jsonapi.Relationship{
//	        "articles": {Data: a.Articles},
//	    }, nil
//	}
//
// # Serialize targets
//
// The first argument of Encode selects the payload:
//
//	true            first non-special variable of Options.Vars
//	"articles"      the named variable
//	[]string{...}   the named variables, concatenated
//	records         serialized directly (deprecated, logged)
//	nil / false     nothing: {"data":null}, or {"meta":...} when meta is set
//
// # Output
//
// Encode returns JSON text. Characters unsafe in HTML (<, >, ', &, ") are
// hex-escaped inside strings unless escaping is changed with WithEscape or
// Options.Escape. Development mode pretty-prints the output. EncodeMsgpack
// renders the same document as MessagePack.
package jsonapi
