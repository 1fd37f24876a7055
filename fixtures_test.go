package jsonapi_test

import (
	"io"
	"log/slog"

	"github.com/syssam/jsonapi"
)

type Article struct {
	ID        int        `json:"id"`
	AuthorID  int        `json:"author_id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Published string     `json:"published"`
	Author    *Author    `json:"-"`
	Comments  []*Comment `json:"-"`
}

type Author struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Articles []*Article `json:"-"`
}

type Comment struct {
	ID        int     `json:"id"`
	ArticleID int     `json:"article_id"`
	Comment   string  `json:"comment"`
	User      *Author `json:"-"`
}

// AuthorSchema exposes the name attribute and the articles relationship.
type AuthorSchema struct{ *jsonapi.EntitySchema }

func NewAuthorSchema(ctx jsonapi.SchemaContext) jsonapi.Schema {
	return AuthorSchema{jsonapi.NewEntitySchema(ctx)}
}

func (AuthorSchema) Attributes(rec any) (map[string]any, error) {
	a := rec.(*Author)
	return map[string]any{"name": a.Name}, nil
}

func (AuthorSchema) Relationships(rec any, _ []string) (map[string]jsonapi.Relationship, error) {
	a := rec.(*Author)
	return map[string]jsonapi.Relationship{
		"articles": {Data: a.Articles},
	}, nil
}

// ArticleSchema keeps the default attributes and adds relationships.
type ArticleSchema struct{ *jsonapi.EntitySchema }

func NewArticleSchema(ctx jsonapi.SchemaContext) jsonapi.Schema {
	return ArticleSchema{jsonapi.NewEntitySchema(ctx)}
}

func (ArticleSchema) Relationships(rec any, _ []string) (map[string]jsonapi.Relationship, error) {
	a := rec.(*Article)
	return map[string]jsonapi.Relationship{
		"author":   {Data: a.Author},
		"comments": {Data: a.Comments},
	}, nil
}

type CommentSchema struct{ *jsonapi.EntitySchema }

func NewCommentSchema(ctx jsonapi.SchemaContext) jsonapi.Schema {
	return CommentSchema{jsonapi.NewEntitySchema(ctx)}
}

func (CommentSchema) Relationships(rec any, _ []string) (map[string]jsonapi.Relationship, error) {
	c := rec.(*Comment)
	return map[string]jsonapi.Relationship{
		"user": {Data: c.User},
	}, nil
}

// blog is a small object graph:
//
//	mariano (1) wrote articles 1 and 3, larry (3) wrote article 2.
//	article 1 has comments 1 (by nate) and 2 (by mariano).
type blog struct {
	mariano, nate, larry *Author
	articles             []*Article
	comments             []*Comment
}

func newBlog() *blog {
	b := &blog{
		mariano: &Author{ID: 1, Name: "mariano"},
		nate:    &Author{ID: 2, Name: "nate"},
		larry:   &Author{ID: 3, Name: "larry"},
	}
	b.articles = []*Article{
		{ID: 1, AuthorID: 1, Title: "First Article", Body: "First Article Body", Published: "Y", Author: b.mariano},
		{ID: 2, AuthorID: 3, Title: "Second Article", Body: "Second Article Body", Published: "Y", Author: b.larry},
		{ID: 3, AuthorID: 1, Title: "Third Article", Body: "Third Article Body", Published: "Y", Author: b.mariano},
	}
	b.comments = []*Comment{
		{ID: 1, ArticleID: 1, Comment: "First Comment for First Article", User: b.nate},
		{ID: 2, ArticleID: 1, Comment: "Second Comment for First Article", User: b.mariano},
	}
	b.articles[0].Comments = b.comments
	b.mariano.Articles = []*Article{b.articles[0], b.articles[2]}
	b.larry.Articles = []*Article{b.articles[1]}
	return b
}

func newCatalog() *jsonapi.Catalog {
	return jsonapi.NewCatalog().
		Register("Article", Article{}).
		Register("Author", Author{}).
		Register("Comment", Comment{})
}

// newBlogCatalog registers custom schemas for every blog entity.
func newBlogCatalog() *jsonapi.Catalog {
	return newCatalog().
		RegisterSchema("Article", NewArticleSchema).
		RegisterSchema("Author", NewAuthorSchema).
		RegisterSchema("Comment", NewCommentSchema)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
