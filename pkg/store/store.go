// Package store persists articles behind a single contract with two
// interchangeable backends: a SQLite table and a bbolt document bucket.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"artechway/pkg/config"
	"artechway/pkg/models"
	"artechway/pkg/slug"
)

// ArticleStore is the persistence contract for articles.
//
// GetByID and GetBySlug treat a miss as a normal outcome and return
// (nil, nil). GetBySlug resolves published articles only; admin callers that
// need drafts go through GetByID. Delete of a missing id is a no-op success.
type ArticleStore interface {
	// Create computes the slug (explicit slug wins over title), rejects
	// duplicates with models.ErrDuplicateSlug and returns the new id. The
	// duplicate check and the insert are separate operations; a concurrent
	// create can still race past the check.
	Create(ctx context.Context, form models.ArticleForm) (string, error)

	// List returns articles ordered by creation time descending. limit <= 0
	// means no limit.
	List(ctx context.Context, limit int, publishedOnly bool) ([]models.Article, error)

	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)

	// Update merges only the provided fields and refreshes UpdatedAt. When a
	// new title arrives without a slug, the slug is recomputed from the
	// title. Returns models.ErrNotFound for an unknown id.
	Update(ctx context.Context, id string, upd models.ArticleUpdate) error

	Delete(ctx context.Context, id string) error
	Close() error
}

// Open selects a backend by name.
func Open(backend, sqlitePath, boltPath string) (ArticleStore, error) {
	switch backend {
	case "sqlite":
		return OpenSQLite(sqlitePath)
	case "bolt":
		return OpenBolt(boltPath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// newArticle applies create-time defaults shared by both backends.
func newArticle(form models.ArticleForm) models.Article {
	now := time.Now().UTC()
	a := models.Article{
		ID:            uuid.NewString(),
		Title:         form.Title,
		Slug:          resolveSlug(form),
		Content:       form.Content,
		Category:      form.Category,
		AuthorName:    form.AuthorName,
		Excerpt:       form.Excerpt,
		IsPublished:   form.Published(),
		CoverImageURL: form.CoverImageURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if a.AuthorName == "" {
		a.AuthorName = config.DefaultAuthor
	}
	return a
}

func resolveSlug(form models.ArticleForm) string {
	if form.Slug != "" {
		return slug.Make(form.Slug)
	}
	return slug.Make(form.Title)
}

// applyUpdate merges a partial update into an article. No slug uniqueness
// re-check happens here; see the interface comment.
func applyUpdate(a *models.Article, upd models.ArticleUpdate) {
	titleChanged := false
	if upd.Title != nil {
		a.Title = *upd.Title
		titleChanged = true
	}
	if upd.Content != nil {
		a.Content = *upd.Content
	}
	if upd.Category != nil {
		a.Category = *upd.Category
	}
	if upd.AuthorName != nil {
		a.AuthorName = *upd.AuthorName
	}
	if upd.Excerpt != nil {
		a.Excerpt = *upd.Excerpt
	}
	if upd.IsPublished != nil {
		a.IsPublished = *upd.IsPublished
	}
	if upd.CoverImageURL != nil {
		a.CoverImageURL = *upd.CoverImageURL
	}

	switch {
	case upd.Slug != nil:
		a.Slug = slug.Make(*upd.Slug)
	case titleChanged:
		a.Slug = slug.Make(a.Title)
	}

	a.UpdatedAt = time.Now().UTC()
}
