package models

import "time"

// Article is a stored blog article.
type Article struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content"`
	Category      string    `json:"category"`
	AuthorName    string    `json:"author_name,omitempty"`
	Excerpt       string    `json:"excerpt,omitempty"`
	IsPublished   bool      `json:"is_published"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ArticleForm is the admin form payload for creating an article. Validation
// bounds live on the validate tags; the publish workflow runs them.
type ArticleForm struct {
	Title         string `form:"title" json:"title" validate:"required,min=5,max=150"`
	Slug          string `form:"slug" json:"slug"`
	Content       string `form:"content" json:"content" validate:"required,min=100"`
	Category      string `form:"category" json:"category" validate:"required"`
	AuthorName    string `form:"authorName" json:"authorName"`
	Excerpt       string `form:"excerpt" json:"excerpt" validate:"max=300"`
	IsPublished   *bool  `form:"isPublished" json:"isPublished"`
	// Either an absolute URL or a rooted /media path from an upload; the
	// publish workflow checks the shape.
	CoverImageURL string `form:"coverImageUrl" json:"coverImageUrl"`
}

// Published returns the publish flag, defaulting to true when the form left
// it unset.
func (f ArticleForm) Published() bool {
	if f.IsPublished == nil {
		return true
	}
	return *f.IsPublished
}

// ArticleUpdate carries a partial update; nil fields are left untouched.
type ArticleUpdate struct {
	Title         *string
	Slug          *string
	Content       *string
	Category      *string
	AuthorName    *string
	Excerpt       *string
	IsPublished   *bool
	CoverImageURL *string
}

// Update builds a partial update from a submitted form. Required fields are
// always carried; optional fields are carried only when non-empty, matching
// how the admin form round-trips article data.
func (f ArticleForm) Update() ArticleUpdate {
	u := ArticleUpdate{
		Title:       &f.Title,
		Content:     &f.Content,
		Category:    &f.Category,
		IsPublished: f.IsPublished,
	}
	if f.Slug != "" {
		u.Slug = &f.Slug
	}
	if f.AuthorName != "" {
		u.AuthorName = &f.AuthorName
	}
	if f.Excerpt != "" {
		u.Excerpt = &f.Excerpt
	}
	if f.CoverImageURL != "" {
		u.CoverImageURL = &f.CoverImageURL
	}
	return u
}
