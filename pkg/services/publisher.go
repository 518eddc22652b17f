package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"artechway/pkg/config"
	"artechway/pkg/models"
	"artechway/pkg/slug"
	"artechway/pkg/store"
)

// Publisher runs the admin submission workflow: validate, upload the cover
// image when a file accompanied the form, then commit the record. The upload
// must yield a durable URL before the article is written, so a stored record
// never references a missing blob. Nothing here retries; failed submissions
// go back to the user.
type Publisher struct {
	articles store.ArticleStore
	media    *MediaService
	search   *SearchService
	validate *validator.Validate
}

func NewPublisher(articles store.ArticleStore, media *MediaService, search *SearchService) *Publisher {
	v := validator.New()
	// Report errors under the form field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Publisher{
		articles: articles,
		media:    media,
		search:   search,
		validate: v,
	}
}

// Create validates and persists a new article. Field-level problems come back
// in FieldErrors with a nil error; anything else is a store failure.
func (p *Publisher) Create(ctx context.Context, form models.ArticleForm, file *multipart.FileHeader, progress func(pct int)) (string, models.FieldErrors, error) {
	ferrs := p.checkForm(form)
	if len(ferrs) > 0 {
		return "", ferrs, nil
	}

	if file != nil {
		url, uploadErr := p.uploadCover(file, progress)
		if uploadErr != nil {
			return "", models.FieldErrors{"coverImageUrl": uploadErr.Error()}, nil
		}
		form.CoverImageURL = url
	}

	id, err := p.articles.Create(ctx, form)
	if errors.Is(err, models.ErrDuplicateSlug) {
		return "", models.FieldErrors{
			"slug": fmt.Sprintf("Slug %q already exists. Please choose a different title or manually edit the slug.", slugFor(form)),
		}, nil
	}
	if err != nil {
		return "", nil, err
	}

	p.reindex(ctx, id)
	return id, nil, nil
}

// Update validates and merges changes into an existing article.
func (p *Publisher) Update(ctx context.Context, id string, form models.ArticleForm, file *multipart.FileHeader, progress func(pct int)) (models.FieldErrors, error) {
	ferrs := p.checkForm(form)
	if len(ferrs) > 0 {
		return ferrs, nil
	}

	upd := form.Update()
	if file != nil {
		url, uploadErr := p.uploadCover(file, progress)
		if uploadErr != nil {
			return models.FieldErrors{"coverImageUrl": uploadErr.Error()}, nil
		}
		upd.CoverImageURL = &url
	}

	if err := p.articles.Update(ctx, id, upd); err != nil {
		return nil, err
	}

	p.reindex(ctx, id)
	return nil, nil
}

// Delete removes the article and its search entry.
func (p *Publisher) Delete(ctx context.Context, id string) error {
	if err := p.articles.Delete(ctx, id); err != nil {
		return err
	}
	if p.search != nil {
		if err := p.search.Remove(id); err != nil {
			log.Printf("[Search] remove %s: %v", id, err)
		}
	}
	return nil
}

func (p *Publisher) checkForm(form models.ArticleForm) models.FieldErrors {
	ferrs := models.FieldErrors{}

	if err := p.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				ferrs.Add(fe.Field(), fieldMessage(fe))
			}
		} else {
			ferrs.Add("form", "Invalid submission.")
		}
	}

	if form.Category != "" && !config.CategoryAllowed(form.Category) {
		ferrs.Add("category", "You need to select a category.")
	}
	if form.CoverImageURL != "" && !validCoverURL(form.CoverImageURL) {
		ferrs.Add("coverImageUrl", "Please enter a valid URL.")
	}
	return ferrs
}

// validCoverURL accepts absolute URLs and the rooted /media paths that
// uploads produce, so a stored cover survives an edit-form round trip.
func validCoverURL(s string) bool {
	if strings.HasPrefix(s, "/") {
		return true
	}
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func (p *Publisher) uploadCover(file *multipart.FileHeader, progress func(pct int)) (string, error) {
	mf, err := p.media.Save(file, progress)
	if err != nil {
		return "", fmt.Errorf("Cover image upload failed: %v", err)
	}
	return mf.Path, nil
}

func (p *Publisher) reindex(ctx context.Context, id string) {
	if p.search == nil {
		return
	}
	a, err := p.articles.GetByID(ctx, id)
	if err != nil || a == nil {
		return
	}
	if err := p.search.IndexArticle(*a); err != nil {
		log.Printf("[Search] index %s: %v", id, err)
	}
}

func slugFor(form models.ArticleForm) string {
	if form.Slug != "" {
		return slug.Make(form.Slug)
	}
	return slug.Make(form.Title)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "title":
		switch fe.Tag() {
		case "required":
			return "Title is required."
		case "min":
			return "Title must be at least 5 characters."
		case "max":
			return "Title cannot exceed 150 characters."
		}
	case "content":
		if fe.Tag() == "min" || fe.Tag() == "required" {
			return "Content must be at least 100 characters."
		}
	case "category":
		return "You need to select a category."
	case "excerpt":
		return "Excerpt cannot exceed 300 characters."
	}
	return fmt.Sprintf("Invalid value for %s.", fe.Field())
}
