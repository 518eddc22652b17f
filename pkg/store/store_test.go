package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"artechway/pkg/models"
)

var testContent = strings.Repeat("Artechway coverage of practical machine learning tooling. ", 4)

func testForm(title string) models.ArticleForm {
	return models.ArticleForm{
		Title:    title,
		Content:  testContent,
		Category: "AI",
	}
}

// forEachStore runs the conformance suite against both backends; the spec for
// the two adapters is identical.
func forEachStore(t *testing.T, fn func(t *testing.T, s ArticleStore)) {
	t.Helper()

	backends := []struct {
		name string
		open func(t *testing.T) ArticleStore
	}{
		{"sqlite", func(t *testing.T) ArticleStore {
			s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			return s
		}},
		{"bolt", func(t *testing.T) ArticleStore {
			s, err := OpenBolt(filepath.Join(t.TempDir(), "test.bolt"))
			if err != nil {
				t.Fatalf("open bolt: %v", err)
			}
			return s
		}},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			defer s.Close()
			fn(t, s)
		})
	}
}

func TestCreateDerivesSlugFromTitle(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ArticleStore) {
		ctx := context.Background()

		id, err := s.Create(ctx, testForm("My First Post"))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		a, err := s.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("get by id: %v", err)
		}
		if a == nil {
			t.Fatal("created article not found by id")
		}
		if a.Slug != "my-first-post" {
			t.Errorf("slug = %q, want %q", a.Slug, "my-first-post")
		}
		if !a.IsPublished {
			t.Error("isPublished should default to true")
		}
		if a.AuthorName == "" {
			t.Error("authorName should default to the configured placeholder")
		}
		if a.CreatedAt.IsZero() || a.UpdatedAt.IsZero() {
			t.Error("timestamps not set on create")
		}
	})
}

func TestCreateExplicitSlugWins(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ArticleStore) {
		ctx := context.Background()

		form := testForm("Some Long Release Title")
		form.Slug = "Short Custom Slug!"
		id, err := s.Create(ctx, form)
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		a, _ := s.GetByID(ctx, id)
		if a.Slug != "short-custom-slug" {
			t.Errorf("slug = %q, want %q", a.Slug, "short-custom-slug")
		}
	})
}

func TestCreateDuplicateSlug(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ArticleStore) {
		ctx := context.Background()

		if _, err := s.Create(ctx, testForm("Hello, World!")); err != nil {
			t.Fatalf("first create: %v", err)
		}
		// Different punctuation, same slug.
		_, err := s.Create(ctx, testForm("Hello World"))
		if !errors.Is(err, models.ErrDuplicateSlug) {
			t.Fatalf("second create: got %v, want ErrDuplicateSlug", err)
		}
	})
}

func TestListOrderLimitAndPublishedFilter(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ArticleStore) {
		ctx := context.Background()

		draft := false
		titles := []string{"Post One", "Post Two", "Post Three", "Post Four"}
		for i, title := range titles {
			form := testForm(title)
			if i == 1 {
				form.IsPublished = &draft
			}
			if _, err := s.Create(ctx, form); err != nil {
				t.Fatalf("create %q: %v", title, err)
			}
			time.Sleep(5 * time.Millisecond)
		}

		published, err := s.List(ctx, 3, true)
		if err != nil {
			t.Fatalf("list published: %v", err)
		}
		if len(published) != 3 {
			t.Fatalf("list(3, true) returned %d articles, want 3", len(published))
		}
		for _, a := range published {
			if !a.IsPublished {
				t.Errorf("unpublished article %q in published list", a.Title)
			}
		}
		for i := 1; i < len(published); i++ {
			if published[i].CreatedAt.After(published[i-1].CreatedAt) {
				t.Error("list not ordered by createdAt descending")
			}
		}
		if published[0].Title != "Post Four" {
			t.Errorf("newest first: got %q", published[0].Title)
		}

		all, err := s.List(ctx, 0, false)
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if len(all) != 4 {
			t.Fatalf("list(0, false) returned %d articles, want 4", len(all))
		}
	})
}

func TestGetBySlugHidesDrafts(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ArticleStore) {
		ctx := context.Background()

		draft := false
		form := testForm("Hidden Draft Article")
		form.IsPublished = &draft
		id, err := s.Create(ctx, form)
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		a, err := s.GetBySlug(ctx, "hidden-draft-article")
		if err != nil {
			t.Fatalf("get by slug: %v", err)
		}
		if a != nil {
			t.Error("draft resolved through public slug lookup")
		}

		// The admin path still sees it.
		a, err = s.GetByID(ctx, id)
		if err != nil || a == nil {
			t.Fatalf("get by id: article=%v err=%v", a, err)
		}

		published := true
		if err := s.Update(ctx, id, models.ArticleUpdate{IsPublished: &published}); err != nil {
			t.Fatalf("publish: %v", err)
		}
		a, err = s.GetBySlug(ctx, "hidden-draft-article")
		if err != nil || a == nil {
			t.Fatalf("after publish, slug lookup: article=%v err=%v", a, err)
		}
	})
}

func TestUpdateRecomputesSlugFromTitle(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ArticleStore) {
		ctx := context.Background()

		id, err := s.Create(ctx, testForm("Original Title"))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		before, _ := s.GetByID(ctx, id)

		time.Sleep(10 * time.Millisecond)

		newTitle := "New Title"
		if err := s.Update(ctx, id, models.ArticleUpdate{Title: &newTitle}); err != nil {
			t.Fatalf("update: %v", err)
		}

		after, _ := s.GetByID(ctx, id)
		if after.Slug != "new-title" {
			t.Errorf("slug = %q, want %q", after.Slug, "new-title")
		}
		if !after.UpdatedAt.After(before.UpdatedAt) {
			t.Errorf("updatedAt not refreshed: before=%v after=%v", before.UpdatedAt, after.UpdatedAt)
		}
		if !after.CreatedAt.Equal(before.CreatedAt) {
			t.Error("createdAt changed on update")
		}
		if after.Content != before.Content {
			t.Error("unprovided field was modified")
		}
	})
}

func TestUpdateExplicitSlugSkipsRecompute(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ArticleStore) {
		ctx := context.Background()

		id, err := s.Create(ctx, testForm("Original Title"))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		newTitle := "Replacement Title"
		keepSlug := "original-title"
		err = s.Update(ctx, id, models.ArticleUpdate{Title: &newTitle, Slug: &keepSlug})
		if err != nil {
			t.Fatalf("update: %v", err)
		}

		a, _ := s.GetByID(ctx, id)
		if a.Slug != "original-title" {
			t.Errorf("slug = %q, want explicit %q", a.Slug, "original-title")
		}
	})
}

func TestUpdateUnknownID(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ArticleStore) {
		title := "Whatever Title"
		err := s.Update(context.Background(), "missing-id", models.ArticleUpdate{Title: &title})
		if !errors.Is(err, models.ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})
}

func TestDeleteIsIdempotent(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ArticleStore) {
		ctx := context.Background()

		id, err := s.Create(ctx, testForm("Doomed Article Title"))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := s.Delete(ctx, id); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if a, _ := s.GetByID(ctx, id); a != nil {
			t.Error("article still present after delete")
		}
		// Deleting a missing id is a no-op success.
		if err := s.Delete(ctx, id); err != nil {
			t.Fatalf("second delete: %v", err)
		}
		if err := s.Delete(ctx, "never-existed"); err != nil {
			t.Fatalf("delete unknown id: %v", err)
		}
	})
}

func TestGetMissesAreNotErrors(t *testing.T) {
	forEachStore(t, func(t *testing.T, s ArticleStore) {
		ctx := context.Background()

		if a, err := s.GetByID(ctx, "nope"); err != nil || a != nil {
			t.Errorf("GetByID miss: article=%v err=%v", a, err)
		}
		if a, err := s.GetBySlug(ctx, "nope"); err != nil || a != nil {
			t.Errorf("GetBySlug miss: article=%v err=%v", a, err)
		}
	})
}
