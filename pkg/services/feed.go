package services

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"

	"artechway/pkg/config"
	"artechway/pkg/models"
)

// BuildFeed renders published articles as an RSS 2.0 document.
func BuildFeed(articles []models.Article) (string, error) {
	feed := &feeds.Feed{
		Title:       config.SiteName,
		Link:        &feeds.Link{Href: config.SiteURL},
		Description: config.SiteTagline,
		Author:      &feeds.Author{Name: config.DefaultAuthor},
		Created:     time.Now(),
	}

	feed.Items = make([]*feeds.Item, 0, len(articles))
	for _, a := range articles {
		item := &feeds.Item{
			Title:       a.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/article/%s", config.SiteURL, a.Slug)},
			Id:          fmt.Sprintf("%s/article/%s", config.SiteURL, a.Slug),
			Description: feedDescription(a),
			Created:     a.CreatedAt,
			Updated:     a.UpdatedAt,
		}
		if a.AuthorName != "" {
			item.Author = &feeds.Author{Name: a.AuthorName}
		}
		feed.Items = append(feed.Items, item)
	}

	rss, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("generate RSS: %w", err)
	}
	return rss, nil
}

func feedDescription(a models.Article) string {
	if a.Excerpt != "" {
		return a.Excerpt
	}
	// Truncate on rune boundaries; a byte slice can split a multi-byte
	// character and emit invalid UTF-8 into the feed.
	text := stripHTML(a.Content)
	if runes := []rune(text); len(runes) > 500 {
		text = string(runes[:500]) + "..."
	}
	return text
}
