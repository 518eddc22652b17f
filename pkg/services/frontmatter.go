package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"artechway/pkg/models"
)

// articleMeta is the frontmatter block of an exported article document.
type articleMeta struct {
	Title         string `yaml:"title" toml:"title"`
	Slug          string `yaml:"slug,omitempty" toml:"slug,omitempty"`
	Category      string `yaml:"category,omitempty" toml:"category,omitempty"`
	Author        string `yaml:"author,omitempty" toml:"author,omitempty"`
	Excerpt       string `yaml:"excerpt,omitempty" toml:"excerpt,omitempty"`
	Published     bool   `yaml:"published" toml:"published"`
	CoverImageURL string `yaml:"cover_image,omitempty" toml:"cover_image,omitempty"`
}

// ExportArticle renders an article as a markdown document with YAML or TOML
// frontmatter, suitable for download or import elsewhere.
func ExportArticle(a models.Article, format string) ([]byte, error) {
	meta := articleMeta{
		Title:         a.Title,
		Slug:          a.Slug,
		Category:      a.Category,
		Author:        a.AuthorName,
		Excerpt:       a.Excerpt,
		Published:     a.IsPublished,
		CoverImageURL: a.CoverImageURL,
	}

	var buf bytes.Buffer
	switch format {
	case "yaml", "":
		buf.WriteString("---\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(meta); err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
	case "toml":
		buf.WriteString("+++\n")
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(meta); err != nil {
			return nil, err
		}
		buf.WriteString("+++\n")
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	if a.Content != "" {
		buf.WriteString("\n")
		buf.WriteString(a.Content)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// ParseArticle reads an exported article document back into a form payload.
// The frontmatter delimiter decides the format: --- for YAML, +++ for TOML.
func ParseArticle(content []byte) (models.ArticleForm, error) {
	str := strings.TrimLeft(string(content), "\ufeff\n\r")

	var meta articleMeta
	var body string

	switch {
	case strings.HasPrefix(str, "---"):
		parts := strings.SplitN(str, "---", 3)
		if len(parts) != 3 {
			return models.ArticleForm{}, fmt.Errorf("unterminated YAML frontmatter")
		}
		if err := yaml.Unmarshal([]byte(parts[1]), &meta); err != nil {
			return models.ArticleForm{}, fmt.Errorf("parse YAML frontmatter: %w", err)
		}
		body = strings.TrimSpace(parts[2])
	case strings.HasPrefix(str, "+++"):
		parts := strings.SplitN(str, "+++", 3)
		if len(parts) != 3 {
			return models.ArticleForm{}, fmt.Errorf("unterminated TOML frontmatter")
		}
		if err := toml.Unmarshal([]byte(parts[1]), &meta); err != nil {
			return models.ArticleForm{}, fmt.Errorf("parse TOML frontmatter: %w", err)
		}
		body = strings.TrimSpace(parts[2])
	default:
		return models.ArticleForm{}, fmt.Errorf("no frontmatter delimiter found")
	}

	published := meta.Published
	return models.ArticleForm{
		Title:         meta.Title,
		Slug:          meta.Slug,
		Content:       body,
		Category:      meta.Category,
		AuthorName:    meta.Author,
		Excerpt:       meta.Excerpt,
		IsPublished:   &published,
		CoverImageURL: meta.CoverImageURL,
	}, nil
}
