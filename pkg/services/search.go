package services

import (
	"context"
	"fmt"
	"log"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"

	"artechway/pkg/models"
	"artechway/pkg/store"
)

// SearchService maintains a Bleve full-text index over published articles.
// Drafts are never indexed; unpublishing removes the article.
type SearchService struct {
	index bleve.Index
}

type indexedArticle struct {
	Title    string
	Content  string
	Category string
	Author   string
	Excerpt  string
}

// SearchHit is one search result, resolved back to the store by ID.
type SearchHit struct {
	ID        string
	Score     float64
	Fragments map[string][]string
}

// OpenSearch opens or creates the Bleve index at path.
func OpenSearch(path string) (*SearchService, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return &SearchService{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Title", titleFieldMapping)
	docMapping.AddFieldMappingsAt("Content", textFieldMapping)
	docMapping.AddFieldMappingsAt("Category", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Author", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Excerpt", textFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	// Query strings go through the default analyzer; it must stem the same
	// way the indexed fields do or natural-language queries miss.
	indexMapping.DefaultAnalyzer = en.AnalyzerName
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

func (s *SearchService) Close() error {
	return s.index.Close()
}

// IndexArticle adds a published article to the index; an unpublished one is
// removed instead, keeping drafts invisible to search.
func (s *SearchService) IndexArticle(a models.Article) error {
	if !a.IsPublished {
		return s.index.Delete(a.ID)
	}
	return s.index.Index(a.ID, indexedArticle{
		Title:    a.Title,
		Content:  stripHTML(a.Content),
		Category: a.Category,
		Author:   a.AuthorName,
		Excerpt:  a.Excerpt,
	})
}

// Remove deletes an article from the index.
func (s *SearchService) Remove(id string) error {
	return s.index.Delete(id)
}

// Search runs a query-string search and returns scored hits with highlighted
// fragments.
func (s *SearchService) Search(queryStr string, limit int) ([]SearchHit, error) {
	query := bleve.NewQueryStringQuery(queryStr)

	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	req.Highlight = bleve.NewHighlightWithStyle("html")

	results, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]SearchHit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		hits = append(hits, SearchHit{
			ID:        hit.ID,
			Score:     hit.Score,
			Fragments: hit.Fragments,
		})
	}
	return hits, nil
}

// ReindexAll walks every published article into the index. Incremental
// updates normally keep the index current; this heals anything missed.
func (s *SearchService) ReindexAll(ctx context.Context, articles store.ArticleStore) (int, error) {
	published, err := articles.List(ctx, 0, true)
	if err != nil {
		return 0, fmt.Errorf("list articles: %w", err)
	}

	count := 0
	for _, a := range published {
		if err := s.IndexArticle(a); err != nil {
			log.Printf("[Search] index %s: %v", a.ID, err)
			continue
		}
		count++
	}
	return count, nil
}
