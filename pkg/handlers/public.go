package handlers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"artechway/pkg/config"
	"artechway/pkg/models"
	"artechway/pkg/services"
)

func (h *Handler) Home(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context(), config.HomePageSize, true)
	if err != nil {
		h.errorPage(c, http.StatusInternalServerError, "Could not load articles.")
		return
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"site":       config.SiteName,
		"tagline":    config.SiteTagline,
		"articles":   articles,
		"categories": config.Categories,
	})
}

func (h *Handler) Article(c *gin.Context) {
	ctx := c.Request.Context()

	article, err := h.articles.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		h.errorPage(c, http.StatusInternalServerError, "Could not load the article.")
		return
	}
	if article == nil {
		// Drafts and unknown slugs look identical to public readers.
		h.errorPage(c, http.StatusNotFound, "The article you are looking for does not exist or has been moved.")
		return
	}

	related, err := h.relatedArticles(c, article)
	if err != nil {
		related = nil
	}

	c.HTML(http.StatusOK, "article.html", gin.H{
		"site":    config.SiteName,
		"article": article,
		"content": template.HTML(article.Content),
		"related": related,
	})
}

// relatedArticles picks recent published articles in the same category,
// excluding the article itself.
func (h *Handler) relatedArticles(c *gin.Context, article *models.Article) ([]models.Article, error) {
	recent, err := h.articles.List(c.Request.Context(), 0, true)
	if err != nil {
		return nil, err
	}

	var related []models.Article
	for _, a := range recent {
		if a.ID == article.ID || a.Category != article.Category {
			continue
		}
		related = append(related, a)
		if len(related) == config.RelatedCount {
			break
		}
	}
	return related, nil
}

func (h *Handler) Category(c *gin.Context) {
	category := c.Param("category")

	all, err := h.articles.List(c.Request.Context(), 0, true)
	if err != nil {
		h.errorPage(c, http.StatusInternalServerError, "Could not load articles.")
		return
	}

	var articles []models.Article
	for _, a := range all {
		if a.Category == category {
			articles = append(articles, a)
		}
	}

	c.HTML(http.StatusOK, "category.html", gin.H{
		"site":     config.SiteName,
		"category": category,
		"articles": articles,
	})
}

func (h *Handler) SearchPage(c *gin.Context) {
	query := c.Query("q")

	var articles []models.Article
	if query != "" {
		hits, err := h.search.Search(query, 20)
		if err != nil {
			h.errorPage(c, http.StatusInternalServerError, "Search is unavailable right now.")
			return
		}
		for _, hit := range hits {
			a, err := h.articles.GetByID(c.Request.Context(), hit.ID)
			if err != nil || a == nil || !a.IsPublished {
				// The index can briefly lag behind the store.
				continue
			}
			articles = append(articles, *a)
		}
	}

	c.HTML(http.StatusOK, "search.html", gin.H{
		"site":     config.SiteName,
		"query":    query,
		"articles": articles,
	})
}

func (h *Handler) RSS(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context(), 50, true)
	if err != nil {
		c.String(http.StatusInternalServerError, "Could not build feed")
		return
	}

	rss, err := services.BuildFeed(articles)
	if err != nil {
		c.String(http.StatusInternalServerError, "Could not build feed")
		return
	}

	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

func (h *Handler) errorPage(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"site":    config.SiteName,
		"status":  status,
		"message": message,
	})
}
