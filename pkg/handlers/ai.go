package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"artechway/pkg/config"
)

// SuggestTopics asks the model for article topic ideas around a theme.
func (h *Handler) SuggestTopics(c *gin.Context) {
	var req struct {
		Theme string `json:"theme"`
		Count int    `json:"count"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if req.Theme == "" {
		req.Theme = config.TopicTheme
	}
	if req.Count <= 0 {
		req.Count = 5
	}

	topics, err := h.ai.SuggestTopics(c.Request.Context(), req.Theme, req.Count)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not generate topics. Please try again later."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// Summarize generates a summary for a published article, looked up by slug so
// drafts stay invisible to public callers.
func (h *Handler) Summarize(c *gin.Context) {
	var req struct {
		Slug string `json:"slug"`
	}
	if err := c.BindJSON(&req); err != nil || req.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	article, err := h.articles.GetBySlug(c.Request.Context(), req.Slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load article"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No such article"})
		return
	}

	summary, err := h.ai.Summarize(c.Request.Context(), article.Content)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not generate summary. Please try again later."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
