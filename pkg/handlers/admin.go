package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"artechway/pkg/config"
	"artechway/pkg/models"
	"artechway/pkg/services"
)

func (h *Handler) Dashboard(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context(), 0, false)
	if err != nil {
		h.errorPage(c, http.StatusInternalServerError, "Could not load articles.")
		return
	}

	c.HTML(http.StatusOK, "admin_dashboard.html", gin.H{
		"site":     config.SiteName,
		"user":     c.GetString("user"),
		"articles": articles,
	})
}

func (h *Handler) NewArticlePage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_form.html", gin.H{
		"site":       config.SiteName,
		"user":       c.GetString("user"),
		"categories": config.Categories,
		"author":     config.DefaultAuthor,
	})
}

func (h *Handler) EditArticlePage(c *gin.Context) {
	article, err := h.articles.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.errorPage(c, http.StatusInternalServerError, "Could not load the article.")
		return
	}
	if article == nil {
		h.errorPage(c, http.StatusNotFound, "No such article.")
		return
	}

	c.HTML(http.StatusOK, "admin_form.html", gin.H{
		"site":       config.SiteName,
		"user":       c.GetString("user"),
		"categories": config.Categories,
		"author":     config.DefaultAuthor,
		"article":    article,
	})
}

func (h *Handler) ListArticles(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context(), 0, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch articles"})
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (h *Handler) CreateArticle(c *gin.Context) {
	var form models.ArticleForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form payload"})
		return
	}

	file, _ := c.FormFile("coverImage")
	progress, finish := h.trackUpload(c.PostForm("uploadId"))

	id, ferrs, err := h.publisher.Create(c.Request.Context(), form, file, progress)
	if len(ferrs) > 0 {
		finish(false, "Submission failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": ferrs})
		return
	}
	if err != nil {
		finish(false, "Submission failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not add article. Please try again."})
		return
	}

	finish(true, "")
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *Handler) UpdateArticle(c *gin.Context) {
	var form models.ArticleForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form payload"})
		return
	}

	file, _ := c.FormFile("coverImage")
	progress, finish := h.trackUpload(c.PostForm("uploadId"))

	ferrs, err := h.publisher.Update(c.Request.Context(), c.Param("id"), form, file, progress)
	if len(ferrs) > 0 {
		finish(false, "Submission failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": ferrs})
		return
	}
	if errors.Is(err, models.ErrNotFound) {
		finish(false, "No such article")
		c.JSON(http.StatusNotFound, gin.H{"error": "No such article"})
		return
	}
	if err != nil {
		finish(false, "Submission failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update article. Please try again."})
		return
	}

	finish(true, "")
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) DeleteArticle(c *gin.Context) {
	if err := h.publisher.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete article"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) ExportArticle(c *gin.Context) {
	article, err := h.articles.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load article"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No such article"})
		return
	}

	format := c.DefaultQuery("format", "yaml")
	doc, err := services.ExportArticle(*article, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", article.Slug+".md"))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", doc)
}

func (h *Handler) ImportArticle(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read upload"})
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read upload"})
		return
	}

	form, err := services.ParseArticle(content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, ferrs, err := h.publisher.Create(c.Request.Context(), form, nil, nil)
	if len(ferrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": ferrs})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not import article. Please try again."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// trackUpload registers a progress tracker when the form carried an upload
// id, so the admin UI can follow the transfer on a second request.
func (h *Handler) trackUpload(uploadID string) (func(pct int), func(ok bool, msg string)) {
	if uploadID == "" {
		return nil, func(bool, string) {}
	}

	tracker := h.uploads.GetOrCreate(uploadID)
	finish := func(ok bool, msg string) {
		if ok {
			tracker.Complete("")
		} else {
			tracker.Fail(msg)
		}
		h.uploads.Remove(uploadID)
	}
	return tracker.SetPercent, finish
}
