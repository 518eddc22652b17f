package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListMedia(c *gin.Context) {
	files, err := h.media.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list media: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, files)
}

// UploadMedia stores a standalone upload (outside the article form). With an
// uploadId field the transfer is trackable over SSE like form uploads.
func (h *Handler) UploadMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	progress, finish := h.trackUpload(c.PostForm("uploadId"))

	info, err := h.media.Save(file, progress)
	if err != nil {
		finish(false, "Upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file: " + err.Error()})
		return
	}

	finish(true, "")
	c.JSON(http.StatusOK, info)
}

func (h *Handler) DeleteMedia(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if err := h.media.Delete(req.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// UploadProgress streams progress events for one upload until it finishes.
// The stream usually opens before the form POST lands, so a missing id means
// "not started yet", not "unknown": subscribe to a pending tracker and wait.
func (h *Handler) UploadProgress(c *gin.Context) {
	tracker := h.uploads.GetOrCreate(c.Param("id"))

	ch := tracker.Subscribe()
	defer tracker.Unsubscribe(ch)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case update, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("progress", update)
			return !update.Done()
		case <-c.Request.Context().Done():
			return false
		}
	})
}
