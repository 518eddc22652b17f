package handlers

import (
	"github.com/gin-gonic/gin"

	"artechway/pkg/services"
	"artechway/pkg/store"
)

// Handler carries the services the HTTP layer dispatches into.
type Handler struct {
	articles  store.ArticleStore
	media     *services.MediaService
	search    *services.SearchService
	ai        *services.AIService
	publisher *services.Publisher
	uploads   *services.UploadRegistry
}

func New(articles store.ArticleStore, media *services.MediaService, search *services.SearchService, ai *services.AIService, publisher *services.Publisher) *Handler {
	return &Handler{
		articles:  articles,
		media:     media,
		search:    search,
		ai:        ai,
		publisher: publisher,
		uploads:   services.NewUploadRegistry(),
	}
}

// RegisterRoutes wires the public site, auth, admin pages and the admin API.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// --- Public site ---
	r.GET("/", h.Home)
	r.GET("/article/:slug", h.Article)
	r.GET("/category/:category", h.Category)
	r.GET("/search", h.SearchPage)
	r.GET("/rss.xml", h.RSS)

	// The summarizer button on the public article page posts here.
	r.POST("/api/ai/summarize", h.Summarize)

	// --- Auth ---
	r.GET("/login", LoginPage)
	r.GET("/login/github", GithubLogin)
	r.GET("/auth/callback", AuthCallback)
	r.GET("/logout", Logout)

	// --- Admin pages ---
	admin := r.Group("/admin")
	admin.Use(AuthRequired)
	{
		admin.GET("", h.Dashboard)
		admin.GET("/new", h.NewArticlePage)
		admin.GET("/edit/:id", h.EditArticlePage)
	}

	// --- Admin API ---
	api := r.Group("/api")
	api.Use(AuthRequired)
	{
		api.GET("/articles", h.ListArticles)
		api.POST("/articles", h.CreateArticle)
		api.PUT("/articles/:id", h.UpdateArticle)
		api.DELETE("/articles/:id", h.DeleteArticle)
		api.GET("/articles/:id/export", h.ExportArticle)
		api.POST("/articles/import", h.ImportArticle)

		api.GET("/media", h.ListMedia)
		api.POST("/media", h.UploadMedia)
		api.DELETE("/media", h.DeleteMedia)
		api.GET("/uploads/:id/progress", h.UploadProgress)

		api.POST("/ai/topics", h.SuggestTopics)
	}
}
