package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"artechway/pkg/config"
	"artechway/pkg/handlers"
	"artechway/pkg/scheduler"
	"artechway/pkg/services"
	"artechway/pkg/store"
)

func main() {
	// Initialize config
	config.Init()

	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		log.Fatal("Failed to create data dir: ", err)
	}

	// Article store (sqlite or bolt, same contract)
	articles, err := store.Open(config.StoreBackend, config.SQLitePath, config.BoltPath)
	if err != nil {
		log.Fatal("Failed to open article store: ", err)
	}
	defer articles.Close()

	// Services
	media, err := services.NewMediaService(config.MediaDir)
	if err != nil {
		log.Fatal("Failed to init media storage: ", err)
	}
	search, err := services.OpenSearch(config.IndexPath)
	if err != nil {
		log.Fatal("Failed to open search index: ", err)
	}
	defer search.Close()

	ai := services.NewAIService(config.LLMApiURL, config.LLMApiKey, config.LLMModel)
	publisher := services.NewPublisher(articles, media, search)

	// Periodic search reindex
	sched := scheduler.New(articles, search, config.ReindexSpec)
	if err := sched.Start(); err != nil {
		log.Fatal("Failed to start scheduler: ", err)
	}
	defer sched.Stop()
	log.Printf("[Cron] Next reindex at %s", sched.NextReindex().Format(time.RFC3339))

	r := gin.Default()

	// Session Setup
	sessionStore := cookie.NewStore([]byte(os.Getenv("SESSION_SECRET")))
	r.Use(sessions.Sessions("artechway_session", sessionStore))

	// Static Files & Templates
	r.LoadHTMLGlob("templates/*")
	r.Static("/static", "./static")
	r.Static("/media", config.MediaDir)

	h := handlers.New(articles, media, search, ai, publisher)
	h.RegisterRoutes(r)

	log.Printf("%s listening on :%s (store: %s)", config.SiteName, config.Port, config.StoreBackend)
	r.Run(":" + config.Port)
}
