package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

var (
	Port = "8080"

	// Data locations
	DataDir    = "./data"
	SQLitePath = ""
	BoltPath   = ""
	IndexPath  = ""
	MediaDir   = ""

	// Store backend: "sqlite" or "bolt"
	StoreBackend = "sqlite"

	// Site settings
	SiteName      = "Artechway"
	SiteTagline   = "Insights on AI, web development, and social media marketing"
	SiteURL       = "http://localhost:8080"
	DefaultAuthor = "Artechway Team"

	// Categories the article form offers. An empty list means free text.
	Categories = []string{"AI", "Web Development", "Social Media Marketing"}

	HomePageSize = 10
	RelatedCount = 3

	// Search reindex schedule (robfig/cron spec)
	ReindexSpec = "@hourly"

	// LLM settings (OpenAI-compatible endpoint)
	LLMApiURL  = "https://api.openai.com/v1"
	LLMApiKey  = ""
	LLMModel   = "gpt-4o-mini"
	TopicTheme = "AI, web development, and social media marketing"

	// GitHub logins allowed into the admin panel. Empty list lets any
	// authenticated GitHub user in (single-admin deployments).
	AdminUsers []string
)

var OauthConf *oauth2.Config

func Init() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found or error loading it.")
	}

	// Helper to get env with default
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	Port = getEnv("PORT", "8080")

	DataDir = getEnv("DATA_DIR", "./data")
	SQLitePath = getEnv("SQLITE_PATH", filepath.Join(DataDir, "artechway.db"))
	BoltPath = getEnv("BOLT_PATH", filepath.Join(DataDir, "artechway.bolt"))
	IndexPath = getEnv("INDEX_PATH", filepath.Join(DataDir, "search.bleve"))
	MediaDir = getEnv("MEDIA_DIR", filepath.Join(DataDir, "media"))

	StoreBackend = getEnv("STORE_BACKEND", "sqlite")

	SiteName = getEnv("SITE_NAME", SiteName)
	SiteTagline = getEnv("SITE_TAGLINE", SiteTagline)
	SiteURL = strings.TrimRight(getEnv("SITE_URL", "http://localhost:"+Port), "/")
	DefaultAuthor = getEnv("DEFAULT_AUTHOR", DefaultAuthor)

	// CATEGORIES="" switches the category field to free text.
	if v, ok := os.LookupEnv("CATEGORIES"); ok {
		Categories = splitList(v)
	}

	if v := os.Getenv("HOME_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			HomePageSize = n
		}
	}

	ReindexSpec = getEnv("REINDEX_SPEC", ReindexSpec)

	LLMApiURL = strings.TrimRight(getEnv("LLM_API_URL", LLMApiURL), "/")
	LLMApiKey = getEnv("LLM_API_KEY", "")
	LLMModel = getEnv("LLM_MODEL", LLMModel)
	TopicTheme = getEnv("TOPIC_THEME", TopicTheme)

	AdminUsers = splitList(os.Getenv("ADMIN_USERS"))

	appURL := getEnv("APP_URL", SiteURL)
	redirectURL := getEnv("GITHUB_REDIRECT_URL", appURL+"/auth/callback")

	OauthConf = &oauth2.Config{
		ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		Scopes:       []string{"read:user"},
		Endpoint:     github.Endpoint,
		RedirectURL:  redirectURL,
	}
}

// CategoryAllowed reports whether the configured category set permits the
// given value. An empty set means categories are free text.
func CategoryAllowed(category string) bool {
	if len(Categories) == 0 {
		return true
	}
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
