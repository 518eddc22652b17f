package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"artechway/pkg/config"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

// AuthRequired gates the admin panel and the admin API on a logged-in
// session. API calls get a JSON 401; page requests get redirected to login.
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get("user")
	if user == nil {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		} else {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		}
		return
	}
	c.Set("user", user)
	c.Next()
}

func LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"site": config.SiteName})
}

func GithubLogin(c *gin.Context) {
	url := config.OauthConf.AuthCodeURL("state", oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func AuthCallback(c *gin.Context) {
	code := c.Query("code")
	token, err := config.OauthConf.Exchange(context.Background(), code)
	if err != nil {
		c.String(http.StatusInternalServerError, "OAuth Exchange Failed")
		return
	}

	login, err := githubLogin(c.Request.Context(), token)
	if err != nil {
		c.String(http.StatusInternalServerError, "Could not resolve GitHub user")
		return
	}
	if !adminAllowed(login) {
		c.String(http.StatusForbidden, "This account is not an Artechway admin")
		return
	}

	session := sessions.Default(c)
	session.Set("user", login)
	session.Set("access_token", token.AccessToken)
	session.Save()

	c.Redirect(http.StatusFound, "/admin")
}

func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/login")
}

// githubLogin fetches the authenticated user's login name.
func githubLogin(ctx context.Context, token *oauth2.Token) (string, error) {
	client := config.OauthConf.Client(ctx, token)
	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var user struct {
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", err
	}
	return user.Login, nil
}

func adminAllowed(login string) bool {
	if len(config.AdminUsers) == 0 {
		return true
	}
	for _, u := range config.AdminUsers {
		if strings.EqualFold(u, login) {
			return true
		}
	}
	return false
}
