package api

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFS embed.FS

// SetupStaticRoutes serves the embedded dashboard page
func SetupStaticRoutes(r *gin.Engine) {
	page, err := staticFS.ReadFile("static/index.html")

	r.GET("/", func(c *gin.Context) {
		if err != nil {
			c.String(http.StatusInternalServerError, "Failed to read file")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
}
