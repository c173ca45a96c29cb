package subjects

import (
	"net/http"

	"github.com/ethanbaker/wikiai/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the routes for the subjects module
func RegisterRoutes(g *gin.RouterGroup, catalog sdk.Subjects) {
	g.GET("/subjects", func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog)
	})
}
