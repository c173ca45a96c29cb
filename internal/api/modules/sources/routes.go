package sources

import (
	"net/http"

	"github.com/ethanbaker/wikiai/pkg/sdk"
	"github.com/ethanbaker/wikiai/pkg/trust"
	"github.com/gin-gonic/gin"
)

// MaxSources bounds the URLs rated in one request
const MaxSources = 50

// RegisterRoutes registers the routes for the sources module
func RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/sources/analyze", analyzeSources)
}

// analyzeSources rates each URL of a JSON list with the trusted-domain table
func analyzeSources(c *gin.Context) {
	var urls []string
	if err := c.ShouldBindJSON(&urls); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Expected a JSON list of URLs").AsGinResponse())
		return
	}
	if len(urls) > MaxSources {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Too many sources").AsGinResponse())
		return
	}

	resp := sdk.AnalyzeSourcesResponse{AnalyzedSources: make([]sdk.AnalyzedSource, 0, len(urls))}
	for _, url := range urls {
		score := trust.ScoreURL(url, "")
		resp.AnalyzedSources = append(resp.AnalyzedSources, sdk.AnalyzedSource{
			URL:            url,
			TrustScore:     score,
			TrustLevel:     trust.Level(score),
			Recommendation: trust.Recommendation(score),
		})
	}

	c.JSON(http.StatusOK, resp)
}
