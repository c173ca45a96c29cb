package health

import (
	"net/http"

	"github.com/ethanbaker/wikiai/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// Greeting is returned by the API root
const Greeting = "API WikiAI - Assistant IA pour étudiants québécois"

// getStatus reports that the service is up
func getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, sdk.StatusResponse{Status: "ok"})
}

// getRoot greets API clients
func getRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": Greeting})
}
