package chat

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the routes for the chat module
func RegisterRoutes(g *gin.RouterGroup, service *Service) {
	ctl := &Controller{service: service}

	g.POST("/chat", ctl.PostChat)                      // Answer a turn
	g.GET("/chat/history/:session_id", ctl.GetHistory) // List a session's exchanges
	g.POST("/analyze-file", ctl.PostAnalyzeFile)       // Answer a question about a document
}
