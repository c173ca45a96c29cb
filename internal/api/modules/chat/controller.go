package chat

import (
	"errors"
	"net/http"

	"github.com/ethanbaker/wikiai/pkg/sdk"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Controller exposes the chat service over HTTP
type Controller struct {
	service *Service
}

// PostChat handles POST requests answering a chat turn
func (ctl *Controller) PostChat(c *gin.Context) {
	// Parse request body
	var req sdk.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body").AsGinResponse())
		return
	}

	resp, err := ctl.service.Chat(c.Request.Context(), &req)
	if err != nil {
		ctl.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PostAnalyzeFile handles POST requests asking about extracted document text
func (ctl *Controller) PostAnalyzeFile(c *gin.Context) {
	// Parse request body
	var req sdk.AnalyzeFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body").AsGinResponse())
		return
	}

	resp, err := ctl.service.Analyze(c.Request.Context(), &req)
	if err != nil {
		ctl.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetHistory handles GET requests listing a session's exchanges
func (ctl *Controller) GetHistory(c *gin.Context) {
	resp, err := ctl.service.History(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		ctl.service.logger.Error("failed to list history", zap.Error(err))
		c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Erreur lors de la récupération de l'historique").AsGinResponse())
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (ctl *Controller) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidMessageType) {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, err.Error()).AsGinResponse())
		return
	}

	ctl.service.logger.Error("failed to process request", zap.Error(err))
	c.JSON(sdk.NewErrorResponse(http.StatusInternalServerError, "Erreur lors du traitement de la demande").AsGinResponse())
}
