package files

import (
	"github.com/ethanbaker/wikiai/internal/upload"
	"github.com/ethanbaker/wikiai/pkg/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes registers the routes for the files module
func RegisterRoutes(g *gin.RouterGroup, policy upload.Policy, logger *zap.Logger) {
	ctl := &Controller{policy: policy, logger: logging.OrNop(logger).Named("files")}

	g.POST("/upload-file", ctl.PostUploadFile)
}
