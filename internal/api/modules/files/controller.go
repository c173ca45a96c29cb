package files

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ethanbaker/wikiai/internal/upload"
	"github.com/ethanbaker/wikiai/pkg/sdk"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// plainTextExtensions are extracted in-process; other formats need an external extractor
var plainTextExtensions = []string{"txt", "csv"}

// Controller validates uploads and extracts their text
type Controller struct {
	policy upload.Policy
	logger *zap.Logger
}

// PostUploadFile handles multipart uploads in the "file" field
func (ctl *Controller) PostUploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Missing file field").AsGinResponse())
		return
	}

	name := filepath.Base(header.Filename)
	if err := ctl.policy.Validate(name, header.Size); err != nil {
		var verr *upload.ValidationError
		if errors.As(err, &verr) {
			c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, verr.Error()).AsGinResponse())
			return
		}
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, err.Error()).AsGinResponse())
		return
	}

	if !slices.Contains(plainTextExtensions, upload.Extension(name)) {
		c.JSON(sdk.NewErrorResponse(http.StatusUnsupportedMediaType,
			fmt.Sprintf("Text extraction is not available for .%s files", upload.Extension(name))).AsGinResponse())
		return
	}

	text, err := readText(header)
	if err != nil {
		ctl.logger.Error("failed to read upload", zap.String("file", name), zap.Error(err))
		c.JSON(sdk.NewErrorResponse(http.StatusUnprocessableEntity, "Could not read file").AsGinResponse())
		return
	}

	ctl.logger.Info("file extracted", zap.String("file", name), zap.Int("characters", utf8.RuneCountInString(text)))
	c.JSON(http.StatusOK, sdk.UploadFileResponse{
		Filename:      name,
		ExtractedText: text,
		TextLength:    utf8.RuneCountInString(text),
	})
}

// readText reads an uploaded plain-text file, which must be valid UTF-8
func readText(header *multipart.FileHeader) (string, error) {
	f, err := header.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.New("file is not valid UTF-8 text")
	}

	return strings.TrimPrefix(string(data), "\ufeff"), nil
}
