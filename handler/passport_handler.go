package handler

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Aashish23092/passport-reader/dto"
	"github.com/Aashish23092/passport-reader/logger"
	"github.com/Aashish23092/passport-reader/utils"
	"github.com/gin-gonic/gin"
)

type PassportProcessor interface {
	Process(ctx context.Context, uploadPath string) (*dto.PassportResponse, error)
}

type PassportHandler struct {
	passportService PassportProcessor
	uploadDir       string
	keepOnFailure   bool
	log             *logger.Logger
}

func NewPassportHandler(passportService PassportProcessor, uploadDir string, keepOnFailure bool, log *logger.Logger) *PassportHandler {
	return &PassportHandler{
		passportService: passportService,
		uploadDir:       uploadDir,
		keepOnFailure:   keepOnFailure,
		log:             log,
	}
}

// Welcome handles GET /
func (h *PassportHandler) Welcome(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(dto.MsgWelcome))
}

// Process handles the POST /process endpoint
func (h *PassportHandler) Process(c *gin.Context) {
	log := logger.FromContext(c.Request.Context(), h.log)

	var req dto.ProcessRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Info().Err(err).Msg("rejected upload")
		c.String(http.StatusBadRequest, dto.MsgMissingParameter)
		return
	}
	if err := req.Validate(); err != nil {
		c.String(http.StatusBadRequest, dto.MsgMissingParameter)
		return
	}

	uploadPath := filepath.Join(h.uploadDir, utils.StorageFilename(req.ImageFile.Filename))
	if err := c.SaveUploadedFile(req.ImageFile, uploadPath); err != nil {
		h.sendError(c, log, "failed to save upload", err)
		return
	}

	succeeded := false
	defer func() {
		if !succeeded && h.keepOnFailure {
			return
		}
		if err := os.Remove(uploadPath); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", uploadPath).Msg("failed to remove upload")
		}
	}()

	log.Info().
		Str("filename", req.ImageFile.Filename).
		Int64("size", req.ImageFile.Size).
		Msg("processing passport")

	response, err := h.passportService.Process(c.Request.Context(), uploadPath)
	if errors.Is(err, dto.ErrUnreadableImage) {
		c.String(http.StatusBadRequest, dto.MsgUnreadableImage)
		return
	}
	if err != nil {
		h.sendError(c, log, "failed to process passport", err)
		return
	}

	succeeded = true
	c.JSON(http.StatusOK, response)
}

// Health handles GET /health
func (h *PassportHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Passport Reader",
	})
}

// sendError logs err and answers with a bare 500
func (h *PassportHandler) sendError(c *gin.Context, log *logger.Logger, message string, err error) {
	log.Error().Err(err).Msg(message)
	c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
