package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	"github.com/noah-isme/dominest-api/internal/service"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
	"github.com/noah-isme/dominest-api/pkg/export"
	"github.com/noah-isme/dominest-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, semester models.Semester, format export.Format) (*dto.ExportResponse, error)
	Download(token string) (*service.ExportDownload, error)
}

// ExportHandler renders rosters and serves the signed downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export godoc
// @Summary Export the resident roster
// @Tags Exports
// @Produce json
// @Param semester query string true "Residence semester"
// @Param format query string false "csv or pdf"
// @Success 201 {object} response.Envelope
// @Router /residents/export [post]
func (h *ExportHandler) Export(c *gin.Context) {
	semester, err := semesterParam(pickQuery(c, "semester", "residenceSemester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	format, err := export.ParseFormat(strings.ToLower(c.Query("format")))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "지원하지 않는 내보내기 형식입니다."))
		return
	}

	res, err := h.service.Export(c.Request.Context(), semester, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Download godoc
// @Summary Download an exported roster via signed token
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token이 필요합니다."))
		return
	}
	file, err := h.service.Download(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Body.Close() //nolint:errcheck

	c.Header("Content-Type", file.ContentType)
	c.Header("Content-Disposition", attachmentHeader("attachment", file.Filename))
	c.Header("Cache-Control", "no-store")
	http.ServeContent(c.Writer, c.Request, file.Filename, file.ModTime, file.Body)
}
