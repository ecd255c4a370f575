package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
	"github.com/noah-isme/dominest-api/pkg/response"
)

type residentDocumentService interface {
	UploadOne(ctx context.Context, id string, pdfType models.PdfType, file dto.UploadFile) (string, error)
	UploadBulk(ctx context.Context, semester models.Semester, pdfType models.PdfType, files []dto.UploadFile) models.UploadBatchResult
	Read(ctx context.Context, id string, pdfType models.PdfType) ([]byte, string, error)
	ListStatus(ctx context.Context, semester models.Semester) ([]models.ResidentDocumentStatus, error)
}

// ResidentDocumentHandler serves admission and departure PDFs.
type ResidentDocumentHandler struct {
	service  residentDocumentService
	maxFiles int
}

// NewResidentDocumentHandler constructs the handler. maxFiles <= 0 disables the batch size check.
func NewResidentDocumentHandler(service residentDocumentService, maxFiles int) *ResidentDocumentHandler {
	return &ResidentDocumentHandler{service: service, maxFiles: maxFiles}
}

// UploadOne godoc
// @Summary Upload one resident document
// @Tags Resident Documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Resident ID"
// @Param pdfType query string true "ADMISSION or DEPARTURE"
// @Param pdf formData file true "PDF document"
// @Success 201 {object} response.Envelope
// @Router /residents/{id}/pdf [post]
func (h *ResidentDocumentHandler) UploadOne(c *gin.Context) {
	pdfType, err := pdfTypeParam(c.Query("pdfType"))
	if err != nil {
		response.Error(c, err)
		return
	}
	header, err := c.FormFile("pdf")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "PDF 파일이 필요합니다."))
		return
	}
	file, err := readUpload(header)
	if err != nil {
		response.Error(c, err)
		return
	}

	path, err := h.service.UploadOne(c.Request.Context(), c.Param("id"), pdfType, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, pdfType.Label()+" 업로드 완료", gin.H{"path": path})
}

// Read godoc
// @Summary Read a resident document
// @Tags Resident Documents
// @Produce application/pdf
// @Param id path string true "Resident ID"
// @Param pdfType query string true "ADMISSION or DEPARTURE"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /residents/{id}/pdf [get]
func (h *ResidentDocumentHandler) Read(c *gin.Context) {
	pdfType, err := pdfTypeParam(c.Query("pdfType"))
	if err != nil {
		response.Error(c, err)
		return
	}
	data, filename, err := h.service.Read(c.Request.Context(), c.Param("id"), pdfType)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", attachmentHeader("inline", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", data)
}

// UploadBulk godoc
// @Summary Upload many resident documents
// @Description Each file name (without .pdf) is matched against resident names of the semester.
// @Tags Resident Documents
// @Accept multipart/form-data
// @Produce json
// @Param semester formData string true "Residence semester"
// @Param pdfType formData string true "ADMISSION or DEPARTURE"
// @Param pdfs formData file true "PDF documents"
// @Success 201 {object} response.Envelope
// @Router /residents/pdf [post]
func (h *ResidentDocumentHandler) UploadBulk(c *gin.Context) {
	semester, err := semesterParam(pickForm(c, "semester", "residenceSemester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	pdfType, err := pdfTypeParam(pickForm(c, "pdfType", "pdf_type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	form, err := c.MultipartForm()
	if err != nil || len(form.File["pdfs"]) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "업로드할 PDF 파일이 없습니다."))
		return
	}
	headers := form.File["pdfs"]
	if h.maxFiles > 0 && len(headers) > h.maxFiles {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("한 번에 최대 %d개의 파일만 업로드할 수 있습니다.", h.maxFiles)))
		return
	}

	files := make([]dto.UploadFile, 0, len(headers))
	for _, header := range headers {
		files = append(files, deferredUpload(header))
	}

	result := h.service.UploadBulk(c.Request.Context(), semester, pdfType, files)
	message := fmt.Sprintf("pdf 업로드 완료. 저장된 파일 수: %d개", result.SuccessCount)
	response.Message(c, http.StatusCreated, message, result)
}

// ListStatus godoc
// @Summary List document presence per resident
// @Tags Resident Documents
// @Produce json
// @Param semester query string true "Residence semester"
// @Success 200 {object} response.Envelope
// @Router /residents/pdf [get]
func (h *ResidentDocumentHandler) ListStatus(c *gin.Context) {
	semester, err := semesterParam(pickQuery(c, "semester", "residenceSemester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	statuses, err := h.service.ListStatus(c.Request.Context(), semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ResidentPdfListResponse{Semester: semester, Residents: statuses}, nil)
}
