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

type residentService interface {
	List(ctx context.Context, query dto.ResidentQuery) ([]models.Resident, *models.Pagination, error)
	Create(ctx context.Context, req dto.SaveResidentRequest) (*models.Resident, error)
	Update(ctx context.Context, id string, req dto.SaveResidentRequest) (*models.Resident, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int, error)
}

type residentImporter interface {
	Import(ctx context.Context, semester models.Semester, file dto.UploadFile) (*dto.ResidentImportResponse, error)
}

// ResidentHandler manages resident HTTP endpoints.
type ResidentHandler struct {
	service  residentService
	importer residentImporter
}

// NewResidentHandler constructs the handler.
func NewResidentHandler(service residentService, importer residentImporter) *ResidentHandler {
	return &ResidentHandler{service: service, importer: importer}
}

// List godoc
// @Summary List residents of a semester
// @Tags Residents
// @Produce json
// @Param semester query string true "Residence semester (S2024_1)"
// @Param search query string false "Name, student number or room"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /residents [get]
func (h *ResidentHandler) List(c *gin.Context) {
	var query dto.ResidentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "조회 조건이 올바르지 않습니다."))
		return
	}
	query.Semester = pickQuery(c, "semester", "residenceSemester")

	residents, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ResidentListResponse{
		Semester:  models.Semester(query.Semester),
		Residents: residents,
	}, pagination)
}

// Create godoc
// @Summary Register a resident
// @Tags Residents
// @Accept json
// @Produce json
// @Param payload body dto.SaveResidentRequest true "Resident payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /residents [post]
func (h *ResidentHandler) Create(c *gin.Context) {
	var req dto.SaveResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "입사생 정보 형식이 올바르지 않습니다."))
		return
	}
	resident, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resident)
}

// Update godoc
// @Summary Update a resident
// @Tags Residents
// @Accept json
// @Produce json
// @Param id path string true "Resident ID"
// @Param payload body dto.SaveResidentRequest true "Resident payload"
// @Success 200 {object} response.Envelope
// @Router /residents/{id} [patch]
func (h *ResidentHandler) Update(c *gin.Context) {
	var req dto.SaveResidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "입사생 정보 형식이 올바르지 않습니다."))
		return
	}
	resident, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resident, nil)
}

// Delete godoc
// @Summary Delete a resident
// @Tags Residents
// @Param id path string true "Resident ID"
// @Success 204
// @Router /residents/{id} [delete]
func (h *ResidentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteAll godoc
// @Summary Delete every resident
// @Tags Residents
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /residents [delete]
func (h *ResidentHandler) DeleteAll(c *gin.Context) {
	removed, err := h.service.DeleteAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, fmt.Sprintf("입사생 %d명을 삭제했습니다.", removed), gin.H{"deleted": removed})
}

// UploadExcel godoc
// @Summary Import residents from an Excel roster
// @Tags Residents
// @Accept multipart/form-data
// @Produce json
// @Param semester formData string true "Residence semester"
// @Param file formData file true "Excel workbook (.xlsx)"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /residents/upload-excel [post]
func (h *ResidentHandler) UploadExcel(c *gin.Context) {
	semester, err := semesterParam(pickForm(c, "semester", "residenceSemester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "엑셀 파일이 필요합니다."))
		return
	}
	file, err := readUpload(header)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.importer.Import(c.Request.Context(), semester, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	message := fmt.Sprintf("엑셀 업로드 완료. 저장된 입사생 수: %d명", res.SuccessCount)
	response.Message(c, http.StatusCreated, message, res)
}
