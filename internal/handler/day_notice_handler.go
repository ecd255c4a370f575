package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
	"github.com/noah-isme/dominest-api/pkg/response"
)

type dayNoticeService interface {
	Create(ctx context.Context, authorID string, req dto.CreateDayNoticeRequest) (*models.DayNotice, error)
	ListByDate(ctx context.Context, rawDate string) ([]models.DayNotice, error)
	Delete(ctx context.Context, id string) error
}

// DayNoticeHandler manages single-day notices.
type DayNoticeHandler struct {
	service dayNoticeService
}

// NewDayNoticeHandler constructs the handler.
func NewDayNoticeHandler(service dayNoticeService) *DayNoticeHandler {
	return &DayNoticeHandler{service: service}
}

// Create godoc
// @Summary Create a day notice
// @Tags Day Notices
// @Accept json
// @Produce json
// @Param payload body dto.CreateDayNoticeRequest true "Notice"
// @Success 201 {object} response.Envelope
// @Router /day-notices [post]
func (h *DayNoticeHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateDayNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "일정 요청 형식이 올바르지 않습니다."))
		return
	}
	notice, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, notice)
}

// ListByDate godoc
// @Summary List notices of one day
// @Tags Day Notices
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /day-notices [get]
func (h *DayNoticeHandler) ListByDate(c *gin.Context) {
	notices, err := h.service.ListByDate(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notices, nil)
}

// Delete godoc
// @Summary Delete a day notice
// @Tags Day Notices
// @Param id path string true "Notice ID"
// @Success 204
// @Router /day-notices/{id} [delete]
func (h *DayNoticeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
