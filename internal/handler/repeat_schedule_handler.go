package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/middleware"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
	"github.com/noah-isme/dominest-api/pkg/response"
)

type repeatScheduleService interface {
	Create(ctx context.Context, authorID string, req dto.CreateRepeatScheduleRequest) (*dto.RepeatScheduleResponse, error)
	Regenerate(ctx context.Context, id string) (*dto.RegenerateResponse, error)
	List(ctx context.Context) ([]dto.RepeatScheduleResponse, bool, error)
	Get(ctx context.Context, id string) (*dto.RepeatScheduleResponse, error)
}

// RepeatScheduleHandler manages repeat schedule endpoints.
type RepeatScheduleHandler struct {
	service repeatScheduleService
}

// NewRepeatScheduleHandler constructs the handler.
func NewRepeatScheduleHandler(service repeatScheduleService) *RepeatScheduleHandler {
	return &RepeatScheduleHandler{service: service}
}

// Create godoc
// @Summary Create a repeat schedule
// @Description Expands the recurrence over the date window and stores every notice atomically.
// @Tags Repeat Schedules
// @Accept json
// @Produce json
// @Param payload body dto.CreateRepeatScheduleRequest true "Repeat schedule"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /repeat-schedule [post]
func (h *RepeatScheduleHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateRepeatScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "반복일정 요청 형식이 올바르지 않습니다."))
		return
	}

	res, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "반복일정 글이 성공적으로 생성되었습니다.", res)
}

// List godoc
// @Summary List repeat schedules
// @Tags Repeat Schedules
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /all-repeat-schedule [get]
func (h *RepeatScheduleHandler) List(c *gin.Context) {
	schedules, hit, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, schedules, nil, middleware.ExtractMeta(c))
}

// Detail godoc
// @Summary Get a repeat schedule with its generated dates
// @Tags Repeat Schedules
// @Produce json
// @Param repeatScheduleId path string true "Repeat schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /detail/{repeatScheduleId} [get]
func (h *RepeatScheduleHandler) Detail(c *gin.Context) {
	res, err := h.service.Get(c.Request.Context(), c.Param("repeatScheduleId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Regenerate godoc
// @Summary Re-expand a repeat schedule
// @Description Inserts notices only for dates that do not have one yet.
// @Tags Repeat Schedules
// @Produce json
// @Param id path string true "Repeat schedule ID"
// @Success 200 {object} response.Envelope
// @Router /repeat-schedule/{id}/regenerate [post]
func (h *RepeatScheduleHandler) Regenerate(c *gin.Context) {
	res, err := h.service.Regenerate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
