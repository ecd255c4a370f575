package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dominest-api/internal/middleware"
	"github.com/noah-isme/dominest-api/internal/models"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
	"github.com/noah-isme/dominest-api/pkg/response"
)

type calendarService interface {
	Month(ctx context.Context, year, month int) ([]models.CalendarDay, bool, error)
}

// CalendarHandler exposes the monthly notice calendar.
type CalendarHandler struct {
	service calendarService
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(service calendarService) *CalendarHandler {
	return &CalendarHandler{service: service}
}

// Month godoc
// @Summary Days of a month that carry notices
// @Tags Calendar
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} response.Envelope
// @Router /calendar/month [get]
func (h *CalendarHandler) Month(c *gin.Context) {
	year, yearErr := strconv.Atoi(c.Query("year"))
	month, monthErr := strconv.Atoi(c.Query("month"))
	if yearErr != nil || monthErr != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year와 month는 숫자여야 합니다."))
		return
	}

	days, hit, err := h.service.Month(c.Request.Context(), year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, days, nil, middleware.ExtractMeta(c))
}
