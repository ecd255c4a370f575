package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dominest-api/internal/models"
)

type calendarServiceStub struct {
	year, month int
}

func (s *calendarServiceStub) Month(_ context.Context, year, month int) ([]models.CalendarDay, bool, error) {
	s.year, s.month = year, month
	return []models.CalendarDay{{Day: 1, Content: true}, {Day: 2}}, false, nil
}

func TestCalendarHandlerMonth(t *testing.T) {
	svc := &calendarServiceStub{}
	h := NewCalendarHandler(svc)

	c, w := newTestContext(http.MethodGet, "/calendar/month?year=2024&month=2", nil, staffClaims)
	h.Month(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2024, svc.year)
	assert.Equal(t, 2, svc.month)
	env := decodeEnvelope(t, w)
	assert.Equal(t, false, env.Meta["cache_hit"])
	assert.Contains(t, w.Body.String(), `{"day":1,"content":true}`)
}

func TestCalendarHandlerRejectsNonNumericParams(t *testing.T) {
	svc := &calendarServiceStub{}
	h := NewCalendarHandler(svc)

	c, w := newTestContext(http.MethodGet, "/calendar/month?year=2024&month=feb", nil, staffClaims)
	h.Month(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.year)
}
