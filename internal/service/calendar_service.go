package service

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-isme/dominest-api/internal/models"
	"github.com/noah-isme/dominest-api/pkg/cache"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
)

type noticeDateRepository interface {
	DatesInRange(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

// CalendarService builds the monthly notice calendar.
type CalendarService struct {
	notices noticeDateRepository
	cache   *CacheService
}

// NewCalendarService constructs the service.
func NewCalendarService(notices noticeDateRepository, cacheSvc *CacheService) *CalendarService {
	return &CalendarService{notices: notices, cache: cacheSvc}
}

// Month returns one entry per day of the month telling whether any notice exists that day.
// The boolean result reports a cache hit.
func (s *CalendarService) Month(ctx context.Context, year, month int) ([]models.CalendarDay, bool, error) {
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "연도 또는 월이 올바르지 않습니다.")
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	key := calendarKey(first)

	var cached []models.CalendarDay
	if s.cache.Get(ctx, key, &cached) {
		return cached, true, nil
	}

	next := first.AddDate(0, 1, 0)
	dates, err := s.notices.DatesInRange(ctx, first, next)
	if err != nil {
		return nil, false, appErrors.Internal(err, "캘린더 조회에 실패했습니다.")
	}
	present := make(map[int]bool, len(dates))
	for _, d := range dates {
		present[d.Day()] = true
	}

	days := make([]models.CalendarDay, 0, 31)
	for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
		days = append(days, models.CalendarDay{Day: day.Day(), Content: present[day.Day()]})
	}
	s.cache.Set(ctx, key, days)
	return days, false, nil
}

func calendarKey(t time.Time) string {
	return cache.Key("calendar", fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())))
}

// calendarKeysFor returns the distinct month keys touched by notices.
func calendarKeysFor(notices []models.DayNotice) []string {
	seen := map[string]bool{}
	keys := make([]string, 0)
	for _, n := range notices {
		key := calendarKey(n.NoticeDate)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}
