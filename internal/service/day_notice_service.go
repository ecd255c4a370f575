package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
)

type dayNoticeRepository interface {
	Insert(ctx context.Context, exec sqlx.ExtContext, notice *models.DayNotice) (bool, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.DayNotice, error)
	Delete(ctx context.Context, id string) (*models.DayNotice, error)
}

// DayNoticeService manages notices written directly on a calendar day.
type DayNoticeService struct {
	notices   dayNoticeRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDayNoticeService constructs the service.
func NewDayNoticeService(notices dayNoticeRepository, cacheSvc *CacheService, validate *validator.Validate, logger *zap.Logger) *DayNoticeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DayNoticeService{notices: notices, cache: cacheSvc, validator: validate, logger: logger}
}

// Create stores a notice without a repeat schedule back-reference.
func (s *DayNoticeService) Create(ctx context.Context, authorID string, req dto.CreateDayNoticeRequest) (*models.DayNotice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "일정 입력값이 올바르지 않습니다.")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "날짜 형식이 올바르지 않습니다.")
	}

	notice := &models.DayNotice{NoticeDate: date, Title: req.Title, Content: req.Content, AuthorID: authorID}
	if _, err := s.notices.Insert(ctx, nil, notice); err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "작성자를 찾을 수 없습니다.")
		}
		return nil, appErrors.Internal(err, "일정 저장에 실패했습니다.")
	}
	s.cache.Invalidate(ctx, calendarKey(date))
	return notice, nil
}

// ListByDate returns the notices of one day.
func (s *DayNoticeService) ListByDate(ctx context.Context, rawDate string) ([]models.DayNotice, error) {
	date, err := parseDate(rawDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "날짜 형식이 올바르지 않습니다.")
	}
	notices, err := s.notices.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Internal(err, "일정 조회에 실패했습니다.")
	}
	return notices, nil
}

// Delete removes a notice.
func (s *DayNoticeService) Delete(ctx context.Context, id string) error {
	notice, err := s.notices.Delete(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "일정을 찾을 수 없습니다.")
		}
		return appErrors.Internal(err, "일정 삭제에 실패했습니다.")
	}
	keys := []string{calendarKey(notice.NoticeDate)}
	if notice.RepeatScheduleID != nil {
		keys = append(keys, repeatScheduleListKey)
	}
	s.cache.Invalidate(ctx, keys...)
	return nil
}
