package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	"github.com/noah-isme/dominest-api/pkg/cache"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
)

type repeatScheduleRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, schedule *models.RepeatSchedule) error
	FindByID(ctx context.Context, id string) (*models.RepeatSchedule, error)
	ListSummaries(ctx context.Context) ([]models.RepeatScheduleSummary, error)
}

type scheduleNoticeRepository interface {
	Insert(ctx context.Context, exec sqlx.ExtContext, notice *models.DayNotice) (bool, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.DayNotice, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

var repeatScheduleListKey = cache.Key("repeat-schedules", "all")

// RepeatScheduleService creates repeat schedules and expands them into day notices.
type RepeatScheduleService struct {
	tx          txProvider
	schedules   repeatScheduleRepository
	notices     scheduleNoticeRepository
	users       userLookup
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	maxSpanDays int
}

// NewRepeatScheduleService constructs the service. maxSpanDays <= 0 disables the window limit.
func NewRepeatScheduleService(
	tx txProvider,
	schedules repeatScheduleRepository,
	notices scheduleNoticeRepository,
	users userLookup,
	cacheSvc *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	maxSpanDays int,
) *RepeatScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepeatScheduleService{
		tx:          tx,
		schedules:   schedules,
		notices:     notices,
		users:       users,
		cache:       cacheSvc,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		maxSpanDays: maxSpanDays,
	}
}

// Create validates the definition, expands it and stores the definition with every generated
// notice in one transaction. Nothing is stored when any insert fails.
func (s *RepeatScheduleService) Create(ctx context.Context, authorID string, req dto.CreateRepeatScheduleRequest) (*dto.RepeatScheduleResponse, error) {
	schedule, err := s.buildSchedule(authorID, req)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, authorID); err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "작성자를 찾을 수 없습니다.")
		}
		return nil, appErrors.Internal(err, "작성자 조회에 실패했습니다.")
	}

	schedule.ID = uuid.NewString()
	notices := ExpandRepeatSchedule(*schedule)

	generated, _, err := s.persist(ctx, schedule, notices, true)
	if err != nil {
		s.metrics.ObserveExpansion("rolled_back", 0)
		return nil, err
	}
	s.metrics.ObserveExpansion("created", generated)
	s.invalidate(ctx, notices)

	s.logger.Info("repeat schedule created",
		zap.String("repeat_schedule_id", schedule.ID),
		zap.String("author_id", authorID),
		zap.Int("notices", generated),
	)
	return toRepeatScheduleResponse(*schedule, generated, noticeDates(notices)), nil
}

// Regenerate re-expands a stored definition and inserts only the dates that have no notice yet.
func (s *RepeatScheduleService) Regenerate(ctx context.Context, id string) (*dto.RegenerateResponse, error) {
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "반복일정을 찾을 수 없습니다.")
		}
		return nil, appErrors.Internal(err, "반복일정 조회에 실패했습니다.")
	}

	notices := ExpandRepeatSchedule(*schedule)
	generated, created, err := s.persist(ctx, schedule, notices, false)
	if err != nil {
		s.metrics.ObserveExpansion("rolled_back", 0)
		return nil, err
	}
	s.metrics.ObserveExpansion("regenerated", generated)
	if generated > 0 {
		s.invalidate(ctx, created)
	}

	return &dto.RegenerateResponse{
		ID:        schedule.ID,
		Generated: generated,
		Skipped:   len(notices) - generated,
		Dates:     noticeDates(created),
	}, nil
}

// List returns every definition with its notice count, newest first.
func (s *RepeatScheduleService) List(ctx context.Context) ([]dto.RepeatScheduleResponse, bool, error) {
	var cached []dto.RepeatScheduleResponse
	if s.cache.Get(ctx, repeatScheduleListKey, &cached) {
		return cached, true, nil
	}

	summaries, err := s.schedules.ListSummaries(ctx)
	if err != nil {
		return nil, false, appErrors.Internal(err, "반복일정 목록 조회에 실패했습니다.")
	}
	out := make([]dto.RepeatScheduleResponse, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, *toRepeatScheduleResponse(summary.RepeatSchedule, summary.NoticeCount, nil))
	}
	s.cache.Set(ctx, repeatScheduleListKey, out)
	return out, false, nil
}

// Get returns a definition together with the dates of its generated notices.
func (s *RepeatScheduleService) Get(ctx context.Context, id string) (*dto.RepeatScheduleResponse, error) {
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "반복일정을 찾을 수 없습니다.")
		}
		return nil, appErrors.Internal(err, "반복일정 조회에 실패했습니다.")
	}
	notices, err := s.notices.ListBySchedule(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "반복일정 글 조회에 실패했습니다.")
	}
	return toRepeatScheduleResponse(*schedule, len(notices), noticeDates(notices)), nil
}

// persist writes the notices, and the definition itself when withDefinition is set, inside one
// transaction. It returns how many notices were inserted and which ones.
func (s *RepeatScheduleService) persist(ctx context.Context, schedule *models.RepeatSchedule, notices []models.DayNotice, withDefinition bool) (generated int, created []models.DayNotice, err error) {
	if s.tx == nil {
		return 0, nil, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return 0, nil, rolledBack(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if withDefinition {
		if err = s.schedules.Create(ctx, tx, schedule); err != nil {
			if isNotFound(err) {
				return 0, nil, appErrors.Clone(appErrors.ErrNotFound, "작성자를 찾을 수 없습니다.")
			}
			return 0, nil, rolledBack(err)
		}
	}

	created = make([]models.DayNotice, 0, len(notices))
	for i := range notices {
		inserted, insertErr := s.notices.Insert(ctx, tx, &notices[i])
		if insertErr != nil {
			err = insertErr
			return 0, nil, rolledBack(fmt.Errorf("notice %s: %w", notices[i].NoticeDate.Format(dateLayout), insertErr))
		}
		if inserted {
			created = append(created, notices[i])
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, nil, rolledBack(err)
	}
	return len(created), created, nil
}

func (s *RepeatScheduleService) buildSchedule(authorID string, req dto.CreateRepeatScheduleRequest) (*models.RepeatSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "반복일정 입력값이 올바르지 않습니다.")
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "시작일 형식이 올바르지 않습니다.")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "종료일 형식이 올바르지 않습니다.")
	}
	if start.After(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "시작일은 종료일보다 늦을 수 없습니다.")
	}
	if s.maxSpanDays > 0 && int(end.Sub(start).Hours()/24)+1 > s.maxSpanDays {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("반복일정 기간은 최대 %d일까지 설정할 수 있습니다.", s.maxSpanDays))
	}

	schedule := &models.RepeatSchedule{
		Title:          req.Title,
		Content:        req.Content,
		RecurrenceKind: models.RecurrenceKind(req.RecurrenceKind),
		Weekdays:       pq.Int64Array{},
		MonthDays:      pq.Int64Array{},
		StartDate:      start,
		EndDate:        end,
		AuthorID:       authorID,
	}

	switch schedule.RecurrenceKind {
	case models.RecurrenceWeekly:
		days, ok := parseWeekdays(req.Weekdays)
		if !ok || len(days) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "반복 요일을 하나 이상 올바르게 선택해야 합니다.")
		}
		schedule.Weekdays = days
	case models.RecurrenceMonthly:
		days, ok := normaliseMonthDays(req.MonthDays)
		if !ok || len(days) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "반복 일자를 하나 이상 올바르게 선택해야 합니다.")
		}
		schedule.MonthDays = days
	}
	return schedule, nil
}

func (s *RepeatScheduleService) invalidate(ctx context.Context, notices []models.DayNotice) {
	keys := append([]string{repeatScheduleListKey}, calendarKeysFor(notices)...)
	s.cache.Invalidate(ctx, keys...)
}

func rolledBack(err error) error {
	return appErrors.Wrap(err, appErrors.ErrRolledBack.Code, appErrors.ErrRolledBack.Status, appErrors.ErrRolledBack.Message)
}

func noticeDates(notices []models.DayNotice) []string {
	dates := make([]string, 0, len(notices))
	for _, n := range notices {
		dates = append(dates, n.NoticeDate.Format(dateLayout))
	}
	return dates
}

func toRepeatScheduleResponse(schedule models.RepeatSchedule, count int, dates []string) *dto.RepeatScheduleResponse {
	monthDays := make([]int, 0, len(schedule.MonthDays))
	for _, d := range schedule.MonthDays {
		monthDays = append(monthDays, int(d))
	}
	return &dto.RepeatScheduleResponse{
		ID:             schedule.ID,
		Title:          schedule.Title,
		Content:        schedule.Content,
		RecurrenceKind: string(schedule.RecurrenceKind),
		Weekdays:       weekdayLabels(schedule.Weekdays),
		MonthDays:      monthDays,
		StartDate:      schedule.StartDate.Format(dateLayout),
		EndDate:        schedule.EndDate.Format(dateLayout),
		AuthorID:       schedule.AuthorID,
		CreatedAt:      schedule.CreatedAt,
		GeneratedCount: count,
		NoticeDates:    dates,
	}
}
