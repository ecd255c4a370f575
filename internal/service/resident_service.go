package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	"github.com/noah-isme/dominest-api/internal/repository"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
)

type residentRepository interface {
	List(ctx context.Context, filter models.ResidentFilter) ([]models.Resident, int, error)
	FindByID(ctx context.Context, id string) (*models.Resident, error)
	Create(ctx context.Context, resident *models.Resident) error
	Update(ctx context.Context, resident *models.Resident) error
	Delete(ctx context.Context, id string) (*models.Resident, error)
	DeleteAll(ctx context.Context) ([]models.Resident, error)
}

type fileScheduler interface {
	Schedule(paths ...string)
}

// ResidentService manages resident records.
type ResidentService struct {
	repo      residentRepository
	cleanup   fileScheduler
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResidentService constructs the service.
func NewResidentService(repo residentRepository, cleanup fileScheduler, validate *validator.Validate, logger *zap.Logger) *ResidentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResidentService{repo: repo, cleanup: cleanup, validator: validate, logger: logger}
}

// List returns a page of residents for a semester.
func (s *ResidentService) List(ctx context.Context, query dto.ResidentQuery) ([]models.Resident, *models.Pagination, error) {
	semester, err := models.ParseSemester(query.Semester)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "입사 차수 형식이 올바르지 않습니다.")
	}
	filter := models.ResidentFilter{Semester: semester, Search: query.Search, Page: query.Page, PageSize: query.Limit}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 500 {
		filter.PageSize = 50
	}

	residents, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "입사생 목록 조회에 실패했습니다.")
	}
	return residents, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Create registers a resident.
func (s *ResidentService) Create(ctx context.Context, req dto.SaveResidentRequest) (*models.Resident, error) {
	resident, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, resident); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "해당 차수에 이미 등록된 학번입니다.")
		}
		return nil, appErrors.Internal(err, "입사생 등록에 실패했습니다.")
	}
	return resident, nil
}

// Update overwrites a resident's fields.
func (s *ResidentService) Update(ctx context.Context, id string, req dto.SaveResidentRequest) (*models.Resident, error) {
	resident, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	resident.ID = id
	if err := s.repo.Update(ctx, resident); err != nil {
		switch {
		case isNotFound(err):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "입사생을 찾을 수 없습니다.")
		case errors.Is(err, repository.ErrDuplicate):
			return nil, appErrors.Clone(appErrors.ErrValidation, "입사생 정보 변경 실패, 잘못된 입력값입니다. 데이터 누락 혹은 중복을 확인해주세요.")
		default:
			return nil, appErrors.Internal(err, "입사생 정보 변경에 실패했습니다.")
		}
	}
	return s.Get(ctx, id)
}

// Get returns one resident.
func (s *ResidentService) Get(ctx context.Context, id string) (*models.Resident, error) {
	resident, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "입사생을 찾을 수 없습니다.")
		}
		return nil, appErrors.Internal(err, "입사생 조회에 실패했습니다.")
	}
	return resident, nil
}

// Delete removes a resident and queues its stored documents for deletion.
func (s *ResidentService) Delete(ctx context.Context, id string) error {
	resident, err := s.repo.Delete(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "입사생을 찾을 수 없습니다.")
		}
		return appErrors.Internal(err, "입사생 삭제에 실패했습니다.")
	}
	s.cleanup.Schedule(resident.StoredPaths()...)
	return nil
}

// DeleteAll removes every resident and queues all stored documents for deletion.
func (s *ResidentService) DeleteAll(ctx context.Context) (int, error) {
	residents, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, appErrors.Internal(err, "입사생 전체 삭제에 실패했습니다.")
	}
	paths := make([]string, 0)
	for _, r := range residents {
		paths = append(paths, r.StoredPaths()...)
	}
	s.cleanup.Schedule(paths...)
	s.logger.Warn("all residents deleted", zap.Int("count", len(residents)), zap.Int("documents", len(paths)))
	return len(residents), nil
}

func (s *ResidentService) fromRequest(req dto.SaveResidentRequest) (*models.Resident, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "입사생 입력값이 올바르지 않습니다.")
	}
	semester, err := models.ParseSemester(req.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "입사 차수 형식이 올바르지 않습니다.")
	}
	return &models.Resident{
		Semester:      semester,
		Name:          strings.TrimSpace(req.Name),
		Gender:        req.Gender,
		StudentNumber: strings.TrimSpace(req.StudentNumber),
		Major:         strings.TrimSpace(req.Major),
		Grade:         strings.TrimSpace(req.Grade),
		PhoneNumber:   strings.TrimSpace(req.PhoneNumber),
		RoomNumber:    strings.TrimSpace(req.RoomNumber),
	}, nil
}
