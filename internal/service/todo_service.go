package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
)

type todoRepository interface {
	Create(ctx context.Context, todo *models.Todo) error
	UpdateCheck(ctx context.Context, id string, checked bool) error
	List(ctx context.Context) ([]models.Todo, error)
	Delete(ctx context.Context, id string) error
}

type userNameLister interface {
	ListNames(ctx context.Context) ([]string, error)
}

// TodoService manages the shared staff todo list.
type TodoService struct {
	repo      todoRepository
	users     userNameLister
	validator *validator.Validate
}

// NewTodoService constructs the service.
func NewTodoService(repo todoRepository, users userNameLister, validate *validator.Validate) *TodoService {
	if validate == nil {
		validate = validator.New()
	}
	return &TodoService{repo: repo, users: users, validator: validate}
}

// Save creates a todo owned by userID.
func (s *TodoService) Save(ctx context.Context, userID string, req dto.SaveTodoRequest) (*models.Todo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "할 일을 입력해주세요.")
	}
	todo := &models.Todo{
		Task:           strings.TrimSpace(req.Task),
		ReceiveRequest: strings.TrimSpace(req.ReceiveRequest),
		UserID:         userID,
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "사용자를 찾을 수 없습니다.")
		}
		return nil, appErrors.Internal(err, "투두 저장에 실패했습니다.")
	}
	return todo, nil
}

// Check sets the checked flag of a todo.
func (s *TodoService) Check(ctx context.Context, id string, req dto.CheckTodoRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "체크 여부는 필수입니다.")
	}
	if err := s.repo.UpdateCheck(ctx, id, *req.CheckYn); err != nil {
		if isNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "투두를 찾을 수 없습니다.")
		}
		return appErrors.Internal(err, "투두 체크에 실패했습니다.")
	}
	return nil
}

// List returns unchecked todos first, newest first within each group.
func (s *TodoService) List(ctx context.Context) ([]models.Todo, error) {
	todos, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "투두 목록 조회에 실패했습니다.")
	}
	return todos, nil
}

// Delete removes a todo.
func (s *TodoService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "투두를 찾을 수 없습니다.")
		}
		return appErrors.Internal(err, "투두 삭제에 실패했습니다.")
	}
	return nil
}

// UserNames lists the names of every active user for the assignee picker.
func (s *TodoService) UserNames(ctx context.Context) ([]string, error) {
	names, err := s.users.ListNames(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "사용자 목록 조회에 실패했습니다.")
	}
	return names, nil
}
