package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
)

type parcelRepository interface {
	CreatePost(ctx context.Context, post *models.ParcelPost) error
	FindPostByID(ctx context.Context, id string) (*models.ParcelPost, error)
	ListByPost(ctx context.Context, postID string) ([]models.Parcel, error)
	FindParcel(ctx context.Context, postID, id string) (*models.Parcel, error)
	CreateParcel(ctx context.Context, parcel *models.Parcel) error
	UpdateParcel(ctx context.Context, parcel *models.Parcel) error
	DeleteParcel(ctx context.Context, postID, id string) error
}

// ParcelService manages undelivered parcel posts and their parcels.
type ParcelService struct {
	repo      parcelRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewParcelService constructs the service.
func NewParcelService(repo parcelRepository, validate *validator.Validate, logger *zap.Logger) *ParcelService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParcelService{repo: repo, validator: validate, logger: logger}
}

// CreatePost registers a new post authored by authorID.
func (s *ParcelService) CreatePost(ctx context.Context, authorID string, req dto.CreateParcelPostRequest) (*models.ParcelPost, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "게시글 입력값이 올바르지 않습니다.")
	}
	post := &models.ParcelPost{Title: strings.TrimSpace(req.Title), AuthorID: authorID}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "작성자를 찾을 수 없습니다.")
		}
		return nil, appErrors.Internal(err, "게시글 생성에 실패했습니다.")
	}
	return post, nil
}

// GetPost returns a post with its parcels.
func (s *ParcelService) GetPost(ctx context.Context, postID string) (*dto.ParcelPostDetail, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	parcels, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, appErrors.Internal(err, "택배 목록 조회에 실패했습니다.")
	}
	return &dto.ParcelPostDetail{ParcelPost: *post, Parcels: parcels}, nil
}

// AddParcel attaches a parcel to an existing post.
func (s *ParcelService) AddParcel(ctx context.Context, postID string, req dto.SaveParcelRequest) (*models.Parcel, error) {
	parcel, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.findPost(ctx, postID); err != nil {
		return nil, err
	}
	parcel.PostID = postID
	if err := s.repo.CreateParcel(ctx, parcel); err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "게시글을 찾을 수 없습니다.")
		}
		return nil, appErrors.Internal(err, "택배 등록에 실패했습니다.")
	}
	return parcel, nil
}

// UpdateParcel overwrites a parcel. An omitted process state keeps the current one.
func (s *ParcelService) UpdateParcel(ctx context.Context, postID, id string, req dto.SaveParcelRequest) (*models.Parcel, error) {
	update, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	parcel, err := s.repo.FindParcel(ctx, postID, id)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "택배를 찾을 수 없습니다.")
		}
		return nil, appErrors.Internal(err, "택배 조회에 실패했습니다.")
	}
	parcel.RecipientName = update.RecipientName
	parcel.RecipientPhoneNum = update.RecipientPhoneNum
	parcel.Instruction = update.Instruction
	if req.ProcessState != "" {
		parcel.ProcessState = update.ProcessState
	}
	if err := s.repo.UpdateParcel(ctx, parcel); err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "택배를 찾을 수 없습니다.")
		}
		return nil, appErrors.Internal(err, "택배 수정에 실패했습니다.")
	}
	return parcel, nil
}

// DeleteParcel removes a parcel from a post.
func (s *ParcelService) DeleteParcel(ctx context.Context, postID, id string) error {
	if err := s.repo.DeleteParcel(ctx, postID, id); err != nil {
		if isNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "택배를 찾을 수 없습니다.")
		}
		return appErrors.Internal(err, "택배 삭제에 실패했습니다.")
	}
	return nil
}

func (s *ParcelService) findPost(ctx context.Context, postID string) (*models.ParcelPost, error) {
	post, err := s.repo.FindPostByID(ctx, postID)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "게시글을 찾을 수 없습니다.")
		}
		return nil, appErrors.Internal(err, "게시글 조회에 실패했습니다.")
	}
	return post, nil
}

func (s *ParcelService) fromRequest(req dto.SaveParcelRequest) (*models.Parcel, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "택배 입력값이 올바르지 않습니다.")
	}
	parcel := &models.Parcel{
		RecipientName:     strings.TrimSpace(req.RecipientName),
		RecipientPhoneNum: strings.TrimSpace(req.RecipientPhoneNum),
		Instruction:       strings.TrimSpace(req.Instruction),
	}
	if req.ProcessState != "" {
		state, err := models.ParseParcelProcessState(req.ProcessState)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "처리 상태가 올바르지 않습니다.")
		}
		parcel.ProcessState = state
	}
	return parcel, nil
}
