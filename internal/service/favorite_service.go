package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	"github.com/noah-isme/dominest-api/internal/repository"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
)

type favoriteRepository interface {
	FindByCategoryAndUserEmail(ctx context.Context, categoryID, email string) (*models.Favorite, error)
	Create(ctx context.Context, favorite *models.Favorite) error
	UpdateOnOff(ctx context.Context, favorite *models.Favorite) error
}

type categoryRepository interface {
	FindByID(ctx context.Context, id string) (*models.Category, error)
	ListFavoritedBy(ctx context.Context, userID string) ([]models.Category, error)
}

type userByEmail interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// FavoriteService toggles category favorites per user.
type FavoriteService struct {
	favorites  favoriteRepository
	categories categoryRepository
	users      userByEmail
	logger     *zap.Logger
}

// NewFavoriteService constructs the service.
func NewFavoriteService(favorites favoriteRepository, categories categoryRepository, users userByEmail, logger *zap.Logger) *FavoriteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FavoriteService{favorites: favorites, categories: categories, users: users, logger: logger}
}

// Toggle flips the favorite of categoryID for the user. A missing favorite is created switched on.
func (s *FavoriteService) Toggle(ctx context.Context, categoryID, email string) (*dto.FavoriteToggleResponse, error) {
	favorite, err := s.favorites.FindByCategoryAndUserEmail(ctx, categoryID, email)
	switch {
	case err == nil:
		return s.flip(ctx, favorite)
	case isNotFound(err):
		return s.create(ctx, categoryID, email)
	default:
		return nil, appErrors.Internal(err, "즐겨찾기 조회에 실패했습니다.")
	}
}

// List returns the categories the user currently has switched on.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]models.Category, error) {
	categories, err := s.categories.ListFavoritedBy(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "즐겨찾기 목록 조회에 실패했습니다.")
	}
	return categories, nil
}

func (s *FavoriteService) flip(ctx context.Context, favorite *models.Favorite) (*dto.FavoriteToggleResponse, error) {
	favorite.OnOff = !favorite.OnOff
	if err := s.favorites.UpdateOnOff(ctx, favorite); err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "즐겨찾기를 찾을 수 없습니다.")
		}
		return nil, appErrors.Internal(err, "즐겨찾기 변경에 실패했습니다.")
	}
	return &dto.FavoriteToggleResponse{CategoryID: favorite.CategoryID, OnOff: favorite.OnOff}, nil
}

func (s *FavoriteService) create(ctx context.Context, categoryID, email string) (*dto.FavoriteToggleResponse, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "사용자를 찾을 수 없습니다.")
		}
		return nil, appErrors.Internal(err, "사용자 조회에 실패했습니다.")
	}
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "카테고리를 찾을 수 없습니다.")
		}
		return nil, appErrors.Internal(err, "카테고리 조회에 실패했습니다.")
	}

	favorite := &models.Favorite{UserID: user.ID, CategoryID: category.ID, OnOff: true}
	if err := s.favorites.Create(ctx, favorite); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent toggle; flip the row that won
			existing, findErr := s.favorites.FindByCategoryAndUserEmail(ctx, categoryID, email)
			if findErr != nil {
				return nil, appErrors.Internal(findErr, "즐겨찾기 조회에 실패했습니다.")
			}
			return s.flip(ctx, existing)
		}
		return nil, appErrors.Internal(err, "즐겨찾기 생성에 실패했습니다.")
	}
	s.logger.Debug("favorite created", zap.String("category_id", category.ID), zap.String("user_id", user.ID))
	return &dto.FavoriteToggleResponse{CategoryID: favorite.CategoryID, OnOff: favorite.OnOff}, nil
}
