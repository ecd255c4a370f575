package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
	"github.com/noah-isme/dominest-api/pkg/response"
)

type favoriteService interface {
	Toggle(ctx context.Context, categoryID, email string) (*dto.FavoriteToggleResponse, error)
	List(ctx context.Context, userID string) ([]models.Category, error)
}

// FavoriteHandler manages category favorites of the current user.
type FavoriteHandler struct {
	service favoriteService
}

// NewFavoriteHandler constructs the handler.
func NewFavoriteHandler(service favoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// Toggle godoc
// @Summary Toggle a category favorite
// @Tags Favorites
// @Produce json
// @Param categoryId path string true "Category ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /favorites/{categoryId} [post]
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	res, err := h.service.Toggle(c.Request.Context(), c.Param("categoryId"), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	message := "즐겨찾기를 해제했습니다."
	if res.OnOff {
		message = "즐겨찾기에 추가했습니다."
	}
	response.Message(c, http.StatusOK, message, res)
}

// List godoc
// @Summary Categories favorited by the current user
// @Tags Favorites
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /favorites [get]
func (h *FavoriteHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	categories, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}
