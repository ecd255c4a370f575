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

type parcelService interface {
	CreatePost(ctx context.Context, authorID string, req dto.CreateParcelPostRequest) (*models.ParcelPost, error)
	GetPost(ctx context.Context, postID string) (*dto.ParcelPostDetail, error)
	AddParcel(ctx context.Context, postID string, req dto.SaveParcelRequest) (*models.Parcel, error)
	UpdateParcel(ctx context.Context, postID, id string, req dto.SaveParcelRequest) (*models.Parcel, error)
	DeleteParcel(ctx context.Context, postID, id string) error
}

// ParcelHandler manages undelivered parcel posts.
type ParcelHandler struct {
	service parcelService
}

// NewParcelHandler constructs the handler.
func NewParcelHandler(service parcelService) *ParcelHandler {
	return &ParcelHandler{service: service}
}

// CreatePost godoc
// @Summary Create an undelivered parcel post
// @Tags Parcels
// @Accept json
// @Produce json
// @Param payload body dto.CreateParcelPostRequest true "Post"
// @Success 201 {object} response.Envelope
// @Router /undelivered-parcel-posts [post]
func (h *ParcelHandler) CreatePost(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateParcelPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "게시글 요청 형식이 올바르지 않습니다."))
		return
	}
	post, err := h.service.CreatePost(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

// GetPost godoc
// @Summary Get a parcel post with its parcels
// @Tags Parcels
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {object} response.Envelope
// @Router /undelivered-parcel-posts/{postId} [get]
func (h *ParcelHandler) GetPost(c *gin.Context) {
	post, err := h.service.GetPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, post, nil)
}

// AddParcel godoc
// @Summary Register an undelivered parcel
// @Tags Parcels
// @Accept json
// @Produce json
// @Param postId path string true "Post ID"
// @Param payload body dto.SaveParcelRequest true "Parcel"
// @Success 201 {object} response.Envelope
// @Router /undelivered-parcel-posts/{postId}/parcels [post]
func (h *ParcelHandler) AddParcel(c *gin.Context) {
	var req dto.SaveParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "택배 요청 형식이 올바르지 않습니다."))
		return
	}
	parcel, err := h.service.AddParcel(c.Request.Context(), c.Param("postId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"id": parcel.ID})
}

// UpdateParcel godoc
// @Summary Update an undelivered parcel
// @Tags Parcels
// @Accept json
// @Produce json
// @Param postId path string true "Post ID"
// @Param id path string true "Parcel ID"
// @Param payload body dto.SaveParcelRequest true "Parcel"
// @Success 200 {object} response.Envelope
// @Router /undelivered-parcel-posts/{postId}/parcels/{id} [patch]
func (h *ParcelHandler) UpdateParcel(c *gin.Context) {
	var req dto.SaveParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "택배 요청 형식이 올바르지 않습니다."))
		return
	}
	parcel, err := h.service.UpdateParcel(c.Request.Context(), c.Param("postId"), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, parcel, nil)
}

// DeleteParcel godoc
// @Summary Delete an undelivered parcel
// @Tags Parcels
// @Param postId path string true "Post ID"
// @Param id path string true "Parcel ID"
// @Success 204
// @Router /undelivered-parcel-posts/{postId}/parcels/{id} [delete]
func (h *ParcelHandler) DeleteParcel(c *gin.Context) {
	if err := h.service.DeleteParcel(c.Request.Context(), c.Param("postId"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
