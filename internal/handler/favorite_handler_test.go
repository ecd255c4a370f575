package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
)

type favoriteServiceStub struct {
	categoryID string
	email      string
	state      bool
}

func (s *favoriteServiceStub) Toggle(_ context.Context, categoryID, email string) (*dto.FavoriteToggleResponse, error) {
	s.categoryID, s.email = categoryID, email
	s.state = !s.state
	return &dto.FavoriteToggleResponse{CategoryID: categoryID, OnOff: s.state}, nil
}

func (s *favoriteServiceStub) List(context.Context, string) ([]models.Category, error) {
	return []models.Category{{ID: "cat-1", Name: "택배"}}, nil
}

func TestFavoriteHandlerToggleUsesClaimEmail(t *testing.T) {
	svc := &favoriteServiceStub{}
	h := NewFavoriteHandler(svc)

	c, w := newTestContext(http.MethodPost, "/favorites/cat-1", nil, staffClaims)
	c.AddParam("categoryId", "cat-1")
	h.Toggle(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cat-1", svc.categoryID)
	assert.Equal(t, "staff@dominest.test", svc.email)
	assert.Equal(t, "즐겨찾기에 추가했습니다.", decodeEnvelope(t, w).Message)

	c, w = newTestContext(http.MethodPost, "/favorites/cat-1", nil, staffClaims)
	c.AddParam("categoryId", "cat-1")
	h.Toggle(c)
	assert.Equal(t, "즐겨찾기를 해제했습니다.", decodeEnvelope(t, w).Message)
}

func TestFavoriteHandlerRequiresClaims(t *testing.T) {
	h := NewFavoriteHandler(&favoriteServiceStub{})

	c, w := newTestContext(http.MethodGet, "/favorites", nil, nil)
	h.List(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
