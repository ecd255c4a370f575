package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dominest-api/internal/models"
	"github.com/noah-isme/dominest-api/internal/repository"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
)

type favoriteRepoStub struct {
	rows       map[string]*models.Favorite
	users      userLookupStub
	raceOnce   bool
	createCall int
}

func (f *favoriteRepoStub) key(categoryID, userID string) string {
	return categoryID + "/" + userID
}

func (f *favoriteRepoStub) FindByCategoryAndUserEmail(ctx context.Context, categoryID, email string) (*models.Favorite, error) {
	user, err := f.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	row, ok := f.rows[f.key(categoryID, user.ID)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *row
	return &copied, nil
}

func (f *favoriteRepoStub) Create(ctx context.Context, favorite *models.Favorite) error {
	f.createCall++
	if f.raceOnce {
		f.raceOnce = false
		f.rows[f.key(favorite.CategoryID, favorite.UserID)] = &models.Favorite{ID: "winner", UserID: favorite.UserID, CategoryID: favorite.CategoryID, OnOff: true}
		return repository.ErrDuplicate
	}
	favorite.ID = "fav-1"
	copied := *favorite
	f.rows[f.key(favorite.CategoryID, favorite.UserID)] = &copied
	return nil
}

func (f *favoriteRepoStub) UpdateOnOff(ctx context.Context, favorite *models.Favorite) error {
	row, ok := f.rows[f.key(favorite.CategoryID, favorite.UserID)]
	if !ok {
		return sql.ErrNoRows
	}
	row.OnOff = favorite.OnOff
	return nil
}

type categoryRepoStub struct {
	categories map[string]models.Category
	favorites  *favoriteRepoStub
}

func (c categoryRepoStub) FindByID(ctx context.Context, id string) (*models.Category, error) {
	cat, ok := c.categories[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &cat, nil
}

func (c categoryRepoStub) ListFavoritedBy(ctx context.Context, userID string) ([]models.Category, error) {
	out := []models.Category{}
	for id, cat := range c.categories {
		if row, ok := c.favorites.rows[c.favorites.key(id, userID)]; ok && row.OnOff {
			out = append(out, cat)
		}
	}
	return out, nil
}

func newFavoriteFixture() (*FavoriteService, *favoriteRepoStub) {
	users := userLookupStub{users: map[string]*models.User{"u1": {ID: "u1", Email: "staff@dominest.test"}}}
	favorites := &favoriteRepoStub{rows: map[string]*models.Favorite{}, users: users}
	categories := categoryRepoStub{categories: map[string]models.Category{"c1": {ID: "c1", Name: "택배"}}, favorites: favorites}
	return NewFavoriteService(favorites, categories, users, nil), favorites
}

func TestFavoriteToggleCreatesThenFlips(t *testing.T) {
	svc, repo := newFavoriteFixture()
	ctx := context.Background()

	first, err := svc.Toggle(ctx, "c1", "staff@dominest.test")
	require.NoError(t, err)
	assert.True(t, first.OnOff)
	assert.Equal(t, 1, repo.createCall)

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	second, err := svc.Toggle(ctx, "c1", "staff@dominest.test")
	require.NoError(t, err)
	assert.False(t, second.OnOff)
	assert.Equal(t, 1, repo.createCall)

	third, err := svc.Toggle(ctx, "c1", "staff@dominest.test")
	require.NoError(t, err)
	assert.True(t, third.OnOff)

	list, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFavoriteToggleMissingReferences(t *testing.T) {
	svc, _ := newFavoriteFixture()

	_, err := svc.Toggle(context.Background(), "missing", "staff@dominest.test")
	requireCode(t, err, appErrors.ErrNotFound)

	_, err = svc.Toggle(context.Background(), "c1", "ghost@dominest.test")
	requireCode(t, err, appErrors.ErrNotFound)
}

func TestFavoriteToggleLosingCreateRaceFlipsExistingRow(t *testing.T) {
	svc, repo := newFavoriteFixture()
	repo.raceOnce = true

	resp, err := svc.Toggle(context.Background(), "c1", "staff@dominest.test")
	require.NoError(t, err)
	assert.False(t, resp.OnOff)
	assert.False(t, repo.rows["c1/u1"].OnOff)
}
