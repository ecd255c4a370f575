package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
	appErrors "github.com/noah-isme/dominest-api/pkg/errors"
)

type parcelRepoStub struct {
	posts   map[string]models.ParcelPost
	parcels map[string]models.Parcel
	seq     int
}

func newParcelRepoStub() *parcelRepoStub {
	return &parcelRepoStub{posts: map[string]models.ParcelPost{}, parcels: map[string]models.Parcel{}}
}

func (r *parcelRepoStub) CreatePost(ctx context.Context, post *models.ParcelPost) error {
	r.seq++
	post.ID = "post-1"
	r.posts[post.ID] = *post
	return nil
}

func (r *parcelRepoStub) FindPostByID(ctx context.Context, id string) (*models.ParcelPost, error) {
	post, ok := r.posts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &post, nil
}

func (r *parcelRepoStub) ListByPost(ctx context.Context, postID string) ([]models.Parcel, error) {
	out := []models.Parcel{}
	for _, p := range r.parcels {
		if p.PostID == postID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *parcelRepoStub) FindParcel(ctx context.Context, postID, id string) (*models.Parcel, error) {
	p, ok := r.parcels[id]
	if !ok || p.PostID != postID {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (r *parcelRepoStub) CreateParcel(ctx context.Context, parcel *models.Parcel) error {
	parcel.ID = "parcel-1"
	if parcel.ProcessState == "" {
		parcel.ProcessState = models.ParcelPending
	}
	r.parcels[parcel.ID] = *parcel
	return nil
}

func (r *parcelRepoStub) UpdateParcel(ctx context.Context, parcel *models.Parcel) error {
	r.parcels[parcel.ID] = *parcel
	return nil
}

func (r *parcelRepoStub) DeleteParcel(ctx context.Context, postID, id string) error {
	if _, err := r.FindParcel(ctx, postID, id); err != nil {
		return err
	}
	delete(r.parcels, id)
	return nil
}

func TestParcelServiceLifecycle(t *testing.T) {
	repo := newParcelRepoStub()
	svc := NewParcelService(repo, nil, nil)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "u1", dto.CreateParcelPostRequest{Title: "3월 미수령 택배"})
	require.NoError(t, err)

	parcel, err := svc.AddParcel(ctx, post.ID, dto.SaveParcelRequest{RecipientName: "홍길동", RecipientPhoneNum: "010-1234-5678"})
	require.NoError(t, err)
	assert.Equal(t, models.ParcelPending, parcel.ProcessState)

	updated, err := svc.UpdateParcel(ctx, post.ID, parcel.ID, dto.SaveParcelRequest{RecipientName: "홍길동", Instruction: "경비실 보관", ProcessState: "MESSAGE_SENT"})
	require.NoError(t, err)
	assert.Equal(t, models.ParcelMessageSent, updated.ProcessState)
	assert.Equal(t, "경비실 보관", updated.Instruction)

	kept, err := svc.UpdateParcel(ctx, post.ID, parcel.ID, dto.SaveParcelRequest{RecipientName: "홍길동"})
	require.NoError(t, err)
	assert.Equal(t, models.ParcelMessageSent, kept.ProcessState)

	detail, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, detail.Parcels, 1)

	require.NoError(t, svc.DeleteParcel(ctx, post.ID, parcel.ID))
	requireCode(t, svc.DeleteParcel(ctx, post.ID, parcel.ID), appErrors.ErrNotFound)
}

func TestParcelServiceErrors(t *testing.T) {
	svc := NewParcelService(newParcelRepoStub(), nil, nil)
	ctx := context.Background()

	_, err := svc.AddParcel(ctx, "missing", dto.SaveParcelRequest{RecipientName: "홍길동"})
	requireCode(t, err, appErrors.ErrNotFound)

	_, err = svc.AddParcel(ctx, "missing", dto.SaveParcelRequest{RecipientName: "홍길동", ProcessState: "LOST"})
	requireCode(t, err, appErrors.ErrValidation)

	_, err = svc.CreatePost(ctx, "u1", dto.CreateParcelPostRequest{})
	requireCode(t, err, appErrors.ErrValidation)

	_, err = svc.UpdateParcel(ctx, "missing", "x", dto.SaveParcelRequest{RecipientName: "홍길동"})
	requireCode(t, err, appErrors.ErrNotFound)
}
