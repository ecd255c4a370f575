package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dominest-api/internal/dto"
	"github.com/noah-isme/dominest-api/internal/models"
)

type todoServiceStub struct {
	savedBy string
	checked map[string]bool
}

func (s *todoServiceStub) Save(_ context.Context, userID string, req dto.SaveTodoRequest) (*models.Todo, error) {
	s.savedBy = userID
	return &models.Todo{ID: "todo-1", Task: req.Task}, nil
}

func (s *todoServiceStub) Check(_ context.Context, id string, req dto.CheckTodoRequest) error {
	if s.checked == nil {
		s.checked = map[string]bool{}
	}
	s.checked[id] = *req.CheckYn
	return nil
}

func (s *todoServiceStub) List(context.Context) ([]models.Todo, error) { return nil, nil }

func (s *todoServiceStub) Delete(context.Context, string) error { return nil }

func (s *todoServiceStub) UserNames(context.Context) ([]string, error) {
	return []string{"김사감", "이조교"}, nil
}

func TestTodoHandlerSave(t *testing.T) {
	svc := &todoServiceStub{}
	h := NewTodoHandler(svc)

	c, w := newTestContext(http.MethodPost, "/todo/save", jsonBody(t, dto.SaveTodoRequest{Task: "세탁기 점검"}), staffClaims)
	h.Save(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "user-1", svc.savedBy)
	assert.Equal(t, "투두를 저장했습니다.", decodeEnvelope(t, w).Message)
}

func TestTodoHandlerCheck(t *testing.T) {
	svc := &todoServiceStub{}
	h := NewTodoHandler(svc)

	c, w := newTestContext(http.MethodPut, "/todo/t-1/check", strings.NewReader(`{"checkYn":false}`), staffClaims)
	c.AddParam("todoId", "t-1")
	h.Check(c)

	require.Equal(t, http.StatusOK, w.Code)
	checked, ok := svc.checked["t-1"]
	require.True(t, ok)
	assert.False(t, checked)
}

func TestTodoHandlerCheckRejectsMalformedBody(t *testing.T) {
	svc := &todoServiceStub{}
	h := NewTodoHandler(svc)

	c, w := newTestContext(http.MethodPut, "/todo/t-1/check", strings.NewReader(`{"checkYn":"yes"}`), staffClaims)
	c.AddParam("todoId", "t-1")
	h.Check(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.checked)
}

func TestTodoHandlerUserNames(t *testing.T) {
	h := NewTodoHandler(&todoServiceStub{})

	c, w := newTestContext(http.MethodGet, "/todo/user-name", nil, staffClaims)
	h.UserNames(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "이조교")
}
