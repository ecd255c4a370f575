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

type todoService interface {
	Save(ctx context.Context, userID string, req dto.SaveTodoRequest) (*models.Todo, error)
	Check(ctx context.Context, id string, req dto.CheckTodoRequest) error
	List(ctx context.Context) ([]models.Todo, error)
	Delete(ctx context.Context, id string) error
	UserNames(ctx context.Context) ([]string, error)
}

// TodoHandler manages the shared staff todo list.
type TodoHandler struct {
	service todoService
}

// NewTodoHandler constructs the handler.
func NewTodoHandler(service todoService) *TodoHandler {
	return &TodoHandler{service: service}
}

// Save godoc
// @Summary Save a todo
// @Tags Todo
// @Accept json
// @Produce json
// @Param payload body dto.SaveTodoRequest true "Todo"
// @Success 201 {object} response.Envelope
// @Router /todo/save [post]
func (h *TodoHandler) Save(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SaveTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "투두 요청 형식이 올바르지 않습니다."))
		return
	}
	todo, err := h.service.Save(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "투두를 저장했습니다.", todo)
}

// Check godoc
// @Summary Check or uncheck a todo
// @Tags Todo
// @Accept json
// @Produce json
// @Param todoId path string true "Todo ID"
// @Param payload body dto.CheckTodoRequest true "Check flag"
// @Success 200 {object} response.Envelope
// @Router /todo/{todoId}/check [put]
func (h *TodoHandler) Check(c *gin.Context) {
	var req dto.CheckTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "checkYn 값이 필요합니다."))
		return
	}
	if err := h.service.Check(c.Request.Context(), c.Param("todoId"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "투두 상태를 변경했습니다.", nil)
}

// List godoc
// @Summary List todos, unchecked first
// @Tags Todo
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /todo/list [get]
func (h *TodoHandler) List(c *gin.Context) {
	todos, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, todos, nil)
}

// Delete godoc
// @Summary Delete a todo
// @Tags Todo
// @Param todoId path string true "Todo ID"
// @Success 204
// @Router /todo/delete/{todoId} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("todoId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UserNames godoc
// @Summary Names of every staff account
// @Tags Todo
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /todo/user-name [get]
func (h *TodoHandler) UserNames(c *gin.Context) {
	names, err := h.service.UserNames(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, names, nil)
}
