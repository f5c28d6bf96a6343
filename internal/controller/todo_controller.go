package controller

import (
	"codedrill_backend/internal/service"
	"codedrill_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type TodoController struct {
	TodoService *service.TodoService
}

func NewTodoController(todoService *service.TodoService) *TodoController {
	return &TodoController{TodoService: todoService}
}

// List godoc
// @Summary The caller's todos, newest first
// @Tags todos
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Todo}
// @Router /api/todos [get]
func (c *TodoController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	todos, err := c.TodoService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, todos)
}

type CreateTodoRequest struct {
	Text string `json:"text"`
}

// Create godoc
// @Summary Add a todo
// @Tags todos
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Todo}
// @Failure 400 {object} util.Response
// @Router /api/todos [post]
func (c *TodoController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateTodoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	todo, err := c.TodoService.Create(claims.UserID, req.Text)
	if err != nil {
		if errors.Is(err, util.ErrTextRequired) {
			util.BadRequest(ctx, "Text required")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, todo)
}

type PatchTodoRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// Patch godoc
// @Summary Update a todo's text or completed flag
// @Tags todos
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Todo}
// @Failure 404 {object} util.Response
// @Router /api/todos/{id} [patch]
func (c *TodoController) Patch(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req PatchTodoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	todo, err := c.TodoService.Patch(ctx.Param("id"), claims.UserID, req.Text, req.Completed)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTodoNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrTextRequired):
			util.BadRequest(ctx, "Text required")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, todo)
}

// Delete godoc
// @Summary Delete a todo
// @Tags todos
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/todos/{id} [delete]
func (c *TodoController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.TodoService.Delete(ctx.Param("id"), claims.UserID); err != nil {
		if errors.Is(err, util.ErrTodoNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"ok": true})
}
