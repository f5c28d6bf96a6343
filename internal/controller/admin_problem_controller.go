package controller

import (
	"codedrill_backend/internal/service"
	"codedrill_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

// AdminProblemController owns the problem/test authoring surface. All routes
// sit behind the admin role gate.
type AdminProblemController struct {
	ProblemService *service.ProblemService
}

func NewAdminProblemController(problemService *service.ProblemService) *AdminProblemController {
	return &AdminProblemController{ProblemService: problemService}
}

// List godoc
// @Summary All problems, published or not
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Problem}
// @Router /api/admin/problems [get]
func (c *AdminProblemController) List(ctx *gin.Context) {
	problems, err := c.ProblemService.ListAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, problems)
}

// Create godoc
// @Summary Create a problem
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ProblemInput true "problem fields"
// @Success 201 {object} util.Response{data=model.Problem}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/admin/problems [post]
func (c *AdminProblemController) Create(ctx *gin.Context) {
	var input service.ProblemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if input.Title == "" || input.Difficulty == "" || input.Statement == "" {
		util.BadRequest(ctx, "Missing fields")
		return
	}

	problem, err := c.ProblemService.Create(ctx.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, util.ErrSlugTaken) {
			util.Conflict(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, problem)
}

// Patch godoc
// @Summary Partially update a problem
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Problem}
// @Failure 404 {object} util.Response
// @Router /api/admin/problems/{slug} [patch]
func (c *AdminProblemController) Patch(ctx *gin.Context) {
	var patch service.ProblemPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	problem, err := c.ProblemService.Patch(ctx.Request.Context(), ctx.Param("slug"), &patch)
	if err != nil {
		if errors.Is(err, util.ErrProblemNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, problem)
}

// Delete godoc
// @Summary Delete a problem and its tests
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/problems/{slug} [delete]
func (c *AdminProblemController) Delete(ctx *gin.Context) {
	if err := c.ProblemService.Delete(ctx.Request.Context(), ctx.Param("slug")); err != nil {
		if errors.Is(err, util.ErrProblemNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"ok": true})
}

// ListTests godoc
// @Summary Fixture tests of one problem
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ProblemTest}
// @Failure 404 {object} util.Response
// @Router /api/admin/problems/{slug}/tests [get]
func (c *AdminProblemController) ListTests(ctx *gin.Context) {
	tests, err := c.ProblemService.ListTests(ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, util.ErrProblemNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, tests)
}

// CreateTest godoc
// @Summary Add a fixture test to a problem
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.TestInput true "order, input array, expected value"
// @Success 201 {object} util.Response{data=model.ProblemTest}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/problems/{slug}/tests [post]
func (c *AdminProblemController) CreateTest(ctx *gin.Context) {
	var input service.TestInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.ProblemService.CreateTest(ctx.Request.Context(), ctx.Param("slug"), &input)
	if err != nil {
		if errors.Is(err, util.ErrProblemNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, test)
}

// UpdateTest godoc
// @Summary Update a fixture test
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.ProblemTest}
// @Failure 404 {object} util.Response
// @Router /api/admin/tests/{id} [patch]
func (c *AdminProblemController) UpdateTest(ctx *gin.Context) {
	var input service.TestInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.ProblemService.UpdateTest(ctx.Request.Context(), ctx.Param("id"), &input)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, test)
}

// DeleteTest godoc
// @Summary Delete a fixture test
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/tests/{id} [delete]
func (c *AdminProblemController) DeleteTest(ctx *gin.Context) {
	if err := c.ProblemService.DeleteTest(ctx.Request.Context(), ctx.Param("id")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"ok": true})
}
