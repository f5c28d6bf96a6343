package controller

import (
	"codedrill_backend/internal/service"
	"codedrill_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ProblemController struct {
	ProblemService *service.ProblemService
	RunnerService  *service.RunnerService
}

func NewProblemController(problemService *service.ProblemService, runnerService *service.RunnerService) *ProblemController {
	return &ProblemController{
		ProblemService: problemService,
		RunnerService:  runnerService,
	}
}

// List godoc
// @Summary Published problems with fixture tests inline
// @Tags problems
// @Produce json
// @Success 200 {object} util.Response{data=[]service.ProblemView}
// @Router /api/problems [get]
func (c *ProblemController) List(ctx *gin.Context) {
	problems, err := c.ProblemService.ListPublished(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, problems)
}

// Get godoc
// @Summary One published problem by slug
// @Tags problems
// @Produce json
// @Success 200 {object} util.Response{data=service.ProblemView}
// @Failure 404 {object} util.Response
// @Router /api/problems/{slug} [get]
func (c *ProblemController) Get(ctx *gin.Context) {
	problem, err := c.ProblemService.GetPublished(ctx.Param("slug"))
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

// Run godoc
// @Summary Execute submitted code against a problem's fixture tests
// @Description Runs the code in an embedded JS engine, grades each fixture and
// @Description updates the caller's progress. Monotonic solved status.
// @Tags problems
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.RunRequest true "code and run options"
// @Success 200 {object} util.Response{data=service.RunResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/problems/{slug}/run [post]
func (c *ProblemController) Run(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.RunRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Code == "" {
		util.BadRequest(ctx, "code required")
		return
	}

	problem, err := c.ProblemService.GetPublished(ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, util.ErrProblemNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	result, err := c.RunnerService.Run(claims.UserID, problem, &req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, result)
}
