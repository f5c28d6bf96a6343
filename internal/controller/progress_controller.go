package controller

import (
	"codedrill_backend/internal/service"
	"codedrill_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// Read godoc
// @Summary Progress for one problem
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ProgressView}
// @Router /api/progress/{slug} [get]
func (c *ProgressController) Read(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.ProgressService.Read(claims.UserID, ctx.Param("slug"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Index godoc
// @Summary Status per problem slug for the caller
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/progress [get]
func (c *ProgressController) Index(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	index, err := c.ProgressService.StatusIndex(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, index)
}

type ProgressRequest struct {
	Solved   bool   `json:"solved"`
	LastCode string `json:"lastCode"`
}

// Record godoc
// @Summary Upsert progress for one problem
// @Tags progress
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/progress/{slug} [post]
func (c *ProgressController) Record(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.Record(claims.UserID, ctx.Param("slug"), req.Solved, req.LastCode); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"ok": true})
}

// DailyStats godoc
// @Summary Per-day solved/attempted counts over a trailing window
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param days query int false "window size, 1..90 (default 14)"
// @Success 200 {object} util.Response{data=[]service.DailyStat}
// @Router /api/stats/daily [get]
func (c *ProgressController) DailyStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "14"))
	stats, err := c.ProgressService.DailyStats(claims.UserID, days)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
