package controller

import (
	"codedrill_backend/internal/service"
	"codedrill_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	LearningService *service.LearningService
}

func NewLearningController(learningService *service.LearningService) *LearningController {
	return &LearningController{LearningService: learningService}
}

// ListChapters godoc
// @Summary All roadmap chapters, sections first
// @Tags learning
// @Produce json
// @Success 200 {object} util.Response{data=[]model.LearningChapter}
// @Router /api/learning/chapters [get]
func (c *LearningController) ListChapters(ctx *gin.Context) {
	chapters, err := c.LearningService.ListChapters()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, chapters)
}

// GetChapter godoc
// @Summary One chapter page with its ordered content blocks
// @Tags learning
// @Produce json
// @Success 200 {object} util.Response{data=service.ChapterPageView}
// @Failure 404 {object} util.Response
// @Router /api/learning/chapters/{slug} [get]
func (c *LearningController) GetChapter(ctx *gin.Context) {
	page, err := c.LearningService.GetChapterPage(ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, page)
}

// Roadmap godoc
// @Summary The assembled roadmap tree: sections, children, orphans
// @Tags learning
// @Produce json
// @Success 200 {object} util.Response{data=service.RoadmapView}
// @Router /api/learning/roadmap [get]
func (c *LearningController) Roadmap(ctx *gin.Context) {
	view, err := c.LearningService.Roadmap()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// UpsertChapter godoc
// @Summary Create or update a chapter by slug
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ChapterInput true "chapter fields"
// @Success 200 {object} util.Response{data=model.LearningChapter}
// @Failure 400 {object} util.Response
// @Router /api/admin/learning/chapters [post]
func (c *LearningController) UpsertChapter(ctx *gin.Context) {
	var input service.ChapterInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chapter, err := c.LearningService.UpsertChapter(&input)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, chapter)
}

// DeleteChapter godoc
// @Summary Delete a chapter; sections cascade to their children
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/learning/chapters/{slug} [delete]
func (c *LearningController) DeleteChapter(ctx *gin.Context) {
	if err := c.LearningService.DeleteChapter(ctx.Param("slug")); err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"ok": true})
}

type ReorderRequest struct {
	ParentSlug string   `json:"parentSlug"`
	Slugs      []string `json:"slugs" binding:"required"`
}

// Reorder godoc
// @Summary Persist a dense 0..n-1 ordering for one sibling group
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ReorderRequest true "parent slug (empty for top level) and the new slug sequence"
// @Success 200 {object} util.Response{data=[]model.LearningChapter}
// @Failure 400 {object} util.Response
// @Router /api/admin/learning/chapters/reorder [post]
func (c *LearningController) Reorder(ctx *gin.Context) {
	var req ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.LearningService.Reorder(req.ParentSlug, req.Slugs); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// Reload: the stored ordering is the authority the client reconciles to.
	chapters, err := c.LearningService.ListChapters()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, chapters)
}

type SaveChapterPageRequest struct {
	service.ChapterInput
	Sections []service.BlockInput `json:"sections"`
}

// SaveChapterPage godoc
// @Summary Upsert chapter metadata plus its content blocks in display order
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ChapterPageView}
// @Failure 400 {object} util.Response
// @Router /api/admin/learning/chapters/{slug}/sections [post]
func (c *LearningController) SaveChapterPage(ctx *gin.Context) {
	var req SaveChapterPageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	req.ChapterInput.Slug = ctx.Param("slug")

	page, err := c.LearningService.SaveChapterPage(&req.ChapterInput, req.Sections)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, page)
}

type UpsertSectionRequest struct {
	ChapterID string `json:"chapterId" binding:"required"`
	service.BlockInput
}

// UpsertSection godoc
// @Summary Create or update one content block
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.LearningSection}
// @Failure 400 {object} util.Response
// @Router /api/admin/learning/sections [post]
func (c *LearningController) UpsertSection(ctx *gin.Context) {
	var req UpsertSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	block, err := c.LearningService.UpsertSection(req.ChapterID, &req.BlockInput)
	if err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, block)
}

// DeleteSection godoc
// @Summary Delete one content block
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/learning/sections/{id} [delete]
func (c *LearningController) DeleteSection(ctx *gin.Context) {
	if err := c.LearningService.DeleteSection(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrSectionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"ok": true})
}

// CleanupOrphans godoc
// @Summary Delete chapters that are neither sections nor attached to a parent
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/learning/cleanup-orphans [post]
func (c *LearningController) CleanupOrphans(ctx *gin.Context) {
	removed, err := c.LearningService.CleanupOrphans()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"removed": removed})
}

type AssignParentRequest struct {
	Slug       string `json:"slug" binding:"required"`
	ParentSlug string `json:"parentSlug" binding:"required"`
}

// AssignParent godoc
// @Summary Move an orphan chapter under a section by slug
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.LearningChapter}
// @Failure 404 {object} util.Response
// @Router /api/admin/learning/assign-parent [post]
func (c *LearningController) AssignParent(ctx *gin.Context) {
	var req AssignParentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chapter, err := c.LearningService.AssignParent(req.Slug, req.ParentSlug)
	if err != nil {
		if errors.Is(err, util.ErrChapterNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, chapter)
}
