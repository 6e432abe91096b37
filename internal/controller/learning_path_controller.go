package controller

import (
	"corp_lms_backend/internal/model"
	"corp_lms_backend/internal/service"
	"corp_lms_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LearningPathController struct {
	Service *service.LearningPathService
}

func NewLearningPathController(svc *service.LearningPathService) *LearningPathController {
	return &LearningPathController{Service: svc}
}

// @Summary Create a learning path
// @Tags learning paths
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.LearningPathReq true "path info"
// @Success 201 {object} util.Response
// @Router /api/admin/learning-paths [post]
func (c *LearningPathController) CreatePath(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.LearningPathReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.Service.CreatePath(user.UserID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, path)
}

// @Summary Update a learning path
// @Tags learning paths
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "path id"
// @Success 200 {object} util.Response
// @Router /api/admin/learning-paths/{id} [put]
func (c *LearningPathController) UpdatePath(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid path id")
		return
	}

	var req service.LearningPathReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.Service.UpdatePath(uint(id), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPathNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrCourseNotFound):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, path)
}

// @Summary Learning path detail with ordered courses
// @Tags learning paths
// @Produce json
// @Security BearerAuth
// @Param id path int true "path id"
// @Success 200 {object} util.Response
// @Router /api/learning-paths/{id} [get]
func (c *LearningPathController) GetPath(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid path id")
		return
	}

	path, err := c.Service.GetPath(uint(id))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	user := util.GetUserFromContext(ctx)
	if !path.IsPublished && (user == nil || user.Role == model.Learner) {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, path)
}

// @Summary List learning paths
// @Tags learning paths
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/learning-paths [get]
func (c *LearningPathController) ListPaths(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	user := util.GetUserFromContext(ctx)
	publishedOnly := user == nil || user.Role == model.Learner

	paths, total, err := c.Service.ListPaths(page, limit, publishedOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: paths, Total: total, Page: page, Limit: limit})
}

// @Summary Delete a learning path
// @Tags learning paths
// @Produce json
// @Security BearerAuth
// @Param id path int true "path id"
// @Success 200 {object} util.Response
// @Router /api/admin/learning-paths/{id} [delete]
func (c *LearningPathController) DeletePath(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid path id")
		return
	}

	if err := c.Service.DeletePath(uint(id)); err != nil {
		if errors.Is(err, util.ErrPathNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}
