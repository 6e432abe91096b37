package controller

import (
	"corp_lms_backend/internal/service"
	"corp_lms_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CompletionController struct {
	Service *service.CompletionService
}

func NewCompletionController(svc *service.CompletionService) *CompletionController {
	return &CompletionController{Service: svc}
}

// @Summary My standing on a course: attempts used, pass state, pending reset
// @Tags completions
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/status [get]
func (c *CompletionController) GetCourseStatus(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	status, err := c.Service.GetCourseStatus(user.UserID, uint(courseID))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, status)
}

// @Summary Certificate eligibility for a single course
// @Tags completions
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/certificate [get]
func (c *CompletionController) GetCourseCertificate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	cert, err := c.Service.GetCourseCertificate(user.UserID, uint(courseID))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, cert)
}

// @Summary Certificate eligibility for a learning path
// @Tags completions
// @Produce json
// @Security BearerAuth
// @Param id path int true "path id"
// @Success 200 {object} util.Response
// @Router /api/learning-paths/{id}/certificate [get]
func (c *CompletionController) GetPathCertificate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	pathID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid path id")
		return
	}

	cert, err := c.Service.GetPathCertificate(user.UserID, uint(pathID))
	if err != nil {
		if errors.Is(err, util.ErrPathNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, cert)
}

// @Summary My completion history
// @Tags completions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/completions/history [get]
func (c *CompletionController) GetHistory(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	history, err := c.Service.GetHistory(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, history)
}

// @Summary Completion leaderboard
// @Tags completions
// @Produce json
// @Security BearerAuth
// @Param limit query int false "rows" default(20)
// @Success 200 {object} util.Response
// @Router /api/completions/leaderboard [get]
func (c *CompletionController) GetLeaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	rows, err := c.Service.GetLeaderboard(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, rows)
}
