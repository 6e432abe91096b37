package controller

import (
	"corp_lms_backend/internal/service"
	"corp_lms_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ResetController struct {
	Service *service.ResetService
}

func NewResetController(svc *service.ResetService) *ResetController {
	return &ResetController{Service: svc}
}

// @Summary Ask for a completed course to be reopened
// @Tags reset requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ResetRequestReq true "course and reason"
// @Success 201 {object} util.Response
// @Router /api/reset-requests [post]
func (c *ResetController) RequestReset(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ResetRequestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	request, err := c.Service.RequestReset(user.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPendingResetExists):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, request)
}

// @Summary My reset requests
// @Tags reset requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/reset-requests/mine [get]
func (c *ResetController) ListMyRequests(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	requests, err := c.Service.ListMyRequests(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, requests)
}

// @Summary All reset requests, filterable by status
// @Tags reset requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/admin/reset-requests [get]
func (c *ResetController) ListRequests(ctx *gin.Context) {
	status := ctx.Query("status")
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	requests, total, err := c.Service.ListRequests(status, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: requests, Total: total, Page: page, Limit: limit})
}

// @Summary Approve a reset request, deleting the user's completion
// @Tags reset requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "request id"
// @Success 200 {object} util.Response
// @Router /api/admin/reset-requests/{id}/approve [post]
func (c *ResetController) ApproveReset(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid request id")
		return
	}

	if err := c.Service.ApproveReset(uint(id)); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrResetNotPending):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"approved": id})
}

// @Summary Reject a reset request
// @Tags reset requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "request id"
// @Success 200 {object} util.Response
// @Router /api/admin/reset-requests/{id}/reject [post]
func (c *ResetController) RejectReset(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid request id")
		return
	}

	if err := c.Service.RejectReset(uint(id)); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrResetNotPending):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"rejected": id})
}
