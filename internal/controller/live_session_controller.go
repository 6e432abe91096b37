package controller

import (
	"corp_lms_backend/internal/service"
	"corp_lms_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LiveSessionController struct {
	Service *service.LiveSessionService
}

func NewLiveSessionController(svc *service.LiveSessionService) *LiveSessionController {
	return &LiveSessionController{Service: svc}
}

// @Summary Schedule a live session for a course
// @Tags live sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param body body service.LiveSessionReq true "session info"
// @Success 201 {object} util.Response
// @Router /api/instructor/courses/{id}/sessions [post]
func (c *LiveSessionController) CreateSession(ctx *gin.Context) {
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

	var req service.LiveSessionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.Service.CreateSession(user.UserID, uint(courseID), req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, session)
}

// @Summary List a course's live sessions
// @Tags live sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/sessions [get]
func (c *LiveSessionController) ListSessions(ctx *gin.Context) {
	courseID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	sessions, err := c.Service.ListSessions(uint(courseID))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, sessions)
}

// @Summary End a live session
// @Tags live sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path int true "session id"
// @Success 200 {object} util.Response
// @Router /api/instructor/sessions/{sessionId}/end [post]
func (c *LiveSessionController) EndSession(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("sessionId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	session, err := c.Service.EndSession(uint(id))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrSessionAlreadyEnded):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, session)
}

// @Summary Poll whether a session has ended
// @Tags live sessions
// @Produce json
// @Security BearerAuth
// @Param sessionId path int true "session id"
// @Success 200 {object} util.Response
// @Router /api/sessions/{sessionId}/status [get]
func (c *LiveSessionController) SessionStatus(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("sessionId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid session id")
		return
	}

	status, err := c.Service.SessionStatus(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, status)
}
