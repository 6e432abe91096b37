package controller

import (
	"corp_lms_backend/internal/service"
	"corp_lms_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type GradingController struct {
	Service *service.GradingService
}

func NewGradingController(svc *service.GradingService) *GradingController {
	return &GradingController{Service: svc}
}

// @Summary Submissions waiting for manual review
// @Tags grading
// @Produce json
// @Security BearerAuth
// @Param quizId query string false "filter by quiz"
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/instructor/grading/pending [get]
func (c *GradingController) ListPending(ctx *gin.Context) {
	quizID := ctx.Query("quizId")
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	submissions, total, err := c.Service.ListPending(quizID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{List: submissions, Total: total, Page: page, Limit: limit})
}

// @Summary Submission with questions, reference answers and current scores
// @Tags grading
// @Produce json
// @Security BearerAuth
// @Param id path string true "submission id"
// @Success 200 {object} util.Response
// @Router /api/instructor/grading/{id} [get]
func (c *GradingController) GetSubmissionReview(ctx *gin.Context) {
	review, err := c.Service.GetSubmissionReview(ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, review)
}

// @Summary Record manual scores and finalize the submission
// @Tags grading
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "submission id"
// @Param body body service.GradeSubmissionReq true "per-question manual scores"
// @Success 200 {object} util.Response
// @Router /api/instructor/grading/{id} [post]
func (c *GradingController) GradeSubmission(ctx *gin.Context) {
	var req service.GradeSubmissionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.GradeSubmission(ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSubmissionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyGraded):
			util.Conflict(ctx, err.Error())
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, result)
}
