package controller

import (
	"corp_lms_backend/internal/service"
	"corp_lms_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{Service: svc}
}

// @Summary Create or replace the quiz attached to a course
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Param body body service.QuizUpdateReq true "quiz definition"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{id}/quiz [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	courseID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	var req service.QuizUpdateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.UpdateQuiz(uint(courseID), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrCorrectOptionMissing):
			util.BadRequest(ctx, err.Error())
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, quiz)
}

// @Summary Quiz detail with answers, for editing and review
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{id}/quiz [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	courseID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	quiz, err := c.Service.GetQuizForCourse(uint(courseID))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, quiz)
}

// @Summary Quiz as presented to a learner, correct answers stripped
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/quiz [get]
func (c *QuizController) GetQuizForLearner(ctx *gin.Context) {
	courseID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	quiz, err := c.Service.GetQuizForLearner(uint(courseID))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, quiz)
}

// @Summary Delete the quiz attached to a course
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{id}/quiz [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	courseID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	if err := c.Service.DeleteQuiz(uint(courseID)); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": courseID})
}
