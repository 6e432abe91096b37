package service

import (
	"corp_lms_backend/internal/model"
	"corp_lms_backend/internal/repository"
	"corp_lms_backend/internal/util"
	"corp_lms_backend/pkg/monitoring"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
)

type SubmissionService struct {
	Repo           *repository.SubmissionRepository
	QuizRepo       *repository.QuizRepository
	CompletionRepo *repository.CompletionRepository
}

func NewSubmissionService(repo *repository.SubmissionRepository, quizRepo *repository.QuizRepository, completionRepo *repository.CompletionRepository) *SubmissionService {
	return &SubmissionService{Repo: repo, QuizRepo: quizRepo, CompletionRepo: completionRepo}
}

type AnswerReq struct {
	QuestionID       string `json:"questionId" binding:"required"`
	SelectedOptionID string `json:"selectedOptionId"`
	AnswerText       string `json:"answerText"`
}

type SubmitQuizReq struct {
	Answers []AnswerReq `json:"answers" binding:"required"`
}

type SubmitQuizResult struct {
	SubmissionID  string                 `json:"submissionId"`
	Status        model.SubmissionStatus `json:"status"`
	FinalScore    *int                   `json:"finalScore,omitempty"` // only once graded
	Passed        *bool                  `json:"passed,omitempty"`
	PendingReview bool                   `json:"pendingReview"`
}

// SubmitQuiz records one attempt. Objective answers are scored immediately;
// if the quiz needs manual review the submission parks in pending_review,
// otherwise it finalizes on the spot. Only finalized CLOSED_LOOP attempts
// write a completion record.
func (s *SubmissionService) SubmitQuiz(userID, courseID uint, req SubmitQuizReq) (*SubmitQuizResult, error) {
	quiz, err := s.QuizRepo.FindByCourseID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	} else if err != nil {
		return nil, err
	}

	if quiz.MaxAttempts > 0 {
		count, err := s.Repo.CountByUserAndQuiz(userID, quiz.ID)
		if err != nil {
			return nil, err
		}
		if count >= int64(quiz.MaxAttempts) {
			return nil, util.ErrAttemptLimitReached
		}
	}

	answerByQuestion := make(map[string]AnswerReq, len(req.Answers))
	for _, a := range req.Answers {
		answerByQuestion[a.QuestionID] = a
	}

	var autoScore float64
	answers := make([]model.Answer, 0, len(quiz.Questions))
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		aReq := answerByQuestion[q.ID]

		answer := model.Answer{QuestionID: q.ID}
		if q.Type.IsObjective() {
			answer.SelectedOptionID = aReq.SelectedOptionID
			answer.AutoScore = scoreObjective(q, aReq.SelectedOptionID)
			autoScore += answer.AutoScore
		} else {
			answer.AnswerText = aReq.AnswerText
		}
		answers = append(answers, answer)
	}

	submission := &model.QuizSubmission{
		QuizID:      quiz.ID,
		UserID:      userID,
		Status:      model.SubmissionPendingReview,
		SubmittedAt: time.Now(),
	}

	result := &SubmitQuizResult{PendingReview: true}

	if !quiz.RequiresManualGrading() {
		objectiveWeight, manualWeight := quizWeights(quiz.Questions)
		final := finalPercentage(autoScore, 0, objectiveWeight+manualWeight)
		now := time.Now()
		submission.Status = model.SubmissionGraded
		submission.FinalScore = final
		submission.GradedAt = &now

		passed := final >= quiz.PassingScore
		result.PendingReview = false
		result.FinalScore = &final
		result.Passed = &passed
	}

	// The submission and its completion record commit together or not at all.
	completed := false
	err = s.Repo.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.CreateWithAnswersTx(tx, submission, answers); err != nil {
			return err
		}
		// Practice quizzes never touch completion records.
		if submission.Status == model.SubmissionGraded && quiz.QuizType == model.ClosedLoop {
			completed = true
			return s.CompletionRepo.UpsertTx(tx, &model.UserCompletedCourse{
				UserID:      userID,
				CourseID:    quiz.CourseID,
				Score:       submission.FinalScore,
				CompletedAt: time.Now(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.SubmissionID = submission.ID
	result.Status = submission.Status

	if completed {
		s.CompletionRepo.InvalidateLeaderboard()
	}
	if submission.Status == model.SubmissionGraded {
		monitoring.GradedSubmissions.WithLabelValues(
			string(quiz.QuizType),
			strconv.FormatBool(submission.FinalScore >= quiz.PassingScore),
		).Inc()
	}

	return result, nil
}

func (s *SubmissionService) GetSubmission(id string) (*model.QuizSubmission, error) {
	sub, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	}
	return sub, err
}

// ListMyAttempts returns a user's attempts for a course's quiz, newest first.
func (s *SubmissionService) ListMyAttempts(userID, courseID uint) ([]model.QuizSubmission, error) {
	quiz, err := s.QuizRepo.FindByCourseID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	} else if err != nil {
		return nil, err
	}
	return s.Repo.ListByUserAndQuiz(userID, quiz.ID)
}
