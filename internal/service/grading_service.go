package service

import (
	"corp_lms_backend/internal/model"
	"corp_lms_backend/internal/repository"
	"corp_lms_backend/internal/util"
	"corp_lms_backend/pkg/monitoring"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
)

type GradingService struct {
	SubmissionRepo   *repository.SubmissionRepository
	QuizRepo         *repository.QuizRepository
	CompletionRepo   *repository.CompletionRepository
	NotificationRepo *repository.NotificationRepository
}

func NewGradingService(submissionRepo *repository.SubmissionRepository, quizRepo *repository.QuizRepository, completionRepo *repository.CompletionRepository, notificationRepo *repository.NotificationRepository) *GradingService {
	return &GradingService{
		SubmissionRepo:   submissionRepo,
		QuizRepo:         quizRepo,
		CompletionRepo:   completionRepo,
		NotificationRepo: notificationRepo,
	}
}

func (s *GradingService) ListPending(quizID string, page, limit int) ([]model.QuizSubmission, int64, error) {
	return s.SubmissionRepo.ListPending(quizID, page, limit)
}

type ReviewAnswer struct {
	AnswerID      string             `json:"answerId"`
	QuestionID    string             `json:"questionId"`
	QuestionText  string             `json:"questionText"`
	QuestionType  model.QuestionType `json:"questionType"`
	Weight        float64            `json:"weight"`
	SelectedText  string             `json:"selectedText,omitempty"`
	AnswerText    string             `json:"answerText,omitempty"`
	ReferenceText string             `json:"referenceText,omitempty"` // grading aid for free-text
	AutoScore     float64            `json:"autoScore"`
	ManualScore   *float64           `json:"manualScore,omitempty"`
}

type SubmissionReview struct {
	Submission *model.QuizSubmission `json:"submission"`
	Quiz       *model.Quiz           `json:"quiz"`
	Answers    []ReviewAnswer        `json:"answers"`
}

// GetSubmissionReview assembles everything a reviewer needs: the learner's
// answers side by side with weights and reference answers.
func (s *GradingService) GetSubmissionReview(submissionID string) (*SubmissionReview, error) {
	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	} else if err != nil {
		return nil, err
	}

	quiz, err := s.QuizRepo.FindByID(submission.QuizID)
	if err != nil {
		return nil, err
	}

	questionMap := make(map[string]*model.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		questionMap[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	review := &SubmissionReview{Submission: submission, Quiz: quiz}
	for _, a := range submission.Answers {
		q, ok := questionMap[a.QuestionID]
		if !ok {
			continue // question deleted since the attempt
		}

		ra := ReviewAnswer{
			AnswerID:     a.ID,
			QuestionID:   q.ID,
			QuestionText: q.Text,
			QuestionType: q.Type,
			Weight:       q.Weight,
			AutoScore:    a.AutoScore,
			ManualScore:  a.ManualScore,
		}
		if q.Type.IsObjective() {
			for _, opt := range q.Options {
				if opt.ID == a.SelectedOptionID {
					ra.SelectedText = opt.Text
					break
				}
			}
		} else {
			ra.AnswerText = a.AnswerText
			ra.ReferenceText = q.CorrectAnswer
		}
		review.Answers = append(review.Answers, ra)
	}
	return review, nil
}

type GradeSubmissionReq struct {
	// ManualScores maps answer id to the reviewer's score. Scores are
	// clamped to [0, question weight]; unscored free-text answers count 0.
	ManualScores map[string]float64 `json:"manualScores"`
}

type GradeSubmissionResult struct {
	SubmissionID string `json:"submissionId"`
	FinalScore   int    `json:"finalScore"`
	Passed       bool   `json:"passed"`
}

// GradeSubmission is the single finalize action: it combines the stored auto
// scores with the reviewer's manual scores into the final percentage, marks
// the submission graded and, for CLOSED_LOOP quizzes, posts the completion
// record, all in one transaction.
func (s *GradingService) GradeSubmission(submissionID string, req GradeSubmissionReq) (*GradeSubmissionResult, error) {
	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	} else if err != nil {
		return nil, err
	}
	if submission.Status == model.SubmissionGraded {
		return nil, util.ErrAlreadyGraded
	}

	quiz, err := s.QuizRepo.FindByID(submission.QuizID)
	if err != nil {
		return nil, err
	}

	questionMap := make(map[string]*model.Question, len(quiz.Questions))
	for i := range quiz.Questions {
		questionMap[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	var autoScore, manualScore float64
	for i := range submission.Answers {
		a := &submission.Answers[i]
		q, ok := questionMap[a.QuestionID]
		if !ok {
			continue
		}
		if q.Type.IsObjective() {
			autoScore += a.AutoScore
			continue
		}
		score := clampManualScore(req.ManualScores[a.ID], q.Weight)
		a.ManualScore = &score
		manualScore += score
	}

	objectiveWeight, manualWeight := quizWeights(quiz.Questions)
	final := finalPercentage(autoScore, manualScore, objectiveWeight+manualWeight)
	passed := final >= quiz.PassingScore
	now := time.Now()

	err = s.SubmissionRepo.DB.Transaction(func(tx *gorm.DB) error {
		for i := range submission.Answers {
			if submission.Answers[i].ManualScore == nil {
				continue
			}
			if err := tx.Model(&model.Answer{}).
				Where("id = ?", submission.Answers[i].ID).
				Update("manual_score", *submission.Answers[i].ManualScore).Error; err != nil {
				return err
			}
		}

		submission.Status = model.SubmissionGraded
		submission.FinalScore = final
		submission.GradedAt = &now
		if err := tx.Save(submission).Error; err != nil {
			return err
		}

		if quiz.QuizType == model.ClosedLoop {
			completion := &model.UserCompletedCourse{
				UserID:      submission.UserID,
				CourseID:    quiz.CourseID,
				Score:       final,
				CompletedAt: now,
			}
			if err := s.CompletionRepo.UpsertTx(tx, completion); err != nil {
				return err
			}
		}

		note := &model.Notification{
			UserID:  submission.UserID,
			Title:   "Quiz graded",
			Body:    fmt.Sprintf("Your quiz attempt has been graded: %d%%", final),
			RefType: "quiz_submission",
			RefID:   submission.ID,
		}
		return tx.Create(note).Error
	})
	if err != nil {
		return nil, err
	}

	s.CompletionRepo.InvalidateLeaderboard()

	monitoring.GradedSubmissions.WithLabelValues(
		string(quiz.QuizType),
		strconv.FormatBool(passed),
	).Inc()

	return &GradeSubmissionResult{
		SubmissionID: submission.ID,
		FinalScore:   final,
		Passed:       passed,
	}, nil
}
