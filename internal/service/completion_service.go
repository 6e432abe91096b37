package service

import (
	"corp_lms_backend/internal/model"
	"corp_lms_backend/internal/repository"
	"corp_lms_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type CompletionService struct {
	Repo      *repository.CompletionRepository
	QuizRepo  *repository.QuizRepository
	PathRepo  *repository.LearningPathRepository
	ResetRepo *repository.ResetRequestRepository
	SubRepo   *repository.SubmissionRepository
}

func NewCompletionService(repo *repository.CompletionRepository, quizRepo *repository.QuizRepository, pathRepo *repository.LearningPathRepository, resetRepo *repository.ResetRequestRepository, subRepo *repository.SubmissionRepository) *CompletionService {
	return &CompletionService{
		Repo:      repo,
		QuizRepo:  quizRepo,
		PathRepo:  pathRepo,
		ResetRepo: resetRepo,
		SubRepo:   subRepo,
	}
}

// coursePassed derives the pass state: a completion record must exist and its
// score must reach the quiz's passing threshold. Courses without a quiz pass
// on any completion record.
func (s *CompletionService) coursePassed(userID, courseID uint) (bool, *model.UserCompletedCourse, error) {
	completion, err := s.Repo.FindByUserAndCourse(userID, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil, nil
	} else if err != nil {
		return false, nil, err
	}

	quiz, err := s.QuizRepo.FindByCourseID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, completion, nil
	} else if err != nil {
		return false, nil, err
	}

	return completion.Score >= quiz.PassingScore, completion, nil
}

type CourseStatus struct {
	CourseID        uint       `json:"courseId"`
	Completed       bool       `json:"completed"`
	Passed          bool       `json:"passed"`
	Score           *int       `json:"score,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	AttemptsUsed    int64      `json:"attemptsUsed"`
	MaxAttempts     int        `json:"maxAttempts"`
	CanAttempt      bool       `json:"canAttempt"`
	HasPendingReset bool       `json:"hasPendingReset"`
}

// GetCourseStatus is the learner-facing view of the attempt state machine.
func (s *CompletionService) GetCourseStatus(userID, courseID uint) (*CourseStatus, error) {
	status := &CourseStatus{CourseID: courseID, CanAttempt: true}

	passed, completion, err := s.coursePassed(userID, courseID)
	if err != nil {
		return nil, err
	}
	if completion != nil {
		status.Completed = true
		status.Passed = passed
		status.Score = &completion.Score
		status.CompletedAt = &completion.CompletedAt
	}

	quiz, err := s.QuizRepo.FindByCourseID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return status, nil
	} else if err != nil {
		return nil, err
	}

	status.MaxAttempts = quiz.MaxAttempts
	status.AttemptsUsed, err = s.SubRepo.CountByUserAndQuiz(userID, quiz.ID)
	if err != nil {
		return nil, err
	}
	if quiz.MaxAttempts > 0 && status.AttemptsUsed >= int64(quiz.MaxAttempts) {
		status.CanAttempt = false
	}

	status.HasPendingReset, err = s.ResetRepo.HasPending(userID, courseID)
	if err != nil {
		return nil, err
	}
	return status, nil
}

type CertificateEligibility struct {
	Eligible    bool       `json:"eligible"`
	Score       *int       `json:"score,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// GetCourseCertificate reports certificate eligibility for a single course.
// Nothing is persisted; eligibility is derived on every read.
func (s *CompletionService) GetCourseCertificate(userID, courseID uint) (*CertificateEligibility, error) {
	passed, completion, err := s.coursePassed(userID, courseID)
	if err != nil {
		return nil, err
	}
	out := &CertificateEligibility{Eligible: passed}
	if passed && completion != nil {
		out.Score = &completion.Score
		out.CompletedAt = &completion.CompletedAt
	}
	return out, nil
}

type PathCourseProgress struct {
	CourseID uint   `json:"courseId"`
	Title    string `json:"title"`
	Passed   bool   `json:"passed"`
	Score    *int   `json:"score,omitempty"`
}

type PathEligibility struct {
	PathID      uint                 `json:"pathId"`
	Eligible    bool                 `json:"eligible"`
	CompletedAt *time.Time           `json:"completedAt,omitempty"` // latest per-course date
	Courses     []PathCourseProgress `json:"courses"`
}

// GetPathCertificate derives learning-path eligibility: every course in the
// path must be passed. The shown completion date is the latest of the
// per-course completion dates.
func (s *CompletionService) GetPathCertificate(userID, pathID uint) (*PathEligibility, error) {
	path, err := s.PathRepo.FindByID(pathID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPathNotFound
	} else if err != nil {
		return nil, err
	}

	out := &PathEligibility{PathID: pathID, Eligible: len(path.Courses) > 0}
	var latest time.Time
	for _, pc := range path.Courses {
		passed, completion, err := s.coursePassed(userID, pc.CourseID)
		if err != nil {
			return nil, err
		}

		progress := PathCourseProgress{CourseID: pc.CourseID, Passed: passed}
		if pc.Course != nil {
			progress.Title = pc.Course.Title
		}
		if completion != nil {
			progress.Score = &completion.Score
			if completion.CompletedAt.After(latest) {
				latest = completion.CompletedAt
			}
		}
		if !passed {
			out.Eligible = false
		}
		out.Courses = append(out.Courses, progress)
	}

	if out.Eligible {
		out.CompletedAt = &latest
	}
	return out, nil
}

func (s *CompletionService) GetHistory(userID uint) ([]model.UserCompletedCourse, error) {
	return s.Repo.ListByUser(userID)
}

func (s *CompletionService) GetLeaderboard(limit int) ([]repository.LeaderboardRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.Leaderboard(limit)
}
