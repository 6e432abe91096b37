package service

import (
	"corp_lms_backend/internal/model"
	"corp_lms_backend/internal/repository"
	"corp_lms_backend/pkg/database"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory sqlite database and runs the full
// migration against it.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testEnv struct {
	DB *gorm.DB

	Users       *repository.UserRepository
	Courses     *repository.CourseRepository
	Quizzes     *repository.QuizRepository
	Submissions *repository.SubmissionRepository
	Completions *repository.CompletionRepository
	Resets      *repository.ResetRequestRepository
	Notes       *repository.NotificationRepository
	Paths       *repository.LearningPathRepository
	Sessions    *repository.LiveSessionRepository

	Quiz       *QuizService
	Submission *SubmissionService
	Grading    *GradingService
	Reset      *ResetService
	Completion *CompletionService
	Path       *LearningPathService
	Session    *LiveSessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	e := &testEnv{
		DB:          db,
		Users:       repository.NewUserRepository(db),
		Courses:     repository.NewCourseRepository(db),
		Quizzes:     repository.NewQuizRepository(db),
		Submissions: repository.NewSubmissionRepository(db),
		Completions: repository.NewCompletionRepository(db, nil),
		Resets:      repository.NewResetRequestRepository(db),
		Notes:       repository.NewNotificationRepository(db),
		Paths:       repository.NewLearningPathRepository(db),
		Sessions:    repository.NewLiveSessionRepository(db, nil),
	}

	e.Quiz = NewQuizService(e.Quizzes, e.Courses)
	e.Submission = NewSubmissionService(e.Submissions, e.Quizzes, e.Completions)
	e.Grading = NewGradingService(e.Submissions, e.Quizzes, e.Completions, e.Notes)
	e.Reset = NewResetService(e.Resets, e.Courses, e.Completions)
	e.Completion = NewCompletionService(e.Completions, e.Quizzes, e.Paths, e.Resets, e.Submissions)
	e.Path = NewLearningPathService(e.Paths, e.Courses)
	e.Session = NewLiveSessionService(e.Sessions, e.Courses)
	return e
}

func (e *testEnv) mustCreateUser(t *testing.T, name string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{Name: name, Email: name + "@example.com", Password: "x", Role: role}
	if err := e.Users.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (e *testEnv) mustCreateCourse(t *testing.T, title string) *model.Course {
	t.Helper()
	course := &model.Course{Title: title, IsPublished: true, CreatorID: 1}
	if err := e.Courses.Create(course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	return course
}

func intPtr(v int) *int { return &v }

func quizTypePtr(v model.QuizType) *model.QuizType { return &v }

// mustCreateQuiz builds a quiz through the same edit path production uses.
func (e *testEnv) mustCreateQuiz(t *testing.T, courseID uint, req QuizUpdateReq) *model.Quiz {
	t.Helper()
	quiz, err := e.Quiz.UpdateQuiz(courseID, req)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz
}

// twoChoiceQuestion is a MULTIPLE_CHOICE question with options a and b, where
// a is correct.
func twoChoiceQuestion(text string, weight float64) QuizQuestionReq {
	return QuizQuestionReq{
		Text:          text,
		Type:          model.MultipleChoice,
		Weight:        weight,
		CorrectAnswer: text + " a",
		Options: []QuizOptionReq{
			{Text: text + " a"},
			{Text: text + " b"},
		},
	}
}

func shortAnswerQuestion(text string, weight float64) QuizQuestionReq {
	return QuizQuestionReq{
		Text:          text,
		Type:          model.ShortAnswer,
		Weight:        weight,
		CorrectAnswer: "reference answer for " + text,
	}
}

// correctOptionID finds the option a learner must pick to answer q correctly.
func correctOptionID(t *testing.T, q *model.Question) string {
	t.Helper()
	for _, opt := range q.Options {
		if opt.ID == q.CorrectAnswer {
			return opt.ID
		}
	}
	t.Fatalf("question %s has no option matching its correct answer", q.ID)
	return ""
}

// wrongOptionID finds any incorrect option of q.
func wrongOptionID(t *testing.T, q *model.Question) string {
	t.Helper()
	for _, opt := range q.Options {
		if opt.ID != q.CorrectAnswer {
			return opt.ID
		}
	}
	t.Fatalf("question %s has no incorrect option", q.ID)
	return ""
}

func questionByText(t *testing.T, quiz *model.Quiz, text string) *model.Question {
	t.Helper()
	for i := range quiz.Questions {
		if quiz.Questions[i].Text == text {
			return &quiz.Questions[i]
		}
	}
	t.Fatalf("no question with text %q", text)
	return nil
}
