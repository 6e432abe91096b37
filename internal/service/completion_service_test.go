package service

import (
	"corp_lms_backend/internal/model"
	"corp_lms_backend/internal/util"
	"errors"
	"testing"
	"time"
)

func strPtr(v string) *string { return &v }

// mustCreatePath builds a published path over the given courses.
func (e *testEnv) mustCreatePath(t *testing.T, title string, courseIDs []uint) *model.LearningPath {
	t.Helper()
	path, err := e.Path.CreatePath(1, LearningPathReq{Title: strPtr(title), CourseIDs: &courseIDs})
	if err != nil {
		t.Fatalf("create path: %v", err)
	}
	return path
}

// submitSingleChoice answers the course's one-question quiz, correctly or not.
func (e *testEnv) submitSingleChoice(t *testing.T, userID, courseID uint, correct bool) *SubmitQuizResult {
	t.Helper()
	quiz, err := e.Quizzes.FindByCourseID(courseID)
	if err != nil {
		t.Fatalf("load quiz: %v", err)
	}
	q := &quiz.Questions[0]
	optionID := wrongOptionID(t, q)
	if correct {
		optionID = correctOptionID(t, q)
	}
	result, err := e.Submission.SubmitQuiz(userID, courseID, SubmitQuizReq{
		Answers: []AnswerReq{{QuestionID: q.ID, SelectedOptionID: optionID}},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return result
}

func TestGetCourseStatusNoQuiz(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)
	course := e.mustCreateCourse(t, "Onboarding")

	status, err := e.Completion.GetCourseStatus(user.ID, course.ID)
	if err != nil {
		t.Fatalf("GetCourseStatus: %v", err)
	}
	if status.Completed || status.Passed {
		t.Error("fresh course reported as completed")
	}
	if !status.CanAttempt {
		t.Error("fresh course should be attemptable")
	}
	if status.MaxAttempts != 0 || status.AttemptsUsed != 0 {
		t.Errorf("attempts = %d/%d, want 0/0", status.AttemptsUsed, status.MaxAttempts)
	}
}

func TestGetCourseStatusAttemptWindow(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)
	course := e.mustCreateCourse(t, "Go Basics")
	e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		PassingScore: intPtr(100),
		MaxAttempts:  intPtr(2),
		QuizType:     quizTypePtr(model.ClosedLoop),
		Questions:    &[]QuizQuestionReq{twoChoiceQuestion("q1", 1)},
	})

	e.submitSingleChoice(t, user.ID, course.ID, false)

	status, err := e.Completion.GetCourseStatus(user.ID, course.ID)
	if err != nil {
		t.Fatalf("GetCourseStatus: %v", err)
	}
	if !status.Completed {
		t.Error("finalized attempt should mark the course completed")
	}
	if status.Passed {
		t.Error("score 0 should not pass a 100 threshold")
	}
	if status.Score == nil || *status.Score != 0 {
		t.Errorf("score = %v, want 0", status.Score)
	}
	if status.AttemptsUsed != 1 || !status.CanAttempt {
		t.Errorf("after 1 of 2 attempts: used=%d canAttempt=%v", status.AttemptsUsed, status.CanAttempt)
	}

	e.submitSingleChoice(t, user.ID, course.ID, false)

	status, err = e.Completion.GetCourseStatus(user.ID, course.ID)
	if err != nil {
		t.Fatalf("GetCourseStatus: %v", err)
	}
	if status.AttemptsUsed != 2 || status.CanAttempt {
		t.Errorf("after 2 of 2 attempts: used=%d canAttempt=%v", status.AttemptsUsed, status.CanAttempt)
	}
	if status.HasPendingReset {
		t.Error("no reset request filed yet")
	}

	if _, err := e.Reset.RequestReset(user.ID, ResetRequestReq{CourseID: course.ID}); err != nil {
		t.Fatalf("RequestReset: %v", err)
	}
	status, err = e.Completion.GetCourseStatus(user.ID, course.ID)
	if err != nil {
		t.Fatalf("GetCourseStatus: %v", err)
	}
	if !status.HasPendingReset {
		t.Error("pending reset not surfaced in status")
	}
}

func TestGetCourseCertificate(t *testing.T) {
	e := newTestEnv(t)
	pass := e.mustCreateUser(t, "ada", model.Learner)
	fail := e.mustCreateUser(t, "bob", model.Learner)
	course := e.mustCreateCourse(t, "Go Basics")
	e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		PassingScore: intPtr(60),
		QuizType:     quizTypePtr(model.ClosedLoop),
		Questions:    &[]QuizQuestionReq{twoChoiceQuestion("q1", 1)},
	})

	e.submitSingleChoice(t, pass.ID, course.ID, true)
	e.submitSingleChoice(t, fail.ID, course.ID, false)

	cert, err := e.Completion.GetCourseCertificate(pass.ID, course.ID)
	if err != nil {
		t.Fatalf("GetCourseCertificate: %v", err)
	}
	if !cert.Eligible {
		t.Error("passing score should earn the certificate")
	}
	if cert.Score == nil || *cert.Score != 100 {
		t.Errorf("certificate score = %v, want 100", cert.Score)
	}
	if cert.CompletedAt == nil {
		t.Error("completion date missing on an eligible certificate")
	}

	cert, err = e.Completion.GetCourseCertificate(fail.ID, course.ID)
	if err != nil {
		t.Fatalf("GetCourseCertificate: %v", err)
	}
	if cert.Eligible {
		t.Error("failing score should not earn the certificate")
	}
	if cert.Score != nil {
		t.Errorf("ineligible certificate leaks score %d", *cert.Score)
	}
}

func TestGetCourseCertificateNoQuiz(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)
	course := e.mustCreateCourse(t, "Onboarding")
	seedCompletion(t, e, user.ID, course.ID, 100)

	cert, err := e.Completion.GetCourseCertificate(user.ID, course.ID)
	if err != nil {
		t.Fatalf("GetCourseCertificate: %v", err)
	}
	if !cert.Eligible {
		t.Error("a completed quiz-less course earns the certificate")
	}
}

func TestGetPathCertificateAllPassed(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)
	c1 := e.mustCreateCourse(t, "Intro")
	c2 := e.mustCreateCourse(t, "Advanced")
	path := e.mustCreatePath(t, "Backend Track", []uint{c1.ID, c2.ID})

	earlier := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	later := time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC)
	if err := e.Completions.Upsert(&model.UserCompletedCourse{UserID: user.ID, CourseID: c1.ID, Score: 90, CompletedAt: later}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := e.Completions.Upsert(&model.UserCompletedCourse{UserID: user.ID, CourseID: c2.ID, Score: 80, CompletedAt: earlier}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	eligibility, err := e.Completion.GetPathCertificate(user.ID, path.ID)
	if err != nil {
		t.Fatalf("GetPathCertificate: %v", err)
	}
	if !eligibility.Eligible {
		t.Fatal("all courses passed, path should be eligible")
	}
	if eligibility.CompletedAt == nil || !eligibility.CompletedAt.Equal(later) {
		t.Errorf("path completion date = %v, want %v", eligibility.CompletedAt, later)
	}
	if len(eligibility.Courses) != 2 {
		t.Fatalf("course progress entries = %d, want 2", len(eligibility.Courses))
	}
	if eligibility.Courses[0].Title != "Intro" {
		t.Errorf("first course title = %q, want Intro", eligibility.Courses[0].Title)
	}
}

func TestGetPathCertificateOneFailed(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)
	c1 := e.mustCreateCourse(t, "Intro")
	c2 := e.mustCreateCourse(t, "Advanced")
	c3 := e.mustCreateCourse(t, "Untouched")
	e.mustCreateQuiz(t, c2.ID, QuizUpdateReq{
		PassingScore: intPtr(60),
		QuizType:     quizTypePtr(model.ClosedLoop),
		Questions:    &[]QuizQuestionReq{twoChoiceQuestion("q1", 1)},
	})
	path := e.mustCreatePath(t, "Backend Track", []uint{c1.ID, c2.ID, c3.ID})

	seedCompletion(t, e, user.ID, c1.ID, 100)
	seedCompletion(t, e, user.ID, c2.ID, 50) // below the 60 threshold

	eligibility, err := e.Completion.GetPathCertificate(user.ID, path.ID)
	if err != nil {
		t.Fatalf("GetPathCertificate: %v", err)
	}
	if eligibility.Eligible {
		t.Error("one failed course must block path eligibility")
	}
	if eligibility.CompletedAt != nil {
		t.Error("ineligible path should carry no completion date")
	}

	byCourse := map[uint]PathCourseProgress{}
	for _, p := range eligibility.Courses {
		byCourse[p.CourseID] = p
	}
	if !byCourse[c1.ID].Passed {
		t.Error("passed course reported as failed")
	}
	if byCourse[c2.ID].Passed {
		t.Error("below-threshold course reported as passed")
	}
	if byCourse[c3.ID].Passed || byCourse[c3.ID].Score != nil {
		t.Error("untouched course should have no progress")
	}
}

func TestGetPathCertificateMissing(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)

	_, err := e.Completion.GetPathCertificate(user.ID, 9999)
	if !errors.Is(err, util.ErrPathNotFound) {
		t.Fatalf("err = %v, want ErrPathNotFound", err)
	}
}

func TestGetHistory(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)
	c1 := e.mustCreateCourse(t, "Intro")
	c2 := e.mustCreateCourse(t, "Advanced")

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	seedCompletionAt(t, e, user.ID, c1.ID, 70, older)
	seedCompletionAt(t, e, user.ID, c2.ID, 95, newer)

	history, err := e.Completion.GetHistory(user.ID)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history entries = %d, want 2", len(history))
	}
	if history[0].CourseID != c2.ID {
		t.Errorf("history not ordered newest first, got course %d", history[0].CourseID)
	}
	if history[0].Course == nil || history[0].Course.Title != "Advanced" {
		t.Error("history entry missing its course")
	}
}

func TestGetLeaderboard(t *testing.T) {
	e := newTestEnv(t)
	ada := e.mustCreateUser(t, "ada", model.Learner)
	bob := e.mustCreateUser(t, "bob", model.Learner)
	c1 := e.mustCreateCourse(t, "One")
	c2 := e.mustCreateCourse(t, "Two")

	seedCompletion(t, e, ada.ID, c1.ID, 80)
	seedCompletion(t, e, ada.ID, c2.ID, 90)
	seedCompletion(t, e, bob.ID, c1.ID, 100)

	rows, err := e.Completion.GetLeaderboard(0) // 0 falls back to the default limit
	if err != nil {
		t.Fatalf("GetLeaderboard: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].UserID != ada.ID || rows[0].CompletedCourses != 2 {
		t.Errorf("top row = user %d with %d courses, want user %d with 2", rows[0].UserID, rows[0].CompletedCourses, ada.ID)
	}
	if rows[0].AverageScore != 85 {
		t.Errorf("average = %v, want 85", rows[0].AverageScore)
	}
	if rows[1].UserID != bob.ID || rows[1].AverageScore != 100 {
		t.Errorf("second row = user %d avg %v, want user %d avg 100", rows[1].UserID, rows[1].AverageScore, bob.ID)
	}
}
