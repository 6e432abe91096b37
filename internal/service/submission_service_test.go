package service

import (
	"corp_lms_backend/internal/model"
	"corp_lms_backend/internal/util"
	"errors"
	"testing"
)

func TestSubmitQuizObjectiveFinalizesImmediately(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)
	course := e.mustCreateCourse(t, "Go Basics")
	quiz := e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		PassingScore: intPtr(60),
		QuizType:     quizTypePtr(model.ClosedLoop),
		Questions: &[]QuizQuestionReq{
			twoChoiceQuestion("q1", 1),
			twoChoiceQuestion("q2", 1),
		},
	})
	q1 := questionByText(t, quiz, "q1")
	q2 := questionByText(t, quiz, "q2")

	result, err := e.Submission.SubmitQuiz(user.ID, course.ID, SubmitQuizReq{
		Answers: []AnswerReq{
			{QuestionID: q1.ID, SelectedOptionID: correctOptionID(t, q1)},
			{QuestionID: q2.ID, SelectedOptionID: wrongOptionID(t, q2)},
		},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}

	if result.PendingReview {
		t.Error("purely objective quiz should finalize on submit")
	}
	if result.Status != model.SubmissionGraded {
		t.Errorf("status = %s, want graded", result.Status)
	}
	if result.FinalScore == nil || *result.FinalScore != 50 {
		t.Errorf("final score = %v, want 50", result.FinalScore)
	}
	if result.Passed == nil || *result.Passed {
		t.Error("50%% should not pass a 60%% threshold")
	}

	// A finalized CLOSED_LOOP attempt writes the completion record.
	completion, err := e.Completions.FindByUserAndCourse(user.ID, course.ID)
	if err != nil {
		t.Fatalf("completion lookup: %v", err)
	}
	if completion.Score != 50 {
		t.Errorf("completion score = %d, want 50", completion.Score)
	}
}

func TestSubmitQuizRollsBackWhenCompletionWriteFails(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)
	course := e.mustCreateCourse(t, "Go Basics")
	quiz := e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		PassingScore: intPtr(60),
		QuizType:     quizTypePtr(model.ClosedLoop),
		Questions:    &[]QuizQuestionReq{twoChoiceQuestion("q1", 1)},
	})
	q1 := questionByText(t, quiz, "q1")

	// Break the completion table so the upsert inside the submit transaction
	// fails after the submission rows were written.
	if err := e.DB.Migrator().DropTable(&model.UserCompletedCourse{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err := e.Submission.SubmitQuiz(user.ID, course.ID, SubmitQuizReq{
		Answers: []AnswerReq{{QuestionID: q1.ID, SelectedOptionID: correctOptionID(t, q1)}},
	})
	if err == nil {
		t.Fatal("submit succeeded with no completion table")
	}

	// All or nothing: the failed attempt must not count against the user.
	count, err := e.Submissions.CountByUserAndQuiz(user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("submissions after rollback = %d, want 0", count)
	}
}

func TestSubmitQuizAllCorrectPasses(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)
	course := e.mustCreateCourse(t, "Go Basics")
	quiz := e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		PassingScore: intPtr(80),
		Questions: &[]QuizQuestionReq{
			twoChoiceQuestion("q1", 2),
			twoChoiceQuestion("q2", 3),
		},
	})
	q1 := questionByText(t, quiz, "q1")
	q2 := questionByText(t, quiz, "q2")

	result, err := e.Submission.SubmitQuiz(user.ID, course.ID, SubmitQuizReq{
		Answers: []AnswerReq{
			{QuestionID: q1.ID, SelectedOptionID: correctOptionID(t, q1)},
			{QuestionID: q2.ID, SelectedOptionID: correctOptionID(t, q2)},
		},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if result.FinalScore == nil || *result.FinalScore != 100 {
		t.Errorf("final score = %v, want 100", result.FinalScore)
	}
	if result.Passed == nil || !*result.Passed {
		t.Error("full marks should pass")
	}
}

func TestSubmitQuizManualQuestionsParkPending(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)
	course := e.mustCreateCourse(t, "Go Basics")
	quiz := e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		QuizType: quizTypePtr(model.ClosedLoop),
		Questions: &[]QuizQuestionReq{
			twoChoiceQuestion("q1", 1),
			shortAnswerQuestion("q2", 2),
		},
	})
	q1 := questionByText(t, quiz, "q1")
	q2 := questionByText(t, quiz, "q2")

	result, err := e.Submission.SubmitQuiz(user.ID, course.ID, SubmitQuizReq{
		Answers: []AnswerReq{
			{QuestionID: q1.ID, SelectedOptionID: correctOptionID(t, q1)},
			{QuestionID: q2.ID, AnswerText: "my essay"},
		},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}

	if !result.PendingReview {
		t.Error("quiz with free-text questions should wait for review")
	}
	if result.Status != model.SubmissionPendingReview {
		t.Errorf("status = %s, want pending_review", result.Status)
	}
	if result.FinalScore != nil {
		t.Errorf("final score set before grading: %v", *result.FinalScore)
	}

	// No completion record before the reviewer's grade lands.
	if _, err := e.Completions.FindByUserAndCourse(user.ID, course.ID); err == nil {
		t.Error("completion written before grading")
	}

	// The objective part is scored at submit time.
	submission, err := e.Submission.GetSubmission(result.SubmissionID)
	if err != nil {
		t.Fatalf("GetSubmission: %v", err)
	}
	for _, a := range submission.Answers {
		if a.QuestionID == q1.ID && a.AutoScore != 1 {
			t.Errorf("auto score = %v, want 1", a.AutoScore)
		}
		if a.QuestionID == q2.ID && a.AnswerText != "my essay" {
			t.Errorf("answer text = %q", a.AnswerText)
		}
	}
}

func TestSubmitQuizOpenLoopNeverWritesCompletion(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)
	course := e.mustCreateCourse(t, "Go Basics")
	quiz := e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		QuizType: quizTypePtr(model.OpenLoop),
		Questions: &[]QuizQuestionReq{
			twoChoiceQuestion("q1", 1),
		},
	})
	q1 := questionByText(t, quiz, "q1")

	result, err := e.Submission.SubmitQuiz(user.ID, course.ID, SubmitQuizReq{
		Answers: []AnswerReq{{QuestionID: q1.ID, SelectedOptionID: correctOptionID(t, q1)}},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}

	// Practice quizzes grade instantly for feedback but never complete a course.
	if result.FinalScore == nil || *result.FinalScore != 100 {
		t.Errorf("final score = %v, want 100", result.FinalScore)
	}
	if _, err := e.Completions.FindByUserAndCourse(user.ID, course.ID); err == nil {
		t.Error("practice attempt wrote a completion record")
	}
}

func TestSubmitQuizAttemptLimit(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)
	course := e.mustCreateCourse(t, "Go Basics")
	quiz := e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		MaxAttempts: intPtr(2),
		Questions:   &[]QuizQuestionReq{twoChoiceQuestion("q1", 1)},
	})
	q1 := questionByText(t, quiz, "q1")
	answers := SubmitQuizReq{
		Answers: []AnswerReq{{QuestionID: q1.ID, SelectedOptionID: wrongOptionID(t, q1)}},
	}

	for i := 0; i < 2; i++ {
		if _, err := e.Submission.SubmitQuiz(user.ID, course.ID, answers); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}

	_, err := e.Submission.SubmitQuiz(user.ID, course.ID, answers)
	if !errors.Is(err, util.ErrAttemptLimitReached) {
		t.Fatalf("err = %v, want ErrAttemptLimitReached", err)
	}

	// Another learner is not affected by this user's spent attempts.
	other := e.mustCreateUser(t, "bob", model.Learner)
	if _, err := e.Submission.SubmitQuiz(other.ID, course.ID, answers); err != nil {
		t.Fatalf("other user's attempt: %v", err)
	}
}

func TestSubmitQuizUnlimitedAttempts(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)
	course := e.mustCreateCourse(t, "Go Basics")
	quiz := e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		MaxAttempts: intPtr(0),
		Questions:   &[]QuizQuestionReq{twoChoiceQuestion("q1", 1)},
	})
	q1 := questionByText(t, quiz, "q1")

	for i := 0; i < 5; i++ {
		_, err := e.Submission.SubmitQuiz(user.ID, course.ID, SubmitQuizReq{
			Answers: []AnswerReq{{QuestionID: q1.ID, SelectedOptionID: correctOptionID(t, q1)}},
		})
		if err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}

	attempts, err := e.Submission.ListMyAttempts(user.ID, course.ID)
	if err != nil {
		t.Fatalf("ListMyAttempts: %v", err)
	}
	if len(attempts) != 5 {
		t.Errorf("attempt count = %d, want 5", len(attempts))
	}
}

func TestSubmitQuizUnansweredQuestionsScoreZero(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)
	course := e.mustCreateCourse(t, "Go Basics")
	quiz := e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		Questions: &[]QuizQuestionReq{
			twoChoiceQuestion("q1", 1),
			twoChoiceQuestion("q2", 1),
		},
	})
	q1 := questionByText(t, quiz, "q1")

	// q2 is omitted from the payload entirely.
	result, err := e.Submission.SubmitQuiz(user.ID, course.ID, SubmitQuizReq{
		Answers: []AnswerReq{{QuestionID: q1.ID, SelectedOptionID: correctOptionID(t, q1)}},
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if result.FinalScore == nil || *result.FinalScore != 50 {
		t.Errorf("final score = %v, want 50", result.FinalScore)
	}
}

func TestSubmitQuizNoQuiz(t *testing.T) {
	e := newTestEnv(t)
	user := e.mustCreateUser(t, "ada", model.Learner)
	course := e.mustCreateCourse(t, "No Quiz Here")

	_, err := e.Submission.SubmitQuiz(user.ID, course.ID, SubmitQuizReq{})
	if !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("err = %v, want ErrQuizNotFound", err)
	}
}
