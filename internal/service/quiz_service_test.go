package service

import (
	"corp_lms_backend/internal/model"
	"corp_lms_backend/internal/util"
	"errors"
	"testing"
)

func TestUpdateQuizCreatesQuiz(t *testing.T) {
	e := newTestEnv(t)
	course := e.mustCreateCourse(t, "Go Basics")

	quiz := e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		PassingScore: intPtr(70),
		MaxAttempts:  intPtr(3),
		QuizType:     quizTypePtr(model.ClosedLoop),
		Questions: &[]QuizQuestionReq{
			twoChoiceQuestion("q1", 2),
			shortAnswerQuestion("q2", 3),
		},
	})

	if quiz.CourseID != course.ID {
		t.Errorf("course id = %d, want %d", quiz.CourseID, course.ID)
	}
	if quiz.PassingScore != 70 {
		t.Errorf("passing score = %d, want 70", quiz.PassingScore)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("question count = %d, want 2", len(quiz.Questions))
	}

	q1 := questionByText(t, quiz, "q1")
	if len(q1.Options) != 2 {
		t.Fatalf("q1 option count = %d, want 2", len(q1.Options))
	}
	// The correct-answer reference must point at the option whose text was
	// declared correct.
	id := correctOptionID(t, q1)
	for _, opt := range q1.Options {
		if opt.ID == id && opt.Text != "q1 a" {
			t.Errorf("correct option text = %q, want %q", opt.Text, "q1 a")
		}
	}

	q2 := questionByText(t, quiz, "q2")
	if q2.CorrectAnswer != "reference answer for q2" {
		t.Errorf("free-text correct answer = %q", q2.CorrectAnswer)
	}
	if len(q2.Options) != 0 {
		t.Errorf("free-text question has %d options, want 0", len(q2.Options))
	}

	if !quiz.RequiresManualGrading() {
		t.Error("quiz with a free-text question should need manual grading")
	}
}

func TestUpdateQuizSecondQuizReusesFirst(t *testing.T) {
	e := newTestEnv(t)
	course := e.mustCreateCourse(t, "Go Basics")

	first := e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		Questions: &[]QuizQuestionReq{twoChoiceQuestion("q1", 1)},
	})
	second := e.mustCreateQuiz(t, course.ID, QuizUpdateReq{PassingScore: intPtr(90)})

	if first.ID != second.ID {
		t.Errorf("a second edit created a new quiz: %s vs %s", first.ID, second.ID)
	}
	if second.PassingScore != 90 {
		t.Errorf("passing score = %d, want 90", second.PassingScore)
	}
	// Omitting questions leaves the set untouched.
	if len(second.Questions) != 1 {
		t.Errorf("question count = %d, want 1", len(second.Questions))
	}
}

func TestUpdateQuizEditReplacesQuestions(t *testing.T) {
	e := newTestEnv(t)
	course := e.mustCreateCourse(t, "Go Basics")

	quiz := e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		Questions: &[]QuizQuestionReq{
			twoChoiceQuestion("q1", 1),
			twoChoiceQuestion("q2", 1),
		},
	})
	q1 := questionByText(t, quiz, "q1")

	// Keep q1 (renamed), drop q2, add q3.
	edited := e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		Questions: &[]QuizQuestionReq{
			{
				ID:            q1.ID,
				Text:          "q1 revised",
				Type:          model.MultipleChoice,
				Weight:        2,
				CorrectAnswer: "q1 b",
				Options:       []QuizOptionReq{{Text: "q1 a"}, {Text: "q1 b"}},
			},
			twoChoiceQuestion("q3", 1),
		},
	})

	if len(edited.Questions) != 2 {
		t.Fatalf("question count = %d, want 2", len(edited.Questions))
	}

	revised := questionByText(t, edited, "q1 revised")
	if revised.ID != q1.ID {
		t.Errorf("kept question changed identity: %s vs %s", revised.ID, q1.ID)
	}
	if revised.Weight != 2 {
		t.Errorf("weight = %v, want 2", revised.Weight)
	}
	// The correct answer moved to option b.
	id := correctOptionID(t, revised)
	for _, opt := range revised.Options {
		if opt.ID == id && opt.Text != "q1 b" {
			t.Errorf("correct option text = %q, want %q", opt.Text, "q1 b")
		}
	}

	for _, q := range edited.Questions {
		if q.Text == "q2" {
			t.Error("dropped question still present")
		}
	}
}

func TestUpdateQuizUnmatchedCorrectAnswerRollsBack(t *testing.T) {
	e := newTestEnv(t)
	course := e.mustCreateCourse(t, "Go Basics")

	original := e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		Questions: &[]QuizQuestionReq{twoChoiceQuestion("q1", 1)},
	})

	_, err := e.Quiz.UpdateQuiz(course.ID, QuizUpdateReq{
		Questions: &[]QuizQuestionReq{
			{
				Text:          "broken",
				Type:          model.MultipleChoice,
				Weight:        1,
				CorrectAnswer: "does not match any option",
				Options:       []QuizOptionReq{{Text: "a"}, {Text: "b"}},
			},
		},
	})
	if !errors.Is(err, util.ErrCorrectOptionMissing) {
		t.Fatalf("err = %v, want ErrCorrectOptionMissing", err)
	}

	// The failed edit must not have touched the stored quiz.
	after, err := e.Quiz.GetQuizForCourse(course.ID)
	if err != nil {
		t.Fatalf("reload quiz: %v", err)
	}
	if len(after.Questions) != 1 || after.Questions[0].Text != "q1" {
		t.Errorf("quiz changed despite rollback: %+v", after.Questions)
	}
	if after.Questions[0].ID != original.Questions[0].ID {
		t.Error("question identity changed despite rollback")
	}
}

func TestUpdateQuizAmbiguousCorrectAnswerRejected(t *testing.T) {
	e := newTestEnv(t)
	course := e.mustCreateCourse(t, "Go Basics")

	_, err := e.Quiz.UpdateQuiz(course.ID, QuizUpdateReq{
		Questions: &[]QuizQuestionReq{
			{
				Text:          "dup",
				Type:          model.TrueFalse,
				Weight:        1,
				CorrectAnswer: "same",
				Options:       []QuizOptionReq{{Text: "same"}, {Text: "same"}},
			},
		},
	})
	if !errors.Is(err, util.ErrCorrectOptionMissing) {
		t.Fatalf("err = %v, want ErrCorrectOptionMissing", err)
	}
}

func TestUpdateQuizValidation(t *testing.T) {
	e := newTestEnv(t)
	course := e.mustCreateCourse(t, "Go Basics")

	tests := []struct {
		name string
		req  QuizUpdateReq
	}{
		{"passing score above 100", QuizUpdateReq{PassingScore: intPtr(101)}},
		{"negative passing score", QuizUpdateReq{PassingScore: intPtr(-1)}},
		{"negative max attempts", QuizUpdateReq{MaxAttempts: intPtr(-1)}},
		{"zero weight", QuizUpdateReq{Questions: &[]QuizQuestionReq{{
			Text: "q", Type: model.ShortAnswer, Weight: 0, CorrectAnswer: "ref",
		}}}},
		{"missing correct answer", QuizUpdateReq{Questions: &[]QuizQuestionReq{{
			Text: "q", Type: model.ShortAnswer, Weight: 1,
		}}}},
		{"objective with one option", QuizUpdateReq{Questions: &[]QuizQuestionReq{{
			Text: "q", Type: model.MultipleChoice, Weight: 1, CorrectAnswer: "a",
			Options: []QuizOptionReq{{Text: "a"}},
		}}}},
		{"unknown question type", QuizUpdateReq{Questions: &[]QuizQuestionReq{{
			Text: "q", Type: "ESSAY", Weight: 1, CorrectAnswer: "ref",
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Quiz.UpdateQuiz(course.ID, tt.req); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestUpdateQuizMissingCourse(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.Quiz.UpdateQuiz(9999, QuizUpdateReq{PassingScore: intPtr(50)})
	if !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("err = %v, want ErrCourseNotFound", err)
	}
}

func TestGetQuizForLearnerStripsAnswers(t *testing.T) {
	e := newTestEnv(t)
	course := e.mustCreateCourse(t, "Go Basics")
	e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		Questions: &[]QuizQuestionReq{
			twoChoiceQuestion("q1", 1),
			shortAnswerQuestion("q2", 2),
		},
	})

	learnerQuiz, err := e.Quiz.GetQuizForLearner(course.ID)
	if err != nil {
		t.Fatalf("GetQuizForLearner: %v", err)
	}
	if len(learnerQuiz.Questions) != 2 {
		t.Fatalf("question count = %d, want 2", len(learnerQuiz.Questions))
	}
	// The learner payload carries no field for the correct answer at all;
	// check the reference answer text leaks nowhere.
	for _, q := range learnerQuiz.Questions {
		for _, opt := range q.Options {
			if opt.Text == "reference answer for q2" {
				t.Error("reference answer leaked into options")
			}
		}
	}
}

func TestDeleteQuiz(t *testing.T) {
	e := newTestEnv(t)
	course := e.mustCreateCourse(t, "Go Basics")
	e.mustCreateQuiz(t, course.ID, QuizUpdateReq{
		Questions: &[]QuizQuestionReq{twoChoiceQuestion("q1", 1)},
	})

	if err := e.Quiz.DeleteQuiz(course.ID); err != nil {
		t.Fatalf("DeleteQuiz: %v", err)
	}
	if _, err := e.Quiz.GetQuizForCourse(course.ID); !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("err = %v, want ErrQuizNotFound", err)
	}
	if err := e.Quiz.DeleteQuiz(course.ID); !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("second delete err = %v, want ErrQuizNotFound", err)
	}
}
