package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrCourseNotFound       = errors.New("course not found")
	ErrPathNotFound         = errors.New("learning path not found")
	ErrSessionNotFound      = errors.New("live session not found")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrAlreadyGraded        = errors.New("submission already graded")
	ErrAttemptLimitReached  = errors.New("maximum number of attempts reached")
	ErrPendingResetExists   = errors.New("already have a pending reset request")
	ErrResetNotPending      = errors.New("reset request is not pending")
	ErrSessionAlreadyEnded  = errors.New("live session already ended")
	ErrCorrectOptionMissing = errors.New("correct answer does not match any option")
)
