// Package policy centralizes permission checks. Handlers never test roles
// directly; they ask Allow(role, resource, action) through the middleware.
package policy

import "corp_lms_backend/internal/model"

type Resource string

const (
	ResCourse       Resource = "course"
	ResQuiz         Resource = "quiz"
	ResSubmission   Resource = "submission"
	ResGrading      Resource = "grading"
	ResResetRequest Resource = "reset_request"
	ResLearningPath Resource = "learning_path"
	ResLiveSession  Resource = "live_session"
	ResUser         Resource = "user"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	// ActionReview covers grading submissions and deciding reset requests.
	ActionReview Action = "review"
)

type key struct {
	role     model.UserRole
	resource Resource
	action   Action
}

// The grant table is the whole permission model. Admins bypass it.
var grants = map[key]bool{
	// Learners read published content, submit attempts, and request resets.
	{model.Learner, ResCourse, ActionRead}:         true,
	{model.Learner, ResQuiz, ActionRead}:           true,
	{model.Learner, ResSubmission, ActionRead}:     true,
	{model.Learner, ResSubmission, ActionCreate}:   true,
	{model.Learner, ResResetRequest, ActionRead}:   true,
	{model.Learner, ResResetRequest, ActionCreate}: true,
	{model.Learner, ResLearningPath, ActionRead}:   true,
	{model.Learner, ResLiveSession, ActionRead}:    true,

	// Instructors additionally author content and review submissions.
	{model.Instructor, ResCourse, ActionRead}:        true,
	{model.Instructor, ResCourse, ActionCreate}:      true,
	{model.Instructor, ResCourse, ActionUpdate}:      true,
	{model.Instructor, ResCourse, ActionDelete}:      true,
	{model.Instructor, ResQuiz, ActionRead}:          true,
	{model.Instructor, ResQuiz, ActionCreate}:        true,
	{model.Instructor, ResQuiz, ActionUpdate}:        true,
	{model.Instructor, ResQuiz, ActionDelete}:        true,
	{model.Instructor, ResSubmission, ActionRead}:    true,
	{model.Instructor, ResGrading, ActionRead}:       true,
	{model.Instructor, ResGrading, ActionReview}:     true,
	{model.Instructor, ResLearningPath, ActionRead}:  true,
	{model.Instructor, ResLiveSession, ActionRead}:   true,
	{model.Instructor, ResLiveSession, ActionCreate}: true,
	{model.Instructor, ResLiveSession, ActionUpdate}: true,
}

// Allow reports whether role may perform action on resource.
func Allow(role model.UserRole, resource Resource, action Action) bool {
	if role == model.Admin {
		return true
	}
	return grants[key{role, resource, action}]
}
