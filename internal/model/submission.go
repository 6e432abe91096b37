package model

import "time"

type SubmissionStatus string

const (
	// SubmissionPendingReview waits for an instructor to score free-text answers.
	SubmissionPendingReview SubmissionStatus = "pending_review"
	SubmissionGraded        SubmissionStatus = "graded"
)

type QuizSubmission struct {
	UUIDBase
	QuizID      string           `gorm:"index;type:varchar(36);not null" json:"quizId"`
	UserID      uint             `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Status      SubmissionStatus `gorm:"size:20;default:'pending_review'" json:"status"`
	FinalScore  int              `gorm:"default:0" json:"finalScore"` // percent, set once graded
	SubmittedAt time.Time        `json:"submittedAt"`
	GradedAt    *time.Time       `json:"gradedAt,omitempty"`

	Answers []Answer `gorm:"foreignKey:SubmissionID" json:"answers,omitempty"`
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}

// Answer holds either a selected option (objective question types) or free
// text. ManualScore stays nil until a reviewer scores the answer.
type Answer struct {
	UUIDBase
	SubmissionID     string   `gorm:"index;type:varchar(36);not null" json:"submissionId"`
	QuestionID       string   `gorm:"index;type:varchar(36);not null" json:"questionId"`
	SelectedOptionID string   `gorm:"type:varchar(36)" json:"selectedOptionId,omitempty"`
	AnswerText       string   `gorm:"type:text" json:"answerText,omitempty"`
	AutoScore        float64  `gorm:"default:0" json:"autoScore"`
	ManualScore      *float64 `json:"manualScore,omitempty"`
}

func (Answer) TableName() string {
	return "answers"
}
