package model

import "time"

// UserCompletedCourse is the denormalized completion record per (user, course).
// It is written when a grade is posted and deleted when a reset request is
// approved; everything downstream (profile history, certificates, learning
// path progress) reads it.
type UserCompletedCourse struct {
	BaseModel
	UserID      uint      `gorm:"uniqueIndex:idx_user_course;type:bigint unsigned;not null" json:"userId"`
	CourseID    uint      `gorm:"uniqueIndex:idx_user_course;type:bigint unsigned;not null" json:"courseId"`
	Score       int       `gorm:"default:0" json:"score"` // percent
	CompletedAt time.Time `json:"completedAt"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (UserCompletedCourse) TableName() string {
	return "user_completed_courses"
}

type ResetRequestStatus string

const (
	ResetPending  ResetRequestStatus = "PENDING"
	ResetApproved ResetRequestStatus = "APPROVED"
	ResetRejected ResetRequestStatus = "REJECTED"
)

// ResetRequest asks an admin to re-open a course after the attempt limit is
// exhausted. At most one PENDING request may exist per (user, course).
type ResetRequest struct {
	BaseModel
	UserID   uint               `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	CourseID uint               `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Reason   string             `gorm:"type:text" json:"reason"`
	Status   ResetRequestStatus `gorm:"size:20;default:'PENDING'" json:"status"`

	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (ResetRequest) TableName() string {
	return "reset_requests"
}

type Notification struct {
	BaseModel
	UserID  uint   `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Title   string `gorm:"size:255;not null" json:"title"`
	Body    string `gorm:"type:text" json:"body"`
	IsRead  bool   `gorm:"default:false" json:"isRead"`
	RefType string `gorm:"size:50" json:"refType"` // e.g. reset_request
	RefID   string `gorm:"size:36" json:"refId"`
}

func (Notification) TableName() string {
	return "notifications"
}
