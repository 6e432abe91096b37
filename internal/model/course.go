package model

import "time"

type Course struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:100" json:"category"`
	CoverImage  string `gorm:"size:255" json:"coverImage"`
	IsPublished bool   `gorm:"default:false" json:"isPublished"`
	CreatorID   uint   `gorm:"index;type:bigint unsigned" json:"creatorId"`
}

func (Course) TableName() string {
	return "courses"
}

type MaterialType string

const (
	MaterialVideo    MaterialType = "video"
	MaterialDocument MaterialType = "document"
	MaterialLink     MaterialType = "link"
)

// CourseMaterial is an uploaded or linked learning asset attached to a course.
// VideoDuration is filled by a ffprobe pass at upload time.
type CourseMaterial struct {
	BaseModel
	CourseID      uint         `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Title         string       `gorm:"size:255;not null" json:"title"`
	Type          MaterialType `gorm:"size:20;not null" json:"type"`
	URL           string       `gorm:"size:512" json:"url"`
	SizeBytes     int64        `gorm:"default:0" json:"sizeBytes"`
	VideoDuration float64      `gorm:"default:0" json:"videoDuration"`
	Order         int          `gorm:"default:0" json:"order"`
}

func (CourseMaterial) TableName() string {
	return "course_materials"
}

type LearningPath struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	IsPublished bool   `gorm:"default:false" json:"isPublished"`
	CreatorID   uint   `gorm:"index;type:bigint unsigned" json:"creatorId"`

	Courses []LearningPathCourse `gorm:"foreignKey:PathID" json:"courses,omitempty"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}

// LearningPathCourse orders a course inside a path.
type LearningPathCourse struct {
	BaseModel
	PathID   uint `gorm:"index;type:bigint unsigned;not null" json:"pathId"`
	CourseID uint `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Order    int  `gorm:"default:0" json:"order"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (LearningPathCourse) TableName() string {
	return "learning_path_courses"
}

type LiveSession struct {
	BaseModel
	CourseID    uint       `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	MeetingURL  string     `gorm:"size:512" json:"meetingUrl"`
	HostID      uint       `gorm:"index;type:bigint unsigned" json:"hostId"`
	ScheduledAt time.Time  `json:"scheduledAt"`
	EndedAt     *time.Time `json:"endedAt,omitempty"`
}

func (LiveSession) TableName() string {
	return "live_sessions"
}

func (s *LiveSession) IsEnded() bool {
	return s.EndedAt != nil
}
