package model

type QuizType string

const (
	// OpenLoop quizzes are practice runs. They are graded for feedback but
	// never write completion records.
	OpenLoop QuizType = "OPEN_LOOP"
	// ClosedLoop quizzes gate course completion.
	ClosedLoop QuizType = "CLOSED_LOOP"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	TrueFalse      QuestionType = "TRUE_FALSE"
	FillInTheBlank QuestionType = "FILL_IN_THE_BLANK"
	ShortAnswer    QuestionType = "SHORT_ANSWER"
)

// IsObjective reports whether answers of this type are auto-gradable by
// comparing a selected option against the stored correct option.
func (t QuestionType) IsObjective() bool {
	return t == MultipleChoice || t == TrueFalse
}

// A course has at most one quiz; the unique index on CourseID enforces it.
type Quiz struct {
	UUIDBase
	CourseID     uint     `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"courseId"`
	PassingScore int      `gorm:"default:60" json:"passingScore"` // percent, 0-100
	TimeLimit    int      `gorm:"default:0" json:"timeLimit"`     // minutes, 0 = unlimited
	MaxAttempts  int      `gorm:"default:0" json:"maxAttempts"`   // 0 = unlimited
	QuizType     QuizType `gorm:"size:20;default:'CLOSED_LOOP'" json:"quizType"`

	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// RequiresManualGrading is derived, never stored: a graded quiz needs a
// reviewer iff any question is free-text.
func (q *Quiz) RequiresManualGrading() bool {
	if q.QuizType != ClosedLoop {
		return false
	}
	for _, question := range q.Questions {
		if !question.Type.IsObjective() {
			return true
		}
	}
	return false
}

type Question struct {
	UUIDBase
	QuizID string       `gorm:"index;type:varchar(36);not null" json:"quizId"`
	Text   string       `gorm:"type:text;not null" json:"text"`
	Type   QuestionType `gorm:"size:30;not null" json:"type"`
	Weight float64      `gorm:"default:1" json:"weight"`
	// For objective types this holds the id of the correct option; for
	// free-text types it holds the reference answer shown to reviewers.
	CorrectAnswer string `gorm:"type:text" json:"correctAnswer"`
	Order         int    `gorm:"default:0" json:"order"`

	Options []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// Options are fully replaced on every quiz edit, so their ids are not stable
// across edits. Nothing outside a submission may hold on to an option id.
type Option struct {
	UUIDBase
	QuestionID string `gorm:"index;type:varchar(36);not null" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
}

func (Option) TableName() string {
	return "options"
}
