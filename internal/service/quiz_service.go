package service

import (
	"corp_lms_backend/internal/model"
	"corp_lms_backend/internal/repository"
	"corp_lms_backend/internal/util"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type QuizService struct {
	Repo       *repository.QuizRepository
	CourseRepo *repository.CourseRepository
}

func NewQuizService(repo *repository.QuizRepository, courseRepo *repository.CourseRepository) *QuizService {
	return &QuizService{Repo: repo, CourseRepo: courseRepo}
}

type QuizOptionReq struct {
	Text string `json:"text" binding:"required"`
}

type QuizQuestionReq struct {
	ID     string             `json:"id"` // empty for new questions
	Text   string             `json:"text" binding:"required"`
	Type   model.QuestionType `json:"type" binding:"required"`
	Weight float64            `json:"weight"`
	// For objective types: the text of the correct option. For free-text
	// types: the reference answer shown to reviewers.
	CorrectAnswer string          `json:"correctAnswer"`
	Order         int             `json:"order"`
	Options       []QuizOptionReq `json:"options"`
}

type QuizUpdateReq struct {
	PassingScore *int               `json:"passingScore"`
	TimeLimit    *int               `json:"timeLimit"`
	MaxAttempts  *int               `json:"maxAttempts"`
	QuizType     *model.QuizType    `json:"quizType"`
	Questions    *[]QuizQuestionReq `json:"questions"`
}

func validateQuizReq(req *QuizUpdateReq) error {
	if req.PassingScore != nil && (*req.PassingScore < 0 || *req.PassingScore > 100) {
		return errors.New("passing score must be between 0 and 100")
	}
	if req.TimeLimit != nil && *req.TimeLimit < 0 {
		return errors.New("time limit must not be negative")
	}
	if req.MaxAttempts != nil && *req.MaxAttempts < 0 {
		return errors.New("max attempts must not be negative")
	}
	if req.QuizType != nil && *req.QuizType != model.OpenLoop && *req.QuizType != model.ClosedLoop {
		return errors.New("invalid quiz type")
	}
	if req.Questions == nil {
		return nil
	}

	for i, q := range *req.Questions {
		switch q.Type {
		case model.MultipleChoice, model.TrueFalse, model.FillInTheBlank, model.ShortAnswer:
		default:
			return fmt.Errorf("question %d: invalid question type %q", i+1, q.Type)
		}
		if q.Weight <= 0 {
			return fmt.Errorf("question %d: weight must be positive", i+1)
		}
		if q.CorrectAnswer == "" {
			return fmt.Errorf("question %d: correct answer is required", i+1)
		}
		if q.Type.IsObjective() && len(q.Options) < 2 {
			return fmt.Errorf("question %d: at least 2 options are required", i+1)
		}
	}
	return nil
}

// UpdateQuiz creates or edits the single quiz of a course. The incoming
// question set replaces the existing one wholesale: questions without an id
// are created, questions whose id is absent from the payload are deleted,
// the rest are updated in place. Options of objective questions are deleted
// and recreated on every edit, then the question is re-pointed at the option
// whose text equals the declared correct answer. Everything runs in one
// transaction; any failure rolls the whole edit back.
func (s *QuizService) UpdateQuiz(courseID uint, req QuizUpdateReq) (*model.Quiz, error) {
	if err := validateQuizReq(&req); err != nil {
		return nil, err
	}

	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, util.ErrCourseNotFound
	}

	var quizID string
	err := s.Repo.DB.Transaction(func(tx *gorm.DB) error {
		var quiz model.Quiz
		err := tx.First(&quiz, "course_id = ?", courseID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			quiz = model.Quiz{CourseID: courseID}
			if err := tx.Create(&quiz).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if req.PassingScore != nil {
			quiz.PassingScore = *req.PassingScore
		}
		if req.TimeLimit != nil {
			quiz.TimeLimit = *req.TimeLimit
		}
		if req.MaxAttempts != nil {
			quiz.MaxAttempts = *req.MaxAttempts
		}
		if req.QuizType != nil {
			quiz.QuizType = *req.QuizType
		}
		if err := tx.Save(&quiz).Error; err != nil {
			return err
		}
		quizID = quiz.ID

		if req.Questions == nil {
			return nil
		}

		var existing []model.Question
		if err := tx.Where("quiz_id = ?", quiz.ID).Find(&existing).Error; err != nil {
			return err
		}
		existingMap := make(map[string]*model.Question, len(existing))
		for i := range existing {
			existingMap[existing[i].ID] = &existing[i]
		}

		keep := make(map[string]bool, len(*req.Questions))
		for _, qReq := range *req.Questions {
			var question *model.Question
			if qReq.ID != "" {
				q, ok := existingMap[qReq.ID]
				if !ok {
					return fmt.Errorf("question %s not found in quiz", qReq.ID)
				}
				question = q
			} else {
				question = &model.Question{QuizID: quiz.ID}
			}

			question.Text = qReq.Text
			question.Type = qReq.Type
			question.Weight = qReq.Weight
			question.Order = qReq.Order

			if qReq.Type.IsObjective() {
				// The correct-answer reference must point at an option id,
				// but the options do not exist yet. Store a placeholder,
				// create the options, then relink by text match.
				question.CorrectAnswer = ""
				if err := tx.Save(question).Error; err != nil {
					return err
				}

				if err := tx.Where("question_id = ?", question.ID).
					Unscoped().Delete(&model.Option{}).Error; err != nil {
					return err
				}

				matches := 0
				var correctID string
				for _, optReq := range qReq.Options {
					opt := model.Option{QuestionID: question.ID, Text: optReq.Text}
					if err := tx.Create(&opt).Error; err != nil {
						return err
					}
					if opt.Text == qReq.CorrectAnswer {
						matches++
						correctID = opt.ID
					}
				}
				if matches != 1 {
					return util.ErrCorrectOptionMissing
				}

				question.CorrectAnswer = correctID
				if err := tx.Save(question).Error; err != nil {
					return err
				}
			} else {
				question.CorrectAnswer = qReq.CorrectAnswer
				if err := tx.Save(question).Error; err != nil {
					return err
				}
				// Drop stray options left over from a type change.
				if err := tx.Where("question_id = ?", question.ID).
					Unscoped().Delete(&model.Option{}).Error; err != nil {
					return err
				}
			}

			keep[question.ID] = true
		}

		for id := range existingMap {
			if keep[id] {
				continue
			}
			if err := tx.Where("question_id = ?", id).Unscoped().Delete(&model.Option{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&model.Question{}, "id = ?", id).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Repo.FindByID(quizID)
}

func (s *QuizService) GetQuizForCourse(courseID uint) (*model.Quiz, error) {
	quiz, err := s.Repo.FindByCourseID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	return quiz, err
}

type LearnerOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type LearnerQuestion struct {
	ID      string             `json:"id"`
	Text    string             `json:"text"`
	Type    model.QuestionType `json:"type"`
	Weight  float64            `json:"weight"`
	Order   int                `json:"order"`
	Options []LearnerOption    `json:"options,omitempty"`
}

type LearnerQuiz struct {
	ID           string            `json:"id"`
	CourseID     uint              `json:"courseId"`
	PassingScore int               `json:"passingScore"`
	TimeLimit    int               `json:"timeLimit"`
	MaxAttempts  int               `json:"maxAttempts"`
	QuizType     model.QuizType    `json:"quizType"`
	Questions    []LearnerQuestion `json:"questions"`
}

// GetQuizForLearner strips correct answers from the payload.
func (s *QuizService) GetQuizForLearner(courseID uint) (*LearnerQuiz, error) {
	quiz, err := s.GetQuizForCourse(courseID)
	if err != nil {
		return nil, err
	}

	out := &LearnerQuiz{
		ID:           quiz.ID,
		CourseID:     quiz.CourseID,
		PassingScore: quiz.PassingScore,
		TimeLimit:    quiz.TimeLimit,
		MaxAttempts:  quiz.MaxAttempts,
		QuizType:     quiz.QuizType,
		Questions:    make([]LearnerQuestion, len(quiz.Questions)),
	}
	for i, q := range quiz.Questions {
		lq := LearnerQuestion{
			ID:     q.ID,
			Text:   q.Text,
			Type:   q.Type,
			Weight: q.Weight,
			Order:  q.Order,
		}
		for _, opt := range q.Options {
			lq.Options = append(lq.Options, LearnerOption{ID: opt.ID, Text: opt.Text})
		}
		out.Questions[i] = lq
	}
	return out, nil
}

func (s *QuizService) DeleteQuiz(courseID uint) error {
	quiz, err := s.Repo.FindByCourseID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrQuizNotFound
	} else if err != nil {
		return err
	}
	return s.Repo.Delete(quiz.ID)
}
