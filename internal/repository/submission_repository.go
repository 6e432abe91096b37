package repository

import (
	"corp_lms_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

// CreateWithAnswers persists the submission and all its answers atomically.
func (r *SubmissionRepository) CreateWithAnswers(s *model.QuizSubmission, answers []model.Answer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return r.CreateWithAnswersTx(tx, s, answers)
	})
}

// CreateWithAnswersTx is the transaction-scoped variant used when the
// submission must commit atomically with its completion record.
func (r *SubmissionRepository) CreateWithAnswersTx(tx *gorm.DB, s *model.QuizSubmission, answers []model.Answer) error {
	if err := tx.Create(s).Error; err != nil {
		return err
	}
	for i := range answers {
		answers[i].SubmissionID = s.ID
	}
	if len(answers) > 0 {
		if err := tx.Create(&answers).Error; err != nil {
			return err
		}
	}
	s.Answers = answers
	return nil
}

func (r *SubmissionRepository) FindByID(id string) (*model.QuizSubmission, error) {
	var s model.QuizSubmission
	err := r.DB.Preload("Answers").Preload("User").First(&s, "id = ?", id).Error
	return &s, err
}

func (r *SubmissionRepository) CountByUserAndQuiz(userID uint, quizID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizSubmission{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error
	return count, err
}

func (r *SubmissionRepository) ListByUserAndQuiz(userID uint, quizID string) ([]model.QuizSubmission, error) {
	var ss []model.QuizSubmission
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("submitted_at desc").Find(&ss).Error
	return ss, err
}

func (r *SubmissionRepository) ListPending(quizID string, page, limit int) ([]model.QuizSubmission, int64, error) {
	var ss []model.QuizSubmission
	var total int64

	query := r.DB.Model(&model.QuizSubmission{}).Where("status = ?", model.SubmissionPendingReview)
	if quizID != "" {
		query = query.Where("quiz_id = ?", quizID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("User").Order("submitted_at asc").Offset(offset).Limit(limit).Find(&ss).Error
	return ss, total, err
}

func (r *SubmissionRepository) Update(s *model.QuizSubmission) error {
	return r.DB.Save(s).Error
}
