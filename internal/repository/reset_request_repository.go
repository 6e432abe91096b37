package repository

import (
	"corp_lms_backend/internal/model"
	"errors"

	"gorm.io/gorm"
)

type ResetRequestRepository struct {
	DB *gorm.DB
}

func NewResetRequestRepository(db *gorm.DB) *ResetRequestRepository {
	return &ResetRequestRepository{DB: db}
}

func (r *ResetRequestRepository) Create(req *model.ResetRequest) error {
	return r.DB.Create(req).Error
}

func (r *ResetRequestRepository) FindByID(id uint) (*model.ResetRequest, error) {
	var req model.ResetRequest
	err := r.DB.Preload("User").Preload("Course").First(&req, id).Error
	return &req, err
}

// HasPending reports whether a PENDING request already exists for the pair.
func (r *ResetRequestRepository) HasPending(userID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ResetRequest{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, model.ResetPending).
		Count(&count).Error
	return count > 0, err
}

func (r *ResetRequestRepository) List(status string, page, limit int) ([]model.ResetRequest, int64, error) {
	var reqs []model.ResetRequest
	var total int64

	query := r.DB.Model(&model.ResetRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("User").Preload("Course").
		Order("created_at asc").Offset(offset).Limit(limit).Find(&reqs).Error
	return reqs, total, err
}

func (r *ResetRequestRepository) ListByUser(userID uint) ([]model.ResetRequest, error) {
	var reqs []model.ResetRequest
	err := r.DB.Preload("Course").Where("user_id = ?", userID).
		Order("created_at desc").Find(&reqs).Error
	return reqs, err
}

// Approve deletes the completion record, retires the user's attempts for the
// course's quiz, marks the request APPROVED and enqueues the notification in
// one transaction. The deletes are idempotent: absent records are not errors,
// so the user goes back to a clean slate either way and the attempt counter
// restarts from zero.
func (r *ResetRequestRepository) Approve(req *model.ResetRequest, note *model.Notification) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND course_id = ?", req.UserID, req.CourseID).
			Delete(&model.UserCompletedCourse{}).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var quiz model.Quiz
		err := tx.Select("id").First(&quiz, "course_id = ?", req.CourseID).Error
		if err == nil {
			if err := tx.Where("user_id = ? AND quiz_id = ?", req.UserID, quiz.ID).
				Delete(&model.QuizSubmission{}).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		req.Status = model.ResetApproved
		if err := tx.Save(req).Error; err != nil {
			return err
		}

		return tx.Create(note).Error
	})
}

// Reject only flips the status and notifies; nothing is deleted.
func (r *ResetRequestRepository) Reject(req *model.ResetRequest, note *model.Notification) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		req.Status = model.ResetRejected
		if err := tx.Save(req).Error; err != nil {
			return err
		}
		return tx.Create(note).Error
	})
}
