package repository

import (
	"corp_lms_backend/internal/model"

	"gorm.io/gorm"
)

type LearningPathRepository struct {
	DB *gorm.DB
}

func NewLearningPathRepository(db *gorm.DB) *LearningPathRepository {
	return &LearningPathRepository{DB: db}
}

func (r *LearningPathRepository) FindByID(id uint) (*model.LearningPath, error) {
	var path model.LearningPath
	err := r.DB.Preload("Courses", func(db *gorm.DB) *gorm.DB {
		return db.Order("learning_path_courses.`order` asc")
	}).Preload("Courses.Course").First(&path, id).Error
	return &path, err
}

func (r *LearningPathRepository) List(page, limit int, publishedOnly bool) ([]model.LearningPath, int64, error) {
	var paths []model.LearningPath
	var total int64

	query := r.DB.Model(&model.LearningPath{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&paths).Error
	return paths, total, err
}

// Save replaces the path's course list wholesale inside one transaction.
func (r *LearningPathRepository) Save(path *model.LearningPath, courseIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(path).Error; err != nil {
			return err
		}
		if err := tx.Where("path_id = ?", path.ID).Delete(&model.LearningPathCourse{}).Error; err != nil {
			return err
		}
		for i, courseID := range courseIDs {
			pc := model.LearningPathCourse{
				PathID:   path.ID,
				CourseID: courseID,
				Order:    i,
			}
			if err := tx.Create(&pc).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *LearningPathRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("path_id = ?", id).Delete(&model.LearningPathCourse{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.LearningPath{}, id).Error
	})
}
