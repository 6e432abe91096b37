package repository

import (
	"corp_lms_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

// Delete removes the course together with its materials and live sessions.
// Quiz rows survive as soft-deleted orphans; completion records are kept so
// learner history stays intact.
func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&model.CourseMaterial{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.LiveSession{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, id).Error
	})
}

func (r *CourseRepository) List(page, limit int, publishedOnly bool, category string) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	query := r.DB.Model(&model.Course{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) CreateMaterial(m *model.CourseMaterial) error {
	return r.DB.Create(m).Error
}

func (r *CourseRepository) ListMaterials(courseID uint) ([]model.CourseMaterial, error) {
	var ms []model.CourseMaterial
	err := r.DB.Where("course_id = ?", courseID).Order("`order` asc, created_at asc").Find(&ms).Error
	return ms, err
}

func (r *CourseRepository) DeleteMaterial(id uint) error {
	return r.DB.Delete(&model.CourseMaterial{}, id).Error
}
