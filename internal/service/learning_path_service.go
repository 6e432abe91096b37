package service

import (
	"corp_lms_backend/internal/model"
	"corp_lms_backend/internal/repository"
	"corp_lms_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type LearningPathService struct {
	Repo       *repository.LearningPathRepository
	CourseRepo *repository.CourseRepository
}

func NewLearningPathService(repo *repository.LearningPathRepository, courseRepo *repository.CourseRepository) *LearningPathService {
	return &LearningPathService{Repo: repo, CourseRepo: courseRepo}
}

type LearningPathReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsPublished *bool   `json:"isPublished"`
	CourseIDs   *[]uint `json:"courseIds"`
}

func (s *LearningPathService) CreatePath(creatorID uint, req LearningPathReq) (*model.LearningPath, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	path := &model.LearningPath{
		Title:     *req.Title,
		CreatorID: creatorID,
	}
	if req.Description != nil {
		path.Description = *req.Description
	}
	if req.IsPublished != nil {
		path.IsPublished = *req.IsPublished
	}

	var courseIDs []uint
	if req.CourseIDs != nil {
		courseIDs = *req.CourseIDs
		if err := s.validateCourses(courseIDs); err != nil {
			return nil, err
		}
	}
	if err := s.Repo.Save(path, courseIDs); err != nil {
		return nil, err
	}
	return s.Repo.FindByID(path.ID)
}

func (s *LearningPathService) UpdatePath(id uint, req LearningPathReq) (*model.LearningPath, error) {
	path, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPathNotFound
	} else if err != nil {
		return nil, err
	}

	if req.Title != nil {
		path.Title = *req.Title
	}
	if req.Description != nil {
		path.Description = *req.Description
	}
	if req.IsPublished != nil {
		path.IsPublished = *req.IsPublished
	}

	// Omitting courseIds keeps the current ordering; sending it replaces
	// the list wholesale.
	courseIDs := make([]uint, 0, len(path.Courses))
	for _, pc := range path.Courses {
		courseIDs = append(courseIDs, pc.CourseID)
	}
	if req.CourseIDs != nil {
		courseIDs = *req.CourseIDs
		if err := s.validateCourses(courseIDs); err != nil {
			return nil, err
		}
	}

	path.Courses = nil
	if err := s.Repo.Save(path, courseIDs); err != nil {
		return nil, err
	}
	return s.Repo.FindByID(path.ID)
}

func (s *LearningPathService) validateCourses(ids []uint) error {
	for _, courseID := range ids {
		if _, err := s.CourseRepo.FindByID(courseID); err != nil {
			return util.ErrCourseNotFound
		}
	}
	return nil
}

func (s *LearningPathService) GetPath(id uint) (*model.LearningPath, error) {
	path, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPathNotFound
	}
	return path, err
}

func (s *LearningPathService) ListPaths(page, limit int, publishedOnly bool) ([]model.LearningPath, int64, error) {
	return s.Repo.List(page, limit, publishedOnly)
}

func (s *LearningPathService) DeletePath(id uint) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		return util.ErrPathNotFound
	}
	return s.Repo.Delete(id)
}
