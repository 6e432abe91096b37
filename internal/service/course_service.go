package service

import (
	"context"
	"corp_lms_backend/internal/model"
	"corp_lms_backend/internal/repository"
	"corp_lms_backend/internal/util"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"
)

type CourseService struct {
	Repo    *repository.CourseRepository
	Storage *StorageService
}

func NewCourseService(repo *repository.CourseRepository, storage *StorageService) *CourseService {
	return &CourseService{Repo: repo, Storage: storage}
}

type CourseReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	CoverImage  *string `json:"coverImage"`
	IsPublished *bool   `json:"isPublished"`
}

func (s *CourseService) CreateCourse(creatorID uint, req CourseReq) (*model.Course, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	course := &model.Course{
		Title:     *req.Title,
		CreatorID: creatorID,
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.CoverImage != nil {
		course.CoverImage = *req.CoverImage
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	if err := s.Repo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) UpdateCourse(id uint, req CourseReq) (*model.Course, error) {
	course, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	} else if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.CoverImage != nil {
		course.CoverImage = *req.CoverImage
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	if err := s.Repo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(id uint) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		return util.ErrCourseNotFound
	}
	return s.Repo.Delete(id)
}

func (s *CourseService) GetCourse(id uint) (*model.Course, error) {
	course, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	return course, err
}

func (s *CourseService) ListCourses(page, limit int, publishedOnly bool, category string) ([]model.Course, int64, error) {
	return s.Repo.List(page, limit, publishedOnly, category)
}

func (s *CourseService) ListMaterials(courseID uint) ([]model.CourseMaterial, error) {
	return s.Repo.ListMaterials(courseID)
}

// UploadMaterial stores the file through the storage provider and probes
// video uploads for duration so clients can render it without downloading.
func (s *CourseService) UploadMaterial(ctx context.Context, courseID uint, title string, file *multipart.FileHeader) (*model.CourseMaterial, error) {
	if _, err := s.Repo.FindByID(courseID); err != nil {
		return nil, util.ErrCourseNotFound
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	filename := fmt.Sprintf("courses/%d/%s%s", courseID, model.GenerateUUID(), ext)
	contentType := file.Header.Get("Content-Type")

	url, err := s.Storage.Upload(ctx, filename, src, file.Size, contentType)
	if err != nil {
		return nil, err
	}

	material := &model.CourseMaterial{
		CourseID:  courseID,
		Title:     title,
		Type:      materialTypeForExt(ext),
		URL:       url,
		SizeBytes: file.Size,
	}

	if material.Type == model.MaterialVideo {
		// Probe needs a local path; spool the upload to a temp file.
		if tmp, err := os.CreateTemp("", "probe-*"+ext); err == nil {
			if _, err := src.Seek(0, 0); err == nil {
				if _, err := tmp.ReadFrom(src); err == nil {
					if info, err := util.GetVideoInfo(tmp.Name()); err == nil {
						material.VideoDuration = info.Duration
					}
				}
			}
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}

	if err := s.Repo.CreateMaterial(material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *CourseService) DeleteMaterial(id uint) error {
	return s.Repo.DeleteMaterial(id)
}

func materialTypeForExt(ext string) model.MaterialType {
	switch ext {
	case ".mp4", ".mov", ".webm", ".mkv", ".avi":
		return model.MaterialVideo
	default:
		return model.MaterialDocument
	}
}
