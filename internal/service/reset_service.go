package service

import (
	"corp_lms_backend/internal/model"
	"corp_lms_backend/internal/repository"
	"corp_lms_backend/internal/util"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type ResetService struct {
	Repo           *repository.ResetRequestRepository
	CourseRepo     *repository.CourseRepository
	CompletionRepo *repository.CompletionRepository
}

func NewResetService(repo *repository.ResetRequestRepository, courseRepo *repository.CourseRepository, completionRepo *repository.CompletionRepository) *ResetService {
	return &ResetService{Repo: repo, CourseRepo: courseRepo, CompletionRepo: completionRepo}
}

type ResetRequestReq struct {
	CourseID uint   `json:"courseId" binding:"required"`
	Reason   string `json:"reason"`
}

// RequestReset opens a reset request for the (user, course) pair. A second
// request while one is still pending is refused.
func (s *ResetService) RequestReset(userID uint, req ResetRequestReq) (*model.ResetRequest, error) {
	course, err := s.CourseRepo.FindByID(req.CourseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	} else if err != nil {
		return nil, err
	}

	pending, err := s.Repo.HasPending(userID, course.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, util.ErrPendingResetExists
	}

	request := &model.ResetRequest{
		UserID:   userID,
		CourseID: course.ID,
		Reason:   req.Reason,
		Status:   model.ResetPending,
	}
	if err := s.Repo.Create(request); err != nil {
		return nil, err
	}
	return request, nil
}

// ApproveReset deletes the user's completion record and prior attempts for
// the course, marks the request APPROVED and notifies the user, atomically.
// The course is then open for a fresh attempt.
func (s *ResetService) ApproveReset(requestID uint) error {
	request, err := s.Repo.FindByID(requestID)
	if err != nil {
		return err
	}
	if request.Status != model.ResetPending {
		return util.ErrResetNotPending
	}

	note := &model.Notification{
		UserID:  request.UserID,
		Title:   "Reset request approved",
		Body:    fmt.Sprintf("Your reset request for course %q was approved. You can retake the quiz.", courseTitle(request)),
		RefType: "reset_request",
		RefID:   fmt.Sprintf("%d", request.ID),
	}

	if err := s.Repo.Approve(request, note); err != nil {
		return err
	}
	s.CompletionRepo.InvalidateLeaderboard()
	return nil
}

// RejectReset flips the status and notifies; the completion record stays.
func (s *ResetService) RejectReset(requestID uint) error {
	request, err := s.Repo.FindByID(requestID)
	if err != nil {
		return err
	}
	if request.Status != model.ResetPending {
		return util.ErrResetNotPending
	}

	note := &model.Notification{
		UserID:  request.UserID,
		Title:   "Reset request rejected",
		Body:    fmt.Sprintf("Your reset request for course %q was rejected.", courseTitle(request)),
		RefType: "reset_request",
		RefID:   fmt.Sprintf("%d", request.ID),
	}

	return s.Repo.Reject(request, note)
}

func (s *ResetService) ListRequests(status string, page, limit int) ([]model.ResetRequest, int64, error) {
	return s.Repo.List(status, page, limit)
}

func (s *ResetService) ListMyRequests(userID uint) ([]model.ResetRequest, error) {
	return s.Repo.ListByUser(userID)
}

func courseTitle(r *model.ResetRequest) string {
	if r.Course != nil {
		return r.Course.Title
	}
	return fmt.Sprintf("#%d", r.CourseID)
}
