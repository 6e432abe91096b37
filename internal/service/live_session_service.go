package service

import (
	"corp_lms_backend/internal/model"
	"corp_lms_backend/internal/repository"
	"corp_lms_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type LiveSessionService struct {
	Repo       *repository.LiveSessionRepository
	CourseRepo *repository.CourseRepository
}

func NewLiveSessionService(repo *repository.LiveSessionRepository, courseRepo *repository.CourseRepository) *LiveSessionService {
	return &LiveSessionService{Repo: repo, CourseRepo: courseRepo}
}

type LiveSessionReq struct {
	Title       string    `json:"title" binding:"required"`
	MeetingURL  string    `json:"meetingUrl"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
}

func (s *LiveSessionService) CreateSession(hostID, courseID uint, req LiveSessionReq) (*model.LiveSession, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, util.ErrCourseNotFound
	}

	session := &model.LiveSession{
		CourseID:    courseID,
		Title:       req.Title,
		MeetingURL:  req.MeetingURL,
		HostID:      hostID,
		ScheduledAt: req.ScheduledAt,
	}
	if err := s.Repo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *LiveSessionService) ListSessions(courseID uint) ([]model.LiveSession, error) {
	return s.Repo.ListByCourse(courseID)
}

func (s *LiveSessionService) GetSession(id uint) (*model.LiveSession, error) {
	session, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSessionNotFound
	}
	return session, err
}

// EndSession is idempotent at the API level but rejects a second end so the
// host sees they already closed it.
func (s *LiveSessionService) EndSession(id uint) (*model.LiveSession, error) {
	session, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if session.IsEnded() {
		return nil, util.ErrSessionAlreadyEnded
	}
	if err := s.Repo.End(session); err != nil {
		return nil, err
	}
	return session, nil
}

type SessionStatus struct {
	SessionID uint `json:"sessionId"`
	Ended     bool `json:"ended"`
}

// SessionStatus backs the client poll loop.
func (s *LiveSessionService) SessionStatus(id uint) (*SessionStatus, error) {
	ended, err := s.Repo.IsEnded(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSessionNotFound
	} else if err != nil {
		return nil, err
	}
	return &SessionStatus{SessionID: id, Ended: ended}, nil
}
