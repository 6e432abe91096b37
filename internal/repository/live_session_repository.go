package repository

import (
	"context"
	"corp_lms_backend/internal/model"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type LiveSessionRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewLiveSessionRepository(db *gorm.DB, rdb *redis.Client) *LiveSessionRepository {
	return &LiveSessionRepository{DB: db, Redis: rdb, ctx: context.Background()}
}

func sessionEndedKey(id uint) string {
	return fmt.Sprintf("lms:session:%d:ended", id)
}

func (r *LiveSessionRepository) Create(s *model.LiveSession) error {
	return r.DB.Create(s).Error
}

func (r *LiveSessionRepository) FindByID(id uint) (*model.LiveSession, error) {
	var s model.LiveSession
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *LiveSessionRepository) ListByCourse(courseID uint) ([]model.LiveSession, error) {
	var ss []model.LiveSession
	err := r.DB.Where("course_id = ?", courseID).Order("scheduled_at desc").Find(&ss).Error
	return ss, err
}

// End marks the session over and seeds the Redis flag that status polls read.
func (r *LiveSessionRepository) End(s *model.LiveSession) error {
	now := time.Now()
	s.EndedAt = &now
	if err := r.DB.Save(s).Error; err != nil {
		return err
	}
	if r.Redis != nil {
		r.Redis.Set(r.ctx, sessionEndedKey(s.ID), "1", 24*time.Hour)
	}
	return nil
}

// IsEnded answers a client poll. The cache avoids a DB read per poll tick;
// a miss falls through to the database. The poll result may lag the admin's
// action by one interval, which is acceptable for this flow.
func (r *LiveSessionRepository) IsEnded(id uint) (bool, error) {
	if r.Redis != nil {
		if v, err := r.Redis.Get(r.ctx, sessionEndedKey(id)).Result(); err == nil {
			return v == "1", nil
		}
	}

	s, err := r.FindByID(id)
	if err != nil {
		return false, err
	}
	return s.IsEnded(), nil
}
