package repository

import (
	"context"
	"corp_lms_backend/internal/model"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const leaderboardCacheKey = "lms:completions:leaderboard"

type CompletionRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewCompletionRepository(db *gorm.DB, rdb *redis.Client) *CompletionRepository {
	return &CompletionRepository{DB: db, Redis: rdb, ctx: context.Background()}
}

// Upsert overwrites any previous completion for the (user, course) pair, so
// re-grading after an approved reset replaces the old score.
func (r *CompletionRepository) Upsert(c *model.UserCompletedCourse) error {
	err := r.UpsertTx(r.DB, c)
	if err == nil {
		r.InvalidateLeaderboard()
	}
	return err
}

// UpsertTx is the transaction-scoped variant used when the completion write
// must commit atomically with a grading step.
func (r *CompletionRepository) UpsertTx(tx *gorm.DB, c *model.UserCompletedCourse) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "completed_at", "updated_at"}),
	}).Create(c).Error
}

func (r *CompletionRepository) InvalidateLeaderboard() {
	if r.Redis != nil {
		r.Redis.Del(r.ctx, leaderboardCacheKey)
	}
}

func (r *CompletionRepository) FindByUserAndCourse(userID, courseID uint) (*model.UserCompletedCourse, error) {
	var c model.UserCompletedCourse
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompletionRepository) ListByUser(userID uint) ([]model.UserCompletedCourse, error) {
	var cs []model.UserCompletedCourse
	err := r.DB.Preload("Course").Where("user_id = ?", userID).
		Order("completed_at desc").Find(&cs).Error
	return cs, err
}

func (r *CompletionRepository) ListByUserAndCourses(userID uint, courseIDs []uint) ([]model.UserCompletedCourse, error) {
	var cs []model.UserCompletedCourse
	err := r.DB.Where("user_id = ? AND course_id IN ?", userID, courseIDs).Find(&cs).Error
	return cs, err
}

type LeaderboardRow struct {
	UserID           uint    `json:"userId"`
	UserName         string  `json:"userName"`
	CompletedCourses int     `json:"completedCourses"`
	AverageScore     float64 `json:"averageScore"`
}

// Leaderboard aggregates completion counts and average scores. The result is
// cached in Redis for a minute; grading and resets invalidate it.
func (r *CompletionRepository) Leaderboard(limit int) ([]LeaderboardRow, error) {
	if r.Redis != nil {
		if cached, err := r.Redis.Get(r.ctx, leaderboardCacheKey).Result(); err == nil {
			var rows []LeaderboardRow
			if json.Unmarshal([]byte(cached), &rows) == nil {
				return rows, nil
			}
		}
	}

	var rows []LeaderboardRow
	err := r.DB.Table("user_completed_courses").
		Select("user_completed_courses.user_id, users.name as user_name, COUNT(*) as completed_courses, AVG(user_completed_courses.score) as average_score").
		Joins("JOIN users ON users.id = user_completed_courses.user_id").
		Where("user_completed_courses.deleted_at IS NULL").
		Group("user_completed_courses.user_id, users.name").
		Order("completed_courses desc, average_score desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if data, err := json.Marshal(rows); err == nil {
			r.Redis.Set(r.ctx, leaderboardCacheKey, data, time.Minute)
		}
	}
	return rows, nil
}
