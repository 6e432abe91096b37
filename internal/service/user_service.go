package service

import (
	"corp_lms_backend/internal/model"
	"corp_lms_backend/internal/repository"
	"corp_lms_backend/internal/util"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	Repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

func (s *UserService) ListUsers(page, limit int, role, name string) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.List(page, limit, role, name)
}

func (s *UserService) GetUser(id uint) (*model.User, error) {
	user, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

type UserUpdateReq struct {
	Name     *string         `json:"name"`
	JobTitle *string         `json:"jobTitle"`
	Avatar   *string         `json:"avatar"`
	Role     *model.UserRole `json:"role"`
	Disabled *bool           `json:"disabled"`
	Password *string         `json:"password"`
}

func (s *UserService) UpdateUser(id uint, req UserUpdateReq) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.JobTitle != nil {
		user.JobTitle = *req.JobTitle
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Role != nil {
		switch *req.Role {
		case model.Learner, model.Instructor, model.Admin:
			user.Role = *req.Role
		default:
			return nil, errors.New("invalid role")
		}
	}
	if req.Disabled != nil {
		user.Disabled = *req.Disabled
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(id uint) error {
	if _, err := s.GetUser(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}
