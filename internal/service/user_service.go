package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "diarium/internal/errors"
	"diarium/internal/model"
	"diarium/internal/repository"
)

// ProfileUpdate carries the owner-editable profile fields. A changed email is
// not re-verified.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Country   string
	Avatar    string
}

// UserService handles profile reads and owner-only profile edits.
type UserService interface {
	Get(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FirstName = update.FirstName
	user.LastName = update.LastName
	user.Email = update.Email
	user.Phone = update.Phone
	user.Country = update.Country
	user.Avatar = update.Avatar

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}
