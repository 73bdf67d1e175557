package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const msgUserNotFound = "User not found"

type ProfileUpdate struct {
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
}

type AccountService struct {
	userRepo repositories.UserRepository
	log      *zap.Logger
}

func NewAccountService(userRepo repositories.UserRepository, log *zap.Logger) *AccountService {
	return &AccountService{userRepo: userRepo, log: log}
}

func (s *AccountService) UpdateProfile(ctx context.Context, user *models.User, in ProfileUpdate) (*models.User, error) {
	if in.FullName != nil {
		user.FullName = in.FullName
	}
	if in.Address != nil {
		user.Address = in.Address
	}
	if in.Phone != nil {
		user.Phone = in.Phone
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *AccountService) BecomeArtisan(ctx context.Context, user *models.User) error {
	switch user.Role {
	case models.RoleArtisan:
		return detail(ErrInvalidState, "You are already an artisan")
	case models.RoleAdmin:
		return detail(ErrInvalidState, "Admins cannot become artisans")
	}
	if err := s.userRepo.UpdateRole(ctx, user.ID, models.RoleArtisan); err != nil {
		return err
	}
	user.Role = models.RoleArtisan
	s.log.Info("user became artisan", zap.Uint("user_id", user.ID))
	return nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *AccountService) getUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	if user == nil {
		return nil, detail(ErrNotFound, msgUserNotFound)
	}
	return user, nil
}

func (s *AccountService) AdminUpdateUser(ctx context.Context, userID uint, in ProfileUpdate) (*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.UpdateProfile(ctx, user, in)
}

// Promote only ever grants the admin role.
func (s *AccountService) Promote(ctx context.Context, userID uint, role string) (*models.User, error) {
	if !strings.EqualFold(strings.TrimSpace(role), models.RoleAdmin) {
		return nil, detail(ErrInvalidState, "Invalid role. Only 'admin' is allowed.")
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return nil, err
	}
	user.Role = models.RoleAdmin
	s.log.Info("user promoted to admin", zap.Uint("user_id", user.ID))
	return user, nil
}

func (s *AccountService) DeleteUser(ctx context.Context, userID uint) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return detail(ErrNotFound, msgUserNotFound)
		}
		return err
	}
	s.log.Info("user deleted", zap.Uint("user_id", userID))
	return nil
}
