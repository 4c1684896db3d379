package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"socialchat/internal/models"
	"socialchat/internal/pagination"
	"socialchat/internal/repositories"
)

// ProfileUpdate carries only the fields the caller wants to change.
type ProfileUpdate struct {
	FullName    *string
	DisplayName *string
	AvatarURL   *string
	Address     *string
	Phone       *string
	Sex         *string
	Birthday    *time.Time
	NotifyEmail *bool
}

func (p ProfileUpdate) fields() map[string]any {
	f := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			f[col] = strings.TrimSpace(*v)
		}
	}
	set("full_name", p.FullName)
	set("display_name", p.DisplayName)
	set("avatar_url", p.AvatarURL)
	set("address", p.Address)
	set("phone", p.Phone)
	set("sex", p.Sex)
	if p.Birthday != nil {
		f["birthday"] = *p.Birthday
	}
	if p.NotifyEmail != nil {
		f["notify_email"] = *p.NotifyEmail
	}
	return f
}

type UserService interface {
	Get(ctx context.Context, id uint) (*models.User, error)
	Search(ctx context.Context, term string, p pagination.Params) ([]models.User, int64, error)
	UpdateProfile(ctx context.Context, id uint, in ProfileUpdate) (*models.User, error)
	// ChangePassword verifies the old password and revokes all refresh tokens.
	ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error
	LinkTelegram(ctx context.Context, id uint, chatID int64) error
}

type userService struct {
	repo   repositories.UserRepository
	tokens repositories.RefreshTokenRepository
	log    *zap.Logger
}

func NewUserService(repo repositories.UserRepository, tokens repositories.RefreshTokenRepository, log *zap.Logger) UserService {
	return &userService{repo: repo, tokens: tokens, log: log}
}

func (s *userService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) Search(ctx context.Context, term string, p pagination.Params) ([]models.User, int64, error) {
	return s.repo.Search(ctx, term, p.Limit(), p.Offset())
}

func (s *userService) UpdateProfile(ctx context.Context, id uint, in ProfileUpdate) (*models.User, error) {
	fields := in.fields()
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if err := s.repo.UpdateProfile(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *userService) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !CheckPassword(user.PasswordHash, oldPassword) {
		return fmt.Errorf("%w: current password is incorrect", ErrInvalidInput)
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	if _, err := s.tokens.DeleteByUser(ctx, id); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	s.log.Info("[users][password] changed", zap.Uint("user_id", id))
	return nil
}

func (s *userService) LinkTelegram(ctx context.Context, id uint, chatID int64) error {
	if chatID == 0 {
		return fmt.Errorf("%w: chat id is required", ErrInvalidInput)
	}
	return s.repo.SetTelegramChat(ctx, id, chatID)
}
