package repositories

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"socialchat/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	UpdateProfile(ctx context.Context, id uint, fields map[string]any) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	SetTelegramChat(ctx context.Context, id uint, chatID int64) error
	Search(ctx context.Context, term string, limit, offset int) ([]models.User, int64, error)
	RoleByName(ctx context.Context, name string) (*models.Role, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", strings.TrimSpace(username))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *userRepository) first(ctx context.Context, query string, args ...any) (*models.User, error) {
	u := &models.User{}
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Office").
		Preload("Position").
		Where(query, args...).
		First(u).Error
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()
	return affected(r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields))
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return affected(r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"password_hash": hash, "updated_at": time.Now()}))
}

func (r *userRepository) SetTelegramChat(ctx context.Context, id uint, chatID int64) error {
	return affected(r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("telegram_chat_id", chatID))
}

func (r *userRepository) Search(ctx context.Context, term string, limit, offset int) ([]models.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{}).Session(&gorm.Session{})
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var users []models.User
	if err := q.Order("id").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, translate(err)
	}
	return users, total, nil
}

func (r *userRepository) RoleByName(ctx context.Context, name string) (*models.Role, error) {
	role := &models.Role{}
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(role).Error; err != nil {
		return nil, translate(err)
	}
	return role, nil
}
