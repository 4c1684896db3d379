package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"socialchat/internal/models"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	// Rotate swaps the token string and expiry of record id, but only while it
	// still holds oldToken, so two concurrent refreshes cannot both win.
	Rotate(ctx context.Context, id uint, oldToken, newToken string, expiresAt time.Time) error
	Delete(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	return translate(r.db.WithContext(ctx).Create(token).Error)
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt := &models.RefreshToken{}
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(rt).Error; err != nil {
		return nil, translate(err)
	}
	return rt, nil
}

func (r *refreshTokenRepository) Rotate(ctx context.Context, id uint, oldToken, newToken string, expiresAt time.Time) error {
	return affected(r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("id = ? AND token = ?", id, oldToken).
		Updates(map[string]any{"token": newToken, "expires_at": expiresAt, "updated_at": time.Now()}))
}

func (r *refreshTokenRepository) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.RefreshToken{}, id))
}

func (r *refreshTokenRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{})
	return res.RowsAffected, translate(res.Error)
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.RefreshToken{})
	return res.RowsAffected, translate(res.Error)
}
