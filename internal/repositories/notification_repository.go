package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"socialchat/internal/models"
)

// NotificationRepository scopes every lookup and mutation to the receiver, so a
// foreign id behaves exactly like a missing one.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetForReceiver(ctx context.Context, id, receiverID uint) (*models.Notification, error)
	List(ctx context.Context, receiverID uint, limit, offset int) ([]models.Notification, int64, error)
	MarkRead(ctx context.Context, id, receiverID uint) error
	MarkAllRead(ctx context.Context, receiverID uint) (int64, error)
	Delete(ctx context.Context, id, receiverID uint) error
	DeleteAll(ctx context.Context, receiverID uint) (int64, error)
	CountUnread(ctx context.Context, receiverID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return translate(r.db.WithContext(ctx).Create(n).Error)
}

func (r *notificationRepository) GetForReceiver(ctx context.Context, id, receiverID uint) (*models.Notification, error) {
	n := &models.Notification{}
	err := r.db.WithContext(ctx).Where("id = ? AND receiver_id = ?", id, receiverID).First(n).Error
	if err != nil {
		return nil, translate(err)
	}
	return n, nil
}

func (r *notificationRepository) List(ctx context.Context, receiverID uint, limit, offset int) ([]models.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receiver_id = ?", receiverID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var items []models.Notification
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, translate(err)
	}
	return items, total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, receiverID uint) error {
	return affected(r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Updates(map[string]any{"is_read": true, "updated_at": time.Now()}))
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, receiverID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Updates(map[string]any{"is_read": true, "updated_at": time.Now()})
	return res.RowsAffected, translate(res.Error)
}

func (r *notificationRepository) Delete(ctx context.Context, id, receiverID uint) error {
	return affected(r.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Delete(&models.Notification{}))
}

func (r *notificationRepository) DeleteAll(ctx context.Context, receiverID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("receiver_id = ?", receiverID).Delete(&models.Notification{})
	return res.RowsAffected, translate(res.Error)
}

func (r *notificationRepository) CountUnread(ctx context.Context, receiverID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&n).Error
	return n, translate(err)
}
