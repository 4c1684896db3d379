package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"socialchat/internal/models"
)

type ContactRepository interface {
	Create(ctx context.Context, c *models.Contact) error
	GetByID(ctx context.Context, id uint) (*models.Contact, error)
	// FindBetween looks up the edge between a and b in either direction.
	FindBetween(ctx context.Context, a, b uint) (*models.Contact, error)
	UpdateStatus(ctx context.Context, id uint, status models.ContactStatus) error
	Delete(ctx context.Context, id uint) error
	ListIncomingPending(ctx context.Context, userID uint, limit, offset int) ([]models.Contact, int64, error)
	ListAccepted(ctx context.Context, userID uint, limit, offset int) ([]models.Contact, int64, error)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Contact, int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, c *models.Contact) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *contactRepository) GetByID(ctx context.Context, id uint) (*models.Contact, error) {
	c := &models.Contact{}
	if err := r.db.WithContext(ctx).Preload("Sender").Preload("Receiver").First(c, id).Error; err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (r *contactRepository) FindBetween(ctx context.Context, a, b uint) (*models.Contact, error) {
	c := &models.Contact{}
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		First(c).Error
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (r *contactRepository) UpdateStatus(ctx context.Context, id uint, status models.ContactStatus) error {
	return affected(r.db.WithContext(ctx).Model(&models.Contact{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}))
}

func (r *contactRepository) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Contact{}, id))
}

func (r *contactRepository) ListIncomingPending(ctx context.Context, userID uint, limit, offset int) ([]models.Contact, int64, error) {
	return r.list(ctx, limit, offset, "receiver_id = ? AND status = ?", userID, models.ContactPending)
}

func (r *contactRepository) ListAccepted(ctx context.Context, userID uint, limit, offset int) ([]models.Contact, int64, error) {
	return r.list(ctx, limit, offset, "(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, models.ContactAccepted)
}

func (r *contactRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Contact, int64, error) {
	return r.list(ctx, limit, offset, "sender_id = ? OR receiver_id = ?", userID, userID)
}

func (r *contactRepository) list(ctx context.Context, limit, offset int, query string, args ...any) ([]models.Contact, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Contact{}).Where(query, args...).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var contacts []models.Contact
	err := q.Preload("Sender").Preload("Receiver").
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&contacts).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return contacts, total, nil
}
