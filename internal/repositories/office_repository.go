package repositories

import (
	"context"

	"gorm.io/gorm"

	"socialchat/internal/models"
)

type OfficeRepository interface {
	Create(ctx context.Context, o *models.Office) error
	GetByID(ctx context.Context, id uint) (*models.Office, error)
	Children(ctx context.Context, parentID uint) ([]models.Office, error)
}

type officeRepository struct {
	db *gorm.DB
}

func NewOfficeRepository(db *gorm.DB) OfficeRepository {
	return &officeRepository{db: db}
}

func (r *officeRepository) Create(ctx context.Context, o *models.Office) error {
	return translate(r.db.WithContext(ctx).Create(o).Error)
}

func (r *officeRepository) GetByID(ctx context.Context, id uint) (*models.Office, error) {
	o := &models.Office{}
	if err := r.db.WithContext(ctx).First(o, id).Error; err != nil {
		return nil, translate(err)
	}
	return o, nil
}

func (r *officeRepository) Children(ctx context.Context, parentID uint) ([]models.Office, error) {
	var offices []models.Office
	err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("id").Find(&offices).Error
	return offices, translate(err)
}
