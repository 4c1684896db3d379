package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"socialchat/internal/models"
)

type GroupRepository interface {
	// Create stores the group and makes creatorID its admin in one transaction.
	Create(ctx context.Context, group *models.Group, creatorID uint) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	Update(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Group, int64, error)

	GetMembership(ctx context.Context, groupID, userID uint) (*models.UserGroup, error)
	AddMember(ctx context.Context, groupID, userID uint, typ models.MembershipType) error
	RemoveMember(ctx context.Context, groupID, userID uint) error
	SetMemberType(ctx context.Context, groupID, userID uint, typ models.MembershipType) error
	CountAdmins(ctx context.Context, groupID uint) (int64, error)
	MemberIDs(ctx context.Context, groupID uint) ([]uint, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group, creatorID uint) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members").Create(group).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserGroup{
			UserID:  creatorID,
			GroupID: group.ID,
			Type:    models.MembershipAdmin,
		}).Error
	}))
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	g := &models.Group{}
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("user_id") }).
		Preload("Members.User").
		First(g, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return g, nil
}

func (r *groupRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()
	return affected(r.db.WithContext(ctx).Model(&models.Group{}).Where("id = ?", id).Updates(fields))
}

func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.UserGroup{}).Error; err != nil {
			return translate(err)
		}
		// у comments нет FK на posts, чистим вручную
		postIDs := tx.Model(&models.Post{}).Select("id").Where("group_id = ?", id)
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id IN (?)", postIDs)
		if err := tx.Where("post_id IN (?) OR comment_id IN (?)", postIDs, commentIDs).Delete(&models.Reaction{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("post_id IN (?) OR comment_id IN (?)", postIDs, commentIDs).Delete(&models.Attachment{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.Comment{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("group_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return translate(err)
		}
		return affected(tx.Delete(&models.Group{}, id))
	})
}

func (r *groupRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Group, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Group{}).
		Joins("JOIN user_groups ug ON ug.group_id = social_groups.id AND ug.user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var groups []models.Group
	err := q.Select("social_groups.*").
		Preload("Members.User").
		Order("social_groups.id").
		Limit(limit).Offset(offset).
		Find(&groups).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return groups, total, nil
}

func (r *groupRepository) GetMembership(ctx context.Context, groupID, userID uint) (*models.UserGroup, error) {
	m := &models.UserGroup{}
	if err := r.db.WithContext(ctx).Where("group_id = ? AND user_id = ?", groupID, userID).First(m).Error; err != nil {
		return nil, translate(err)
	}
	return m, nil
}

func (r *groupRepository) AddMember(ctx context.Context, groupID, userID uint, typ models.MembershipType) error {
	return translate(r.db.WithContext(ctx).Create(&models.UserGroup{
		UserID:  userID,
		GroupID: groupID,
		Type:    typ,
	}).Error)
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID uint) error {
	return affected(r.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.UserGroup{}))
}

func (r *groupRepository) SetMemberType(ctx context.Context, groupID, userID uint, typ models.MembershipType) error {
	return affected(r.db.WithContext(ctx).Model(&models.UserGroup{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("type", typ))
}

func (r *groupRepository) CountAdmins(ctx context.Context, groupID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.UserGroup{}).
		Where("group_id = ? AND type = ?", groupID, models.MembershipAdmin).
		Count(&n).Error
	return n, translate(err)
}

func (r *groupRepository) MemberIDs(ctx context.Context, groupID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.UserGroup{}).
		Where("group_id = ?", groupID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, translate(err)
}
