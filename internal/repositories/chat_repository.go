package repositories

import (
	"context"

	"gorm.io/gorm"

	"socialchat/internal/models"
)

type ChatRepository interface {
	CreateChatGroup(ctx context.Context, cg *models.ChatGroup, memberIDs []uint) error
	GetChatGroup(ctx context.Context, id uint) (*models.ChatGroup, error)
	ListChatGroups(ctx context.Context, userID uint, limit, offset int) ([]models.ChatGroup, int64, error)
	IsMember(ctx context.Context, chatGroupID, userID uint) (bool, error)
	MemberIDs(ctx context.Context, chatGroupID uint) ([]uint, error)

	CreateMessage(ctx context.Context, msg *models.Message) error
	// ListDirect returns the conversation between a and b, newest first.
	ListDirect(ctx context.Context, a, b uint, limit, offset int) ([]models.Message, int64, error)
	ListGroup(ctx context.Context, chatGroupID uint, limit, offset int) ([]models.Message, int64, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateChatGroup(ctx context.Context, cg *models.ChatGroup, memberIDs []uint) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Users").Create(cg).Error; err != nil {
			return err
		}
		if len(memberIDs) == 0 {
			return nil
		}
		rows := make([]map[string]any, 0, len(memberIDs))
		for _, id := range memberIDs {
			rows = append(rows, map[string]any{"chat_group_id": cg.ID, "user_id": id})
		}
		return tx.Table("user_chat_groups").Create(rows).Error
	}))
}

func (r *chatRepository) GetChatGroup(ctx context.Context, id uint) (*models.ChatGroup, error) {
	cg := &models.ChatGroup{}
	err := r.db.WithContext(ctx).
		Preload("Users", func(db *gorm.DB) *gorm.DB { return db.Order("users.id") }).
		First(cg, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return cg, nil
}

func (r *chatRepository) ListChatGroups(ctx context.Context, userID uint, limit, offset int) ([]models.ChatGroup, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.ChatGroup{}).
		Joins("JOIN user_chat_groups ucg ON ucg.chat_group_id = chat_groups.id AND ucg.user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var groups []models.ChatGroup
	err := q.Select("chat_groups.*").
		Preload("Users").
		Order("chat_groups.id").
		Limit(limit).Offset(offset).
		Find(&groups).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return groups, total, nil
}

func (r *chatRepository) IsMember(ctx context.Context, chatGroupID, userID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("user_chat_groups").
		Where("chat_group_id = ? AND user_id = ?", chatGroupID, userID).
		Count(&n).Error
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (r *chatRepository) MemberIDs(ctx context.Context, chatGroupID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Table("user_chat_groups").
		Where("chat_group_id = ?", chatGroupID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, translate(err)
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *chatRepository) ListDirect(ctx context.Context, a, b uint, limit, offset int) ([]models.Message, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_type = ?", models.ConversationUser).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Session(&gorm.Session{})
	return r.page(q, limit, offset)
}

func (r *chatRepository) ListGroup(ctx context.Context, chatGroupID uint, limit, offset int) ([]models.Message, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_type = ? AND chat_group_id = ?", models.ConversationChatGroup, chatGroupID).
		Session(&gorm.Session{})
	return r.page(q, limit, offset)
}

func (r *chatRepository) page(q *gorm.DB, limit, offset int) ([]models.Message, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var msgs []models.Message
	err := q.Preload("Attachments").
		Preload("Sender").
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&msgs).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return msgs, total, nil
}
