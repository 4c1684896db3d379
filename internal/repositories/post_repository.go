package repositories

import (
	"context"

	"gorm.io/gorm"

	"socialchat/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, p *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]models.Post, int64, error)
	// Delete removes the post with its comments and reactions.
	Delete(ctx context.Context, id uint) error

	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, id uint) (*models.Comment, error)
	ListComments(ctx context.Context, postID uint) ([]models.Comment, error)

	FindReaction(ctx context.Context, userID uint, postID, commentID *uint) (*models.Reaction, error)
	CreateReaction(ctx context.Context, r *models.Reaction) error
	DeleteReaction(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, p *models.Post) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	p := &models.Post{}
	if err := r.db.WithContext(ctx).Preload("User").Preload("Attachments").First(p, id).Error; err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (r *postRepository) ListByGroup(ctx context.Context, groupID uint, limit, offset int) ([]models.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).Where("group_id = ?", groupID).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var posts []models.Post
	err := q.Preload("User").Preload("Attachments").
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return posts, total, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", id)
		if err := tx.Where("post_id = ? OR comment_id IN (?)", id, commentIDs).Delete(&models.Reaction{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("post_id = ? OR comment_id IN (?)", id, commentIDs).Delete(&models.Attachment{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return translate(err)
		}
		return affected(tx.Delete(&models.Post{}, id))
	})
}

func (r *postRepository) CreateComment(ctx context.Context, c *models.Comment) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *postRepository) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	c := &models.Comment{}
	if err := r.db.WithContext(ctx).First(c, id).Error; err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (r *postRepository) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("id").Find(&comments).Error
	return comments, translate(err)
}

func (r *postRepository) FindReaction(ctx context.Context, userID uint, postID, commentID *uint) (*models.Reaction, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if postID != nil {
		q = q.Where("post_id = ?", *postID)
	} else {
		q = q.Where("post_id IS NULL")
	}
	if commentID != nil {
		q = q.Where("comment_id = ?", *commentID)
	} else {
		q = q.Where("comment_id IS NULL")
	}
	reaction := &models.Reaction{}
	if err := q.First(reaction).Error; err != nil {
		return nil, translate(err)
	}
	return reaction, nil
}

func (r *postRepository) CreateReaction(ctx context.Context, reaction *models.Reaction) error {
	return translate(r.db.WithContext(ctx).Create(reaction).Error)
}

func (r *postRepository) DeleteReaction(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Reaction{}, id))
}
