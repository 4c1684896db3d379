package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"socialchat/internal/authz"
	"socialchat/internal/models"
	"socialchat/internal/pagination"
	"socialchat/internal/repositories"
)

const DefaultReaction = "like"

type CreatePostInput struct {
	GroupID     *uint
	Content     string
	Attachments []AttachmentInput
}

// ReactionResult tells whether the toggle added or removed the reaction.
type ReactionResult struct {
	Active bool   `json:"active"`
	Type   string `json:"type"`
}

type PostService interface {
	Create(ctx context.Context, userID uint, in CreatePostInput) (*models.Post, error)
	ListGroupPosts(ctx context.Context, userID, groupID uint, p pagination.Params) ([]models.Post, int64, error)
	Get(ctx context.Context, userID, postID uint) (*models.Post, error)
	// Delete is allowed to the author and to admins of the post's group.
	Delete(ctx context.Context, userID, postID uint) error
	Comment(ctx context.Context, userID, postID uint, parentID *uint, content string) (*models.Comment, error)
	Comments(ctx context.Context, userID, postID uint) ([]models.Comment, error)
	ReactToPost(ctx context.Context, userID, postID uint, typ string) (*ReactionResult, error)
	ReactToComment(ctx context.Context, userID, commentID uint, typ string) (*ReactionResult, error)
}

type postService struct {
	posts    repositories.PostRepository
	groups   repositories.GroupRepository
	users    repositories.UserRepository
	notifier Notifier
	log      *zap.Logger
}

func NewPostService(posts repositories.PostRepository, groups repositories.GroupRepository, users repositories.UserRepository, notifier Notifier, log *zap.Logger) PostService {
	return &postService{posts: posts, groups: groups, users: users, notifier: notifier, log: log}
}

func (s *postService) Create(ctx context.Context, userID uint, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && len(in.Attachments) == 0 {
		return nil, fmt.Errorf("%w: content or attachments required", ErrInvalidInput)
	}
	if in.GroupID != nil {
		if _, err := s.groups.GetByID(ctx, *in.GroupID); err != nil {
			return nil, err
		}
		if _, err := authz.RequireGroupMember(ctx, s.groups, *in.GroupID, userID); err != nil {
			return nil, err
		}
	}
	p := &models.Post{UserID: userID, GroupID: in.GroupID, Content: content}
	for _, a := range in.Attachments {
		if strings.TrimSpace(a.URL) == "" {
			return nil, fmt.Errorf("%w: attachment url is required", ErrInvalidInput)
		}
		p.Attachments = append(p.Attachments, models.Attachment{UserID: userID, FileName: a.FileName, URL: a.URL, MimeType: a.MimeType})
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, p.ID)
}

func (s *postService) ListGroupPosts(ctx context.Context, userID, groupID uint, p pagination.Params) ([]models.Post, int64, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, 0, err
	}
	if _, err := authz.RequireGroupMember(ctx, s.groups, groupID, userID); err != nil {
		return nil, 0, err
	}
	return s.posts.ListByGroup(ctx, groupID, p.Limit(), p.Offset())
}

// visible loads a post and checks group membership for group posts.
func (s *postService) visible(ctx context.Context, userID, postID uint) (*models.Post, error) {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.GroupID != nil {
		if _, err := authz.RequireGroupMember(ctx, s.groups, *p.GroupID, userID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (s *postService) Get(ctx context.Context, userID, postID uint) (*models.Post, error) {
	return s.visible(ctx, userID, postID)
}

func (s *postService) Delete(ctx context.Context, userID, postID uint) error {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		if p.GroupID == nil {
			return fmt.Errorf("%w: only the author can delete this post", authz.ErrForbidden)
		}
		if err := authz.RequireGroupAdmin(ctx, s.groups, *p.GroupID, userID); err != nil {
			return err
		}
	}
	return s.posts.Delete(ctx, postID)
}

func (s *postService) Comment(ctx context.Context, userID, postID uint, parentID *uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrInvalidInput)
	}
	p, err := s.visible(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if parentID != nil {
		parent, err := s.posts.GetComment(ctx, *parentID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: parent comment does not exist", ErrInvalidInput)
		}
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, fmt.Errorf("%w: parent comment belongs to another post", ErrInvalidInput)
		}
	}

	c := &models.Comment{PostID: postID, UserID: userID, ParentID: parentID, Content: content}
	if err := s.posts.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	if p.UserID != userID {
		author := fmt.Sprintf("user #%d", userID)
		if u, err := s.users.GetByID(ctx, userID); err == nil {
			author = u.Username
		}
		notifyBestEffort(ctx, s.notifier, s.log, p.UserID, fmt.Sprintf("%s commented on your post", author))
	}
	return c, nil
}

func (s *postService) Comments(ctx context.Context, userID, postID uint) ([]models.Comment, error) {
	if _, err := s.visible(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.posts.ListComments(ctx, postID)
}

func (s *postService) ReactToPost(ctx context.Context, userID, postID uint, typ string) (*ReactionResult, error) {
	if _, err := s.visible(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.toggle(ctx, userID, &postID, nil, typ)
}

func (s *postService) ReactToComment(ctx context.Context, userID, commentID uint, typ string) (*ReactionResult, error) {
	c, err := s.posts.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.visible(ctx, userID, c.PostID); err != nil {
		return nil, err
	}
	return s.toggle(ctx, userID, nil, &commentID, typ)
}

// toggle removes an existing reaction of the same type, otherwise replaces or
// creates it.
func (s *postService) toggle(ctx context.Context, userID uint, postID, commentID *uint, typ string) (*ReactionResult, error) {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		typ = DefaultReaction
	}
	existing, err := s.posts.FindReaction(ctx, userID, postID, commentID)
	switch {
	case err == nil:
		if err := s.posts.DeleteReaction(ctx, existing.ID); err != nil {
			return nil, err
		}
		if existing.Type == typ {
			return &ReactionResult{Active: false, Type: typ}, nil
		}
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}
	r := &models.Reaction{UserID: userID, PostID: postID, CommentID: commentID, Type: typ}
	if err := s.posts.CreateReaction(ctx, r); err != nil {
		return nil, err
	}
	return &ReactionResult{Active: true, Type: typ}, nil
}
