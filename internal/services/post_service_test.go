package services

import (
	"context"
	"errors"
	"testing"

	"socialchat/internal/authz"
	"socialchat/internal/pagination"
)

func TestGroupPostsRequireMembership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := e.register(t, "admin")
	member := e.register(t, "member")
	outsider := e.register(t, "outsider")
	g, _, err := e.groups.Create(ctx, admin.ID, CreateGroupInput{Name: "club", Members: []string{"member"}})
	if err != nil {
		t.Fatalf("Create group: %v", err)
	}

	post, err := e.posts.Create(ctx, member.ID, CreatePostInput{GroupID: &g.ID, Content: "hello club"})
	if err != nil {
		t.Fatalf("Create post: %v", err)
	}
	if _, err := e.posts.Create(ctx, outsider.ID, CreatePostInput{GroupID: &g.ID, Content: "spam"}); !errors.Is(err, authz.ErrForbidden) {
		t.Errorf("outsider post err = %v", err)
	}
	if _, err := e.posts.Get(ctx, outsider.ID, post.ID); !errors.Is(err, authz.ErrForbidden) {
		t.Errorf("outsider get err = %v", err)
	}
	if _, err := e.posts.Create(ctx, member.ID, CreatePostInput{GroupID: &g.ID}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty post err = %v", err)
	}

	posts, total, err := e.posts.ListGroupPosts(ctx, admin.ID, g.ID, pagination.Params{Page: 1, PerPage: 10})
	if err != nil || total != 1 || posts[0].ID != post.ID {
		t.Fatalf("ListGroupPosts = %+v, %d, %v", posts, total, err)
	}

	// admins may moderate other people's posts
	if err := e.posts.Delete(ctx, admin.ID, post.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := e.posts.Get(ctx, member.ID, post.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted post err = %v", err)
	}
}

func TestPostDeleteByStranger(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	author := e.register(t, "author")
	other := e.register(t, "other")

	post, err := e.posts.Create(ctx, author.ID, CreatePostInput{Content: "my wall"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := e.posts.Delete(ctx, other.ID, post.ID); !errors.Is(err, authz.ErrForbidden) {
		t.Errorf("stranger delete err = %v", err)
	}
	if err := e.posts.Delete(ctx, author.ID, post.ID); err != nil {
		t.Errorf("author delete: %v", err)
	}
}

func TestCommentsAndReactions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	author := e.register(t, "author")
	reader := e.register(t, "reader")
	post, _ := e.posts.Create(ctx, author.ID, CreatePostInput{Content: "thoughts"})

	c, err := e.posts.Comment(ctx, reader.ID, post.ID, nil, "nice")
	if err != nil {
		t.Fatalf("Comment: %v", err)
	}
	if e.unread(t, author.ID) != 1 {
		t.Error("author not notified of comment")
	}
	if _, err := e.posts.Comment(ctx, author.ID, post.ID, &c.ID, "thanks"); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if e.unread(t, author.ID) != 1 {
		t.Error("author notified of own reply")
	}
	missing := uint(999)
	if _, err := e.posts.Comment(ctx, reader.ID, post.ID, &missing, "lost"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown parent err = %v", err)
	}
	comments, err := e.posts.Comments(ctx, reader.ID, post.ID)
	if err != nil || len(comments) != 2 {
		t.Fatalf("Comments = %d, %v", len(comments), err)
	}

	steps := []struct {
		typ    string
		active bool
	}{
		{"", true},       // default like
		{"like", false},  // same type toggles off
		{"heart", true},  // new reaction
		{"like", true},   // switching type replaces
		{"like", false},
	}
	for i, s := range steps {
		res, err := e.posts.ReactToPost(ctx, reader.ID, post.ID, s.typ)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if res.Active != s.active {
			t.Errorf("step %d: active = %v, want %v", i, res.Active, s.active)
		}
	}

	res, err := e.posts.ReactToComment(ctx, author.ID, c.ID, "heart")
	if err != nil || !res.Active {
		t.Fatalf("ReactToComment = %+v, %v", res, err)
	}
	if err := e.posts.Delete(ctx, author.ID, post.ID); err != nil {
		t.Fatalf("Delete with comments and reactions: %v", err)
	}
}
