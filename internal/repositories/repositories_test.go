package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"socialchat/internal/models"
	"socialchat/internal/repositories"
	"socialchat/internal/testutil"
)

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
	if err := repositories.NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func TestUserRepositoryDuplicateAndLookup(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewUserRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	err := repo.Create(ctx, &models.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	if !errors.Is(err, repositories.ErrAlreadyExists) {
		t.Fatalf("duplicate username err = %v, want ErrAlreadyExists", err)
	}

	got, err := repo.GetByEmail(ctx, "  ALICE@example.com ")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != alice.ID {
		t.Errorf("GetByEmail id = %d, want %d", got.ID, alice.ID)
	}
	if _, err := repo.GetByID(ctx, 9999); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("GetByID missing err = %v", err)
	}
	if err := repo.UpdateProfile(ctx, 9999, map[string]any{"full_name": "x"}); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("UpdateProfile missing err = %v", err)
	}
}

func TestUserRepositorySearchPaginates(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewUserRepository(db)
	for i := 0; i < 12; i++ {
		seedUser(t, db, fmt.Sprintf("user%02d", i))
	}
	seedUser(t, db, "zed")

	users, total, err := repo.Search(context.Background(), "user", 5, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 12 {
		t.Errorf("total = %d, want 12", total)
	}
	if len(users) != 2 {
		t.Errorf("len = %d, want 2", len(users))
	}
}

func TestRefreshTokenRotateIsConditional(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewRefreshTokenRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "bob")

	rt := &models.RefreshToken{Token: "old", UserID: u.ID, UserName: u.Username, ExpiresAt: time.Now().Add(time.Hour)}
	if err := repo.Create(ctx, rt); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Rotate(ctx, rt.ID, "old", "new", time.Now().Add(2*time.Hour)); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if err := repo.Rotate(ctx, rt.ID, "old", "newer", time.Now()); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("second Rotate err = %v, want ErrNotFound", err)
	}
	got, err := repo.GetByToken(ctx, "new")
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if got.UserID != u.ID || got.UserName != "bob" {
		t.Errorf("binding changed: %+v", got)
	}
	n, err := repo.DeleteByUser(ctx, u.ID)
	if err != nil || n != 1 {
		t.Errorf("DeleteByUser = %d, %v", n, err)
	}
}

func TestRefreshTokenDeleteExpired(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewRefreshTokenRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "carol")
	now := time.Now()

	for i, exp := range []time.Time{now.Add(-time.Minute), now.Add(-time.Hour), now.Add(time.Hour)} {
		rt := &models.RefreshToken{Token: fmt.Sprintf("t%d", i), UserID: u.ID, UserName: u.Username, ExpiresAt: exp}
		if err := repo.Create(ctx, rt); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	n, err := repo.DeleteExpired(ctx, now)
	if err != nil || n != 2 {
		t.Fatalf("DeleteExpired = %d, %v; want 2", n, err)
	}
	if _, err := repo.GetByToken(ctx, "t2"); err != nil {
		t.Errorf("live token removed: %v", err)
	}
}

func TestGroupRepositoryMembership(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewGroupRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	member := seedUser(t, db, "member")

	g := &models.Group{Name: "gophers"}
	if err := repo.Create(ctx, g, owner.ID); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.AddMember(ctx, g.ID, member.ID, models.MembershipMember); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if err := repo.AddMember(ctx, g.ID, member.ID, models.MembershipMember); !errors.Is(err, repositories.ErrAlreadyExists) {
		t.Errorf("second AddMember err = %v", err)
	}

	m, err := repo.GetMembership(ctx, g.ID, owner.ID)
	if err != nil || m.Type != models.MembershipAdmin {
		t.Fatalf("owner membership = %+v, %v", m, err)
	}
	if n, _ := repo.CountAdmins(ctx, g.ID); n != 1 {
		t.Errorf("admins = %d, want 1", n)
	}
	ids, err := repo.MemberIDs(ctx, g.ID)
	if err != nil || len(ids) != 2 {
		t.Errorf("MemberIDs = %v, %v", ids, err)
	}

	groups, total, err := repo.ListForUser(ctx, member.ID, 10, 0)
	if err != nil || total != 1 || len(groups) != 1 || groups[0].Name != "gophers" {
		t.Errorf("ListForUser = %+v, %d, %v", groups, total, err)
	}

	if err := repo.Delete(ctx, g.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, g.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("GetByID after delete err = %v", err)
	}
}

func TestChatRepositoryHistory(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewChatRepository(db)
	ctx := context.Background()
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")
	c := seedUser(t, db, "c")

	for i := 0; i < 3; i++ {
		msg := &models.Message{ConversationType: models.ConversationUser, SenderID: a.ID, ReceiverID: &b.ID, Text: fmt.Sprint(i)}
		if err := repo.CreateMessage(ctx, msg); err != nil {
			t.Fatalf("CreateMessage: %v", err)
		}
	}
	other := &models.Message{ConversationType: models.ConversationUser, SenderID: a.ID, ReceiverID: &c.ID, Text: "x"}
	if err := repo.CreateMessage(ctx, other); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	msgs, total, err := repo.ListDirect(ctx, b.ID, a.ID, 2, 0)
	if err != nil {
		t.Fatalf("ListDirect: %v", err)
	}
	if total != 3 || len(msgs) != 2 {
		t.Fatalf("total=%d len=%d", total, len(msgs))
	}
	if msgs[0].Text != "2" {
		t.Errorf("newest first expected, got %q", msgs[0].Text)
	}

	cg := &models.ChatGroup{Name: "room", CreatorID: a.ID}
	if err := repo.CreateChatGroup(ctx, cg, []uint{a.ID, b.ID}); err != nil {
		t.Fatalf("CreateChatGroup: %v", err)
	}
	if ok, _ := repo.IsMember(ctx, cg.ID, c.ID); ok {
		t.Error("c should not be a member")
	}
	ids, err := repo.MemberIDs(ctx, cg.ID)
	if err != nil || len(ids) != 2 {
		t.Errorf("MemberIDs = %v, %v", ids, err)
	}
	groups, total, err := repo.ListChatGroups(ctx, b.ID, 10, 0)
	if err != nil || total != 1 || len(groups[0].Users) != 2 {
		t.Errorf("ListChatGroups = %+v, %d, %v", groups, total, err)
	}
}

func TestNotificationRepositoryScopedToReceiver(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewNotificationRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")

	n := &models.Notification{ReceiverID: owner.ID, Content: "hi"}
	if err := repo.Create(ctx, n); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.MarkRead(ctx, n.ID, stranger.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("foreign MarkRead err = %v", err)
	}
	if err := repo.Delete(ctx, n.ID, stranger.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("foreign Delete err = %v", err)
	}
	if c, _ := repo.CountUnread(ctx, owner.ID); c != 1 {
		t.Errorf("unread = %d, want 1", c)
	}
	if updated, err := repo.MarkAllRead(ctx, owner.ID); err != nil || updated != 1 {
		t.Errorf("MarkAllRead = %d, %v", updated, err)
	}
	if c, _ := repo.CountUnread(ctx, owner.ID); c != 0 {
		t.Errorf("unread after MarkAllRead = %d", c)
	}
}

func TestContactRepositoryFindBetweenEitherDirection(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewContactRepository(db)
	ctx := context.Background()
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")

	c := &models.Contact{SenderID: a.ID, ReceiverID: b.ID, Status: models.ContactPending}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.FindBetween(ctx, b.ID, a.ID)
	if err != nil || got.ID != c.ID {
		t.Fatalf("FindBetween = %+v, %v", got, err)
	}
	pending, total, err := repo.ListIncomingPending(ctx, b.ID, 10, 0)
	if err != nil || total != 1 || pending[0].Sender == nil {
		t.Errorf("ListIncomingPending = %+v, %d, %v", pending, total, err)
	}
	if _, total, _ := repo.ListIncomingPending(ctx, a.ID, 10, 0); total != 0 {
		t.Errorf("sender sees %d incoming", total)
	}
}

func TestPostRepositoryDeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewPostRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "author")

	p := &models.Post{UserID: u.ID, Content: "hello"}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	cm := &models.Comment{PostID: p.ID, UserID: u.ID, Content: "first"}
	if err := repo.CreateComment(ctx, cm); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if err := repo.CreateReaction(ctx, &models.Reaction{UserID: u.ID, CommentID: &cm.ID, Type: "like"}); err != nil {
		t.Fatalf("CreateReaction: %v", err)
	}
	if _, err := repo.FindReaction(ctx, u.ID, nil, &cm.ID); err != nil {
		t.Fatalf("FindReaction: %v", err)
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.FindReaction(ctx, u.ID, nil, &cm.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("reaction survived delete: %v", err)
	}
	if comments, _ := repo.ListComments(ctx, p.ID); len(comments) != 0 {
		t.Errorf("comments survived delete: %d", len(comments))
	}
}

func TestGroupDeleteRemovesPostContent(t *testing.T) {
	db := testutil.NewDB(t)
	groups := repositories.NewGroupRepository(db)
	posts := repositories.NewPostRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "owner")

	g := &models.Group{Name: "gophers"}
	if err := groups.Create(ctx, g, u.ID); err != nil {
		t.Fatalf("Create group: %v", err)
	}
	p := &models.Post{UserID: u.ID, GroupID: &g.ID, Content: "hello",
		Attachments: []models.Attachment{{UserID: u.ID, URL: "https://example.com/a.png"}}}
	if err := posts.Create(ctx, p); err != nil {
		t.Fatalf("Create post: %v", err)
	}
	cm := &models.Comment{PostID: p.ID, UserID: u.ID, Content: "first"}
	if err := posts.CreateComment(ctx, cm); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if err := posts.CreateReaction(ctx, &models.Reaction{UserID: u.ID, PostID: &p.ID, Type: "like"}); err != nil {
		t.Fatalf("CreateReaction post: %v", err)
	}
	if err := posts.CreateReaction(ctx, &models.Reaction{UserID: u.ID, CommentID: &cm.ID, Type: "like"}); err != nil {
		t.Fatalf("CreateReaction comment: %v", err)
	}

	if err := groups.Delete(ctx, g.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	counts := map[string]any{
		"posts":       &models.Post{},
		"comments":    &models.Comment{},
		"reactions":   &models.Reaction{},
		"attachments": &models.Attachment{},
	}
	for name, model := range counts {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		if n != 0 {
			t.Errorf("%s left after group delete: %d", name, n)
		}
	}
}

func TestOfficeRepositoryChildren(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewOfficeRepository(db)
	ctx := context.Background()

	root := &models.Office{Name: "HQ", Code: "hq"}
	if err := repo.Create(ctx, root); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, code := range []string{"east", "west"} {
		if err := repo.Create(ctx, &models.Office{Name: code, Code: code, ParentID: &root.ID}); err != nil {
			t.Fatalf("Create %s: %v", code, err)
		}
	}
	kids, err := repo.Children(ctx, root.ID)
	if err != nil || len(kids) != 2 {
		t.Fatalf("Children = %v, %v", kids, err)
	}
}
