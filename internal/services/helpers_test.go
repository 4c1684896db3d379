package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialchat/internal/models"
	"socialchat/internal/pdf"
	"socialchat/internal/realtime"
	"socialchat/internal/repositories"
	"socialchat/internal/testutil"
)

type delivery struct {
	kind       string
	recipients []uint
	event      realtime.Event
}

// recordingDeliverer captures fan-out calls instead of writing to sockets.
type recordingDeliverer struct {
	mu    sync.Mutex
	calls []delivery
}

func (r *recordingDeliverer) record(kind string, ids []uint, ev realtime.Event) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, delivery{kind: kind, recipients: ids, event: ev})
	return len(ids), nil
}

func (r *recordingDeliverer) DeliverDirect(senderID, receiverID uint, ev realtime.Event) (int, error) {
	return r.record("direct", []uint{senderID, receiverID}, ev)
}

func (r *recordingDeliverer) DeliverGroup(memberIDs []uint, ev realtime.Event) (int, error) {
	return r.record("group", memberIDs, ev)
}

func (r *recordingDeliverer) DeliverUser(userID uint, ev realtime.Event) (int, error) {
	return r.record("user", []uint{userID}, ev)
}

func (r *recordingDeliverer) byEvent(name string) []delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []delivery
	for _, c := range r.calls {
		if c.event.Event == name {
			out = append(out, c)
		}
	}
	return out
}

type fakeEmail struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (f *fakeEmail) SendWelcomeEmail(email, _ string) error {
	return f.SendNotification(email, "welcome")
}

func (f *fakeEmail) SendNotification(email, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, email)
	return nil
}

func (f *fakeEmail) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeTelegram struct {
	mu    sync.Mutex
	chats []int64
}

func (f *fakeTelegram) SendMessage(chatID int64, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, chatID)
	return nil
}

// env wires every service over one in-memory database.
type env struct {
	db       *gorm.DB
	users    repositories.UserRepository
	tokens   repositories.RefreshTokenRepository
	events   *recordingDeliverer
	email    *fakeEmail
	telegram *fakeTelegram

	auth          *authService
	notifications NotificationService
	groups        GroupService
	chat          ChatService
	contacts      ContactService
	posts         PostService
	offices       OfficeService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	log := zap.NewNop()
	e := &env{
		db:       db,
		users:    repositories.NewUserRepository(db),
		tokens:   repositories.NewRefreshTokenRepository(db),
		events:   &recordingDeliverer{},
		email:    &fakeEmail{},
		telegram: &fakeTelegram{},
	}
	groupRepo := repositories.NewGroupRepository(db)

	e.auth = NewAuthService(e.users, e.tokens, NewTokenIssuer("test-secret", 15*time.Minute), 24*time.Hour, nil, log).(*authService)
	e.notifications = NewNotificationService(repositories.NewNotificationRepository(db), e.users, e.events, e.email, e.telegram, log)
	e.groups = NewGroupService(groupRepo, e.users, e.notifications, log)
	e.chat = NewChatService(repositories.NewChatRepository(db), e.users, e.events, pdf.NewTranscriptGenerator(""), log)
	e.contacts = NewContactService(repositories.NewContactRepository(db), e.users, e.notifications, log)
	e.posts = NewPostService(repositories.NewPostRepository(db), groupRepo, e.users, e.notifications, log)
	e.offices = NewOfficeService(repositories.NewOfficeRepository(db))
	t.Cleanup(e.notifications.Wait)
	return e
}

func (e *env) register(t *testing.T, username string) *models.User {
	t.Helper()
	u, _, err := e.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}

func (e *env) unread(t *testing.T, userID uint) int64 {
	t.Helper()
	n, err := e.notifications.UnreadCount(context.Background(), userID)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	return n
}
