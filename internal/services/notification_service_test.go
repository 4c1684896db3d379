package services

import (
	"context"
	"errors"
	"testing"

	"socialchat/internal/pagination"
	"socialchat/internal/realtime"
)

func TestNotifyPersistsPushesAndUsesSideChannels(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice")
	notify := true
	if _, err := NewUserService(e.users, e.tokens, nil).UpdateProfile(ctx, u.ID, ProfileUpdate{NotifyEmail: &notify}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if err := e.users.SetTelegramChat(ctx, u.ID, 4242); err != nil {
		t.Fatalf("SetTelegramChat: %v", err)
	}

	n, err := e.notifications.Notify(ctx, u.ID, "hello")
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	e.notifications.Wait()

	pushes := e.events.byEvent(realtime.EventNotification)
	if len(pushes) != 1 || pushes[0].recipients[0] != u.ID {
		t.Fatalf("pushes = %+v", pushes)
	}
	if e.email.count() != 1 {
		t.Errorf("emails = %d, want 1", e.email.count())
	}
	if len(e.telegram.chats) != 1 || e.telegram.chats[0] != 4242 {
		t.Errorf("telegram chats = %v", e.telegram.chats)
	}

	got, err := e.notifications.Get(ctx, u.ID, n.ID)
	if err != nil || got.IsRead {
		t.Fatalf("Get = %+v, %v", got, err)
	}
}

func TestNotifySurvivesEmailFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice")
	notify := true
	_, _ = NewUserService(e.users, e.tokens, nil).UpdateProfile(ctx, u.ID, ProfileUpdate{NotifyEmail: &notify})
	e.email.fail = true

	if _, err := e.notifications.Notify(ctx, u.ID, "still stored"); err != nil {
		t.Fatalf("Notify failed because of email: %v", err)
	}
	e.notifications.Wait()
	if e.unread(t, u.ID) != 1 {
		t.Error("notification not stored")
	}
}

func TestNotificationOwnership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.register(t, "owner")
	other := e.register(t, "other")
	n, _ := e.notifications.Notify(ctx, owner.ID, "private")

	if _, err := e.notifications.Get(ctx, other.ID, n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign Get err = %v", err)
	}
	if err := e.notifications.MarkRead(ctx, other.ID, n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign MarkRead err = %v", err)
	}
	if err := e.notifications.MarkRead(ctx, owner.ID, n.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if e.unread(t, owner.ID) != 0 {
		t.Error("still unread")
	}

	for i := 0; i < 3; i++ {
		_, _ = e.notifications.Notify(ctx, owner.ID, "bulk")
	}
	if n, _ := e.notifications.MarkAllRead(ctx, owner.ID); n != 3 {
		t.Errorf("MarkAllRead = %d, want 3", n)
	}
	items, total, _ := e.notifications.List(ctx, owner.ID, pagination.Params{Page: 2, PerPage: 3})
	if total != 4 || len(items) != 1 {
		t.Errorf("page 2 = %d items of %d", len(items), total)
	}
	if n, _ := e.notifications.DeleteAll(ctx, owner.ID); n != 4 {
		t.Errorf("DeleteAll = %d, want 4", n)
	}
	if _, err := e.notifications.Notify(ctx, owner.ID, "   "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty content err = %v", err)
	}
}
