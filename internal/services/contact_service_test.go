package services

import (
	"context"
	"errors"
	"testing"

	"socialchat/internal/authz"
	"socialchat/internal/models"
	"socialchat/internal/pagination"
)

func TestContactRequestAcceptFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "a")
	b := e.register(t, "b")
	c := e.register(t, "c")
	page := pagination.Params{Page: 1, PerPage: 10}

	req, err := e.contacts.Request(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if e.unread(t, b.ID) != 1 {
		t.Error("receiver not notified of request")
	}
	if _, err := e.contacts.Request(ctx, b.ID, a.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("reverse duplicate err = %v", err)
	}
	if _, err := e.contacts.Request(ctx, a.ID, a.ID); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("self request err = %v", err)
	}

	pending, total, _ := e.contacts.Pending(ctx, b.ID, page)
	if total != 1 || pending[0].ID != req.ID {
		t.Fatalf("pending = %+v", pending)
	}

	if _, err := e.contacts.Accept(ctx, a.ID, req.ID); !errors.Is(err, authz.ErrForbidden) {
		t.Errorf("sender accept err = %v", err)
	}
	if _, err := e.contacts.Accept(ctx, c.ID, req.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("stranger accept err = %v", err)
	}
	accepted, err := e.contacts.Accept(ctx, b.ID, req.ID)
	if err != nil || accepted.Status != models.ContactAccepted {
		t.Fatalf("Accept = %+v, %v", accepted, err)
	}
	if e.unread(t, a.ID) != 1 {
		t.Error("sender not notified of acceptance")
	}
	if _, err := e.contacts.Accept(ctx, b.ID, req.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("double accept err = %v", err)
	}

	for _, uid := range []uint{a.ID, b.ID} {
		if _, total, _ := e.contacts.Friends(ctx, uid, page); total != 1 {
			t.Errorf("friends of %d = %d", uid, total)
		}
	}

	if err := e.contacts.Remove(ctx, c.ID, req.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("stranger remove err = %v", err)
	}
	if err := e.contacts.Remove(ctx, a.ID, req.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, total, _ := e.contacts.List(ctx, b.ID, page); total != 0 {
		t.Errorf("contacts after remove = %d", total)
	}
}

func TestContactReject(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "a")
	b := e.register(t, "b")

	req, _ := e.contacts.Request(ctx, a.ID, b.ID)
	if err := e.contacts.Reject(ctx, b.ID, req.ID); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if _, err := e.contacts.Request(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("request after reject: %v", err)
	}
}
