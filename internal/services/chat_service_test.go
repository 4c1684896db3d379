package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"socialchat/internal/authz"
	"socialchat/internal/models"
	"socialchat/internal/pagination"
	"socialchat/internal/realtime"
)

func ptr[T any](v T) *T { return &v }

func TestSendDirectFansOutToBothSides(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "a")
	b := e.register(t, "b")

	msg, err := e.chat.Send(ctx, a.ID, SendInput{
		ConversationType: models.ConversationUser,
		ReceiverID:       &b.ID,
		Text:             "hi",
		Attachments:      []AttachmentInput{{FileName: "cat.png", URL: "https://files/cat.png"}},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg.ID == 0 || len(msg.Attachments) != 1 {
		t.Fatalf("message not stored with attachment: %+v", msg)
	}
	calls := e.events.byEvent(realtime.EventMessageSent)
	if len(calls) != 1 || calls[0].kind != "direct" {
		t.Fatalf("deliveries = %+v", calls)
	}
	if got := calls[0].recipients; got[0] != a.ID || got[1] != b.ID {
		t.Errorf("recipients = %v", got)
	}
}

func TestSendGroupUsesStoredMembership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "a")
	b := e.register(t, "b")
	outsider := e.register(t, "outsider")

	cg, err := e.chat.CreateChatGroup(ctx, a.ID, "room", "", []uint{b.ID, b.ID})
	if err != nil {
		t.Fatalf("CreateChatGroup: %v", err)
	}
	if len(cg.Users) != 2 {
		t.Fatalf("users = %d, want 2", len(cg.Users))
	}

	if _, err := e.chat.Send(ctx, b.ID, SendInput{ConversationType: models.ConversationChatGroup, ChatGroupID: &cg.ID, Text: "yo"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	calls := e.events.byEvent(realtime.EventMessageSent)
	if len(calls) != 1 || calls[0].kind != "group" {
		t.Fatalf("deliveries = %+v", calls)
	}
	got := map[uint]bool{}
	for _, id := range calls[0].recipients {
		got[id] = true
	}
	if !got[a.ID] || !got[b.ID] || got[outsider.ID] || len(got) != 2 {
		t.Errorf("recipients = %v", calls[0].recipients)
	}

	_, err = e.chat.Send(ctx, outsider.ID, SendInput{ConversationType: models.ConversationChatGroup, ChatGroupID: &cg.ID, Text: "let me in"})
	if !errors.Is(err, authz.ErrForbidden) {
		t.Errorf("outsider send err = %v", err)
	}
	if _, _, err := e.chat.GroupHistory(ctx, outsider.ID, cg.ID, pagination.Params{Page: 1, PerPage: 10}); !errors.Is(err, authz.ErrForbidden) {
		t.Errorf("outsider history err = %v", err)
	}
}

func TestSendValidation(t *testing.T) {
	e := newEnv(t)
	a := e.register(t, "a")
	b := e.register(t, "b")

	tests := []struct {
		name string
		in   SendInput
		want error
	}{
		{"empty", SendInput{ConversationType: models.ConversationUser, ReceiverID: &b.ID}, ErrInvalidInput},
		{"both targets", SendInput{ConversationType: models.ConversationUser, ReceiverID: &b.ID, ChatGroupID: ptr(uint(1)), Text: "x"}, ErrInvalidInput},
		{"group without id", SendInput{ConversationType: models.ConversationChatGroup, Text: "x"}, ErrInvalidInput},
		{"unknown type", SendInput{ConversationType: "Broadcast", Text: "x"}, ErrInvalidInput},
		{"missing receiver", SendInput{ConversationType: models.ConversationUser, ReceiverID: ptr(uint(999)), Text: "x"}, ErrNotFound},
		{"missing chat group", SendInput{ConversationType: models.ConversationChatGroup, ChatGroupID: ptr(uint(999)), Text: "x"}, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.chat.Send(context.Background(), a.ID, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHandleEventSentMessage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "a")
	b := e.register(t, "b")

	data, _ := json.Marshal(map[string]any{"conversation_type": "User", "receiver_id": b.ID, "text": "over ws"})
	if err := e.chat.HandleEvent(ctx, a.ID, realtime.InboundEvent{Event: realtime.EventSendMessage, Data: data}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	msgs, total, err := e.chat.DirectHistory(ctx, b.ID, a.ID, pagination.Params{Page: 1, PerPage: 10})
	if err != nil || total != 1 || msgs[0].Text != "over ws" {
		t.Fatalf("history = %+v, %d, %v", msgs, total, err)
	}

	if err := e.chat.HandleEvent(ctx, a.ID, realtime.InboundEvent{Event: "typing"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown event err = %v", err)
	}
	if err := e.chat.HandleEvent(ctx, a.ID, realtime.InboundEvent{Event: realtime.EventSendMessage, Data: []byte("{")}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("malformed payload err = %v", err)
	}
}

func TestTranscriptExport(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "a")
	b := e.register(t, "b")
	for _, text := range []string{"one", "two"} {
		if _, err := e.chat.Send(ctx, a.ID, SendInput{ConversationType: models.ConversationUser, ReceiverID: &b.ID, Text: text}); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	out, err := e.chat.Transcript(ctx, b.ID, TranscriptQuery{PeerID: a.ID})
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("not a PDF")
	}
	if _, err := e.chat.Transcript(ctx, b.ID, TranscriptQuery{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty query err = %v", err)
	}
}
