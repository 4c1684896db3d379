package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"socialchat/internal/authz"
	"socialchat/internal/models"
	"socialchat/internal/pagination"
	"socialchat/internal/pdf"
	"socialchat/internal/realtime"
	"socialchat/internal/repositories"
)

var ErrNotChatMember = fmt.Errorf("%w: not a member of this chat", authz.ErrForbidden)

// transcriptLimit bounds how many messages one export renders.
const transcriptLimit = 1000

type AttachmentInput struct {
	FileName string `json:"file_name"`
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
}

// SendInput is both the REST body and the payload of the "sent-message" event.
type SendInput struct {
	ConversationType models.ConversationType `json:"conversation_type"`
	ReceiverID       *uint                   `json:"receiver_id,omitempty"`
	ChatGroupID      *uint                   `json:"chat_group_id,omitempty"`
	Text             string                  `json:"text"`
	Attachments      []AttachmentInput       `json:"attachments,omitempty"`
}

// TranscriptQuery selects either a direct conversation or a chat group.
type TranscriptQuery struct {
	PeerID      uint
	ChatGroupID uint
}

type ChatService interface {
	realtime.InboundHandler
	CreateChatGroup(ctx context.Context, creatorID uint, name, avatarURL string, memberIDs []uint) (*models.ChatGroup, error)
	ListChatGroups(ctx context.Context, userID uint, p pagination.Params) ([]models.ChatGroup, int64, error)
	GetChatGroup(ctx context.Context, userID, chatGroupID uint) (*models.ChatGroup, error)
	Send(ctx context.Context, senderID uint, in SendInput) (*models.Message, error)
	DirectHistory(ctx context.Context, userID, peerID uint, p pagination.Params) ([]models.Message, int64, error)
	GroupHistory(ctx context.Context, userID, chatGroupID uint, p pagination.Params) ([]models.Message, int64, error)
	Transcript(ctx context.Context, userID uint, q TranscriptQuery) ([]byte, error)
}

type chatService struct {
	repo   repositories.ChatRepository
	users  repositories.UserRepository
	events EventDeliverer
	pdf    pdf.Generator
	log    *zap.Logger
	now    func() time.Time
}

func NewChatService(repo repositories.ChatRepository, users repositories.UserRepository, events EventDeliverer, gen pdf.Generator, log *zap.Logger) ChatService {
	return &chatService{repo: repo, users: users, events: events, pdf: gen, log: log, now: time.Now}
}

func (s *chatService) CreateChatGroup(ctx context.Context, creatorID uint, name, avatarURL string, memberIDs []uint) (*models.ChatGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: chat group name is required", ErrInvalidInput)
	}
	ids := []uint{creatorID}
	seen := map[uint]struct{}{creatorID: {}}
	for _, id := range memberIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ok, err := s.users.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: user %d does not exist", ErrInvalidInput, id)
		}
		ids = append(ids, id)
	}

	cg := &models.ChatGroup{Name: name, AvatarURL: avatarURL, CreatorID: creatorID}
	if err := s.repo.CreateChatGroup(ctx, cg, ids); err != nil {
		return nil, err
	}
	s.log.Info("[chat][group] created", zap.Uint("chat_group_id", cg.ID), zap.Int("members", len(ids)))
	return s.repo.GetChatGroup(ctx, cg.ID)
}

func (s *chatService) ListChatGroups(ctx context.Context, userID uint, p pagination.Params) ([]models.ChatGroup, int64, error) {
	return s.repo.ListChatGroups(ctx, userID, p.Limit(), p.Offset())
}

func (s *chatService) GetChatGroup(ctx context.Context, userID, chatGroupID uint) (*models.ChatGroup, error) {
	if err := s.requireMember(ctx, chatGroupID, userID); err != nil {
		return nil, err
	}
	return s.repo.GetChatGroup(ctx, chatGroupID)
}

func (s *chatService) requireMember(ctx context.Context, chatGroupID, userID uint) error {
	// 404 для несуществующей группы, 403 для чужой
	if _, err := s.repo.GetChatGroup(ctx, chatGroupID); err != nil {
		return err
	}
	ok, err := s.repo.IsMember(ctx, chatGroupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotChatMember
	}
	return nil
}

func (s *chatService) Send(ctx context.Context, senderID uint, in SendInput) (*models.Message, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" && len(in.Attachments) == 0 {
		return nil, fmt.Errorf("%w: text or attachments required", ErrInvalidInput)
	}
	for _, a := range in.Attachments {
		if strings.TrimSpace(a.URL) == "" {
			return nil, fmt.Errorf("%w: attachment url is required", ErrInvalidInput)
		}
	}

	msg := &models.Message{
		ConversationType: in.ConversationType,
		SenderID:         senderID,
		Text:             text,
	}
	for _, a := range in.Attachments {
		msg.Attachments = append(msg.Attachments, models.Attachment{
			UserID:   senderID,
			FileName: a.FileName,
			URL:      strings.TrimSpace(a.URL),
			MimeType: a.MimeType,
		})
	}

	var recipients []uint
	switch in.ConversationType {
	case models.ConversationUser:
		if in.ReceiverID == nil || in.ChatGroupID != nil {
			return nil, fmt.Errorf("%w: direct messages need receiver_id only", ErrInvalidInput)
		}
		ok, err := s.users.Exists(ctx, *in.ReceiverID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("receiver: %w", ErrNotFound)
		}
		msg.ReceiverID = in.ReceiverID
	case models.ConversationChatGroup:
		if in.ChatGroupID == nil || in.ReceiverID != nil {
			return nil, fmt.Errorf("%w: group messages need chat_group_id only", ErrInvalidInput)
		}
		if err := s.requireMember(ctx, *in.ChatGroupID, senderID); err != nil {
			return nil, err
		}
		members, err := s.repo.MemberIDs(ctx, *in.ChatGroupID)
		if err != nil {
			return nil, err
		}
		recipients = members
		msg.ChatGroupID = in.ChatGroupID
	default:
		return nil, fmt.Errorf("%w: unknown conversation type %q", ErrInvalidInput, in.ConversationType)
	}

	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	ev := realtime.Event{Event: realtime.EventMessageSent, Data: msg}
	var (
		delivered int
		err       error
	)
	if msg.ConversationType == models.ConversationUser {
		delivered, err = s.events.DeliverDirect(senderID, *msg.ReceiverID, ev)
	} else {
		delivered, err = s.events.DeliverGroup(recipients, ev)
	}
	if err != nil {
		s.log.Warn("[chat][send] fan-out failed", zap.Uint("message_id", msg.ID), zap.Error(err))
	}
	s.log.Debug("[chat][send] stored", zap.Uint("message_id", msg.ID), zap.Int("delivered", delivered))
	return msg, nil
}

// HandleEvent serves inbound websocket frames.
func (s *chatService) HandleEvent(ctx context.Context, userID uint, ev realtime.InboundEvent) error {
	switch ev.Event {
	case realtime.EventSendMessage:
		var in SendInput
		if err := json.Unmarshal(ev.Data, &in); err != nil {
			return fmt.Errorf("%w: malformed payload", ErrInvalidInput)
		}
		_, err := s.Send(ctx, userID, in)
		return publicError(err, s.log)
	default:
		return fmt.Errorf("%w: unsupported event %q", ErrInvalidInput, ev.Event)
	}
}

// publicError hides internal failures from websocket clients.
func publicError(err error, log *zap.Logger) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrInvalidInput, ErrNotFound, authz.ErrForbidden} {
		if errors.Is(err, known) {
			return err
		}
	}
	log.Error("[ws][event] internal error", zap.Error(err))
	return errors.New("internal error")
}

func (s *chatService) DirectHistory(ctx context.Context, userID, peerID uint, p pagination.Params) ([]models.Message, int64, error) {
	ok, err := s.users.Exists(ctx, peerID)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, ErrNotFound
	}
	return s.repo.ListDirect(ctx, userID, peerID, p.Limit(), p.Offset())
}

func (s *chatService) GroupHistory(ctx context.Context, userID, chatGroupID uint, p pagination.Params) ([]models.Message, int64, error) {
	if err := s.requireMember(ctx, chatGroupID, userID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListGroup(ctx, chatGroupID, p.Limit(), p.Offset())
}

func (s *chatService) Transcript(ctx context.Context, userID uint, q TranscriptQuery) ([]byte, error) {
	if (q.PeerID == 0) == (q.ChatGroupID == 0) {
		return nil, fmt.Errorf("%w: exactly one of peer_id or chat_group_id is required", ErrInvalidInput)
	}
	page := pagination.Params{Page: 1, PerPage: transcriptLimit}

	var (
		msgs  []models.Message
		title string
		err   error
	)
	if q.PeerID != 0 {
		peer, perr := s.users.GetByID(ctx, q.PeerID)
		if perr != nil {
			return nil, perr
		}
		msgs, _, err = s.repo.ListDirect(ctx, userID, q.PeerID, page.Limit(), page.Offset())
		title = "Conversation with " + peer.Username
	} else {
		if err := s.requireMember(ctx, q.ChatGroupID, userID); err != nil {
			return nil, err
		}
		cg, cerr := s.repo.GetChatGroup(ctx, q.ChatGroupID)
		if cerr != nil {
			return nil, cerr
		}
		msgs, _, err = s.repo.ListGroup(ctx, q.ChatGroupID, page.Limit(), page.Offset())
		title = "Chat group " + cg.Name
	}
	if err != nil {
		return nil, err
	}
	me, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// history comes newest first; the transcript reads top to bottom
	lines := make([]pdf.TranscriptLine, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		author := fmt.Sprintf("user #%d", m.SenderID)
		if m.Sender != nil {
			author = m.Sender.Username
		}
		line := pdf.TranscriptLine{Author: author, SentAt: m.CreatedAt, Text: m.Text}
		for _, a := range m.Attachments {
			name := a.FileName
			if name == "" {
				name = a.URL
			}
			line.Attachments = append(line.Attachments, name)
		}
		lines = append(lines, line)
	}

	return s.pdf.Transcript(pdf.TranscriptData{
		Title:       title,
		Participant: me.Username,
		GeneratedAt: s.now(),
		Lines:       lines,
	})
}
