package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"socialchat/internal/metrics"
	"socialchat/internal/models"
	"socialchat/internal/pagination"
	"socialchat/internal/realtime"
	"socialchat/internal/repositories"
)

// EventDeliverer pushes events to live connections.
type EventDeliverer interface {
	DeliverDirect(senderID, receiverID uint, ev realtime.Event) (int, error)
	DeliverGroup(memberIDs []uint, ev realtime.Event) (int, error)
	DeliverUser(userID uint, ev realtime.Event) (int, error)
}

// Notifier is what other services use to raise a notification.
type Notifier interface {
	Notify(ctx context.Context, receiverID uint, content string) (*models.Notification, error)
}

type NotificationService interface {
	Notifier
	List(ctx context.Context, userID uint, p pagination.Params) ([]models.Notification, int64, error)
	Get(ctx context.Context, userID, id uint) (*models.Notification, error)
	MarkRead(ctx context.Context, userID, id uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
	Delete(ctx context.Context, userID, id uint) error
	DeleteAll(ctx context.Context, userID uint) (int64, error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	// Wait blocks until pending email/telegram sends finish.
	Wait()
}

type notificationService struct {
	repo     repositories.NotificationRepository
	users    repositories.UserRepository
	events   EventDeliverer
	email    EmailSender
	telegram TelegramSender
	log      *zap.Logger
	wg       sync.WaitGroup
}

// NewNotificationService accepts nil email/telegram senders when those
// channels are disabled.
func NewNotificationService(
	repo repositories.NotificationRepository,
	users repositories.UserRepository,
	events EventDeliverer,
	email EmailSender,
	telegram TelegramSender,
	log *zap.Logger,
) NotificationService {
	return &notificationService{
		repo:     repo,
		users:    users,
		events:   events,
		email:    email,
		telegram: telegram,
		log:      log,
	}
}

func (s *notificationService) Notify(ctx context.Context, receiverID uint, content string) (*models.Notification, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: notification content is empty", ErrInvalidInput)
	}
	n := &models.Notification{ReceiverID: receiverID, Content: content}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("store notification: %w", err)
	}
	metrics.RecordNotification("store", nil)

	if _, err := s.events.DeliverUser(receiverID, realtime.Event{Event: realtime.EventNotification, Data: n}); err != nil {
		s.log.Warn("[notify][push] failed", zap.Uint("receiver_id", receiverID), zap.Error(err))
	}
	s.sideChannels(ctx, n)
	return n, nil
}

// sideChannels is best effort: failures are logged and counted only.
func (s *notificationService) sideChannels(ctx context.Context, n *models.Notification) {
	if s.email == nil && s.telegram == nil {
		return
	}
	user, err := s.users.GetByID(ctx, n.ReceiverID)
	if err != nil {
		s.log.Warn("[notify] receiver lookup failed", zap.Uint("receiver_id", n.ReceiverID), zap.Error(err))
		return
	}

	if s.email != nil && user.NotifyEmail && user.Email != "" {
		s.wg.Add(1)
		go func(to, content string) {
			defer s.wg.Done()
			err := s.email.SendNotification(to, content)
			metrics.RecordNotification("email", err)
			if err != nil {
				s.log.Warn("[notify][email] failed", zap.Uint("receiver_id", n.ReceiverID), zap.Error(err))
			}
		}(user.Email, n.Content)
	}
	if s.telegram != nil && user.TelegramChatID != 0 {
		s.wg.Add(1)
		go func(chatID int64, content string) {
			defer s.wg.Done()
			err := s.telegram.SendMessage(chatID, content)
			metrics.RecordNotification("telegram", err)
			if err != nil {
				s.log.Warn("[notify][tg] failed", zap.Uint("receiver_id", n.ReceiverID), zap.Error(err))
			}
		}(user.TelegramChatID, n.Content)
	}
}

func (s *notificationService) Wait() {
	s.wg.Wait()
}

func (s *notificationService) List(ctx context.Context, userID uint, p pagination.Params) ([]models.Notification, int64, error) {
	return s.repo.List(ctx, userID, p.Limit(), p.Offset())
}

func (s *notificationService) Get(ctx context.Context, userID, id uint) (*models.Notification, error) {
	return s.repo.GetForReceiver(ctx, id, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id uint) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, userID, id uint) error {
	return s.repo.Delete(ctx, id, userID)
}

func (s *notificationService) DeleteAll(ctx context.Context, userID uint) (int64, error) {
	return s.repo.DeleteAll(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// notifyBestEffort raises a notification and only logs failures; the caller's
// operation has already succeeded.
func notifyBestEffort(ctx context.Context, n Notifier, log *zap.Logger, receiverID uint, content string) {
	if n == nil {
		return
	}
	if _, err := n.Notify(ctx, receiverID, content); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("[notify] failed", zap.Uint("receiver_id", receiverID), zap.Error(err))
	}
}
