package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"socialchat/internal/authz"
	"socialchat/internal/models"
	"socialchat/internal/pagination"
	"socialchat/internal/repositories"
)

type ContactService interface {
	Request(ctx context.Context, senderID, receiverID uint) (*models.Contact, error)
	Accept(ctx context.Context, userID, contactID uint) (*models.Contact, error)
	Reject(ctx context.Context, userID, contactID uint) error
	Remove(ctx context.Context, userID, contactID uint) error
	Pending(ctx context.Context, userID uint, p pagination.Params) ([]models.Contact, int64, error)
	Friends(ctx context.Context, userID uint, p pagination.Params) ([]models.Contact, int64, error)
	List(ctx context.Context, userID uint, p pagination.Params) ([]models.Contact, int64, error)
}

type contactService struct {
	repo     repositories.ContactRepository
	users    repositories.UserRepository
	notifier Notifier
	log      *zap.Logger
}

func NewContactService(repo repositories.ContactRepository, users repositories.UserRepository, notifier Notifier, log *zap.Logger) ContactService {
	return &contactService{repo: repo, users: users, notifier: notifier, log: log}
}

func (s *contactService) Request(ctx context.Context, senderID, receiverID uint) (*models.Contact, error) {
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: cannot add yourself", ErrInvalidInput)
	}
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	_, err = s.repo.FindBetween(ctx, senderID, receiverID)
	if err == nil {
		return nil, fmt.Errorf("%w: contact already exists", ErrConflict)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	c := &models.Contact{SenderID: senderID, ReceiverID: receiverID, Status: models.ContactPending}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: contact already exists", ErrConflict)
		}
		return nil, err
	}
	notifyBestEffort(ctx, s.notifier, s.log, receiverID, fmt.Sprintf("%s sent you a contact request", sender.Username))
	return s.repo.GetByID(ctx, c.ID)
}

// pendingForReceiver loads a request the user may answer. Strangers get 404;
// the sender of the request gets 403.
func (s *contactService) pendingForReceiver(ctx context.Context, userID, contactID uint) (*models.Contact, error) {
	c, err := s.repo.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if c.SenderID != userID && c.ReceiverID != userID {
		return nil, ErrNotFound
	}
	if c.ReceiverID != userID {
		return nil, fmt.Errorf("%w: only the receiver can answer a request", authz.ErrForbidden)
	}
	if c.Status != models.ContactPending {
		return nil, fmt.Errorf("%w: request is not pending", ErrConflict)
	}
	return c, nil
}

func (s *contactService) Accept(ctx context.Context, userID, contactID uint) (*models.Contact, error) {
	c, err := s.pendingForReceiver(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, c.ID, models.ContactAccepted); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("user #%d", userID)
	if c.Receiver != nil {
		name = c.Receiver.Username
	}
	notifyBestEffort(ctx, s.notifier, s.log, c.SenderID, fmt.Sprintf("%s accepted your contact request", name))
	return s.repo.GetByID(ctx, c.ID)
}

func (s *contactService) Reject(ctx context.Context, userID, contactID uint) error {
	c, err := s.pendingForReceiver(ctx, userID, contactID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, c.ID)
}

func (s *contactService) Remove(ctx context.Context, userID, contactID uint) error {
	c, err := s.repo.GetByID(ctx, contactID)
	if err != nil {
		return err
	}
	if c.SenderID != userID && c.ReceiverID != userID {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, c.ID)
}

func (s *contactService) Pending(ctx context.Context, userID uint, p pagination.Params) ([]models.Contact, int64, error) {
	return s.repo.ListIncomingPending(ctx, userID, p.Limit(), p.Offset())
}

func (s *contactService) Friends(ctx context.Context, userID uint, p pagination.Params) ([]models.Contact, int64, error) {
	return s.repo.ListAccepted(ctx, userID, p.Limit(), p.Offset())
}

func (s *contactService) List(ctx context.Context, userID uint, p pagination.Params) ([]models.Contact, int64, error) {
	return s.repo.ListForUser(ctx, userID, p.Limit(), p.Offset())
}
