package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "diarium/internal/errors"
	"diarium/internal/model"
	"diarium/internal/repository"
)

// MessageService handles user-to-user messages.
type MessageService interface {
	Inbox(ctx context.Context, userID uint) ([]model.Message, error)
	Send(ctx context.Context, senderID uint, recipientEmail, subject, body string) (*model.Message, error)
	MarkRead(ctx context.Context, userID, messageID uint) error
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

// NewMessageService creates a new message service.
func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) MessageService {
	return &messageService{messageRepo: messageRepo, userRepo: userRepo}
}

// Inbox lists the user's received messages, unread first, newest first.
func (s *messageService) Inbox(ctx context.Context, userID uint) ([]model.Message, error) {
	return s.messageRepo.ListByRecipient(ctx, userID)
}

// Send delivers a message to the user owning recipientEmail.
func (s *messageService) Send(ctx context.Context, senderID uint, recipientEmail, subject, body string) (*model.Message, error) {
	recipient, err := s.userRepo.FindByEmail(ctx, recipientEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find recipient: %w", err)
	}

	message := &model.Message{
		Subject:     subject,
		Body:        body,
		SenderID:    &senderID,
		RecipientID: &recipient.ID,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return message, nil
}

// MarkRead flags a message as read. Only the recipient may do so.
func (s *messageService) MarkRead(ctx context.Context, userID, messageID uint) error {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMessageNotFound
		}
		return fmt.Errorf("find message: %w", err)
	}

	if message.RecipientID == nil || *message.RecipientID != userID {
		return apperrors.ErrAccessDenied
	}
	return s.messageRepo.MarkRead(ctx, messageID)
}
