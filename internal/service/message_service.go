package service

import (
	"context"
	"strings"

	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/events"
	"github.com/spec-kit/appointment-service/internal/notification"
	"github.com/spec-kit/appointment-service/internal/repository"
)

// MessageInput is a direct message to another identity.
type MessageInput struct {
	RecipientID string
	Subject     string
	Body        string
}

// MessageService delivers direct messages between identities.
type MessageService struct {
	gate
	messages   repository.MessageRepository
	identities repository.IdentityRepository
}

func NewMessageService(deps Dependencies) *MessageService {
	return &MessageService{
		gate:       newGate(deps),
		messages:   deps.Repos.Messages,
		identities: deps.Repos.Identities,
	}
}

// SendMessage stores the message and notifies the recipient.
func (s *MessageService) SendMessage(ctx context.Context, idc auth.IdentityContext, in MessageInput) (*domain.Message, []notification.Outcome, error) {
	if err := s.authorize(idc, auth.ActionSendMessage); err != nil {
		return nil, nil, err
	}
	errs := fieldErrors{}
	errs.require("recipient_id", in.RecipientID)
	errs.require("subject", in.Subject)
	errs.require("body", in.Body)
	if err := errs.err(); err != nil {
		return nil, nil, err
	}

	recipient, err := loadIdentity(ctx, s.identities, in.RecipientID)
	if err != nil {
		return nil, nil, err
	}

	msg := &domain.Message{
		SenderID:    idc.ID(),
		RecipientID: recipient.ID,
		Subject:     strings.TrimSpace(in.Subject),
		Body:        strings.TrimSpace(in.Body),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, nil, storageError(err)
	}

	outcomes := s.emit(ctx, events.New(events.KindMessageSent, events.RecipientFrom(recipient), idc.ID(),
		events.MessageSentPayload{
			MessageID:  msg.ID,
			SenderName: idc.Identity.DisplayName(),
			Subject:    msg.Subject,
		}))
	return msg, outcomes, nil
}

// Received lists messages addressed to the caller.
func (s *MessageService) Received(ctx context.Context, idc auth.IdentityContext, limit, offset int) ([]domain.Message, error) {
	if err := s.authorize(idc, auth.ActionViewNotifications); err != nil {
		return nil, err
	}
	list, err := s.messages.ListForRecipient(ctx, idc.ID(), limit, offset)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}
