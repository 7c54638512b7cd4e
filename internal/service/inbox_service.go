package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/events"
	"github.com/spec-kit/appointment-service/internal/notification"
	"github.com/spec-kit/appointment-service/internal/repository"
	"github.com/spec-kit/appointment-service/pkg/util/errorutil"
	"github.com/spec-kit/appointment-service/pkg/util/sentinel"
)

// InboxService exposes the caller's in-app notifications.
type InboxService struct {
	gate
	notifications repository.NotificationRepository
}

func NewInboxService(deps Dependencies) *InboxService {
	return &InboxService{gate: newGate(deps), notifications: deps.Repos.Notifications}
}

// Unread lists unread notifications, newest first.
func (s *InboxService) Unread(ctx context.Context, idc auth.IdentityContext, limit, offset int) ([]domain.Notification, error) {
	if err := s.authorize(idc, auth.ActionViewNotifications); err != nil {
		return nil, err
	}
	list, err := s.notifications.ListUnread(ctx, idc.ID(), limit, offset)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}

// MarkRead marks one of the caller's notifications as read. Other
// identities' entries are refused, admins included.
func (s *InboxService) MarkRead(ctx context.Context, idc auth.IdentityContext, id string) error {
	if err := s.authorize(idc, auth.ActionViewNotifications); err != nil {
		return err
	}
	n, err := s.notifications.GetByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return errorutil.NewNotFound("notification", map[string]any{"id": id})
	}
	if err != nil {
		return storageError(err)
	}
	if n.IdentityID != idc.ID() {
		return errorutil.NewAuthorizationError(string(auth.ActionViewNotifications), auth.ReasonNotOwner)
	}
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return storageError(err)
	}
	return nil
}

// InboxRecorder stores an in-app notification for every emitted event.
type InboxRecorder struct {
	notifications repository.NotificationRepository
	logger        *zap.Logger
}

func NewInboxRecorder(notifications repository.NotificationRepository, logger *zap.Logger) *InboxRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InboxRecorder{notifications: notifications, logger: logger}
}

// Register subscribes the recorder to every event kind.
func (r *InboxRecorder) Register(d events.Dispatcher) {
	events.SubscribeAll(d, r.Handle)
}

// Handle persists the rendered subject for the event recipient.
func (r *InboxRecorder) Handle(ctx context.Context, event events.Event) error {
	if event.Recipient.IdentityID == "" {
		return nil
	}
	entry := &domain.Notification{
		IdentityID: event.Recipient.IdentityID,
		Message:    notification.Render(event).Subject,
	}
	if err := r.notifications.Create(ctx, entry); err != nil {
		return err
	}
	r.logger.Debug("inbox entry recorded",
		zap.String("notification_id", entry.ID),
		zap.String("kind", string(event.Kind)))
	return nil
}
