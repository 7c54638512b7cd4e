package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/events"
	"github.com/spec-kit/appointment-service/internal/notification"
	"github.com/spec-kit/appointment-service/internal/repository"
	"github.com/spec-kit/appointment-service/pkg/util/errorutil"
)

// EventNotifier delivers a domain event to the recipient's channels.
type EventNotifier interface {
	Notify(ctx context.Context, event events.Event) []notification.Outcome
}

// Dependencies bundles the collaborators shared by every service.
type Dependencies struct {
	Repos      repository.Repositories
	Policy     *auth.Policy
	Notifier   EventNotifier
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// gate enforces the mutation sequence: authorize, mutate, then emit.
type gate struct {
	policy     *auth.Policy
	notifier   EventNotifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func newGate(deps Dependencies) gate {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return gate{
		policy:     deps.Policy,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

func (g gate) authorize(idc auth.IdentityContext, action auth.Action) error {
	decision := g.policy.Authorize(idc, action)
	if !decision.Allowed {
		return errorutil.NewAuthorizationError(string(action), decision.Reason)
	}
	return nil
}

func (g gate) authorizeOwned(idc auth.IdentityContext, action auth.Action, ownerIDs ...string) error {
	decision := g.policy.AuthorizeOwned(idc, action, ownerIDs...)
	if !decision.Allowed {
		return errorutil.NewAuthorizationError(string(action), decision.Reason)
	}
	return nil
}

// emit must only be called once the mutation has been committed. Delivery
// failures are carried in the returned outcomes and never become errors.
func (g gate) emit(ctx context.Context, event events.Event) []notification.Outcome {
	var outcomes []notification.Outcome
	if g.notifier != nil {
		outcomes = g.notifier.Notify(ctx, event)
	}
	if g.dispatcher != nil {
		g.dispatcher.Publish(context.WithoutCancel(ctx), event)
	}

	failed := 0
	for _, out := range outcomes {
		if !out.Succeeded {
			failed++
		}
	}
	g.logger.Debug("domain event emitted",
		zap.String("event_id", event.ID),
		zap.String("kind", string(event.Kind)),
		zap.String("recipient_id", event.Recipient.IdentityID),
		zap.Int("attempts", len(outcomes)),
		zap.Int("failed", failed))
	return outcomes
}

// storageError maps store failures into API errors, keeping DomainErrors.
func storageError(err error) error {
	return errorutil.MapError(err)
}
