package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/events"
	"github.com/spec-kit/appointment-service/internal/notification"
	"github.com/spec-kit/appointment-service/internal/repository"
	"github.com/spec-kit/appointment-service/pkg/util/errorutil"
	"github.com/spec-kit/appointment-service/pkg/util/sentinel"
)

// EventInput schedules an event. IdentityID names who receives the
// reminder and defaults to the caller.
type EventInput struct {
	Title       string
	Description string
	EventDate   time.Time
	IdentityID  string
}

// EventService schedules events and handles registrations.
type EventService struct {
	gate
	events        repository.EventRepository
	registrations repository.EventRegistrationRepository
	identities    repository.IdentityRepository
}

func NewEventService(deps Dependencies) *EventService {
	return &EventService{
		gate:          newGate(deps),
		events:        deps.Repos.Events,
		registrations: deps.Repos.Registrations,
		identities:    deps.Repos.Identities,
	}
}

// CreateEvent stores the event and sends a reminder to its identity.
func (s *EventService) CreateEvent(ctx context.Context, idc auth.IdentityContext, in EventInput) (*domain.Event, []notification.Outcome, error) {
	if err := s.authorize(idc, auth.ActionCreateEvent); err != nil {
		return nil, nil, err
	}
	errs := fieldErrors{}
	errs.require("title", in.Title)
	if in.EventDate.IsZero() {
		errs["event_date"] = "required"
	}
	if err := errs.err(); err != nil {
		return nil, nil, err
	}

	target := strings.TrimSpace(in.IdentityID)
	if target == "" {
		target = idc.ID()
	}
	identity, err := loadIdentity(ctx, s.identities, target)
	if err != nil {
		return nil, nil, err
	}

	event := &domain.Event{
		IdentityID:  identity.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		EventDate:   in.EventDate.UTC(),
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, nil, storageError(err)
	}

	outcomes := s.emit(ctx, events.New(events.KindEventReminder, events.RecipientFrom(identity), idc.ID(),
		events.EventReminderPayload{
			EventID:     event.ID,
			Title:       event.Title,
			Description: event.Description,
			EventDate:   event.EventDate,
		}))
	return event, outcomes, nil
}

// RegisterForEvent signs the caller up once per event.
func (s *EventService) RegisterForEvent(ctx context.Context, idc auth.IdentityContext, eventID string) (*domain.EventRegistration, []notification.Outcome, error) {
	if err := s.authorize(idc, auth.ActionRegisterForEvent); err != nil {
		return nil, nil, err
	}
	event, err := s.events.GetByID(ctx, eventID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil, errorutil.NewNotFound("event", map[string]any{"id": eventID})
	}
	if err != nil {
		return nil, nil, storageError(err)
	}

	registration := &domain.EventRegistration{IdentityID: idc.ID(), EventID: event.ID}
	if err := s.registrations.Create(ctx, registration); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, nil, errorutil.NewConflict("already registered for this event", map[string]any{"event_id": event.ID})
		}
		return nil, nil, storageError(err)
	}

	outcomes := s.emit(ctx, events.New(events.KindEventRegistrationConfirmed, events.RecipientFrom(&idc.Identity), idc.ID(),
		events.EventRegistrationConfirmedPayload{
			RegistrationID: registration.ID,
			EventID:        event.ID,
			EventTitle:     event.Title,
		}))
	return registration, outcomes, nil
}

func (s *EventService) ListEvents(ctx context.Context, idc auth.IdentityContext, limit, offset int) ([]domain.Event, error) {
	if err := s.authorize(idc, auth.ActionViewCatalog); err != nil {
		return nil, err
	}
	list, err := s.events.List(ctx, limit, offset)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}
