package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/repository"
	"github.com/spec-kit/appointment-service/pkg/util/errorutil"
	"github.com/spec-kit/appointment-service/pkg/util/sentinel"
)

// AppointmentInput books the caller with a specialist.
type AppointmentInput struct {
	ServiceID    string
	SpecialistID string
	ScheduledAt  time.Time
}

// AppointmentService books and cancels appointments.
type AppointmentService struct {
	gate
	appointments repository.AppointmentRepository
	services     repository.ServiceRepository
	specialists  repository.SpecialistRepository
}

func NewAppointmentService(deps Dependencies) *AppointmentService {
	return &AppointmentService{
		gate:         newGate(deps),
		appointments: deps.Repos.Appointments,
		services:     deps.Repos.Services,
		specialists:  deps.Repos.Specialists,
	}
}

func (s *AppointmentService) Create(ctx context.Context, idc auth.IdentityContext, in AppointmentInput) (*domain.Appointment, error) {
	if err := s.authorize(idc, auth.ActionCreateAppointment); err != nil {
		return nil, err
	}
	errs := fieldErrors{}
	errs.require("service_id", in.ServiceID)
	errs.require("specialist_id", in.SpecialistID)
	if in.ScheduledAt.IsZero() {
		errs["scheduled_at"] = "required"
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	if _, err := s.services.GetByID(ctx, in.ServiceID); err != nil {
		return nil, referenceError(err, "service", in.ServiceID)
	}
	if _, err := s.specialists.GetByID(ctx, in.SpecialistID); err != nil {
		return nil, referenceError(err, "specialist", in.SpecialistID)
	}

	appointment := &domain.Appointment{
		IdentityID:   idc.ID(),
		ServiceID:    in.ServiceID,
		SpecialistID: in.SpecialistID,
		ScheduledAt:  in.ScheduledAt.UTC(),
		CreatedBy:    idc.ID(),
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, storageError(err)
	}
	return appointment, nil
}

func (s *AppointmentService) Delete(ctx context.Context, idc auth.IdentityContext, id string) error {
	if err := s.authorize(idc, auth.ActionDeleteAppointment); err != nil {
		return err
	}
	if err := s.appointments.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return errorutil.NewNotFound("appointment", map[string]any{"id": id})
		}
		return storageError(err)
	}
	return nil
}

// ListMine returns the caller's appointments.
func (s *AppointmentService) ListMine(ctx context.Context, idc auth.IdentityContext, limit, offset int) ([]domain.Appointment, error) {
	if err := s.authorize(idc, auth.ActionListAppointments); err != nil {
		return nil, err
	}
	appointments, err := s.appointments.ListByIdentity(ctx, idc.ID(), limit, offset)
	if err != nil {
		return nil, storageError(err)
	}
	return appointments, nil
}

// referenceError reports a missing referenced record as invalid input.
func referenceError(err error, resource, id string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return errorutil.NewValidationError(resource+" does not exist", map[string]any{resource + "_id": id})
	}
	return storageError(err)
}
