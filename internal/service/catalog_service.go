package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/repository"
	"github.com/spec-kit/appointment-service/pkg/util/errorutil"
	"github.com/spec-kit/appointment-service/pkg/util/sentinel"
)

// ServiceInput holds editable service fields. OwnerID defaults to the caller.
type ServiceInput struct {
	Name        string
	Description string
	PriceCents  int64
	OwnerID     string
}

// SpecialistInput links an existing identity to a speciality.
type SpecialistInput struct {
	IdentityID  string
	Description string
	Speciality  string
}

// CatalogService manages the bookable services and specialists.
type CatalogService struct {
	gate
	services    repository.ServiceRepository
	specialists repository.SpecialistRepository
	identities  repository.IdentityRepository
}

func NewCatalogService(deps Dependencies) *CatalogService {
	return &CatalogService{
		gate:        newGate(deps),
		services:    deps.Repos.Services,
		specialists: deps.Repos.Specialists,
		identities:  deps.Repos.Identities,
	}
}

func (s *CatalogService) CreateService(ctx context.Context, idc auth.IdentityContext, in ServiceInput) (*domain.Service, error) {
	if err := s.authorize(idc, auth.ActionCreateService); err != nil {
		return nil, err
	}
	if err := validateService(in); err != nil {
		return nil, err
	}

	owner := strings.TrimSpace(in.OwnerID)
	if owner == "" {
		owner = idc.ID()
	} else if owner != idc.ID() {
		if err := s.requireIdentity(ctx, owner); err != nil {
			return nil, err
		}
	}

	svc := &domain.Service{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		PriceCents:  in.PriceCents,
		CreatedBy:   idc.ID(),
		OwnerID:     owner,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, storageError(err)
	}
	return svc, nil
}

// UpdateService edits name, description and price. Creator and owner both
// count as owners of the record.
func (s *CatalogService) UpdateService(ctx context.Context, idc auth.IdentityContext, id string, in ServiceInput) (*domain.Service, error) {
	svc, err := s.loadOwnedService(ctx, idc, auth.ActionEditService, id)
	if err != nil {
		return nil, err
	}
	if err := validateService(in); err != nil {
		return nil, err
	}

	svc.Name = strings.TrimSpace(in.Name)
	svc.Description = strings.TrimSpace(in.Description)
	svc.PriceCents = in.PriceCents
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, serviceWriteError(err, id)
	}
	return svc, nil
}

func (s *CatalogService) DeleteService(ctx context.Context, idc auth.IdentityContext, id string) error {
	if _, err := s.loadOwnedService(ctx, idc, auth.ActionDeleteService, id); err != nil {
		return err
	}
	if err := s.services.Delete(ctx, id); err != nil {
		return serviceWriteError(err, id)
	}
	return nil
}

// ListServices lists the catalog; mine restricts it to services the caller created.
func (s *CatalogService) ListServices(ctx context.Context, idc auth.IdentityContext, mine bool, limit, offset int) ([]domain.Service, error) {
	if err := s.authorize(idc, auth.ActionViewCatalog); err != nil {
		return nil, err
	}
	var createdBy *string
	if mine {
		actor := idc.ID()
		createdBy = &actor
	}
	services, err := s.services.List(ctx, createdBy, limit, offset)
	if err != nil {
		return nil, storageError(err)
	}
	return services, nil
}

func (s *CatalogService) CreateSpecialist(ctx context.Context, idc auth.IdentityContext, in SpecialistInput) (*domain.Specialist, error) {
	if err := s.authorize(idc, auth.ActionCreateSpecialist); err != nil {
		return nil, err
	}
	errs := fieldErrors{}
	errs.require("identity_id", in.IdentityID)
	errs.require("speciality", in.Speciality)
	if err := errs.err(); err != nil {
		return nil, err
	}
	if err := s.requireIdentity(ctx, in.IdentityID); err != nil {
		return nil, err
	}

	specialist := &domain.Specialist{
		IdentityID:  in.IdentityID,
		Description: strings.TrimSpace(in.Description),
		Speciality:  strings.TrimSpace(in.Speciality),
	}
	if err := s.specialists.Create(ctx, specialist); err != nil {
		return nil, storageError(err)
	}
	return specialist, nil
}

func (s *CatalogService) ListSpecialists(ctx context.Context, idc auth.IdentityContext, limit, offset int) ([]domain.Specialist, error) {
	if err := s.authorize(idc, auth.ActionViewCatalog); err != nil {
		return nil, err
	}
	specialists, err := s.specialists.List(ctx, limit, offset)
	if err != nil {
		return nil, storageError(err)
	}
	return specialists, nil
}

func (s *CatalogService) loadOwnedService(ctx context.Context, idc auth.IdentityContext, action auth.Action, id string) (*domain.Service, error) {
	if err := s.authorize(idc, action); err != nil {
		return nil, err
	}
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, serviceWriteError(err, id)
	}
	if err := s.authorizeOwned(idc, action, svc.CreatedBy, svc.OwnerID); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *CatalogService) requireIdentity(ctx context.Context, id string) error {
	_, err := s.identities.GetByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return identityNotFound(id)
	}
	if err != nil {
		return storageError(err)
	}
	return nil
}

func validateService(in ServiceInput) error {
	errs := fieldErrors{}
	errs.require("name", in.Name)
	if in.PriceCents < 0 {
		errs["price_cents"] = "must not be negative"
	}
	return errs.err()
}

func serviceWriteError(err error, id string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return errorutil.NewNotFound("service", map[string]any{"id": id})
	}
	return storageError(err)
}
