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

// ClientInput holds editable client fields.
type ClientInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Address   string
}

func (in ClientInput) validate() error {
	errs := fieldErrors{}
	errs.require("first_name", in.FirstName)
	errs.require("last_name", in.LastName)
	errs.email("email", in.Email)
	return errs.err()
}

// ClientService manages client records. Edits are restricted to the creator
// or an admin.
type ClientService struct {
	gate
	clients repository.ClientRepository
}

func NewClientService(deps Dependencies) *ClientService {
	return &ClientService{gate: newGate(deps), clients: deps.Repos.Clients}
}

func (s *ClientService) Create(ctx context.Context, idc auth.IdentityContext, in ClientInput) (*domain.Client, error) {
	if err := s.authorize(idc, auth.ActionCreateClient); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	client := &domain.Client{CreatedBy: idc.ID()}
	in.apply(client)
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, clientWriteError(err, client.Email)
	}
	return client, nil
}

func (s *ClientService) Update(ctx context.Context, idc auth.IdentityContext, id string, in ClientInput) (*domain.Client, error) {
	client, err := s.loadOwned(ctx, idc, auth.ActionEditClient, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	in.apply(client)
	if err := s.clients.Update(ctx, client); err != nil {
		return nil, clientWriteError(err, client.Email)
	}
	return client, nil
}

func (s *ClientService) Delete(ctx context.Context, idc auth.IdentityContext, id string) error {
	if _, err := s.loadOwned(ctx, idc, auth.ActionDeleteClient, id); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		return clientWriteError(err, "")
	}
	return nil
}

// List returns the clients created by the caller.
func (s *ClientService) List(ctx context.Context, idc auth.IdentityContext, limit, offset int) ([]domain.Client, error) {
	if err := s.authorize(idc, auth.ActionListClients); err != nil {
		return nil, err
	}
	clients, err := s.clients.ListByCreator(ctx, idc.ID(), limit, offset)
	if err != nil {
		return nil, storageError(err)
	}
	return clients, nil
}

// loadOwned runs the coarse check before touching the store so anonymous
// callers learn nothing about which ids exist.
func (s *ClientService) loadOwned(ctx context.Context, idc auth.IdentityContext, action auth.Action, id string) (*domain.Client, error) {
	if err := s.authorize(idc, action); err != nil {
		return nil, err
	}
	client, err := s.clients.GetByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, errorutil.NewNotFound("client", map[string]any{"id": id})
	}
	if err != nil {
		return nil, storageError(err)
	}
	if err := s.authorizeOwned(idc, action, client.CreatedBy); err != nil {
		return nil, err
	}
	return client, nil
}

func (in ClientInput) apply(client *domain.Client) {
	client.FirstName = strings.TrimSpace(in.FirstName)
	client.LastName = strings.TrimSpace(in.LastName)
	client.Email = normalizeEmail(in.Email)
	client.Phone = optional(in.Phone)
	client.Address = strings.TrimSpace(in.Address)
}

func clientWriteError(err error, email string) error {
	switch {
	case errors.Is(err, sentinel.ErrConflict):
		return errorutil.NewConflict("client email already registered", map[string]any{"email": email})
	case errors.Is(err, sentinel.ErrNotFound):
		return errorutil.NewNotFound("client", nil)
	}
	return storageError(err)
}
