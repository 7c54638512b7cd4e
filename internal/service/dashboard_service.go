package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/repository"
)

const dashboardListLimit = 10

// AdminDashboard summarizes the platform for staff.
type AdminDashboard struct {
	TotalUsers   int
	TotalClients int
	RecentUsers  []domain.Identity
}

// ProprietorDashboard lists what a proprietor manages.
type ProprietorDashboard struct {
	Clients  []domain.Client
	Services []domain.Service
	Comments []domain.Comment
}

// UserDashboard collects the caller's own records.
type UserDashboard struct {
	Appointments  []domain.Appointment
	Payments      []domain.Payment
	Transactions  []domain.Transaction
	Registrations []domain.EventRegistration
	Notifications []domain.Notification
	Proprietors   []domain.Identity
	Testimonials  []domain.Testimonial
	Comments      []domain.Comment
}

// DashboardService builds the role dashboards. Each view is gated by its own
// capability.
type DashboardService struct {
	gate
	repos repository.Repositories
}

func NewDashboardService(deps Dependencies) *DashboardService {
	return &DashboardService{gate: newGate(deps), repos: deps.Repos}
}

func (s *DashboardService) Admin(ctx context.Context, idc auth.IdentityContext) (*AdminDashboard, error) {
	if err := s.authorize(idc, auth.ActionViewAdminDashboard); err != nil {
		return nil, err
	}

	var out AdminDashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalUsers, err = s.repos.Identities.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TotalClients, err = s.repos.Clients.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.RecentUsers, err = s.repos.Identities.List(gctx, repository.IdentityFilter{Limit: dashboardListLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storageError(err)
	}
	return &out, nil
}

func (s *DashboardService) Proprietor(ctx context.Context, idc auth.IdentityContext) (*ProprietorDashboard, error) {
	if err := s.authorize(idc, auth.ActionViewProprietorDashboard); err != nil {
		return nil, err
	}

	actor := idc.ID()
	var out ProprietorDashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Clients, err = s.repos.Clients.ListByCreator(gctx, actor, dashboardListLimit, 0)
		return err
	})
	g.Go(func() (err error) {
		out.Services, err = s.repos.Services.List(gctx, &actor, dashboardListLimit, 0)
		return err
	})
	g.Go(func() (err error) {
		out.Comments, err = s.repos.Comments.List(gctx, dashboardListLimit, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storageError(err)
	}
	return &out, nil
}

func (s *DashboardService) User(ctx context.Context, idc auth.IdentityContext) (*UserDashboard, error) {
	if err := s.authorize(idc, auth.ActionViewUserDashboard); err != nil {
		return nil, err
	}

	actor := idc.ID()
	proprietor := domain.RoleProprietor
	active := true
	var out UserDashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Appointments, err = s.repos.Appointments.ListByIdentity(gctx, actor, dashboardListLimit, 0)
		return err
	})
	g.Go(func() (err error) {
		out.Payments, err = s.repos.Payments.ListByIdentity(gctx, actor, dashboardListLimit, 0)
		return err
	})
	g.Go(func() (err error) {
		out.Transactions, err = s.repos.Transactions.ListByIdentity(gctx, actor, dashboardListLimit, 0)
		return err
	})
	g.Go(func() (err error) {
		out.Registrations, err = s.repos.Registrations.ListByIdentity(gctx, actor)
		return err
	})
	g.Go(func() (err error) {
		out.Notifications, err = s.repos.Notifications.ListUnread(gctx, actor, dashboardListLimit, 0)
		return err
	})
	g.Go(func() (err error) {
		out.Proprietors, err = s.repos.Identities.List(gctx, repository.IdentityFilter{
			Role:   &proprietor,
			Active: &active,
			Limit:  dashboardListLimit,
		})
		return err
	})
	g.Go(func() (err error) {
		out.Testimonials, err = s.repos.Testimonials.List(gctx, dashboardListLimit, 0)
		return err
	})
	g.Go(func() (err error) {
		out.Comments, err = s.repos.Comments.List(gctx, dashboardListLimit, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storageError(err)
	}
	return &out, nil
}
