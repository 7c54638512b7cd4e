package service

import (
	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/config"
)

// Services groups the application services handed to the HTTP layer.
type Services struct {
	Accounts     *AccountService
	Clients      *ClientService
	Catalog      *CatalogService
	Appointments *AppointmentService
	Billing      *BillingService
	Events       *EventService
	Messages     *MessageService
	Dashboards   *DashboardService
	Inbox        *InboxService
	Feedback     *FeedbackService
}

// New wires every service over the same dependencies.
func New(cfg config.Config, deps Dependencies, tokens *auth.TokenManager) *Services {
	return &Services{
		Accounts:     NewAccountService(cfg, deps, tokens),
		Clients:      NewClientService(deps),
		Catalog:      NewCatalogService(deps),
		Appointments: NewAppointmentService(deps),
		Billing:      NewBillingService(deps),
		Events:       NewEventService(deps),
		Messages:     NewMessageService(deps),
		Dashboards:   NewDashboardService(deps),
		Inbox:        NewInboxService(deps),
		Feedback:     NewFeedbackService(deps),
	}
}
