package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/appointment-service/internal/auth"
	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/events"
	"github.com/spec-kit/appointment-service/internal/notification"
	"github.com/spec-kit/appointment-service/internal/repository"
)

// PaymentInput records an amount owed. Status defaults to Pending.
type PaymentInput struct {
	IdentityID  string
	AmountCents int64
	DueDate     time.Time
	Status      string
}

// BillingService records payments and completed transactions.
type BillingService struct {
	gate
	payments     repository.PaymentRepository
	transactions repository.TransactionRepository
	identities   repository.IdentityRepository
}

func NewBillingService(deps Dependencies) *BillingService {
	return &BillingService{
		gate:         newGate(deps),
		payments:     deps.Repos.Payments,
		transactions: deps.Repos.Transactions,
		identities:   deps.Repos.Identities,
	}
}

// RecordPayment stores a payment and sends a reminder while it is pending.
func (s *BillingService) RecordPayment(ctx context.Context, idc auth.IdentityContext, in PaymentInput) (*domain.Payment, []notification.Outcome, error) {
	if err := s.authorize(idc, auth.ActionRecordPayment); err != nil {
		return nil, nil, err
	}

	status := domain.PaymentStatusPending
	errs := fieldErrors{}
	errs.require("identity_id", in.IdentityID)
	if in.AmountCents <= 0 {
		errs["amount_cents"] = "must be positive"
	}
	if in.DueDate.IsZero() {
		errs["due_date"] = "required"
	}
	switch {
	case strings.TrimSpace(in.Status) == "":
	case strings.EqualFold(in.Status, string(domain.PaymentStatusPending)):
	case strings.EqualFold(in.Status, string(domain.PaymentStatusPaid)):
		status = domain.PaymentStatusPaid
	default:
		errs["status"] = "must be Pending or Paid"
	}
	if err := errs.err(); err != nil {
		return nil, nil, err
	}

	identity, err := loadIdentity(ctx, s.identities, in.IdentityID)
	if err != nil {
		return nil, nil, err
	}

	payment := &domain.Payment{
		IdentityID:  identity.ID,
		AmountCents: in.AmountCents,
		DueDate:     in.DueDate.UTC(),
		Status:      status,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, nil, storageError(err)
	}

	if payment.Status != domain.PaymentStatusPending {
		return payment, nil, nil
	}
	outcomes := s.emit(ctx, events.New(events.KindPaymentDue, events.RecipientFrom(identity), idc.ID(),
		events.PaymentDuePayload{PaymentID: payment.ID, AmountCents: payment.AmountCents, DueDate: payment.DueDate}))
	return payment, outcomes, nil
}

// RecordTransaction stores a completed transaction and confirms it to the identity.
func (s *BillingService) RecordTransaction(ctx context.Context, idc auth.IdentityContext, identityID string, amountCents int64) (*domain.Transaction, []notification.Outcome, error) {
	if err := s.authorize(idc, auth.ActionRecordTransaction); err != nil {
		return nil, nil, err
	}
	errs := fieldErrors{}
	errs.require("identity_id", identityID)
	if amountCents <= 0 {
		errs["amount_cents"] = "must be positive"
	}
	if err := errs.err(); err != nil {
		return nil, nil, err
	}

	identity, err := loadIdentity(ctx, s.identities, identityID)
	if err != nil {
		return nil, nil, err
	}

	txn := &domain.Transaction{IdentityID: identity.ID, AmountCents: amountCents}
	if err := s.transactions.Create(ctx, txn); err != nil {
		return nil, nil, storageError(err)
	}

	outcomes := s.emit(ctx, events.New(events.KindTransactionCompleted, events.RecipientFrom(identity), idc.ID(),
		events.TransactionCompletedPayload{TransactionID: txn.ID, AmountCents: txn.AmountCents}))
	return txn, outcomes, nil
}
