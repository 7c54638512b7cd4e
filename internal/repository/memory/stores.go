package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/appointment-service/internal/domain"
	"github.com/spec-kit/appointment-service/internal/repository"
	"github.com/spec-kit/appointment-service/pkg/util/sentinel"
)

// ClientStore is the in-memory client repository. Email is unique.
type ClientStore struct {
	mu sync.Mutex
	t  *table[domain.Client]
}

func NewClientStore() *ClientStore {
	return &ClientStore{t: newTable[domain.Client]()}
}

func cloneClient(c domain.Client) domain.Client {
	if c.Phone != nil {
		phone := *c.Phone
		c.Phone = &phone
	}
	return c
}

func (s *ClientStore) emailTaken(email, skipID string) bool {
	taken := s.t.filter(func(c domain.Client) bool {
		return c.ID != skipID && strings.EqualFold(c.Email, email)
	}, nil)
	return len(taken) > 0
}

func (s *ClientStore) Create(_ context.Context, client *domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(client.Email, "") {
		return sentinel.ErrConflict
	}
	now := time.Now().UTC()
	client.ID = uuid.NewString()
	client.CreatedAt, client.UpdatedAt = now, now
	s.t.put(client.ID, cloneClient(*client))
	return nil
}

func (s *ClientStore) Update(_ context.Context, client *domain.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := s.t.get(client.ID)
	if err != nil {
		return err
	}
	if s.emailTaken(client.Email, client.ID) {
		return sentinel.ErrConflict
	}
	client.CreatedBy = existing.CreatedBy
	client.CreatedAt = existing.CreatedAt
	client.UpdatedAt = time.Now().UTC()
	return s.t.replace(client.ID, cloneClient(*client))
}

func (s *ClientStore) Delete(_ context.Context, id string) error {
	return s.t.remove(id)
}

func (s *ClientStore) GetByID(_ context.Context, id string) (*domain.Client, error) {
	c, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	c = cloneClient(c)
	return &c, nil
}

func (s *ClientStore) ListByCreator(_ context.Context, creatorID string, limit, offset int) ([]domain.Client, error) {
	rows := s.t.filter(
		func(c domain.Client) bool { return c.CreatedBy == creatorID },
		func(a, b domain.Client) bool { return a.CreatedAt.After(b.CreatedAt) },
	)
	out := page(rows, limit, offset)
	for i := range out {
		out[i] = cloneClient(out[i])
	}
	return out, nil
}

func (s *ClientStore) Count(_ context.Context) (int, error) {
	return s.t.count(), nil
}

// ServiceStore is the in-memory catalog repository.
type ServiceStore struct {
	t *table[domain.Service]
}

func NewServiceStore() *ServiceStore {
	return &ServiceStore{t: newTable[domain.Service]()}
}

func (s *ServiceStore) Create(_ context.Context, service *domain.Service) error {
	now := time.Now().UTC()
	service.ID = uuid.NewString()
	service.CreatedAt, service.UpdatedAt = now, now
	s.t.put(service.ID, *service)
	return nil
}

func (s *ServiceStore) Update(_ context.Context, service *domain.Service) error {
	existing, err := s.t.get(service.ID)
	if err != nil {
		return err
	}
	service.CreatedBy = existing.CreatedBy
	service.CreatedAt = existing.CreatedAt
	service.UpdatedAt = time.Now().UTC()
	return s.t.replace(service.ID, *service)
}

func (s *ServiceStore) Delete(_ context.Context, id string) error {
	return s.t.remove(id)
}

func (s *ServiceStore) GetByID(_ context.Context, id string) (*domain.Service, error) {
	service, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (s *ServiceStore) List(_ context.Context, createdBy *string, limit, offset int) ([]domain.Service, error) {
	rows := s.t.filter(
		func(svc domain.Service) bool { return createdBy == nil || svc.CreatedBy == *createdBy },
		func(a, b domain.Service) bool { return a.CreatedAt.After(b.CreatedAt) },
	)
	return page(rows, limit, offset), nil
}

// SpecialistStore is the in-memory specialist repository.
type SpecialistStore struct {
	t *table[domain.Specialist]
}

func NewSpecialistStore() *SpecialistStore {
	return &SpecialistStore{t: newTable[domain.Specialist]()}
}

func (s *SpecialistStore) Create(_ context.Context, specialist *domain.Specialist) error {
	specialist.ID = uuid.NewString()
	specialist.CreatedAt = time.Now().UTC()
	s.t.put(specialist.ID, *specialist)
	return nil
}

func (s *SpecialistStore) GetByID(_ context.Context, id string) (*domain.Specialist, error) {
	specialist, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &specialist, nil
}

func (s *SpecialistStore) List(_ context.Context, limit, offset int) ([]domain.Specialist, error) {
	rows := s.t.filter(nil, func(a, b domain.Specialist) bool { return a.CreatedAt.After(b.CreatedAt) })
	return page(rows, limit, offset), nil
}

// AppointmentStore is the in-memory appointment repository.
type AppointmentStore struct {
	t *table[domain.Appointment]
}

func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{t: newTable[domain.Appointment]()}
}

func (s *AppointmentStore) Create(_ context.Context, appointment *domain.Appointment) error {
	appointment.ID = uuid.NewString()
	appointment.CreatedAt = time.Now().UTC()
	s.t.put(appointment.ID, *appointment)
	return nil
}

func (s *AppointmentStore) Delete(_ context.Context, id string) error {
	return s.t.remove(id)
}

func (s *AppointmentStore) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	appointment, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (s *AppointmentStore) ListByIdentity(_ context.Context, identityID string, limit, offset int) ([]domain.Appointment, error) {
	rows := s.t.filter(
		func(a domain.Appointment) bool { return a.IdentityID == identityID },
		func(a, b domain.Appointment) bool { return a.ScheduledAt.Before(b.ScheduledAt) },
	)
	return page(rows, limit, offset), nil
}

// PaymentStore is the in-memory payment repository.
type PaymentStore struct {
	t *table[domain.Payment]
}

func NewPaymentStore() *PaymentStore {
	return &PaymentStore{t: newTable[domain.Payment]()}
}

func (s *PaymentStore) Create(_ context.Context, payment *domain.Payment) error {
	payment.ID = uuid.NewString()
	payment.CreatedAt = time.Now().UTC()
	s.t.put(payment.ID, *payment)
	return nil
}

func (s *PaymentStore) ListByIdentity(_ context.Context, identityID string, limit, offset int) ([]domain.Payment, error) {
	rows := s.t.filter(
		func(p domain.Payment) bool { return p.IdentityID == identityID },
		func(a, b domain.Payment) bool { return a.DueDate.After(b.DueDate) },
	)
	return page(rows, limit, offset), nil
}

// TransactionStore is the in-memory transaction repository.
type TransactionStore struct {
	t *table[domain.Transaction]
}

func NewTransactionStore() *TransactionStore {
	return &TransactionStore{t: newTable[domain.Transaction]()}
}

func (s *TransactionStore) Create(_ context.Context, txn *domain.Transaction) error {
	txn.ID = uuid.NewString()
	txn.CreatedAt = time.Now().UTC()
	s.t.put(txn.ID, *txn)
	return nil
}

func (s *TransactionStore) ListByIdentity(_ context.Context, identityID string, limit, offset int) ([]domain.Transaction, error) {
	rows := s.t.filter(
		func(t domain.Transaction) bool { return t.IdentityID == identityID },
		func(a, b domain.Transaction) bool { return a.CreatedAt.After(b.CreatedAt) },
	)
	return page(rows, limit, offset), nil
}

// EventStore is the in-memory calendar event repository.
type EventStore struct {
	t *table[domain.Event]
}

func NewEventStore() *EventStore {
	return &EventStore{t: newTable[domain.Event]()}
}

func (s *EventStore) Create(_ context.Context, event *domain.Event) error {
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now().UTC()
	s.t.put(event.ID, *event)
	return nil
}

func (s *EventStore) GetByID(_ context.Context, id string) (*domain.Event, error) {
	event, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *EventStore) List(_ context.Context, limit, offset int) ([]domain.Event, error) {
	rows := s.t.filter(nil, func(a, b domain.Event) bool { return a.EventDate.Before(b.EventDate) })
	return page(rows, limit, offset), nil
}

// RegistrationStore is the in-memory event registration repository. An
// identity can register for an event once.
type RegistrationStore struct {
	mu sync.Mutex
	t  *table[domain.EventRegistration]
}

func NewRegistrationStore() *RegistrationStore {
	return &RegistrationStore{t: newTable[domain.EventRegistration]()}
}

func (s *RegistrationStore) Create(_ context.Context, registration *domain.EventRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dup := s.t.filter(func(r domain.EventRegistration) bool {
		return r.IdentityID == registration.IdentityID && r.EventID == registration.EventID
	}, nil)
	if len(dup) > 0 {
		return sentinel.ErrConflict
	}
	registration.ID = uuid.NewString()
	registration.CreatedAt = time.Now().UTC()
	s.t.put(registration.ID, *registration)
	return nil
}

func (s *RegistrationStore) ListByIdentity(_ context.Context, identityID string) ([]domain.EventRegistration, error) {
	return s.t.filter(
		func(r domain.EventRegistration) bool { return r.IdentityID == identityID },
		func(a, b domain.EventRegistration) bool { return a.CreatedAt.After(b.CreatedAt) },
	), nil
}

// MessageStore is the in-memory direct message repository.
type MessageStore struct {
	t *table[domain.Message]
}

func NewMessageStore() *MessageStore {
	return &MessageStore{t: newTable[domain.Message]()}
}

func (s *MessageStore) Create(_ context.Context, msg *domain.Message) error {
	msg.ID = uuid.NewString()
	msg.CreatedAt = time.Now().UTC()
	s.t.put(msg.ID, *msg)
	return nil
}

func (s *MessageStore) ListForRecipient(_ context.Context, recipientID string, limit, offset int) ([]domain.Message, error) {
	rows := s.t.filter(
		func(m domain.Message) bool { return m.RecipientID == recipientID },
		func(a, b domain.Message) bool { return a.CreatedAt.After(b.CreatedAt) },
	)
	return page(rows, limit, offset), nil
}

// TestimonialStore is the in-memory testimonial repository.
type TestimonialStore struct {
	t *table[domain.Testimonial]
}

func NewTestimonialStore() *TestimonialStore {
	return &TestimonialStore{t: newTable[domain.Testimonial]()}
}

func (s *TestimonialStore) Create(_ context.Context, t *domain.Testimonial) error {
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()
	s.t.put(t.ID, *t)
	return nil
}

func (s *TestimonialStore) List(_ context.Context, limit, offset int) ([]domain.Testimonial, error) {
	rows := s.t.filter(nil, func(a, b domain.Testimonial) bool { return a.CreatedAt.After(b.CreatedAt) })
	return page(rows, limit, offset), nil
}

// CommentStore is the in-memory comment repository.
type CommentStore struct {
	t *table[domain.Comment]
}

func NewCommentStore() *CommentStore {
	return &CommentStore{t: newTable[domain.Comment]()}
}

func (s *CommentStore) Create(_ context.Context, c *domain.Comment) error {
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	s.t.put(c.ID, *c)
	return nil
}

func (s *CommentStore) List(_ context.Context, limit, offset int) ([]domain.Comment, error) {
	rows := s.t.filter(nil, func(a, b domain.Comment) bool { return a.CreatedAt.After(b.CreatedAt) })
	return page(rows, limit, offset), nil
}

// NotificationStore is the in-memory inbox.
type NotificationStore struct {
	mu sync.Mutex
	t  *table[domain.Notification]
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{t: newTable[domain.Notification]()}
}

func (s *NotificationStore) Create(_ context.Context, n *domain.Notification) error {
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UTC()
	s.t.put(n.ID, *n)
	return nil
}

func (s *NotificationStore) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	n, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *NotificationStore) ListUnread(_ context.Context, identityID string, limit, offset int) ([]domain.Notification, error) {
	rows := s.t.filter(
		func(n domain.Notification) bool { return n.IdentityID == identityID && !n.IsRead },
		func(a, b domain.Notification) bool { return a.CreatedAt.After(b.CreatedAt) },
	)
	return page(rows, limit, offset), nil
}

func (s *NotificationStore) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.t.get(id)
	if err != nil {
		return err
	}
	n.IsRead = true
	return s.t.replace(id, n)
}

// PasswordResetStore keeps reset tokens with their expiry.
type PasswordResetStore struct {
	mu     sync.Mutex
	tokens map[string]resetEntry
	now    func() time.Time
}

type resetEntry struct {
	identityID string
	expiresAt  time.Time
}

func NewPasswordResetStore() *PasswordResetStore {
	return &PasswordResetStore{tokens: make(map[string]resetEntry), now: time.Now}
}

func (s *PasswordResetStore) Create(_ context.Context, token, identityID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = resetEntry{identityID: identityID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *PasswordResetStore) Consume(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	delete(s.tokens, token)
	if !ok || !s.now().Before(entry.expiresAt) {
		return "", sentinel.ErrExpired
	}
	return entry.identityID, nil
}

// NewRepositories returns a fully in-memory repository set.
func NewRepositories() repository.Repositories {
	return repository.Repositories{
		Identities:     NewIdentityStore(),
		Clients:        NewClientStore(),
		Services:       NewServiceStore(),
		Specialists:    NewSpecialistStore(),
		Appointments:   NewAppointmentStore(),
		Payments:       NewPaymentStore(),
		Transactions:   NewTransactionStore(),
		Events:         NewEventStore(),
		Registrations:  NewRegistrationStore(),
		Messages:       NewMessageStore(),
		Notifications:  NewNotificationStore(),
		Testimonials:   NewTestimonialStore(),
		Comments:       NewCommentStore(),
		PasswordResets: NewPasswordResetStore(),
	}
}
