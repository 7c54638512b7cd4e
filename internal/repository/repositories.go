package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Repositories bundles every store the service layer depends on.
type Repositories struct {
	Identities     IdentityRepository
	Clients        ClientRepository
	Services       ServiceRepository
	Specialists    SpecialistRepository
	Appointments   AppointmentRepository
	Payments       PaymentRepository
	Transactions   TransactionRepository
	Events         EventRepository
	Registrations  EventRegistrationRepository
	Messages       MessageRepository
	Notifications  NotificationRepository
	Testimonials   TestimonialRepository
	Comments       CommentRepository
	PasswordResets PasswordResetRepository
}

// NewPostgresRepositories wires the pgx-backed stores and the Redis token store.
func NewPostgresRepositories(pool *pgxpool.Pool, redisClient *redis.Client) Repositories {
	return Repositories{
		Identities:     NewIdentityRepository(pool),
		Clients:        NewClientRepository(pool),
		Services:       NewServiceRepository(pool),
		Specialists:    NewSpecialistRepository(pool),
		Appointments:   NewAppointmentRepository(pool),
		Payments:       NewPaymentRepository(pool),
		Transactions:   NewTransactionRepository(pool),
		Events:         NewEventRepository(pool),
		Registrations:  NewEventRegistrationRepository(pool),
		Messages:       NewMessageRepository(pool),
		Notifications:  NewNotificationRepository(pool),
		Testimonials:   NewTestimonialRepository(pool),
		Comments:       NewCommentRepository(pool),
		PasswordResets: NewPasswordResetRepository(redisClient),
	}
}
