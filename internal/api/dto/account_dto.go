package dto

import "time"

// RegisterRequest payload for self-service signup.
type RegisterRequest struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone_number"`
}

// CreateUserRequest payload for admin account creation.
type CreateUserRequest struct {
	RegisterRequest
	Role string `json:"role"`
}

// LoginRequest accepts a username or an email as login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// UpdateIdentityRequest carries optional account fields.
type UpdateIdentityRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone_number"`
}

// ChangeRoleRequest names the role that replaces the current role set.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// SecurityAlertRequest payload.
type SecurityAlertRequest struct {
	Detail string `json:"detail"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest payload.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IdentityResponse is the public view of an identity.
type IdentityResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        *string   `json:"phone_number,omitempty"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	IsProprietor bool      `json:"is_proprietor"`
	IsActive     bool      `json:"is_active"`
	Roles        []string  `json:"roles"`
	PrimaryRole  string    `json:"primary_role"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminDashboardResponse payload.
type AdminDashboardResponse struct {
	TotalUsers   int                `json:"total_users"`
	TotalClients int                `json:"total_clients"`
	RecentUsers  []IdentityResponse `json:"recent_users"`
}

// ProprietorDashboardResponse payload.
type ProprietorDashboardResponse struct {
	Clients  []ClientResponse  `json:"clients"`
	Services []ServiceResponse `json:"services"`
	Comments []CommentResponse `json:"comments"`
}

// UserDashboardResponse payload.
type UserDashboardResponse struct {
	Appointments  []AppointmentResponse  `json:"appointments"`
	Payments      []PaymentResponse      `json:"payments"`
	Transactions  []TransactionResponse  `json:"transactions"`
	Registrations []RegistrationResponse `json:"registrations"`
	Notifications []NotificationResponse `json:"notifications"`
	Proprietors   []IdentityResponse     `json:"proprietors"`
	Testimonials  []TestimonialResponse  `json:"testimonials"`
	Comments      []CommentResponse      `json:"comments"`
}
