package domain

import "time"

// Client is a customer record kept by a proprietor.
type Client struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Address   string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name.
func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}
