package domain

import (
	"fmt"
	"time"
)

// PaymentStatus enumerates payment lifecycle states.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
)

// Payment is an amount owed by an identity.
type Payment struct {
	ID          string
	IdentityID  string
	AmountCents int64
	DueDate     time.Time
	Status      PaymentStatus
	CreatedAt   time.Time
}

// Transaction is a completed money movement for an identity.
type Transaction struct {
	ID          string
	IdentityID  string
	AmountCents int64
	CreatedAt   time.Time
}

// FormatAmount renders minor units as a decimal string, e.g. 1250 -> "12.50".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
