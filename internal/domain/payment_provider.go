package domain

import "github.com/shopspring/decimal"

type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentProvider collects card payments for CARD checkouts. Wallet payments
// never touch it; they are debited inside the booking transaction.
type PaymentProvider interface {
	CreateCheckoutSession(trackingID string, actorID int, description string, amount decimal.Decimal) (*CheckoutSession, error)
}
