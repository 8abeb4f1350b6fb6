package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID        int
	ActorID   int
	Balance   decimal.Decimal
	UpdatedAt time.Time
}

type TransactionDirection string

const (
	TransactionDebit  TransactionDirection = "DEBIT"
	TransactionCredit TransactionDirection = "CREDIT"
)

// Transaction is a ledger entry. Every wallet balance mutation is paired with
// exactly one Transaction row inside the same database transaction.
type Transaction struct {
	ID        int
	WalletID  int
	BookingID *int
	Amount    decimal.Decimal
	Direction TransactionDirection
	CreatedAt time.Time
}

type WalletRepository interface {
	GetByActorID(ctx context.Context, actorID int) (*Wallet, error)
}
