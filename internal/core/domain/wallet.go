package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultInitialBalance is the opening balance used when a wallet is created
// without an explicit one.
var DefaultInitialBalance = decimal.NewFromInt(10000)

// Wallet is the head record of one ledger: current balance plus metadata.
// Balance must always equal InitialBalance plus the sum of signed
// transaction amounts in the wallet's log.
type Wallet struct {
	ID             uuid.UUID       `json:"id"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Version        int64           `json:"version"` // bumped on every committed mutation
	CreatedAt      time.Time       `json:"created_at"`
	LastUpdated    time.Time       `json:"last_updated"`
}

// NewWallet creates a wallet opened with the given balance.
func NewWallet(initialBalance decimal.Decimal) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		ID:             uuid.New(),
		Balance:        initialBalance,
		InitialBalance: initialBalance,
		Version:        1,
		CreatedAt:      now,
		LastUpdated:    now,
	}
}

// CanCover reports whether the balance covers a debit of amount.
// Spending the exact balance is allowed.
func (w *Wallet) CanCover(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

// ExpectedBalance computes what the balance should be given the full
// transaction log. The audit operation compares this against the stored
// balance to verify the ledger invariant.
func ExpectedBalance(initial decimal.Decimal, txns []Transaction) decimal.Decimal {
	balance := initial
	for _, t := range txns {
		balance = balance.Add(t.SignedAmount())
	}
	return balance
}
