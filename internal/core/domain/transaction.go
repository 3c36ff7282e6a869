package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType discriminates the direction of the balance effect.
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "debit"
	TransactionTypeCredit TransactionType = "credit"
)

// TransactionStatus is the lifecycle state of a transaction.
// Only "success" is produced today; "pending" and "failed" are reserved
// for async gateway flows.
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// PaymentMethod records how a payment was initiated. Informational only.
type PaymentMethod string

const (
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodQR     PaymentMethod = "qr"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodCard   PaymentMethod = "card"
)

// ValidPaymentMethod reports whether m is one of the known methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodWallet, PaymentMethodQR, PaymentMethodUPI, PaymentMethodCard:
		return true
	}
	return false
}

// Mood is a self-reported affect tag attached by payment-initiating
// callers. The ledger stores it for downstream behavioral analysis and
// never interprets it.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodNeutral  Mood = "neutral"
	MoodStressed Mood = "stressed"
	MoodExcited  Mood = "excited"
)

// ValidMood reports whether m is one of the known moods.
func ValidMood(m Mood) bool {
	switch m {
	case MoodHappy, MoodNeutral, MoodStressed, MoodExcited:
		return true
	}
	return false
}

// Location is a geographic point plus human-readable address.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Transaction is one immutable entry in a wallet's append-only log.
// Amount is always a positive magnitude; Type carries the sign.
type Transaction struct {
	ID            uuid.UUID         `json:"id"`
	WalletID      uuid.UUID         `json:"wallet_id"`
	Date          time.Time         `json:"date"`
	Merchant      string            `json:"merchant"`
	Category      Category          `json:"category"`
	Amount        decimal.Decimal   `json:"amount"`
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	Location      *Location         `json:"location,omitempty"`
	Mood          *Mood             `json:"mood,omitempty"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
}

// SignedAmount returns the amount with the balance-effect sign applied:
// positive for credits, negative for debits.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsDebit reports whether this transaction decreased the balance.
func (t *Transaction) IsDebit() bool {
	return t.Type == TransactionTypeDebit
}
