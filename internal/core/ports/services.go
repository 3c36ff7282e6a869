package ports

import (
	"context"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Service Ports (Business Logic) ---

// LedgerService is the only path through which wallets are created and
// mutated. All mutations are atomic: balance change and log append commit
// together or not at all.
type LedgerService interface {
	// CreateWallet opens a new wallet. A nil initial balance uses the
	// configured default.
	CreateWallet(ctx context.Context, initialBalance *decimal.Decimal) (*domain.Wallet, error)
	// OpenWallet loads an existing wallet. An unknown id is an error,
	// never a silent re-initialization.
	OpenWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	TopUp(ctx context.Context, req TopUpRequest) (*domain.Transaction, error)
	Pay(ctx context.Context, req PaymentRequest) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.Transaction, error)
	// VerifyBalance recomputes the balance from the log and compares it
	// with the stored one.
	VerifyBalance(ctx context.Context, walletID uuid.UUID) (*BalanceAudit, error)
	// Reset restores the initial balance and clears the log. Demo/test
	// only; rejected unless explicitly enabled in configuration.
	Reset(ctx context.Context, walletID uuid.UUID) error
}

// TopUpRequest holds validated input for a wallet credit.
type TopUpRequest struct {
	WalletID uuid.UUID
	Amount   decimal.Decimal
}

// PaymentRequest holds validated input for a wallet debit.
type PaymentRequest struct {
	WalletID uuid.UUID
	Merchant string
	Amount   decimal.Decimal
	Category *domain.Category // nil = auto-categorize from merchant
	Location *domain.Location
	Mood     *domain.Mood
	Method   domain.PaymentMethod // empty = wallet
}

// BalanceAudit reports the outcome of an invariant check.
type BalanceAudit struct {
	WalletID         uuid.UUID       `json:"wallet_id"`
	StoredBalance    decimal.Decimal `json:"stored_balance"`
	ComputedBalance  decimal.Decimal `json:"computed_balance"`
	TransactionCount int             `json:"transaction_count"`
	Consistent       bool            `json:"consistent"`
}

// AnalyticsService derives read-only spending views over the log.
type AnalyticsService interface {
	SpendingByCategory(ctx context.Context, walletID uuid.UUID, days int) (map[domain.Category]decimal.Decimal, error)
	DailySpending(ctx context.Context, walletID uuid.UUID, days int) ([]domain.DailySpend, error)
	SpendingByLocation(ctx context.Context, walletID uuid.UUID) ([]domain.LocationSpend, error)
}
