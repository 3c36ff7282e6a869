package ports

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for
// pessimistic locking.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	// UpdateBalance sets the new balance, bumps version and last_updated.
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error
	// ResetBalance restores the wallet to its initial balance.
	ResetBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) error
}

// TransactionRepository defines persistence operations for the append-only
// transaction log. There is no update or delete of individual entries;
// DeleteByWallet exists solely for the demo reset operation.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	// ListByWallet returns transactions newest first. limit <= 0 means all.
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.Transaction, error)
	// ListDebitsSince returns debit transactions dated at or after since,
	// newest first.
	ListDebitsSince(ctx context.Context, walletID uuid.UUID, since time.Time) ([]domain.Transaction, error)
	// ListDebitsWithLocation returns all-time debit transactions that carry
	// a location.
	ListDebitsWithLocation(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error)
	// SumSigned returns the sum of signed amounts (credits minus debits)
	// over the wallet's whole log.
	SumSigned(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error)
	DeleteByWallet(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
