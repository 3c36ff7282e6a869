package service

import (
	"context"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AnalyticsServiceImpl implements ports.AnalyticsService. All views are
// derived from the transaction log on demand; nothing is cached or
// pre-aggregated.
type AnalyticsServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	log        zerolog.Logger
}

// NewAnalyticsService creates a new AnalyticsServiceImpl.
func NewAnalyticsService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	log zerolog.Logger,
) *AnalyticsServiceImpl {
	return &AnalyticsServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		log:        log,
	}
}

// SpendingByCategory sums debits per category over the trailing window of
// days. Categories without spending are omitted.
func (s *AnalyticsServiceImpl) SpendingByCategory(ctx context.Context, walletID uuid.UUID, days int) (map[domain.Category]decimal.Decimal, error) {
	if days < 1 {
		return nil, apperror.ErrInvalidWindow()
	}
	if err := s.ensureWalletExists(ctx, walletID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -days)
	debits, err := s.txRepo.ListDebitsSince(ctx, walletID, cutoff)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list debits: %w", err))
	}

	return domain.SpendingByCategory(debits, cutoff), nil
}

// DailySpending returns one entry per calendar day for the trailing window,
// oldest first, zero-filled for days without spending.
func (s *AnalyticsServiceImpl) DailySpending(ctx context.Context, walletID uuid.UUID, days int) ([]domain.DailySpend, error) {
	if days < 1 {
		return nil, apperror.ErrInvalidWindow()
	}
	if err := s.ensureWalletExists(ctx, walletID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -days)
	debits, err := s.txRepo.ListDebitsSince(ctx, walletID, cutoff)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list debits: %w", err))
	}

	return domain.DailySpending(debits, days, now), nil
}

// SpendingByLocation aggregates all-time located debits, highest spend first.
func (s *AnalyticsServiceImpl) SpendingByLocation(ctx context.Context, walletID uuid.UUID) ([]domain.LocationSpend, error) {
	if err := s.ensureWalletExists(ctx, walletID); err != nil {
		return nil, err
	}

	debits, err := s.txRepo.ListDebitsWithLocation(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list located debits: %w", err))
	}

	return domain.SpendingByLocation(debits), nil
}

func (s *AnalyticsServiceImpl) ensureWalletExists(ctx context.Context, walletID uuid.UUID) error {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return apperror.ErrNotFound("wallet")
	}
	return nil
}
