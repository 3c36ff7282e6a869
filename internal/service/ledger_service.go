package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const topUpMerchant = "Wallet Top-Up"

// LedgerServiceImpl implements ports.LedgerService.
type LedgerServiceImpl struct {
	walletRepo     ports.WalletRepository
	txRepo         ports.TransactionRepository
	transactor     ports.DBTransactor
	notifier       ports.ChangeNotifier
	initialBalance decimal.Decimal
	allowReset     bool
	log            zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	notifier ports.ChangeNotifier,
	initialBalance decimal.Decimal,
	allowReset bool,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		walletRepo:     walletRepo,
		txRepo:         txRepo,
		transactor:     transactor,
		notifier:       notifier,
		initialBalance: initialBalance,
		allowReset:     allowReset,
		log:            log,
	}
}

// CreateWallet opens a new wallet. A nil initialBalance uses the configured
// default.
func (s *LedgerServiceImpl) CreateWallet(ctx context.Context, initialBalance *decimal.Decimal) (*domain.Wallet, error) {
	balance := s.initialBalance
	if initialBalance != nil {
		if initialBalance.IsNegative() {
			return nil, apperror.Validation("Initial balance must not be negative")
		}
		balance = *initialBalance
	}

	wallet := domain.NewWallet(balance)
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("initial_balance", wallet.InitialBalance.String()).
		Msg("wallet created")

	return wallet, nil
}

// OpenWallet loads an existing wallet. Unknown ids are an error, never a
// silent re-initialization.
func (s *LedgerServiceImpl) OpenWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	return wallet, nil
}

// TopUp credits the wallet with pessimistic locking. Balance update and log
// append commit together or not at all.
func (s *LedgerServiceImpl) TopUp(ctx context.Context, req ports.TopUpRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	// Begin database transaction
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get wallet
	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, req.WalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	newBalance := wallet.Balance.Add(req.Amount)

	txn := &domain.Transaction{
		ID:            uuid.New(),
		WalletID:      wallet.ID,
		Date:          time.Now().UTC(),
		Merchant:      topUpMerchant,
		Category:      domain.CategoryWallet,
		Amount:        req.Amount,
		Type:          domain.TransactionTypeCredit,
		Status:        domain.TransactionStatusSuccess,
		PaymentMethod: domain.PaymentMethodUPI,
	}

	// Persist: update wallet balance
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	// Persist: append transaction
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	// Commit
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.publishChange(ctx, wallet.ID, wallet.Version+1)

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("wallet_id", wallet.ID.String()).
		Str("amount", req.Amount.String()).
		Msg("topup processed successfully")

	return txn, nil
}

// Pay debits the wallet. Funds are checked under the row lock; on
// insufficient balance nothing is persisted.
func (s *LedgerServiceImpl) Pay(ctx context.Context, req ports.PaymentRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	merchant := strings.TrimSpace(req.Merchant)
	if merchant == "" {
		return nil, apperror.ErrInvalidMerchant()
	}

	method := req.Method
	if method == "" {
		method = domain.PaymentMethodWallet
	}
	if !domain.ValidPaymentMethod(method) {
		return nil, apperror.Validation("Unknown payment method")
	}

	category := domain.Categorize(merchant)
	if req.Category != nil {
		category = *req.Category
	}

	// Begin database transaction
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get wallet
	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, req.WalletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	// Business rule: sufficient funds. A payment of the exact balance is
	// allowed and leaves the wallet at zero.
	if !wallet.CanCover(req.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	newBalance := wallet.Balance.Sub(req.Amount)

	txn := &domain.Transaction{
		ID:            uuid.New(),
		WalletID:      wallet.ID,
		Date:          time.Now().UTC(),
		Merchant:      merchant,
		Category:      category,
		Amount:        req.Amount,
		Type:          domain.TransactionTypeDebit,
		Status:        domain.TransactionStatusSuccess,
		Location:      req.Location,
		Mood:          req.Mood,
		PaymentMethod: method,
	}

	// Persist: update wallet balance
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	// Persist: append transaction
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	// Commit
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.publishChange(ctx, wallet.ID, wallet.Version+1)

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("wallet_id", wallet.ID.String()).
		Str("merchant", merchant).
		Str("category", string(category)).
		Str("amount", req.Amount.String()).
		Msg("payment processed successfully")

	return txn, nil
}

// ListTransactions returns the wallet's log, newest first.
func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.Transaction, error) {
	if err := s.ensureWalletExists(ctx, walletID); err != nil {
		return nil, err
	}
	txns, err := s.txRepo.ListByWallet(ctx, walletID, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}

// VerifyBalance recomputes the balance from the log and compares it with
// the stored one.
func (s *LedgerServiceImpl) VerifyBalance(ctx context.Context, walletID uuid.UUID) (*ports.BalanceAudit, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	signedSum, err := s.txRepo.SumSigned(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("sum transactions: %w", err))
	}
	txns, err := s.txRepo.ListByWallet(ctx, walletID, 0)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}

	computed := wallet.InitialBalance.Add(signedSum)
	audit := &ports.BalanceAudit{
		WalletID:         walletID,
		StoredBalance:    wallet.Balance,
		ComputedBalance:  computed,
		TransactionCount: len(txns),
		Consistent:       wallet.Balance.Equal(computed),
	}

	if !audit.Consistent {
		s.log.Error().
			Str("wallet_id", walletID.String()).
			Str("stored", wallet.Balance.String()).
			Str("computed", computed.String()).
			Msg("balance invariant violated")
	}

	return audit, nil
}

// Reset restores the initial balance and clears the log. Rejected unless
// explicitly enabled in configuration.
func (s *LedgerServiceImpl) Reset(ctx context.Context, walletID uuid.UUID) error {
	if !s.allowReset {
		return apperror.ErrResetDisabled()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, walletID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return apperror.ErrNotFound("wallet")
	}

	if err := s.txRepo.DeleteByWallet(ctx, dbTx, walletID); err != nil {
		return apperror.InternalError(fmt.Errorf("clear transactions: %w", err))
	}
	if err := s.walletRepo.ResetBalance(ctx, dbTx, walletID); err != nil {
		return apperror.InternalError(fmt.Errorf("reset balance: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.publishChange(ctx, walletID, wallet.Version+1)

	s.log.Warn().
		Str("wallet_id", walletID.String()).
		Msg("wallet reset to initial balance")

	return nil
}

func (s *LedgerServiceImpl) ensureWalletExists(ctx context.Context, walletID uuid.UUID) error {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return apperror.ErrNotFound("wallet")
	}
	return nil
}

// publishChange notifies subscribers after a committed mutation. Best-effort:
// a publish failure never fails the mutation.
func (s *LedgerServiceImpl) publishChange(ctx context.Context, walletID uuid.UUID, version int64) {
	change := ports.WalletChange{WalletID: walletID, Version: version}
	if err := s.notifier.Publish(ctx, change); err != nil {
		s.log.Warn().Err(err).
			Str("wallet_id", walletID.String()).
			Msg("failed to publish wallet change")
	}
}
