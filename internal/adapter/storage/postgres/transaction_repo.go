package postgres

import (
	"context"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionRepo implements ports.TransactionRepository over the
// append-only transactions table. Individual entries are never updated.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, wallet_id, date, merchant, category, amount::text, type, status,
		location_lat, location_lng, location_address, mood, payment_method`

// Create inserts a new transaction within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, wallet_id, date, merchant, category, amount, type, status,
		location_lat, location_lng, location_address, mood, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	var lat, lng *float64
	var address *string
	if t.Location != nil {
		lat, lng, address = &t.Location.Lat, &t.Location.Lng, &t.Location.Address
	}

	_, err := tx.Exec(ctx, query,
		t.ID, t.WalletID, t.Date, t.Merchant, t.Category,
		t.Amount.String(), t.Type, t.Status,
		lat, lng, address, t.Mood, t.PaymentMethod,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByWallet fetches transactions newest first. limit <= 0 returns all.
func (r *TransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE wallet_id = $1 ORDER BY date DESC, id DESC`, transactionColumns)
	args := []any{walletID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListDebitsSince fetches debit transactions dated at or after since,
// newest first.
func (r *TransactionRepo) ListDebitsSince(ctx context.Context, walletID uuid.UUID, since time.Time) ([]domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions
		WHERE wallet_id = $1 AND type = 'debit' AND date >= $2
		ORDER BY date DESC, id DESC`, transactionColumns)

	rows, err := r.pool.Query(ctx, query, walletID, since)
	if err != nil {
		return nil, fmt.Errorf("list debits since: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListDebitsWithLocation fetches all-time debit transactions carrying a
// location.
func (r *TransactionRepo) ListDebitsWithLocation(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions
		WHERE wallet_id = $1 AND type = 'debit' AND location_address IS NOT NULL
		ORDER BY date DESC, id DESC`, transactionColumns)

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list debits with location: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// SumSigned computes credits minus debits over the wallet's whole log.
func (r *TransactionRepo) SumSigned(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(CASE WHEN type = 'credit' THEN amount ELSE -amount END), 0)::text
		FROM transactions WHERE wallet_id = $1`

	var raw string
	if err := r.pool.QueryRow(ctx, query, walletID).Scan(&raw); err != nil {
		return decimal.Zero, fmt.Errorf("sum signed amounts: %w", err)
	}

	sum, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse signed sum: %w", err)
	}
	return sum, nil
}

// DeleteByWallet removes a wallet's whole log within a transaction.
// Only the demo reset operation uses this.
func (r *TransactionRepo) DeleteByWallet(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM transactions WHERE wallet_id = $1`, walletID)
	if err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	return nil
}

// collectTransactions scans all rows into transactions.
func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	for rows.Next() {
		var (
			t      domain.Transaction
			amount string
			lat    *float64
			lng    *float64
			addr   *string
		)
		err := rows.Scan(
			&t.ID, &t.WalletID, &t.Date, &t.Merchant, &t.Category,
			&amount, &t.Type, &t.Status,
			&lat, &lng, &addr, &t.Mood, &t.PaymentMethod,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount: %w", err)
		}
		if addr != nil {
			t.Location = &domain.Location{Address: *addr}
			if lat != nil {
				t.Location.Lat = *lat
			}
			if lng != nil {
				t.Location.Lng = *lng
			}
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}
