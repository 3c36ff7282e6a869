package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_SignedAmount(t *testing.T) {
	tests := []struct {
		name   string
		txType TransactionType
		amount int64
		want   int64
	}{
		{"debit is negative", TransactionTypeDebit, 450, -450},
		{"credit is positive", TransactionTypeCredit, 2000, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &Transaction{Type: tt.txType, Amount: decimal.NewFromInt(tt.amount)}
			assert.True(t, tx.SignedAmount().Equal(decimal.NewFromInt(tt.want)))
		})
	}
}

func TestWallet_CanCover(t *testing.T) {
	w := NewWallet(decimal.NewFromInt(100))

	assert.True(t, w.CanCover(decimal.NewFromInt(50)))
	assert.True(t, w.CanCover(decimal.NewFromInt(100)), "spending the exact balance is allowed")
	assert.False(t, w.CanCover(decimal.NewFromInt(101)))
}

func TestNewWallet(t *testing.T) {
	w := NewWallet(DefaultInitialBalance)

	require.NotEqual(t, w.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(10000)))
	assert.True(t, w.InitialBalance.Equal(w.Balance))
	assert.Equal(t, int64(1), w.Version)
	assert.False(t, w.CreatedAt.IsZero())
}

func TestExpectedBalance(t *testing.T) {
	now := time.Now().UTC()
	initial := decimal.NewFromInt(10000)
	txns := []Transaction{
		{Type: TransactionTypeCredit, Amount: decimal.NewFromInt(2000), Date: now},
		{Type: TransactionTypeDebit, Amount: decimal.NewFromInt(450), Date: now},
		{Type: TransactionTypeDebit, Amount: decimal.NewFromFloat(49.50), Date: now},
	}

	got := ExpectedBalance(initial, txns)
	assert.True(t, got.Equal(decimal.NewFromFloat(11500.50)), "got %s", got)
}

func TestExpectedBalance_EmptyLog(t *testing.T) {
	initial := decimal.NewFromInt(10000)
	assert.True(t, ExpectedBalance(initial, nil).Equal(initial))
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentMethodWallet, PaymentMethodQR, PaymentMethodUPI, PaymentMethodCard} {
		assert.True(t, ValidPaymentMethod(m))
	}
	assert.False(t, ValidPaymentMethod("cheque"))
	assert.False(t, ValidPaymentMethod(""))
}
