package service

import (
	"context"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type analyticsTestDeps struct {
	svc        *AnalyticsServiceImpl
	walletRepo *mocks.MockWalletRepository
	txRepo     *mocks.MockTransactionRepository
	ctrl       *gomock.Controller
}

func setupAnalyticsService(t *testing.T) *analyticsTestDeps {
	ctrl := gomock.NewController(t)
	d := &analyticsTestDeps{
		walletRepo: mocks.NewMockWalletRepository(ctrl),
		txRepo:     mocks.NewMockTransactionRepository(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewAnalyticsService(d.walletRepo, d.txRepo, zerolog.Nop())
	return d
}

func debit(walletID uuid.UUID, merchant string, category domain.Category, amount int64, daysAgo int) domain.Transaction {
	return domain.Transaction{
		ID:            uuid.New(),
		WalletID:      walletID,
		Date:          time.Now().UTC().AddDate(0, 0, -daysAgo),
		Merchant:      merchant,
		Category:      category,
		Amount:        decimal.NewFromInt(amount),
		Type:          domain.TransactionTypeDebit,
		Status:        domain.TransactionStatusSuccess,
		PaymentMethod: domain.PaymentMethodWallet,
	}
}

func TestAnalyticsService_SpendingByCategory(t *testing.T) {
	d := setupAnalyticsService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()

	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(&domain.Wallet{ID: walletID}, nil)
	d.txRepo.EXPECT().ListDebitsSince(ctx, walletID, gomock.Any()).Return([]domain.Transaction{
		debit(walletID, "Swiggy", domain.CategoryFood, 300, 2),
		debit(walletID, "Zomato", domain.CategoryFood, 200, 5),
		debit(walletID, "Uber", domain.CategoryTravel, 300, 10),
	}, nil)

	result, err := d.svc.SpendingByCategory(ctx, walletID, 30)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.True(t, result[domain.CategoryFood].Equal(decimal.NewFromInt(500)))
	assert.True(t, result[domain.CategoryTravel].Equal(decimal.NewFromInt(300)))
}

func TestAnalyticsService_SpendingByCategory_InvalidWindow(t *testing.T) {
	d := setupAnalyticsService(t)
	defer d.ctrl.Finish()

	result, err := d.svc.SpendingByCategory(context.Background(), uuid.New(), 0)
	assert.Nil(t, result)
	assertAppError(t, err, "LED_006")
}

func TestAnalyticsService_SpendingByCategory_WalletNotFound(t *testing.T) {
	d := setupAnalyticsService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(nil, nil)

	result, err := d.svc.SpendingByCategory(ctx, walletID, 30)
	assert.Nil(t, result)
	assertAppError(t, err, "LED_004")
}

func TestAnalyticsService_DailySpending_ZeroFilled(t *testing.T) {
	d := setupAnalyticsService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()

	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(&domain.Wallet{ID: walletID}, nil)
	d.txRepo.EXPECT().ListDebitsSince(ctx, walletID, gomock.Any()).Return([]domain.Transaction{
		debit(walletID, "Swiggy", domain.CategoryFood, 250, 2),
	}, nil)

	result, err := d.svc.DailySpending(ctx, walletID, 3)
	require.NoError(t, err)
	require.Len(t, result, 3)
	// Oldest first: the spend two days ago lands in the first slot.
	assert.True(t, result[0].Amount.Equal(decimal.NewFromInt(250)))
	assert.True(t, result[1].Amount.IsZero())
	assert.True(t, result[2].Amount.IsZero())
}

func TestAnalyticsService_DailySpending_InvalidWindow(t *testing.T) {
	d := setupAnalyticsService(t)
	defer d.ctrl.Finish()

	result, err := d.svc.DailySpending(context.Background(), uuid.New(), -1)
	assert.Nil(t, result)
	assertAppError(t, err, "LED_006")
}

func TestAnalyticsService_SpendingByLocation(t *testing.T) {
	d := setupAnalyticsService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()

	mall := debit(walletID, "Zara", domain.CategoryShopping, 3000, 40)
	mall.Location = &domain.Location{Lat: 12.97, Lng: 77.59, Address: "Orion Mall"}
	cafe := debit(walletID, "Starbucks", domain.CategoryFood, 400, 1)
	cafe.Location = &domain.Location{Lat: 12.93, Lng: 77.61, Address: "Koramangala"}

	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(&domain.Wallet{ID: walletID}, nil)
	d.txRepo.EXPECT().ListDebitsWithLocation(ctx, walletID).
		Return([]domain.Transaction{mall, cafe}, nil)

	result, err := d.svc.SpendingByLocation(ctx, walletID)
	require.NoError(t, err)
	require.Len(t, result, 2)
	// Sorted by amount, highest first. The window is all-time.
	assert.Equal(t, "Orion Mall", result[0].Location)
	assert.True(t, result[0].Amount.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, "Koramangala", result[1].Location)
}

func TestAnalyticsService_SpendingByLocation_Empty(t *testing.T) {
	d := setupAnalyticsService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()

	d.walletRepo.EXPECT().GetByID(ctx, walletID).Return(&domain.Wallet{ID: walletID}, nil)
	d.txRepo.EXPECT().ListDebitsWithLocation(ctx, walletID).Return(nil, nil)

	result, err := d.svc.SpendingByLocation(ctx, walletID)
	require.NoError(t, err)
	assert.Empty(t, result)
}
