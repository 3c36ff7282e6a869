package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/core/ports/mocks"
	"wallet-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type handlerTestDeps struct {
	router       *gin.Engine
	ledgerSvc    *mocks.MockLedgerService
	analyticsSvc *mocks.MockAnalyticsService
	ctrl         *gomock.Controller
}

func setupHandlers(t *testing.T) *handlerTestDeps {
	ctrl := gomock.NewController(t)
	d := &handlerTestDeps{
		ledgerSvc:    mocks.NewMockLedgerService(ctrl),
		analyticsSvc: mocks.NewMockAnalyticsService(ctrl),
		ctrl:         ctrl,
	}
	d.router = SetupRouter(RouterDeps{
		LedgerSvc:    d.ledgerSvc,
		AnalyticsSvc: d.analyticsSvc,
		Logger:       zerolog.Nop(),
	})
	return d
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

func sampleWallet(id uuid.UUID) *domain.Wallet {
	now := time.Now().UTC()
	return &domain.Wallet{
		ID:             id,
		Balance:        decimal.NewFromInt(10000),
		InitialBalance: decimal.NewFromInt(10000),
		Version:        1,
		CreatedAt:      now,
		LastUpdated:    now,
	}
}

// --- Wallet Handler Tests ---

func TestCreateWallet_Success(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	d.ledgerSvc.EXPECT().CreateWallet(gomock.Any(), nil).Return(sampleWallet(walletID), nil)

	w := doJSON(d.router, http.MethodPost, "/api/v1/wallets", map[string]any{})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, walletID.String(), data["id"])
	assert.Equal(t, "10000", data["balance"])
	assert.Equal(t, float64(1), data["version"])
}

func TestCreateWallet_NegativeInitialBalance(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	w := doJSON(d.router, http.MethodPost, "/api/v1/wallets",
		dto.CreateWalletRequest{InitialBalance: strPtr("-5")})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWallet_NotFound(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	d.ledgerSvc.EXPECT().OpenWallet(gomock.Any(), walletID).Return(nil, apperror.ErrNotFound("wallet"))

	w := doJSON(d.router, http.MethodGet, "/api/v1/wallets/"+walletID.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "LED_004")
}

func TestGetWallet_BadID(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	w := doJSON(d.router, http.MethodGet, "/api/v1/wallets/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTopUp_Success(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	txn := &domain.Transaction{
		ID:            uuid.New(),
		WalletID:      walletID,
		Date:          time.Now().UTC(),
		Merchant:      "Wallet Top-Up",
		Category:      domain.CategoryWallet,
		Amount:        decimal.NewFromInt(2000),
		Type:          domain.TransactionTypeCredit,
		Status:        domain.TransactionStatusSuccess,
		PaymentMethod: domain.PaymentMethodUPI,
	}
	d.ledgerSvc.EXPECT().
		TopUp(gomock.Any(), ports.TopUpRequest{WalletID: walletID, Amount: decimal.NewFromInt(2000)}).
		Return(txn, nil)

	w := doJSON(d.router, http.MethodPost, "/api/v1/wallets/"+walletID.String()+"/topup",
		dto.TopUpRequest{Amount: "2000"})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "credit", data["type"])
	assert.Equal(t, "Wallet Top-Up", data["merchant"])
	assert.Equal(t, "2000", data["amount"])
}

func TestTopUp_RejectsZeroAmount(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	w := doJSON(d.router, http.MethodPost, "/api/v1/wallets/"+walletID.String()+"/topup",
		dto.TopUpRequest{Amount: "0"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPay_Success(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	mood := domain.MoodHappy
	txn := &domain.Transaction{
		ID:            uuid.New(),
		WalletID:      walletID,
		Date:          time.Now().UTC(),
		Merchant:      "Swiggy",
		Category:      domain.CategoryFood,
		Amount:        decimal.NewFromInt(450),
		Type:          domain.TransactionTypeDebit,
		Status:        domain.TransactionStatusSuccess,
		Mood:          &mood,
		PaymentMethod: domain.PaymentMethodWallet,
	}
	d.ledgerSvc.EXPECT().Pay(gomock.Any(), gomock.Any()).Return(txn, nil)

	w := doJSON(d.router, http.MethodPost, "/api/v1/wallets/"+walletID.String()+"/payments",
		dto.PaymentRequest{Merchant: "Swiggy", Amount: "450", Mood: strPtr("happy")})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "debit", data["type"])
	assert.Equal(t, "Food & Drinks", data["category"])
	assert.Equal(t, "happy", data["mood"])
}

func TestPay_InsufficientFunds(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	d.ledgerSvc.EXPECT().Pay(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrInsufficientFunds())

	w := doJSON(d.router, http.MethodPost, "/api/v1/wallets/"+walletID.String()+"/payments",
		dto.PaymentRequest{Merchant: "Big Purchase", Amount: "50000"})

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "LED_001")
}

func TestPay_RejectsUnknownMood(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	w := doJSON(d.router, http.MethodPost, "/api/v1/wallets/"+walletID.String()+"/payments",
		dto.PaymentRequest{Merchant: "Swiggy", Amount: "100", Mood: strPtr("grumpy")})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTransactions_Success(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	txns := []domain.Transaction{
		{
			ID:            uuid.New(),
			WalletID:      walletID,
			Date:          time.Now().UTC(),
			Merchant:      "Swiggy",
			Category:      domain.CategoryFood,
			Amount:        decimal.NewFromInt(450),
			Type:          domain.TransactionTypeDebit,
			Status:        domain.TransactionStatusSuccess,
			PaymentMethod: domain.PaymentMethodWallet,
		},
	}
	d.ledgerSvc.EXPECT().ListTransactions(gomock.Any(), walletID, 0).Return(txns, nil)

	w := doJSON(d.router, http.MethodGet, "/api/v1/wallets/"+walletID.String()+"/transactions", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, float64(1), data["count"])
}

func TestListTransactions_LimitParam(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	d.ledgerSvc.EXPECT().ListTransactions(gomock.Any(), walletID, 5).Return(nil, nil)

	w := doJSON(d.router, http.MethodGet, "/api/v1/wallets/"+walletID.String()+"/transactions?limit=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAudit_Success(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	d.ledgerSvc.EXPECT().VerifyBalance(gomock.Any(), walletID).Return(&ports.BalanceAudit{
		WalletID:         walletID,
		StoredBalance:    decimal.NewFromInt(11550),
		ComputedBalance:  decimal.NewFromInt(11550),
		TransactionCount: 2,
		Consistent:       true,
	}, nil)

	w := doJSON(d.router, http.MethodGet, "/api/v1/wallets/"+walletID.String()+"/audit", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, true, data["consistent"])
	assert.Equal(t, "11550", data["stored_balance"])
}

func TestReset_Disabled(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	d.ledgerSvc.EXPECT().Reset(gomock.Any(), walletID).Return(apperror.ErrResetDisabled())

	w := doJSON(d.router, http.MethodPost, "/api/v1/wallets/"+walletID.String()+"/reset", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "LED_005")
}

// --- Analytics Handler Tests ---

func TestSpendingCategories_Success(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	d.analyticsSvc.EXPECT().SpendingByCategory(gomock.Any(), walletID, 30).
		Return(map[domain.Category]decimal.Decimal{
			domain.CategoryFood:   decimal.NewFromInt(500),
			domain.CategoryTravel: decimal.NewFromInt(300),
		}, nil)

	w := doJSON(d.router, http.MethodGet, "/api/v1/wallets/"+walletID.String()+"/spending/categories", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	totals := data["totals"].(map[string]interface{})
	assert.Equal(t, "500", totals["Food & Drinks"])
	assert.Equal(t, "300", totals["Travel"])
}

func TestSpendingCategories_CustomWindow(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	d.analyticsSvc.EXPECT().SpendingByCategory(gomock.Any(), walletID, 7).
		Return(map[domain.Category]decimal.Decimal{}, nil)

	w := doJSON(d.router, http.MethodGet, "/api/v1/wallets/"+walletID.String()+"/spending/categories?days=7", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSpendingCategories_BadWindow(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	w := doJSON(d.router, http.MethodGet, "/api/v1/wallets/"+walletID.String()+"/spending/categories?days=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "LED_006")
}

func TestSpendingDaily_Success(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	d.analyticsSvc.EXPECT().DailySpending(gomock.Any(), walletID, 3).Return([]domain.DailySpend{
		{Date: "2026-08-28", Amount: decimal.NewFromInt(250)},
		{Date: "2026-08-29", Amount: decimal.Zero},
		{Date: "2026-08-30", Amount: decimal.Zero},
	}, nil)

	w := doJSON(d.router, http.MethodGet, "/api/v1/wallets/"+walletID.String()+"/spending/daily?days=3", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	items := data["items"].([]interface{})
	require.Len(t, items, 3)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "2026-08-28", first["date"])
	assert.Equal(t, "250", first["amount"])
}

func TestSpendingLocations_Success(t *testing.T) {
	d := setupHandlers(t)
	defer d.ctrl.Finish()

	walletID := uuid.New()
	d.analyticsSvc.EXPECT().SpendingByLocation(gomock.Any(), walletID).Return([]domain.LocationSpend{
		{
			Location: "Orion Mall",
			Amount:   decimal.NewFromInt(3000),
			Count:    2,
		},
	}, nil)

	w := doJSON(d.router, http.MethodGet, "/api/v1/wallets/"+walletID.String()+"/spending/locations", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Orion Mall", item["location"])
	assert.Equal(t, "3000", item["amount"])
	assert.Equal(t, float64(2), item["count"])
}

// --- Health Handler Tests ---

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Ping(_ context.Context) error { return f.err }
func (f fakeChecker) Name() string                 { return f.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck(fakeChecker{name: "postgres"}, fakeChecker{name: "redis"}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_Degraded(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck(
		fakeChecker{name: "postgres"},
		fakeChecker{name: "redis", err: errors.New("connection refused")},
	))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}

func strPtr(s string) *string { return &s }
