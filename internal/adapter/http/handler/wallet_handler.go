package handler

import (
	"html"
	"strconv"
	"time"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletHandler handles wallet lifecycle and ledger endpoints.
type WalletHandler struct {
	ledgerSvc ports.LedgerService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledgerSvc ports.LedgerService) *WalletHandler {
	return &WalletHandler{ledgerSvc: ledgerSvc}
}

// Create handles POST /api/v1/wallets.
func (h *WalletHandler) Create(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	var initial *decimal.Decimal
	if req.InitialBalance != nil {
		d, err := decimal.NewFromString(*req.InitialBalance)
		if err != nil {
			response.Error(c, apperror.ErrInvalidAmount())
			return
		}
		initial = &d
	}

	wallet, err := h.ledgerSvc.CreateWallet(c.Request.Context(), initial)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toWalletResponse(wallet))
}

// Get handles GET /api/v1/wallets/:id.
func (h *WalletHandler) Get(c *gin.Context) {
	walletID, ok := parseWalletID(c)
	if !ok {
		return
	}

	wallet, err := h.ledgerSvc.OpenWallet(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(wallet))
}

// TopUp handles POST /api/v1/wallets/:id/topup.
func (h *WalletHandler) TopUp(c *gin.Context) {
	walletID, ok := parseWalletID(c)
	if !ok {
		return
	}

	var req dto.TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	txn, err := h.ledgerSvc.TopUp(c.Request.Context(), ports.TopUpRequest{
		WalletID: walletID,
		Amount:   amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// Pay handles POST /api/v1/wallets/:id/payments.
func (h *WalletHandler) Pay(c *gin.Context) {
	walletID, ok := parseWalletID(c)
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	svcReq := ports.PaymentRequest{
		WalletID: walletID,
		// Sanitization escaped HTML entities; the stored merchant name is
		// the caller's literal text.
		Merchant: html.UnescapeString(req.Merchant),
		Amount:   amount,
	}
	if req.Category != nil {
		category := domain.Category(html.UnescapeString(*req.Category))
		svcReq.Category = &category
	}
	if req.Mood != nil {
		mood := domain.Mood(*req.Mood)
		svcReq.Mood = &mood
	}
	if req.Method != nil {
		svcReq.Method = domain.PaymentMethod(*req.Method)
	}
	if req.Location != nil {
		svcReq.Location = &domain.Location{
			Lat:     req.Location.Lat,
			Lng:     req.Location.Lng,
			Address: html.UnescapeString(req.Location.Address),
		}
	}

	txn, err := h.ledgerSvc.Pay(c.Request.Context(), svcReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// ListTransactions handles GET /api/v1/wallets/:id/transactions.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	walletID, ok := parseWalletID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.Error(c, apperror.Validation("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	txns, err := h.ledgerSvc.ListTransactions(c.Request.Context(), walletID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}
	response.OK(c, dto.TransactionListResponse{Items: items, Count: len(items)})
}

// Audit handles GET /api/v1/wallets/:id/audit.
func (h *WalletHandler) Audit(c *gin.Context) {
	walletID, ok := parseWalletID(c)
	if !ok {
		return
	}

	audit, err := h.ledgerSvc.VerifyBalance(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceAuditResponse{
		WalletID:         audit.WalletID.String(),
		StoredBalance:    audit.StoredBalance.String(),
		ComputedBalance:  audit.ComputedBalance.String(),
		TransactionCount: audit.TransactionCount,
		Consistent:       audit.Consistent,
	})
}

// Reset handles POST /api/v1/wallets/:id/reset.
func (h *WalletHandler) Reset(c *gin.Context) {
	walletID, ok := parseWalletID(c)
	if !ok {
		return
	}

	if err := h.ledgerSvc.Reset(c.Request.Context(), walletID); err != nil {
		response.Error(c, err)
		return
	}

	wallet, err := h.ledgerSvc.OpenWallet(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toWalletResponse(wallet))
}

func parseWalletID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("wallet id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func toWalletResponse(w *domain.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		ID:             w.ID.String(),
		Balance:        w.Balance.String(),
		InitialBalance: w.InitialBalance.String(),
		Version:        w.Version,
		CreatedAt:      w.CreatedAt.UTC().Format(time.RFC3339),
		LastUpdated:    w.LastUpdated.UTC().Format(time.RFC3339),
	}
}

func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:            t.ID.String(),
		WalletID:      t.WalletID.String(),
		Date:          t.Date.UTC().Format(time.RFC3339),
		Merchant:      t.Merchant,
		Category:      string(t.Category),
		Amount:        t.Amount.String(),
		Type:          string(t.Type),
		Status:        string(t.Status),
		PaymentMethod: string(t.PaymentMethod),
	}
	if t.Location != nil {
		resp.Location = &dto.LocationDTO{
			Lat:     t.Location.Lat,
			Lng:     t.Location.Lng,
			Address: t.Location.Address,
		}
	}
	if t.Mood != nil {
		mood := string(*t.Mood)
		resp.Mood = &mood
	}
	return resp
}
