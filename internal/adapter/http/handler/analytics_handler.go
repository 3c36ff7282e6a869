package handler

import (
	"strconv"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

const defaultWindowDays = 30

// AnalyticsHandler handles spending analytics endpoints.
type AnalyticsHandler struct {
	analyticsSvc ports.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsSvc ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// Categories handles GET /api/v1/wallets/:id/spending/categories.
func (h *AnalyticsHandler) Categories(c *gin.Context) {
	walletID, ok := parseWalletID(c)
	if !ok {
		return
	}
	days, ok := parseDays(c)
	if !ok {
		return
	}

	totals, err := h.analyticsSvc.SpendingByCategory(c.Request.Context(), walletID, days)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make(map[string]string, len(totals))
	for category, amount := range totals {
		out[string(category)] = amount.String()
	}
	response.OK(c, dto.CategorySpendingResponse{Days: days, Totals: out})
}

// Daily handles GET /api/v1/wallets/:id/spending/daily.
func (h *AnalyticsHandler) Daily(c *gin.Context) {
	walletID, ok := parseWalletID(c)
	if !ok {
		return
	}
	days, ok := parseDays(c)
	if !ok {
		return
	}

	daily, err := h.analyticsSvc.DailySpending(c.Request.Context(), walletID, days)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.DailySpendItem, 0, len(daily))
	for _, d := range daily {
		items = append(items, dto.DailySpendItem{Date: d.Date, Amount: d.Amount.String()})
	}
	response.OK(c, dto.DailySpendingResponse{Days: days, Items: items})
}

// Locations handles GET /api/v1/wallets/:id/spending/locations.
func (h *AnalyticsHandler) Locations(c *gin.Context) {
	walletID, ok := parseWalletID(c)
	if !ok {
		return
	}

	spends, err := h.analyticsSvc.SpendingByLocation(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.LocationSpendItem, 0, len(spends))
	for _, s := range spends {
		items = append(items, dto.LocationSpendItem{
			Location: s.Location,
			Amount:   s.Amount.String(),
			Count:    s.Count,
		})
	}
	response.OK(c, dto.LocationSpendingResponse{Items: items})
}

// parseDays reads the optional ?days query parameter.
func parseDays(c *gin.Context) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return defaultWindowDays, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		response.Error(c, apperror.ErrInvalidWindow())
		return 0, false
	}
	return days, true
}
