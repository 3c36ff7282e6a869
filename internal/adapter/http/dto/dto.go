package dto

// CreateWalletRequest is the request body for opening a new wallet.
// A missing initial_balance uses the configured default.
type CreateWalletRequest struct {
	InitialBalance *string `json:"initial_balance,omitempty" binding:"omitempty,decimal_nonneg"`
}

// TopUpRequest is the request body for a wallet credit.
type TopUpRequest struct {
	Amount string `json:"amount" binding:"required,decimal_positive"`
}

// PaymentRequest is the request body for a wallet debit.
type PaymentRequest struct {
	Merchant string       `json:"merchant" binding:"required,min=1,max=100"`
	Amount   string       `json:"amount" binding:"required,decimal_positive"`
	Category *string      `json:"category,omitempty" binding:"omitempty,spend_category"`
	Location *LocationDTO `json:"location,omitempty"`
	Mood     *string      `json:"mood,omitempty" binding:"omitempty,spend_mood"`
	Method   *string      `json:"payment_method,omitempty" binding:"omitempty,payment_method"`
}

// LocationDTO is a geo point with a display address.
type LocationDTO struct {
	Lat     float64 `json:"lat" binding:"min=-90,max=90"`
	Lng     float64 `json:"lng" binding:"min=-180,max=180"`
	Address string  `json:"address" binding:"required,max=200"`
}

// WalletResponse is the response body for wallet state.
type WalletResponse struct {
	ID             string `json:"id"`
	Balance        string `json:"balance"`
	InitialBalance string `json:"initial_balance"`
	Version        int64  `json:"version"`
	CreatedAt      string `json:"created_at"`
	LastUpdated    string `json:"last_updated"`
}

// TransactionResponse is the response body for one log entry.
type TransactionResponse struct {
	ID            string       `json:"id"`
	WalletID      string       `json:"wallet_id"`
	Date          string       `json:"date"`
	Merchant      string       `json:"merchant"`
	Category      string       `json:"category"`
	Amount        string       `json:"amount"`
	Type          string       `json:"type"`
	Status        string       `json:"status"`
	Location      *LocationDTO `json:"location,omitempty"`
	Mood          *string      `json:"mood,omitempty"`
	PaymentMethod string       `json:"payment_method"`
}

// TransactionListResponse wraps a wallet's transaction log.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Count int                   `json:"count"`
}

// BalanceAuditResponse reports the outcome of a balance invariant check.
type BalanceAuditResponse struct {
	WalletID         string `json:"wallet_id"`
	StoredBalance    string `json:"stored_balance"`
	ComputedBalance  string `json:"computed_balance"`
	TransactionCount int    `json:"transaction_count"`
	Consistent       bool   `json:"consistent"`
}

// CategorySpendingResponse maps category label to total debit amount over
// the trailing window.
type CategorySpendingResponse struct {
	Days   int               `json:"days"`
	Totals map[string]string `json:"totals"`
}

// DailySpendItem is one calendar day's total.
type DailySpendItem struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

// DailySpendingResponse lists per-day totals, oldest first.
type DailySpendingResponse struct {
	Days  int              `json:"days"`
	Items []DailySpendItem `json:"items"`
}

// LocationSpendItem is the aggregate spend at one address.
type LocationSpendItem struct {
	Location string `json:"location"`
	Amount   string `json:"amount"`
	Count    int    `json:"count"`
}

// LocationSpendingResponse lists per-location totals, highest spend first.
type LocationSpendingResponse struct {
	Items []LocationSpendItem `json:"items"`
}
