package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Analytics are pure functions over a snapshot of the transaction log.
// They never mutate state; only successful debits contribute to spending.

// DailySpend is one calendar day's total debit amount.
type DailySpend struct {
	Date   string          `json:"date"` // YYYY-MM-DD, UTC
	Amount decimal.Decimal `json:"amount"`
}

// LocationSpend aggregates debit activity at one address.
type LocationSpend struct {
	Location string          `json:"location"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}

// SpendingByCategory sums debit amounts per category for transactions
// dated at or after cutoff. Categories with no activity in the window
// are omitted, not zero-filled.
func SpendingByCategory(txns []Transaction, cutoff time.Time) map[Category]decimal.Decimal {
	totals := make(map[Category]decimal.Decimal)
	for _, t := range txns {
		if !t.IsDebit() || t.Date.Before(cutoff) {
			continue
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}
	return totals
}

// DailySpending returns exactly days entries, one per UTC calendar day
// from days-1 days before now through today, oldest first. Days with no
// debit activity carry a zero amount.
func DailySpending(txns []Transaction, days int, now time.Time) []DailySpend {
	today := now.UTC().Truncate(24 * time.Hour)
	totals := make(map[string]decimal.Decimal, days)

	result := make([]DailySpend, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(time.DateOnly)
		totals[day] = decimal.Zero
		result = append(result, DailySpend{Date: day})
	}

	for _, t := range txns {
		if !t.IsDebit() {
			continue
		}
		day := t.Date.UTC().Format(time.DateOnly)
		if cur, ok := totals[day]; ok {
			totals[day] = cur.Add(t.Amount)
		}
	}

	for i := range result {
		result[i].Amount = totals[result[i].Date]
	}
	return result
}

// SpendingByLocation groups all debit transactions that carry a location
// by address, summing amount and counting occurrences, sorted descending
// by amount. Transactions without a location are excluded entirely.
func SpendingByLocation(txns []Transaction) []LocationSpend {
	type bucket struct {
		amount decimal.Decimal
		count  int
	}
	buckets := make(map[string]*bucket)
	for _, t := range txns {
		if !t.IsDebit() || t.Location == nil {
			continue
		}
		b, ok := buckets[t.Location.Address]
		if !ok {
			b = &bucket{}
			buckets[t.Location.Address] = b
		}
		b.amount = b.amount.Add(t.Amount)
		b.count++
	}

	result := make([]LocationSpend, 0, len(buckets))
	for addr, b := range buckets {
		result = append(result, LocationSpend{Location: addr, Amount: b.amount, Count: b.count})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Amount.Equal(result[j].Amount) {
			return result[i].Amount.GreaterThan(result[j].Amount)
		}
		return result[i].Location < result[j].Location
	})
	return result
}
