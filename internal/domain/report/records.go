package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// Location is a store or branch that sales and layby accounts are booked against
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Sale is a read-only snapshot of one completed sale
type Sale struct {
	ID          string          `json:"id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	SaleDate    time.Time       `json:"sale_date"`
	LocationID  string          `json:"location_id"`
	Currency    string          `json:"currency"` // may be empty
}

// SaleItem is one line of a sale
type SaleItem struct {
	SaleID    string `json:"sale_id"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// Product is referenced by sale items
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LaybyAccount is an installment account paid off over time
type LaybyAccount struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Currency    string          `json:"currency"`
	LocationID  string          `json:"location_id"`
}

// Due returns the outstanding balance. Overpaid accounts yield a negative due.
func (l LaybyAccount) Due() decimal.Decimal {
	return l.TotalAmount.Sub(l.PaidAmount)
}

// RecordSet is the full extract fetched for one computation pass.
// It doubles as the diagnostic snapshot exposed next to a published result.
type RecordSet struct {
	Locations          []Location     `json:"locations"`
	ResolvedLocationID string         `json:"resolved_location_id"`
	Sales              []Sale         `json:"sales"`
	SaleItems          []SaleItem     `json:"sale_items"`
	Products           []Product      `json:"products"`
	Laybys             []LaybyAccount `json:"laybys"`
	CustomerCount      int64          `json:"customer_count"`
}

// SaleIDs collects the distinct sale ids in first-seen order
func SaleIDs(sales []Sale) []string {
	seen := make(map[string]struct{}, len(sales))
	ids := make([]string, 0, len(sales))
	for _, s := range sales {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		ids = append(ids, s.ID)
	}
	return ids
}

// ProductIDs collects the distinct product ids referenced by the items, in first-seen order
func ProductIDs(items []SaleItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
