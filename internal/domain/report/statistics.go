package report

import (
	"context"
	"time"

	"github.com/retailops/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	// ErrComputationFailed is the single caller-visible failure of a statistics pass
	ErrComputationFailed = shared.NewDomainError("COMPUTATION_FAILED", "Failed to compute statistics")
	// ErrPassSuperseded is reported to in-process waiters whose pass lost to a newer filter
	ErrPassSuperseded = shared.NewDomainError("PASS_SUPERSEDED", "Statistics pass superseded by a newer filter")
)

// StatisticsFilter is the caller supplied filter snapshot for one pass.
// Zero dates and an empty location mean "unrestricted".
type StatisticsFilter struct {
	DateFrom       time.Time `json:"date_from,omitempty"`
	DateTo         time.Time `json:"date_to,omitempty"`
	LocationFilter string    `json:"location_filter,omitempty"`
}

// SalesQuery holds the predicates pushed down to the sales read
type SalesQuery struct {
	DateFrom   time.Time
	DateTo     time.Time
	LocationID string // NoLocationFilter skips the predicate
}

// AnalyticsReader is the read side of the external store used by one pass
type AnalyticsReader interface {
	// ListLocations returns every location
	ListLocations(ctx context.Context) ([]Location, error)

	// FindSales returns sales matching the date range and location predicates
	FindSales(ctx context.Context, query SalesQuery) ([]Sale, error)

	// FindSaleItems returns the line items of the given sales
	FindSaleItems(ctx context.Context, saleIDs []string) ([]SaleItem, error)

	// FindProducts returns the products with the given ids
	FindProducts(ctx context.Context, productIDs []string) ([]Product, error)

	// FindLaybys returns layby accounts, restricted to locationID unless it is NoLocationFilter
	FindLaybys(ctx context.Context, locationID string) ([]LaybyAccount, error)

	// CountCustomers returns the number of customer rows
	CountCustomers(ctx context.Context) (int64, error)
}

// ComputationResult is the immutable outcome of one pass.
// It is replaced wholesale by the next published pass.
type ComputationResult struct {
	Filter             StatisticsFilter  `json:"filter"`
	ResolvedLocationID string            `json:"resolved_location_id"`
	SalesByCurrency    CurrencyAggregate `json:"sales_by_currency"`
	MostSoldProduct    string            `json:"most_sold_product"`
	LeastSoldProduct   string            `json:"least_sold_product"`
	ProductRanking     ProductRanking    `json:"product_ranking"`
	LaybyByCurrency    CurrencyAggregate `json:"layby_by_currency"`
	DueK               decimal.Decimal   `json:"due_k"`
	DueUSD             decimal.Decimal   `json:"due_usd"`
	TotalCustomers     int64             `json:"total_customers"`
	SalesCount         int               `json:"sales_count"`
	SaleItemCount      int               `json:"sale_item_count"`
	LaybyCount         int               `json:"layby_count"`
	ComputedAt         time.Time         `json:"computed_at"`
}

// Computation pairs a result with the records it was derived from
type Computation struct {
	Result  *ComputationResult
	Records *RecordSet
}

// AssembleResult runs the aggregators over a fetched record set
func AssembleResult(filter StatisticsFilter, records *RecordSet, computedAt time.Time) *ComputationResult {
	ranking := RankProducts(records.SaleItems, records.Products)
	dues := CalculateDues(records.Laybys)

	return &ComputationResult{
		Filter:             filter,
		ResolvedLocationID: records.ResolvedLocationID,
		SalesByCurrency:    AggregateSales(records.Sales),
		MostSoldProduct:    ranking.MostSold(),
		LeastSoldProduct:   ranking.LeastSold(),
		ProductRanking:     ranking,
		LaybyByCurrency:    dues.ByCurrency,
		DueK:               dues.DueK,
		DueUSD:             dues.DueUSD,
		TotalCustomers:     records.CustomerCount,
		SalesCount:         len(records.Sales),
		SaleItemCount:      len(records.SaleItems),
		LaybyCount:         len(records.Laybys),
		ComputedAt:         computedAt,
	}
}

// Clone returns a deep copy so a published result can be handed out without sharing maps
func (r *ComputationResult) Clone() *ComputationResult {
	if r == nil {
		return nil
	}
	out := *r
	out.SalesByCurrency = r.SalesByCurrency.Clone()
	out.LaybyByCurrency = r.LaybyByCurrency.Clone()
	out.ProductRanking = make(ProductRanking, len(r.ProductRanking))
	copy(out.ProductRanking, r.ProductRanking)
	return &out
}
