package report

import (
	"time"

	"github.com/retailops/backoffice/internal/domain/report"
	"github.com/shopspring/decimal"
)

// StatisticsFilterResponse echoes the filter a result belongs to
type StatisticsFilterResponse struct {
	DateFrom       *time.Time `json:"date_from,omitempty"`
	DateTo         *time.Time `json:"date_to,omitempty"`
	LocationFilter string     `json:"location_filter,omitempty"`
}

// ProductQuantityResponse represents one row of the product ranking
type ProductQuantityResponse struct {
	Rank        int    `json:"rank"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
}

// StatisticsResponse represents a computed statistics result
type StatisticsResponse struct {
	Filter             StatisticsFilterResponse  `json:"filter"`
	ResolvedLocationID string                    `json:"resolved_location_id"`
	SalesByCurrency    map[string]float64        `json:"sales_by_currency"`
	MostSoldProduct    string                    `json:"most_sold_product"`
	LeastSoldProduct   string                    `json:"least_sold_product"`
	ProductRanking     []ProductQuantityResponse `json:"product_ranking"`
	LaybyByCurrency    map[string]float64        `json:"layby_by_currency"`
	DueK               float64                   `json:"due_k"`
	DueUSD             float64                   `json:"due_usd"`
	TotalCustomers     int64                     `json:"total_customers"`
	SalesCount         int                       `json:"sales_count"`
	SaleItemCount      int                       `json:"sale_item_count"`
	LaybyCount         int                       `json:"layby_count"`
	ComputedAt         time.Time                 `json:"computed_at"`
}

// StatisticsStateResponse represents the published dashboard state
type StatisticsStateResponse struct {
	Filter              StatisticsFilterResponse `json:"filter"`
	Generation          uint64                   `json:"generation"`
	PublishedGeneration uint64                   `json:"published_generation"`
	Loading             bool                     `json:"loading"`
	Error               bool                     `json:"error"`
	ErrorMessage        string                   `json:"error_message,omitempty"`
	Result              *StatisticsResponse      `json:"result"`
	Records             *report.RecordSet        `json:"records,omitempty"`
}

// SubmitStatisticsResponse acknowledges an accepted filter change
type SubmitStatisticsResponse struct {
	Generation uint64              `json:"generation"`
	Result     *StatisticsResponse `json:"result,omitempty"`
}

// ToStatisticsResponse converts a domain result, keeping at most topN ranking rows (0 keeps all)
func ToStatisticsResponse(r *report.ComputationResult, topN int) *StatisticsResponse {
	if r == nil {
		return nil
	}

	ranking := r.ProductRanking.Top(topN)
	rows := make([]ProductQuantityResponse, len(ranking))
	for i, pq := range ranking {
		rows[i] = ProductQuantityResponse{
			Rank:        i + 1,
			ProductID:   pq.ProductID,
			ProductName: pq.Name,
			Quantity:    pq.Quantity,
		}
	}

	return &StatisticsResponse{
		Filter:             toFilterResponse(r.Filter),
		ResolvedLocationID: r.ResolvedLocationID,
		SalesByCurrency:    r.SalesByCurrency.Float64Map(),
		MostSoldProduct:    r.MostSoldProduct,
		LeastSoldProduct:   r.LeastSoldProduct,
		ProductRanking:     rows,
		LaybyByCurrency:    r.LaybyByCurrency.Float64Map(),
		DueK:               toFloat64(r.DueK),
		DueUSD:             toFloat64(r.DueUSD),
		TotalCustomers:     r.TotalCustomers,
		SalesCount:         r.SalesCount,
		SaleItemCount:      r.SaleItemCount,
		LaybyCount:         r.LaybyCount,
		ComputedAt:         r.ComputedAt,
	}
}

// ToStatisticsStateResponse converts a state snapshot; records are attached only when requested
func ToStatisticsStateResponse(state StatisticsState, includeRecords bool, topN int) *StatisticsStateResponse {
	resp := &StatisticsStateResponse{
		Filter:              toFilterResponse(state.Filter),
		Generation:          state.Generation,
		PublishedGeneration: state.PublishedGeneration,
		Loading:             state.Loading,
		Error:               state.Err != nil,
		ErrorMessage:        state.ErrorMessage,
		Result:              ToStatisticsResponse(state.Result, topN),
	}
	if includeRecords {
		resp.Records = state.Records
	}
	return resp
}

func toFilterResponse(f report.StatisticsFilter) StatisticsFilterResponse {
	resp := StatisticsFilterResponse{LocationFilter: f.LocationFilter}
	if !f.DateFrom.IsZero() {
		from := f.DateFrom
		resp.DateFrom = &from
	}
	if !f.DateTo.IsZero() {
		to := f.DateTo
		resp.DateTo = &to
	}
	return resp
}

// toFloat64 converts decimal to float64 for JSON rendering
func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
