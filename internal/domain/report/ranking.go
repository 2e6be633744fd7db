package report

import (
	"sort"
	"strconv"
	"strings"
)

// ProductQuantity is a product's aggregated quantity across the fetched line items
type ProductQuantity struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
}

// ProductRanking orders products by quantity descending, ties by ascending product id
type ProductRanking []ProductQuantity

// RankProducts sums quantities per product and orders the result.
// Names are resolved through products; an unknown id gets an empty name.
func RankProducts(items []SaleItem, products []Product) ProductRanking {
	totals := make(map[string]int64)
	for _, item := range items {
		totals[item.ProductID] += item.Quantity
	}
	if len(totals) == 0 {
		return ProductRanking{}
	}

	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	ranking := make(ProductRanking, 0, len(totals))
	for id, qty := range totals {
		ranking = append(ranking, ProductQuantity{
			ProductID: id,
			Name:      names[id],
			Quantity:  qty,
		})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Quantity != ranking[j].Quantity {
			return ranking[i].Quantity > ranking[j].Quantity
		}
		return CompareIDs(ranking[i].ProductID, ranking[j].ProductID) < 0
	})
	return ranking
}

// MostSold returns the name of the highest quantity product, or "" when empty
func (r ProductRanking) MostSold() string {
	if len(r) == 0 {
		return ""
	}
	return r[0].Name
}

// LeastSold returns the name of the lowest quantity product, or "" when empty.
// Among products tied at the lowest quantity the lowest id wins.
func (r ProductRanking) LeastSold() string {
	if len(r) == 0 {
		return ""
	}
	lowest := r[len(r)-1].Quantity
	for _, pq := range r {
		if pq.Quantity == lowest {
			return pq.Name
		}
	}
	return ""
}

// Top returns at most n leading entries
func (r ProductRanking) Top(n int) ProductRanking {
	if n <= 0 || n >= len(r) {
		return r
	}
	return r[:n]
}

// CompareIDs is a total order over identifiers: integer ids come first,
// ordered by value, and all other ids follow in byte order. Integer ids of
// equal value ("7", "07") fall back to byte order.
func CompareIDs(a, b string) int {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	aInt, bInt := aErr == nil, bErr == nil

	switch {
	case aInt && !bInt:
		return -1
	case !aInt && bInt:
		return 1
	case aInt && bInt && ai != bi:
		if ai < bi {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
