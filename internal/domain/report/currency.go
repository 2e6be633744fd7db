package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the canonical classification of a recorded currency code.
// Aggregates stay keyed by the code as recorded; the classification only
// drives the legacy scalar views (due in Kwacha, due in US dollars).
type Currency string

const (
	CurrencyUnspecified Currency = ""
	CurrencyKwacha      Currency = "K"
	CurrencyUSD         Currency = "USD"
	CurrencyOther       Currency = "OTHER"
)

// NormalizeCurrency classifies a recorded currency code.
// "K" is matched exactly; "$" and "USD" are matched case-insensitively.
func NormalizeCurrency(code string) Currency {
	switch {
	case code == "":
		return CurrencyUnspecified
	case code == string(CurrencyKwacha):
		return CurrencyKwacha
	case code == "$" || strings.EqualFold(code, string(CurrencyUSD)):
		return CurrencyUSD
	default:
		return CurrencyOther
	}
}

// CurrencyAggregate maps a currency code to a running sum.
// The empty code is a valid key meaning "no currency recorded".
type CurrencyAggregate map[string]decimal.Decimal

// NewCurrencyAggregate creates an empty aggregate
func NewCurrencyAggregate() CurrencyAggregate {
	return make(CurrencyAggregate)
}

// Add accumulates amount into the bucket for code, creating it at zero if absent
func (a CurrencyAggregate) Add(code string, amount decimal.Decimal) {
	a[code] = a.Get(code).Add(amount)
}

// Get returns the bucket for code, or zero
func (a CurrencyAggregate) Get(code string) decimal.Decimal {
	if v, ok := a[code]; ok {
		return v
	}
	return decimal.Zero
}

// SumOf sums the buckets whose code classifies as c
func (a CurrencyAggregate) SumOf(c Currency) decimal.Decimal {
	total := decimal.Zero
	for code, v := range a {
		if NormalizeCurrency(code) == c {
			total = total.Add(v)
		}
	}
	return total
}

// Clone returns an independent copy
func (a CurrencyAggregate) Clone() CurrencyAggregate {
	out := make(CurrencyAggregate, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Float64Map converts the aggregate for JSON responses
func (a CurrencyAggregate) Float64Map() map[string]float64 {
	out := make(map[string]float64, len(a))
	for k, v := range a {
		out[k] = v.InexactFloat64()
	}
	return out
}
