package report

import "github.com/shopspring/decimal"

// AggregateSales sums sale totals per recorded currency code
func AggregateSales(sales []Sale) CurrencyAggregate {
	agg := NewCurrencyAggregate()
	for _, s := range sales {
		agg.Add(s.Currency, s.TotalAmount)
	}
	return agg
}

// LaybyDues is the outstanding layby balance per currency plus the legacy scalar views
type LaybyDues struct {
	ByCurrency CurrencyAggregate
	DueK       decimal.Decimal
	DueUSD     decimal.Decimal
}

// CalculateDues accumulates total minus paid per layby account. Dues keep their sign.
func CalculateDues(laybys []LaybyAccount) LaybyDues {
	byCurrency := NewCurrencyAggregate()
	for _, l := range laybys {
		byCurrency.Add(l.Currency, l.Due())
	}
	return LaybyDues{
		ByCurrency: byCurrency,
		DueK:       byCurrency.SumOf(CurrencyKwacha),
		DueUSD:     byCurrency.SumOf(CurrencyUSD),
	}
}
