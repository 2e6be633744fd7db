package report

import (
	"context"

	"github.com/retailops/backoffice/internal/domain/report"
	"github.com/retailops/backoffice/internal/infrastructure/logger"
	"github.com/retailops/backoffice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RecordFetcher issues the reads for one statistics pass.
//
// Locations are listed first so the filter token can be resolved. The sales
// branch then runs sales -> line items -> products strictly in sequence, while
// laybys and the customer count are read concurrently with it. The first
// failing read cancels the others and no partial record set is returned.
type RecordFetcher struct {
	reader report.AnalyticsReader
	logger *zap.Logger
}

// NewRecordFetcher creates a new RecordFetcher
func NewRecordFetcher(reader report.AnalyticsReader, zapLogger *zap.Logger) *RecordFetcher {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &RecordFetcher{
		reader: reader,
		logger: zapLogger,
	}
}

// Fetch reads every record set needed to compute statistics for filter
func (f *RecordFetcher) Fetch(ctx context.Context, filter report.StatisticsFilter) (*report.RecordSet, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "statistics", "fetch",
		telemetry.WithAttribute(telemetry.SpanAttrLocationFilter, filter.LocationFilter),
	)
	defer span.End()

	locations, err := f.reader.ListLocations(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resolved := report.ResolveLocation(filter.LocationFilter, locations)
	telemetry.SetAttributes(span, telemetry.SpanAttrResolvedLocation, resolved)

	rs := &report.RecordSet{
		Locations:          locations,
		ResolvedLocationID: resolved,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return f.fetchSalesBranch(gctx, filter, resolved, rs)
	})

	g.Go(func() error {
		laybys, err := f.reader.FindLaybys(gctx, resolved)
		if err != nil {
			return err
		}
		rs.Laybys = laybys
		return nil
	})

	g.Go(func() error {
		count, err := f.reader.CountCustomers(gctx)
		if err != nil {
			return err
		}
		rs.CustomerCount = count
		return nil
	})

	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrSalesCount, len(rs.Sales),
		telemetry.SpanAttrSaleItemCount, len(rs.SaleItems),
		telemetry.SpanAttrLaybyCount, len(rs.Laybys),
	)

	logger.WithLogger(ctx, f.logger).Debug("Statistics records fetched",
		zap.String("location_filter", filter.LocationFilter),
		zap.String("resolved_location_id", resolved),
		zap.Int("sales", len(rs.Sales)),
		zap.Int("sale_items", len(rs.SaleItems)),
		zap.Int("products", len(rs.Products)),
		zap.Int("laybys", len(rs.Laybys)),
	)

	return rs, nil
}

// fetchSalesBranch runs the dependent sales -> items -> products reads.
// Empty id sets short-circuit without issuing a query.
func (f *RecordFetcher) fetchSalesBranch(ctx context.Context, filter report.StatisticsFilter, locationID string, rs *report.RecordSet) error {
	sales, err := f.reader.FindSales(ctx, report.SalesQuery{
		DateFrom:   filter.DateFrom,
		DateTo:     filter.DateTo,
		LocationID: locationID,
	})
	if err != nil {
		return err
	}
	rs.Sales = sales

	saleIDs := report.SaleIDs(sales)
	if len(saleIDs) == 0 {
		return nil
	}

	items, err := f.reader.FindSaleItems(ctx, saleIDs)
	if err != nil {
		return err
	}
	rs.SaleItems = items

	productIDs := report.ProductIDs(items)
	if len(productIDs) == 0 {
		return nil
	}

	products, err := f.reader.FindProducts(ctx, productIDs)
	if err != nil {
		return err
	}
	rs.Products = products
	return nil
}
