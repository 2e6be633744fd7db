package report

import (
	"context"

	"github.com/retailops/backoffice/internal/domain/report"
	"github.com/stretchr/testify/mock"
)

// MockAnalyticsReader is a mock implementation of report.AnalyticsReader
type MockAnalyticsReader struct {
	mock.Mock
}

func (m *MockAnalyticsReader) ListLocations(ctx context.Context) ([]report.Location, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.Location), args.Error(1)
}

func (m *MockAnalyticsReader) FindSales(ctx context.Context, query report.SalesQuery) ([]report.Sale, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.Sale), args.Error(1)
}

func (m *MockAnalyticsReader) FindSaleItems(ctx context.Context, saleIDs []string) ([]report.SaleItem, error) {
	args := m.Called(ctx, saleIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.SaleItem), args.Error(1)
}

func (m *MockAnalyticsReader) FindProducts(ctx context.Context, productIDs []string) ([]report.Product, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.Product), args.Error(1)
}

func (m *MockAnalyticsReader) FindLaybys(ctx context.Context, locationID string) ([]report.LaybyAccount, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.LaybyAccount), args.Error(1)
}

func (m *MockAnalyticsReader) CountCustomers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
