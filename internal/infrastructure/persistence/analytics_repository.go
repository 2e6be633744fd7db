package persistence

import (
	"context"
	"fmt"

	"github.com/retailops/backoffice/internal/domain/report"
	"github.com/retailops/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// inClauseChunkSize bounds the number of bind parameters in a single IN (...) read
const inClauseChunkSize = 500

// GormAnalyticsRepository implements report.AnalyticsReader using GORM
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewGormAnalyticsRepository creates a new GormAnalyticsRepository
func NewGormAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

// Ensure interface compliance
var _ report.AnalyticsReader = (*GormAnalyticsRepository)(nil)

// ListLocations returns every location ordered by id
func (r *GormAnalyticsRepository) ListLocations(ctx context.Context) ([]report.Location, error) {
	var rows []models.LocationModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch locations: %w", err)
	}

	locations := make([]report.Location, 0, len(rows))
	for i := range rows {
		locations = append(locations, rows[i].ToDomain())
	}
	return locations, nil
}

// FindSales returns the sales inside the date range, optionally restricted to one location.
// Zero bounds are left open.
func (r *GormAnalyticsRepository) FindSales(ctx context.Context, q report.SalesQuery) ([]report.Sale, error) {
	query := r.db.WithContext(ctx).Model(&models.SaleModel{})

	if !q.DateFrom.IsZero() {
		query = query.Where("sale_date >= ?", q.DateFrom)
	}
	if !q.DateTo.IsZero() {
		query = query.Where("sale_date <= ?", q.DateTo)
	}
	if q.LocationID != report.NoLocationFilter {
		query = query.Where("location_id = ?", q.LocationID)
	}

	var rows []models.SaleModel
	if err := query.Order("sale_date, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch sales: %w", err)
	}

	sales := make([]report.Sale, 0, len(rows))
	for i := range rows {
		sales = append(sales, rows[i].ToDomain())
	}
	return sales, nil
}

// FindSaleItems returns every line item belonging to the given sales
func (r *GormAnalyticsRepository) FindSaleItems(ctx context.Context, saleIDs []string) ([]report.SaleItem, error) {
	items := make([]report.SaleItem, 0, len(saleIDs))

	err := forEachChunk(saleIDs, func(chunk []string) error {
		var rows []models.SaleItemModel
		if err := r.db.WithContext(ctx).
			Where("sale_id IN ?", chunk).
			Order("id").
			Find(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			items = append(items, rows[i].ToDomain())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch sale items: %w", err)
	}
	return items, nil
}

// FindProducts returns the products with the given ids
func (r *GormAnalyticsRepository) FindProducts(ctx context.Context, productIDs []string) ([]report.Product, error) {
	products := make([]report.Product, 0, len(productIDs))

	err := forEachChunk(productIDs, func(chunk []string) error {
		var rows []models.ProductModel
		if err := r.db.WithContext(ctx).
			Where("id IN ?", chunk).
			Find(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			products = append(products, rows[i].ToDomain())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return products, nil
}

// FindLaybys returns layby accounts, restricted to one location unless locationID is empty
func (r *GormAnalyticsRepository) FindLaybys(ctx context.Context, locationID string) ([]report.LaybyAccount, error) {
	query := r.db.WithContext(ctx).Model(&models.LaybyModel{})
	if locationID != report.NoLocationFilter {
		query = query.Where("location_id = ?", locationID)
	}

	var rows []models.LaybyModel
	if err := query.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch laybys: %w", err)
	}

	laybys := make([]report.LaybyAccount, 0, len(rows))
	for i := range rows {
		laybys = append(laybys, rows[i].ToDomain())
	}
	return laybys, nil
}

// CountCustomers returns the number of rows in the customers table
func (r *GormAnalyticsRepository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("fetch customers: %w", err)
	}
	return count, nil
}

// forEachChunk calls fn for consecutive slices of ids of at most inClauseChunkSize.
// An empty id list never reaches fn.
func forEachChunk(ids []string, fn func(chunk []string) error) error {
	for start := 0; start < len(ids); start += inClauseChunkSize {
		end := min(start+inClauseChunkSize, len(ids))
		if err := fn(ids[start:end]); err != nil {
			return err
		}
	}
	return nil
}
