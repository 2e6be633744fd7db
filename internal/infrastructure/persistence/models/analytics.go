package models

import (
	"time"

	"github.com/retailops/backoffice/internal/domain/report"
	"github.com/shopspring/decimal"
)

// LocationModel maps the locations table
type LocationModel struct {
	ID   string `gorm:"type:varchar(64);primaryKey"`
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (LocationModel) TableName() string {
	return "locations"
}

// ToDomain converts the persistence model to a domain Location
func (m *LocationModel) ToDomain() report.Location {
	return report.Location{ID: m.ID, Name: m.Name}
}

// SaleModel maps the sales table. Amount and currency are nullable in the store.
type SaleModel struct {
	ID          string              `gorm:"type:varchar(64);primaryKey"`
	TotalAmount decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	SaleDate    time.Time           `gorm:"not null;index"`
	LocationID  string              `gorm:"type:varchar(64);index"`
	Currency    *string             `gorm:"type:varchar(16)"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale.
// A NULL amount becomes zero and a NULL currency the empty code.
func (m *SaleModel) ToDomain() report.Sale {
	return report.Sale{
		ID:          m.ID,
		TotalAmount: nullDecimal(m.TotalAmount),
		SaleDate:    m.SaleDate,
		LocationID:  m.LocationID,
		Currency:    stringValue(m.Currency),
	}
}

// SaleItemModel maps the sales_items table
type SaleItemModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	SaleID    string `gorm:"type:varchar(64);not null;index"`
	ProductID string `gorm:"type:varchar(64);not null;index"`
	Quantity  *int64
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sales_items"
}

// ToDomain converts the persistence model to a domain SaleItem
func (m *SaleItemModel) ToDomain() report.SaleItem {
	var qty int64
	if m.Quantity != nil {
		qty = *m.Quantity
	}
	return report.SaleItem{
		SaleID:    m.SaleID,
		ProductID: m.ProductID,
		Quantity:  qty,
	}
}

// ProductModel maps the products table
type ProductModel struct {
	ID   string `gorm:"type:varchar(64);primaryKey"`
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() report.Product {
	return report.Product{ID: m.ID, Name: m.Name}
}

// LaybyModel maps the laybys table
type LaybyModel struct {
	ID          uint                `gorm:"primaryKey;autoIncrement"`
	TotalAmount decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	PaidAmount  decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	Currency    *string             `gorm:"type:varchar(16)"`
	LocationID  string              `gorm:"type:varchar(64);index"`
}

// TableName returns the table name for GORM
func (LaybyModel) TableName() string {
	return "laybys"
}

// ToDomain converts the persistence model to a domain LaybyAccount
func (m *LaybyModel) ToDomain() report.LaybyAccount {
	return report.LaybyAccount{
		TotalAmount: nullDecimal(m.TotalAmount),
		PaidAmount:  nullDecimal(m.PaidAmount),
		Currency:    stringValue(m.Currency),
		LocationID:  m.LocationID,
	}
}

// CustomerModel maps the customers table; only the row count is read
type CustomerModel struct {
	ID string `gorm:"type:varchar(64);primaryKey"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

func nullDecimal(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
