// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. ToDomain mappers normalize nullable columns (NULL amount -> 0, NULL currency -> "")
// 4. Repositories use persistence models for database operations
//
// Structure:
// - analytics.go: read models for locations, sales, sales_items, products, laybys, customers
package models
