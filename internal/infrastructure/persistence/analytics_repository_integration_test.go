//go:build integration

package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/retailops/backoffice/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newPostgresTestDB starts a throwaway PostgreSQL container with the POS schema applied
func newPostgresTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("backoffice_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start PostgreSQL container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	applyMigrations(t, sqlDB)
	return db
}

func applyMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err)

	dir, err := filepath.Abs(filepath.Join("testdata", "migrations"))
	require.NoError(t, err)

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	require.NoError(t, err)
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err)
	}
}

func TestGormAnalyticsRepository_Postgres(t *testing.T) {
	db := newPostgresTestDB(t)
	seedAnalytics(t, db)
	repo := NewGormAnalyticsRepository(db)
	ctx := context.Background()

	t.Run("date range and location predicates", func(t *testing.T) {
		sales, err := repo.FindSales(ctx, report.SalesQuery{
			DateFrom:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			DateTo:     time.Date(2026, 3, 2, 23, 59, 59, 999999999, time.UTC),
			LocationID: "5",
		})
		require.NoError(t, err)

		require.Len(t, sales, 2)
		assert.Equal(t, "s1", sales[0].ID)
		assert.True(t, decimal.NewFromInt(100).Equal(sales[0].TotalAmount))
		assert.Equal(t, "$", sales[1].Currency)
	})

	t.Run("nullable columns map to zero values", func(t *testing.T) {
		sales, err := repo.FindSales(ctx, report.SalesQuery{LocationID: "7"})
		require.NoError(t, err)

		require.Len(t, sales, 1)
		assert.True(t, sales[0].TotalAmount.IsZero())
		assert.Empty(t, sales[0].Currency)
	})

	t.Run("chunked IN reads cover every id", func(t *testing.T) {
		ids := make([]string, 0, inClauseChunkSize*2+1)
		for i := range inClauseChunkSize * 2 {
			ids = append(ids, fmt.Sprintf("missing-%d", i))
		}
		ids = append(ids, "s2")

		items, err := repo.FindSaleItems(ctx, ids)
		require.NoError(t, err)

		require.Len(t, items, 1)
		assert.Equal(t, int64(5), items[0].Quantity)
	})

	t.Run("laybys and customers", func(t *testing.T) {
		laybys, err := repo.FindLaybys(ctx, report.NoLocationFilter)
		require.NoError(t, err)
		assert.Len(t, laybys, 2)

		count, err := repo.CountCustomers(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}
