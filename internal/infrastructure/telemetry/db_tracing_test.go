package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testLocation mirrors the shape of the locations table
type testLocation struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func (testLocation) TableName() string { return "locations" }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&testLocation{}))
	require.NoError(t, db.Create(&[]testLocation{{ID: "5", Name: "Main Store"}, {ID: "7", Name: "Airport"}}).Error)
	return db
}

func setupSpanRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func spanAttributes(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestNewDBTracingPlugin_AppliesDefaults(t *testing.T) {
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, nil)

	assert.Equal(t, 200*time.Millisecond, plugin.config.SlowQueryThresh)
	assert.Equal(t, "postgresql", plugin.config.DBSystem)
	assert.NotNil(t, plugin.logger)
}

func TestDBTracingPlugin_RegisterOtelGorm(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		db := setupTestDB(t)

		err := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).RegisterOtelGorm(db)

		assert.NoError(t, err)
		assert.Nil(t, db.Callback().Query().Get("otel_slow_query:query"))
	})

	t.Run("enabled installs plugin and callbacks", func(t *testing.T) {
		db := setupTestDB(t)

		err := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zap.NewNop()).RegisterOtelGorm(db)

		require.NoError(t, err)
		assert.NotNil(t, db.Callback().Query().Get("otel_slow_query:query"))
		assert.NotNil(t, db.Callback().Raw().Get("otel_slow_query:raw"))

		var rows []testLocation
		assert.NoError(t, db.Find(&rows).Error)
	})
}

func TestDBTracingPlugin_AnnotateSpan(t *testing.T) {
	t.Run("adds row count and table to the active span", func(t *testing.T) {
		db := setupTestDB(t)
		tp, recorder := setupSpanRecorder(t)
		plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour}, nil)
		require.NoError(t, plugin.registerCallbacks(db))

		ctx, span := tp.Tracer("test").Start(context.Background(), "statistics.fetch")
		var rows []testLocation
		require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
		span.End()

		ended := recorder.Ended()
		require.Len(t, ended, 1)
		attrs := spanAttributes(ended[0])
		assert.Equal(t, int64(2), attrs["db.rows_affected"].AsInt64())
		assert.Equal(t, "locations", attrs["db.sql.table"].AsString())
		_, slow := attrs["db.slow_query"]
		assert.False(t, slow)
	})

	t.Run("marks slow queries", func(t *testing.T) {
		db := setupTestDB(t)
		tp, recorder := setupSpanRecorder(t)
		plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Nanosecond}, nil)
		require.NoError(t, plugin.registerCallbacks(db))

		ctx, span := tp.Tracer("test").Start(context.Background(), "statistics.fetch")
		var count int64
		require.NoError(t, db.WithContext(ctx).Model(&testLocation{}).Count(&count).Error)
		span.End()

		ended := recorder.Ended()
		require.Len(t, ended, 1)
		assert.True(t, spanAttributes(ended[0])["db.slow_query"].AsBool())
		require.NotEmpty(t, ended[0].Events())
		assert.Equal(t, "slow_query_warning", ended[0].Events()[0].Name)
	})

	t.Run("records query errors", func(t *testing.T) {
		db := setupTestDB(t)
		tp, recorder := setupSpanRecorder(t)
		plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour}, nil)
		require.NoError(t, plugin.registerCallbacks(db))

		ctx, span := tp.Tracer("test").Start(context.Background(), "statistics.fetch")
		err := db.WithContext(ctx).Table("missing_table").Find(&[]testLocation{}).Error
		span.End()

		require.Error(t, err)
		ended := recorder.Ended()
		require.Len(t, ended, 1)
		assert.Equal(t, codes.Error, ended[0].Status().Code)
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		db := setupTestDB(t)
		tp, recorder := setupSpanRecorder(t)
		plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour}, nil)
		require.NoError(t, plugin.registerCallbacks(db))

		ctx, span := tp.Tracer("test").Start(context.Background(), "statistics.fetch")
		err := db.WithContext(ctx).Where("id = ?", "nope").First(&testLocation{}).Error
		span.End()

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.NotEqual(t, codes.Error, recorder.Ended()[0].Status().Code)
	})
}
