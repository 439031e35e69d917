package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"microgreens-ops/internal/client"
	"microgreens-ops/internal/model"
	"microgreens-ops/internal/repository"
)

type fixture struct {
	db        *gorm.DB
	orders    OrderService
	schedules ScheduleService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection: more would each get their own empty in-memory db.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.Migrate(db))

	customerRepo := repository.NewCustomerRepository(db)
	itemRepo := repository.NewItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	seriesRepo := repository.NewSeriesRepository(db)

	return &fixture{
		db:        db,
		orders:    NewOrderService(db, customerRepo, itemRepo, orderRepo, seriesRepo),
		schedules: NewScheduleService(orderRepo),
	}
}

func (f *fixture) addCustomer(t *testing.T, name string) *model.Customer {
	t.Helper()
	customer := &model.Customer{Name: name}
	require.NoError(t, f.db.Create(customer).Error)
	return customer
}

func (f *fixture) addItem(t *testing.T, name string, soaking, germination, growth int) *model.Item {
	t.Helper()
	item := &model.Item{
		Name:            name,
		SeedQuantity:    15,
		SoakingDays:     soaking,
		GerminationDays: germination,
		GrowthDays:      growth,
		Price:           decimal.RequireFromString("22.90"),
	}
	require.NoError(t, f.db.Create(item).Error)
	return item
}

func (f *fixture) seriesOrders(t *testing.T, seriesID uint) []*model.Order {
	t.Helper()
	var orders []*model.Order
	err := f.db.Preload("Items").
		Where("series_id = ?", seriesID).
		Order("delivery_date").
		Find(&orders).Error
	require.NoError(t, err)
	return orders
}

func (f *fixture) countRows(t *testing.T, value any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(value).Count(&count).Error)
	return count
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(d time.Time) *time.Time {
	return &d
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ctx() context.Context {
	return context.Background()
}
