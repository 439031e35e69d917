package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"microgreens-ops/internal/model"
)

// ProductionGroup is one grouped row of the production-plan query: all
// demand for one item on one production date, summed across orders. Soaking
// and germination days ride along so the transfer schedule can derive its
// dates without a second round trip.
type ProductionGroup struct {
	ProductionDate  time.Time
	ItemName        string
	SoakingDays     int
	GerminationDays int
	SeedQuantity    int
	Substrate       *string
	HalbeChannel    bool
	TotalAmount     decimal.Decimal
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	Update(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	ReplaceOrderItems(ctx context.Context, tx *gorm.DB, orderRef uint, items []*model.OrderItem) error
	DeleteWithItems(ctx context.Context, tx *gorm.DB, orderRefs []uint) error

	FindByOrderID(ctx context.Context, orderID string) (*model.Order, error)
	FindSeriesOrdersAfter(ctx context.Context, tx *gorm.DB, seriesID uint, after time.Time) ([]*model.Order, error)
	FindSeriesOrdersFrom(ctx context.Context, tx *gorm.DB, seriesID uint, from time.Time) ([]*model.Order, error)
	SeriesHasOrderOn(ctx context.Context, tx *gorm.DB, seriesID uint, deliveryDate time.Time) (bool, error)

	DeliveriesInRange(ctx context.Context, start, end *time.Time) ([]*model.Order, error)
	ProductionGroupsInRange(ctx context.Context, start, end *time.Time) ([]ProductionGroup, error)
	ProductionGroupsAll(ctx context.Context) ([]ProductionGroup, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{db: db}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Omit("Items", "Customer").Create(order).Error
}

func (r *orderRepoImpl) Update(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Omit("Items", "Customer").Save(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Omit("Item").Create(&items).Error
}

// ReplaceOrderItems swaps an order's full line set. The original rows are
// removed first so an edit can never leave stale lines behind.
func (r *orderRepoImpl) ReplaceOrderItems(ctx context.Context, tx *gorm.DB, orderRef uint, items []*model.OrderItem) error {
	err := tx.WithContext(ctx).
		Where("order_ref = ?", orderRef).
		Delete(&model.OrderItem{}).Error
	if err != nil {
		return err
	}
	for _, item := range items {
		item.OrderRef = orderRef
	}
	return r.CreateOrderItems(ctx, tx, items)
}

// DeleteWithItems removes orders and their lines together. Lines go first
// so the datastore never holds an orphaned order item.
func (r *orderRepoImpl) DeleteWithItems(ctx context.Context, tx *gorm.DB, orderRefs []uint) error {
	if len(orderRefs) == 0 {
		return nil
	}
	err := tx.WithContext(ctx).
		Where("order_ref IN ?", orderRefs).
		Delete(&model.OrderItem{}).Error
	if err != nil {
		return err
	}
	return tx.WithContext(ctx).
		Where("id IN ?", orderRefs).
		Delete(&model.Order{}).Error
}

func (r *orderRepoImpl) FindByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Items.Item").
		Where("order_id = ?", orderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %s", model.ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepoImpl) FindSeriesOrdersAfter(ctx context.Context, tx *gorm.DB, seriesID uint, after time.Time) ([]*model.Order, error) {
	var orders []*model.Order
	err := tx.WithContext(ctx).
		Where("series_id = ? AND delivery_date > ?", seriesID, after).
		Order("delivery_date").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepoImpl) FindSeriesOrdersFrom(ctx context.Context, tx *gorm.DB, seriesID uint, from time.Time) ([]*model.Order, error) {
	var orders []*model.Order
	err := tx.WithContext(ctx).
		Where("series_id = ? AND delivery_date >= ?", seriesID, from).
		Order("delivery_date").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// SeriesHasOrderOn guards regeneration against recreating an occurrence the
// series already holds for a delivery date.
func (r *orderRepoImpl) SeriesHasOrderOn(ctx context.Context, tx *gorm.DB, seriesID uint, deliveryDate time.Time) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&model.Order{}).
		Where("series_id = ? AND delivery_date = ?", seriesID, deliveryDate).
		Count(&count).Error
	return count > 0, err
}

func (r *orderRepoImpl) DeliveriesInRange(ctx context.Context, start, end *time.Time) ([]*model.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Items.Item")
	if start != nil {
		query = query.Where("delivery_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("delivery_date <= ?", *end)
	}

	var orders []*model.Order
	err := query.Order("delivery_date").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepoImpl) ProductionGroupsInRange(ctx context.Context, start, end *time.Time) ([]ProductionGroup, error) {
	query := r.productionGroupQuery(ctx)
	if start != nil {
		query = query.Where("orders.production_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("orders.production_date <= ?", *end)
	}

	var groups []ProductionGroup
	err := query.Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// ProductionGroupsAll is the unfiltered variant the transfer schedule needs:
// transfer dates are derived per group, so the window can only be applied
// after derivation, not in SQL.
func (r *orderRepoImpl) ProductionGroupsAll(ctx context.Context) ([]ProductionGroup, error) {
	var groups []ProductionGroup
	err := r.productionGroupQuery(ctx).Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *orderRepoImpl) productionGroupQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Select(`orders.production_date AS production_date,
			items.name AS item_name,
			items.soaking_days AS soaking_days,
			items.germination_days AS germination_days,
			items.seed_quantity AS seed_quantity,
			items.substrate AS substrate,
			MAX(orders.halbe_channel) AS halbe_channel,
			SUM(order_items.amount) AS total_amount`).
		Joins("JOIN orders ON orders.id = order_items.order_ref").
		Joins("JOIN items ON items.id = order_items.item_id").
		Group("orders.production_date, items.name, items.soaking_days, items.germination_days, items.seed_quantity, items.substrate").
		Order("orders.production_date, items.name")
}
