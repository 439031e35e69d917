package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"microgreens-ops/internal/model"
	"microgreens-ops/internal/planner"
	"microgreens-ops/internal/repository"
)

// UpdateScope selects how far an order edit reaches into its series.
type UpdateScope string

const (
	// UpdateCurrent edits only the addressed order.
	UpdateCurrent UpdateScope = "current"
	// UpdateFuture edits the addressed order and regenerates every later
	// order of its series from it.
	UpdateFuture UpdateScope = "future"
	// UpdateNew leaves the addressed order alone and creates a fresh
	// order (and series, if recurring) from the submitted values.
	UpdateNew UpdateScope = "new"
)

// DeleteScope selects how far an order deletion reaches into its series.
type DeleteScope string

const (
	DeleteOnlyThis      DeleteScope = "only-this"
	DeleteThisAndFuture DeleteScope = "this-and-future"
)

// OrderLineInput is one (item, amount) pair as submitted by a caller,
// addressing the item by its display name.
type OrderLineInput struct {
	ItemName string
	Amount   decimal.Decimal
}

// OrderInput carries everything a caller submits for a new or edited order.
type OrderInput struct {
	CustomerName     string
	DeliveryDate     time.Time
	SubscriptionType model.SubscriptionType
	FromDate         *time.Time
	ToDate           *time.Time
	HalbeChannel     bool
	// AllowSunday permits a production date on a Sunday; without it the
	// date moves to the Saturday before.
	AllowSunday bool
	Lines       []OrderLineInput
}

type OrderService interface {
	CreateOrder(ctx context.Context, input OrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	UpdateOrder(ctx context.Context, orderID string, input OrderInput, scope UpdateScope) (*model.Order, error)
	DeleteOrder(ctx context.Context, orderID string, scope DeleteScope) error
}

type orderServiceImpl struct {
	db           *gorm.DB
	customerRepo repository.CustomerRepository
	itemRepo     repository.ItemRepository
	orderRepo    repository.OrderRepository
	seriesRepo   repository.SeriesRepository
}

func NewOrderService(
	db *gorm.DB,
	customerRepo repository.CustomerRepository,
	itemRepo repository.ItemRepository,
	orderRepo repository.OrderRepository,
	seriesRepo repository.SeriesRepository,
) OrderService {
	return &orderServiceImpl{
		db:           db,
		customerRepo: customerRepo,
		itemRepo:     itemRepo,
		orderRepo:    orderRepo,
		seriesRepo:   seriesRepo,
	}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, input OrderInput) (*model.Order, error) {
	customer, err := s.customerRepo.FindByName(ctx, input.CustomerName)
	if err != nil {
		return nil, err
	}

	lines, err := s.resolveLines(ctx, input.Lines)
	if err != nil {
		return nil, err
	}
	if err := validateSubscriptionBounds(input); err != nil {
		return nil, err
	}

	productionDate, err := planner.ProductionDate(input.DeliveryDate, lineItems(lines), input.AllowSunday)
	if err != nil {
		return nil, err
	}

	var anchor *model.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seriesID *uint
		if input.SubscriptionType != model.SubscriptionNone {
			series := &model.SubscriptionSeries{
				CustomerID:       customer.ID,
				SubscriptionType: input.SubscriptionType,
				FromDate:         *input.FromDate,
				ToDate:           *input.ToDate,
			}
			if err := s.seriesRepo.Create(ctx, tx, series); err != nil {
				return fmt.Errorf("store subscription series: %w", err)
			}
			seriesID = &series.ID
		}

		anchor = &model.Order{
			OrderID:          uuid.NewString(),
			CustomerID:       customer.ID,
			SeriesID:         seriesID,
			DeliveryDate:     input.DeliveryDate,
			ProductionDate:   productionDate,
			SubscriptionType: input.SubscriptionType,
			FromDate:         input.FromDate,
			ToDate:           input.ToDate,
			HalbeChannel:     input.HalbeChannel,
			IsFuture:         false,
		}
		if err := s.orderRepo.Create(ctx, tx, anchor); err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, orderItemRows(anchor.ID, lines)); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}

		return s.expandAndPersist(ctx, tx, *anchor, lines, input.AllowSunday)
	})
	if err != nil {
		return nil, transactionError(err)
	}
	return s.orderRepo.FindByOrderID(ctx, anchor.OrderID)
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	return s.orderRepo.FindByOrderID(ctx, orderID)
}

func (s *orderServiceImpl) UpdateOrder(ctx context.Context, orderID string, input OrderInput, scope UpdateScope) (*model.Order, error) {
	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if scope == UpdateNew {
		// The edited order stays as it is; the submitted values become a
		// brand-new order under the same customer.
		if order.Customer != nil {
			input.CustomerName = order.Customer.Name
		}
		return s.CreateOrder(ctx, input)
	}

	lines, err := s.resolveLines(ctx, input.Lines)
	if err != nil {
		return nil, err
	}
	if err := validateSubscriptionBounds(input); err != nil {
		return nil, err
	}

	productionDate, err := planner.ProductionDate(input.DeliveryDate, lineItems(lines), input.AllowSunday)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if scope == UpdateFuture && order.SeriesID != nil {
			// Delete-then-regenerate: everything strictly after the new
			// delivery date goes, then the series grows back from the
			// edited order.
			siblings, err := s.orderRepo.FindSeriesOrdersAfter(ctx, tx, *order.SeriesID, input.DeliveryDate)
			if err != nil {
				return err
			}
			if err := s.orderRepo.DeleteWithItems(ctx, tx, orderRowIDs(siblings)); err != nil {
				return fmt.Errorf("delete future series orders: %w", err)
			}
		}

		order.DeliveryDate = input.DeliveryDate
		order.ProductionDate = productionDate
		order.HalbeChannel = input.HalbeChannel
		switch {
		case input.SubscriptionType == model.SubscriptionNone:
			// Detached: the order keeps its place in the schedule but no
			// longer belongs to any series.
			order.SubscriptionType = model.SubscriptionNone
			order.FromDate = nil
			order.ToDate = nil
			order.SeriesID = nil
		case scope == UpdateFuture:
			order.SubscriptionType = input.SubscriptionType
			order.FromDate = input.FromDate
			order.ToDate = input.ToDate
		default:
			// A scope-current edit cannot rewrite a single member's
			// recurrence: the order would contradict its series row.
			// Recurrence changes go through the future scope.
		}

		if scope == UpdateFuture && order.IsSubscription() {
			if err := s.ensureSeries(ctx, tx, order, input); err != nil {
				return err
			}
		}

		if err := s.orderRepo.Update(ctx, tx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if err := s.orderRepo.ReplaceOrderItems(ctx, tx, order.ID, orderItemRows(order.ID, lines)); err != nil {
			return fmt.Errorf("replace order items: %w", err)
		}

		if scope == UpdateFuture {
			return s.expandAndPersist(ctx, tx, *order, lines, input.AllowSunday)
		}
		return nil
	})
	if err != nil {
		return nil, transactionError(err)
	}
	return s.orderRepo.FindByOrderID(ctx, orderID)
}

func (s *orderServiceImpl) DeleteOrder(ctx context.Context, orderID string, scope DeleteScope) error {
	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		victims := []uint{order.ID}
		if scope == DeleteThisAndFuture && order.SeriesID != nil {
			siblings, err := s.orderRepo.FindSeriesOrdersFrom(ctx, tx, *order.SeriesID, order.DeliveryDate)
			if err != nil {
				return err
			}
			victims = orderRowIDs(siblings)
		}
		return s.orderRepo.DeleteWithItems(ctx, tx, victims)
	})
	return transactionError(err)
}

// expandAndPersist generates the future orders of a recurring anchor and
// stores them, skipping delivery dates the series already covers.
func (s *orderServiceImpl) expandAndPersist(ctx context.Context, tx *gorm.DB, anchor model.Order, lines []planner.OrderLine, allowSunday bool) error {
	specs, err := planner.ExpandSubscription(anchor, lines, allowSunday)
	if err != nil {
		return err
	}
	for _, spec := range specs {
		if spec.SeriesID != nil {
			exists, err := s.orderRepo.SeriesHasOrderOn(ctx, tx, *spec.SeriesID, spec.DeliveryDate)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
		}

		future := &model.Order{
			OrderID:          spec.OrderID,
			CustomerID:       spec.CustomerID,
			SeriesID:         spec.SeriesID,
			DeliveryDate:     spec.DeliveryDate,
			ProductionDate:   spec.ProductionDate,
			SubscriptionType: spec.SubscriptionType,
			FromDate:         spec.FromDate,
			ToDate:           spec.ToDate,
			HalbeChannel:     spec.HalbeChannel,
			IsFuture:         spec.IsFuture,
		}
		if err := s.orderRepo.Create(ctx, tx, future); err != nil {
			return fmt.Errorf("store future order: %w", err)
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, orderItemRows(future.ID, spec.Lines)); err != nil {
			return fmt.Errorf("store future order items: %w", err)
		}
	}
	return nil
}

// ensureSeries points an edited order at a series row matching its new
// recurrence, creating one when the order was one-off before the edit.
func (s *orderServiceImpl) ensureSeries(ctx context.Context, tx *gorm.DB, order *model.Order, input OrderInput) error {
	if order.SeriesID != nil {
		series, err := s.seriesRepo.FindByID(ctx, tx, *order.SeriesID)
		if err != nil {
			return err
		}
		series.SubscriptionType = input.SubscriptionType
		series.FromDate = *input.FromDate
		series.ToDate = *input.ToDate
		return s.seriesRepo.Update(ctx, tx, series)
	}

	series := &model.SubscriptionSeries{
		CustomerID:       order.CustomerID,
		SubscriptionType: input.SubscriptionType,
		FromDate:         *input.FromDate,
		ToDate:           *input.ToDate,
	}
	if err := s.seriesRepo.Create(ctx, tx, series); err != nil {
		return err
	}
	order.SeriesID = &series.ID
	return nil
}

func (s *orderServiceImpl) resolveLines(ctx context.Context, inputs []OrderLineInput) ([]planner.OrderLine, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one item", model.ErrInvalidInput)
	}
	lines := make([]planner.OrderLine, len(inputs))
	for i, in := range inputs {
		if !in.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: amount for %q must be greater than 0", model.ErrIntegrityViolation, in.ItemName)
		}
		item, err := s.itemRepo.FindByName(ctx, in.ItemName)
		if err != nil {
			return nil, err
		}
		lines[i] = planner.OrderLine{Item: *item, Amount: in.Amount}
	}
	return lines, nil
}

func validateSubscriptionBounds(input OrderInput) error {
	if !input.SubscriptionType.Valid() {
		return fmt.Errorf("%w: unknown subscription type %d", model.ErrInvalidInput, input.SubscriptionType)
	}
	if input.SubscriptionType == model.SubscriptionNone {
		return nil
	}
	if input.FromDate == nil || input.ToDate == nil {
		return fmt.Errorf("%w: subscription needs both from and to dates", model.ErrInvalidInput)
	}
	if input.FromDate.After(*input.ToDate) {
		return fmt.Errorf("%w: subscription from date is after its to date", model.ErrIntegrityViolation)
	}
	return nil
}

func lineItems(lines []planner.OrderLine) []model.Item {
	items := make([]model.Item, len(lines))
	for i, line := range lines {
		items[i] = line.Item
	}
	return items
}

func orderItemRows(orderRef uint, lines []planner.OrderLine) []*model.OrderItem {
	rows := make([]*model.OrderItem, len(lines))
	for i, line := range lines {
		rows[i] = &model.OrderItem{
			OrderRef: orderRef,
			ItemID:   line.Item.ID,
			Amount:   line.Amount,
		}
	}
	return rows
}

func orderRowIDs(orders []*model.Order) []uint {
	ids := make([]uint, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}
	return ids
}

// transactionError keeps domain errors intact and marks everything else,
// datastore commit failures included, as a transaction failure. Either way
// the whole write was rolled back.
func transactionError(err error) error {
	if err == nil {
		return nil
	}
	for _, domain := range []error{model.ErrInvalidInput, model.ErrNotFound, model.ErrIntegrityViolation} {
		if errors.Is(err, domain) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", model.ErrTransactionFailure, err)
}
