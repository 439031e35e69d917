package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"microgreens-ops/internal/model"
	"microgreens-ops/internal/repository"
)

// ProductionBatch is one row of the production plan: the combined demand
// for one item on one seeding day, regardless of how many customers
// ordered it.
type ProductionBatch struct {
	ProductionDate time.Time
	ItemName       string
	TotalAmount    decimal.Decimal
	// SeedGrams is the seed weight to prepare for the batch.
	SeedGrams    decimal.Decimal
	Substrate    *string
	HalbeChannel bool
}

// TransferBatch is one row of the transfer schedule: the combined amount of
// one item moving from germination to growing substrate on one day.
type TransferBatch struct {
	TransferDate time.Time
	ItemName     string
	TotalAmount  decimal.Decimal
}

// ScheduleService derives the weekly planning views from persisted orders.
// A nil start or end bound leaves that side of the window open; both nil
// returns everything.
type ScheduleService interface {
	DeliverySchedule(ctx context.Context, start, end *time.Time) ([]*model.Order, error)
	ProductionPlan(ctx context.Context, start, end *time.Time) ([]ProductionBatch, error)
	TransferSchedule(ctx context.Context, start, end *time.Time) ([]TransferBatch, error)
}

type scheduleServiceImpl struct {
	orderRepo repository.OrderRepository
}

func NewScheduleService(orderRepo repository.OrderRepository) ScheduleService {
	return &scheduleServiceImpl{orderRepo: orderRepo}
}

func (s *scheduleServiceImpl) DeliverySchedule(ctx context.Context, start, end *time.Time) ([]*model.Order, error) {
	return s.orderRepo.DeliveriesInRange(ctx, start, end)
}

func (s *scheduleServiceImpl) ProductionPlan(ctx context.Context, start, end *time.Time) ([]ProductionBatch, error) {
	groups, err := s.orderRepo.ProductionGroupsInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	batches := make([]ProductionBatch, len(groups))
	for i, g := range groups {
		batches[i] = ProductionBatch{
			ProductionDate: g.ProductionDate,
			ItemName:       g.ItemName,
			TotalAmount:    g.TotalAmount,
			SeedGrams:      g.TotalAmount.Mul(decimal.NewFromInt(int64(g.SeedQuantity))),
			Substrate:      g.Substrate,
			HalbeChannel:   g.HalbeChannel,
		}
	}
	return batches, nil
}

// TransferSchedule is derived, never stored: each production group moves to
// substrate soaking+germination days after seeding. The window filters by
// that derived date, so a transfer can be in range while its production day
// is not; the groups are fetched unfiltered and cut down here.
func (s *scheduleServiceImpl) TransferSchedule(ctx context.Context, start, end *time.Time) ([]TransferBatch, error) {
	groups, err := s.orderRepo.ProductionGroupsAll(ctx)
	if err != nil {
		return nil, err
	}

	type key struct {
		date time.Time
		item string
	}
	totals := make(map[key]decimal.Decimal)
	for _, g := range groups {
		transfer := g.ProductionDate.AddDate(0, 0, g.SoakingDays+g.GerminationDays)
		if start != nil && transfer.Before(*start) {
			continue
		}
		if end != nil && transfer.After(*end) {
			continue
		}
		k := key{date: transfer, item: g.ItemName}
		totals[k] = totals[k].Add(g.TotalAmount)
	}

	batches := make([]TransferBatch, 0, len(totals))
	for k, amount := range totals {
		batches = append(batches, TransferBatch{
			TransferDate: k.date,
			ItemName:     k.item,
			TotalAmount:  amount,
		})
	}
	sort.Slice(batches, func(i, j int) bool {
		if !batches[i].TransferDate.Equal(batches[j].TransferDate) {
			return batches[i].TransferDate.Before(batches[j].TransferDate)
		}
		return batches[i].ItemName < batches[j].ItemName
	})
	return batches, nil
}
