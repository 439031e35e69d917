package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"microgreens-ops/internal/model"
)

// OrderLine is one (item, amount) pair of an order, detached from any
// persisted OrderItem row.
type OrderLine struct {
	Item   model.Item
	Amount decimal.Decimal
}

// OrderSpec describes one future order of a series. It carries everything
// needed to persist a full Order plus its own OrderItem rows.
type OrderSpec struct {
	OrderID          string
	CustomerID       uint
	SeriesID         *uint
	DeliveryDate     time.Time
	ProductionDate   time.Time
	SubscriptionType model.SubscriptionType
	FromDate         *time.Time
	ToDate           *time.Time
	HalbeChannel     bool
	IsFuture         bool
	Lines            []OrderLine
}

// ExpandSubscription generates the future siblings of a recurring anchor
// order: one occurrence every frequency period after the anchor's delivery
// date, up to and including the series end date.
//
// A non-subscription anchor (type 0 or missing bounds) expands to nothing;
// that is a legitimate no-op, not an error. Each occurrence gets its own
// uuid, copies of the anchor's lines, and a production date recomputed from
// its own delivery date, so the Sunday rule is re-evaluated per occurrence.
func ExpandSubscription(anchor model.Order, lines []OrderLine, allowSunday bool) ([]OrderSpec, error) {
	if anchor.SubscriptionType == model.SubscriptionNone || anchor.FromDate == nil || anchor.ToDate == nil {
		return nil, nil
	}
	if !anchor.SubscriptionType.Valid() {
		return nil, fmt.Errorf("%w: unknown subscription type %d", model.ErrInvalidInput, anchor.SubscriptionType)
	}
	if anchor.FromDate.After(*anchor.ToDate) {
		return nil, fmt.Errorf("%w: subscription runs from %s to %s",
			model.ErrIntegrityViolation, anchor.FromDate.Format("2006-01-02"), anchor.ToDate.Format("2006-01-02"))
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: subscription order has no items", model.ErrInvalidInput)
	}

	items := make([]model.Item, len(lines))
	for i, line := range lines {
		items[i] = line.Item
	}

	frequency := anchor.SubscriptionType.FrequencyDays()
	var specs []OrderSpec
	for current := anchor.DeliveryDate.AddDate(0, 0, frequency); !current.After(*anchor.ToDate); current = current.AddDate(0, 0, frequency) {
		productionDate, err := ProductionDate(current, items, allowSunday)
		if err != nil {
			return nil, err
		}
		specs = append(specs, OrderSpec{
			OrderID:          uuid.NewString(),
			CustomerID:       anchor.CustomerID,
			SeriesID:         anchor.SeriesID,
			DeliveryDate:     current,
			ProductionDate:   productionDate,
			SubscriptionType: anchor.SubscriptionType,
			FromDate:         anchor.FromDate,
			ToDate:           anchor.ToDate,
			HalbeChannel:     anchor.HalbeChannel,
			IsFuture:         true,
			Lines:            copyLines(lines),
		})
	}
	return specs, nil
}

// copyLines detaches the generated order's lines from the anchor's, so a
// later edit of the anchor cannot reach into already generated orders.
func copyLines(lines []OrderLine) []OrderLine {
	out := make([]OrderLine, len(lines))
	copy(out, lines)
	return out
}
