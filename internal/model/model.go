package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionType encodes the recurrence of an order series.
type SubscriptionType int

const (
	SubscriptionNone     SubscriptionType = 0
	SubscriptionWeekly   SubscriptionType = 1
	SubscriptionBiweekly SubscriptionType = 2
	SubscriptionEvery3   SubscriptionType = 3
	SubscriptionEvery4   SubscriptionType = 4
)

// FrequencyDays returns the number of days between two deliveries of the
// series, or 0 for non-recurring orders.
func (s SubscriptionType) FrequencyDays() int {
	switch s {
	case SubscriptionWeekly:
		return 7
	case SubscriptionBiweekly:
		return 14
	case SubscriptionEvery3:
		return 21
	case SubscriptionEvery4:
		return 28
	}
	return 0
}

func (s SubscriptionType) Valid() bool {
	return s >= SubscriptionNone && s <= SubscriptionEvery4
}

type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:128;uniqueIndex;not null"`
	CreatedAt time.Time
}

// Item is a crop type with its growth parameters. Items are maintained by
// the admin surface; the planning core only reads them.
type Item struct {
	ID              uint            `gorm:"primaryKey"`
	Name            string          `gorm:"size:64;uniqueIndex;not null"`
	SeedQuantity    int             `gorm:"not null"` // grams of seed per production batch
	SoakingDays     int             `gorm:"not null"`
	GerminationDays int             `gorm:"not null"`
	GrowthDays      int             `gorm:"not null"`
	Price           decimal.Decimal `gorm:"type:numeric;not null"`
	Substrate       *string         `gorm:"size:32"`
	CreatedAt       time.Time
}

// TotalDays is the full lead time from seeding to harvest-ready. It defines
// how far in advance of a delivery date production must start.
func (i Item) TotalDays() int {
	return i.SoakingDays + i.GerminationDays + i.GrowthDays
}

// TransferDate is the day a batch of this item moves from germination to the
// growing substrate, counted from the production date.
func (i Item) TransferDate(productionDate time.Time) time.Time {
	return productionDate.AddDate(0, 0, i.SoakingDays+i.GerminationDays)
}

// SubscriptionSeries groups the orders of one recurring commitment. Orders
// reference it by id instead of matching on a tuple of shared fields.
type SubscriptionSeries struct {
	ID               uint `gorm:"primaryKey"`
	CustomerID       uint `gorm:"index;not null"`
	Customer         *Customer
	SubscriptionType SubscriptionType `gorm:"not null"`
	FromDate         time.Time        `gorm:"not null"`
	ToDate           time.Time        `gorm:"not null"`
	CreatedAt        time.Time
}

type Order struct {
	ID      uint   `gorm:"primaryKey"`
	OrderID string `gorm:"size:64;uniqueIndex;not null"` // opaque token, not used for business logic
	// FK → customer.id
	CustomerID uint `gorm:"index;not null"`
	Customer   *Customer
	// FK → subscription_series.id, null for one-off or detached orders
	SeriesID *uint `gorm:"index"`

	DeliveryDate   time.Time `gorm:"index;not null"`
	ProductionDate time.Time `gorm:"index;not null"`

	SubscriptionType SubscriptionType `gorm:"not null"`
	FromDate         *time.Time
	ToDate           *time.Time

	HalbeChannel bool `gorm:"not null"` // opaque business flag, passed through unchanged
	IsFuture     bool `gorm:"not null"` // not yet delivered

	Items []OrderItem `gorm:"foreignKey:OrderRef"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSubscription reports whether the order still belongs to a recurring
// series. A detached order keeps its history but has type 0 and no bounds.
func (o Order) IsSubscription() bool {
	return o.SubscriptionType != SubscriptionNone && o.FromDate != nil && o.ToDate != nil
}

type OrderItem struct {
	ID uint `gorm:"primaryKey"`
	// FK → order.id
	OrderRef uint `gorm:"index;not null;column:order_ref"`
	// FK → item.id
	ItemID uint `gorm:"index;not null"`
	Item   *Item

	Amount decimal.Decimal `gorm:"type:numeric;not null"`

	CreatedAt time.Time
}
