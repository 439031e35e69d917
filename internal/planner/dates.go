// Package planner holds the pure scheduling core: production-date
// derivation and subscription expansion. It never touches the datastore;
// persisting its output is the caller's job.
package planner

import (
	"fmt"
	"time"

	"microgreens-ops/internal/model"
)

// ProductionDate computes the day seeding must start so that every item on
// the order is harvest-ready by the delivery date. The slowest item decides:
// faster crops are simply started later within the same window.
//
// When allowSunday is false and the raw date lands on a Sunday, production
// moves one day back to Saturday.
func ProductionDate(deliveryDate time.Time, items []model.Item, allowSunday bool) (time.Time, error) {
	if len(items) == 0 {
		return time.Time{}, fmt.Errorf("%w: production date needs at least one item", model.ErrInvalidInput)
	}

	maxDays := items[0].TotalDays()
	for _, item := range items[1:] {
		if d := item.TotalDays(); d > maxDays {
			maxDays = d
		}
	}

	productionDate := deliveryDate.AddDate(0, 0, -maxDays)
	if !allowSunday && productionDate.Weekday() == time.Sunday {
		productionDate = productionDate.AddDate(0, 0, -1)
	}
	return productionDate, nil
}
