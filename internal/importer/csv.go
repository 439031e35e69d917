// Package importer loads one-off orders from a CSV export. Rows sharing a
// customer and delivery date become one order with one line per row.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"microgreens-ops/internal/model"
	"microgreens-ops/internal/service"
)

const dateLayout = "02.01.2006"

var expectedHeader = []string{"customer", "delivery_date", "item", "amount", "halbe_channel"}

type Importer struct {
	orders service.OrderService
	// AllowSunday is applied to every imported order's production date.
	AllowSunday bool
}

func New(orders service.OrderService) *Importer {
	return &Importer{orders: orders}
}

// Import reads the CSV and creates the orders. It returns the number of
// orders created; any failure aborts with nothing further written (each
// order is its own transaction, earlier orders stay).
func (im *Importer) Import(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("%w: read orders CSV: %v", model.ErrInvalidInput, err)
	}
	if len(records) < 2 {
		return 0, fmt.Errorf("%w: orders CSV needs a header and at least one row", model.ErrInvalidInput)
	}
	if !headerMatches(records[0]) {
		return 0, fmt.Errorf("%w: orders CSV header must be %v, got %v", model.ErrInvalidInput, expectedHeader, records[0])
	}

	type orderKey struct {
		customer string
		date     time.Time
	}
	var keys []orderKey // insertion order
	drafts := make(map[orderKey]*service.OrderInput)

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return 0, fmt.Errorf("%w: orders CSV row %d: expected %d columns, got %d",
				model.ErrInvalidInput, i+2, len(expectedHeader), len(record))
		}

		deliveryDate, err := time.Parse(dateLayout, strings.TrimSpace(record[1]))
		if err != nil {
			return 0, fmt.Errorf("%w: orders CSV row %d: delivery date %q (want DD.MM.YYYY)",
				model.ErrInvalidInput, i+2, record[1])
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(record[3]))
		if err != nil {
			return 0, fmt.Errorf("%w: orders CSV row %d: amount %q", model.ErrInvalidInput, i+2, record[3])
		}
		halbe := strings.EqualFold(strings.TrimSpace(record[4]), "true") || strings.TrimSpace(record[4]) == "1"

		key := orderKey{customer: strings.TrimSpace(record[0]), date: deliveryDate}
		draft, ok := drafts[key]
		if !ok {
			draft = &service.OrderInput{
				CustomerName: key.customer,
				DeliveryDate: deliveryDate,
				HalbeChannel: halbe,
				AllowSunday:  im.AllowSunday,
			}
			drafts[key] = draft
			keys = append(keys, key)
		}
		draft.Lines = append(draft.Lines, service.OrderLineInput{
			ItemName: strings.TrimSpace(record[2]),
			Amount:   amount,
		})
	}

	created := 0
	for _, key := range keys {
		if _, err := im.orders.CreateOrder(ctx, *drafts[key]); err != nil {
			return created, fmt.Errorf("import order for %q on %s: %w",
				key.customer, key.date.Format(dateLayout), err)
		}
		created++
	}
	return created, nil
}

func headerMatches(header []string) bool {
	if len(header) != len(expectedHeader) {
		return false
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(col), expectedHeader[i]) {
			return false
		}
	}
	return true
}
