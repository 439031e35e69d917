// Package export writes the weekly planning views into one xlsx workbook,
// one sheet per view.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"microgreens-ops/internal/service"
)

const dateLayout = "02.01.2006"

type Exporter struct {
	schedules service.ScheduleService
}

func New(schedules service.ScheduleService) *Exporter {
	return &Exporter{schedules: schedules}
}

// WeekWindow returns the Monday and Sunday of the week holding the given
// date.
func WeekWindow(ref time.Time) (time.Time, time.Time) {
	offset := int(ref.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	monday := ref.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

// WriteWeek builds the workbook for the week around ref and saves it to
// path.
func (e *Exporter) WriteWeek(ctx context.Context, ref time.Time, path string) error {
	start, end := WeekWindow(ref)

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeDeliverySheet(ctx, f, &start, &end); err != nil {
		return err
	}
	if err := e.writeProductionSheet(ctx, f, &start, &end); err != nil {
		return err
	}
	if err := e.writeTransferSheet(ctx, f, &start, &end); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func (e *Exporter) writeDeliverySheet(ctx context.Context, f *excelize.File, start, end *time.Time) error {
	orders, err := e.schedules.DeliverySchedule(ctx, start, end)
	if err != nil {
		return err
	}

	sheet := "Delivery"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 1, "Date", "Customer", "Item", "Amount"); err != nil {
		return err
	}
	row := 2
	for _, order := range orders {
		customer := ""
		if order.Customer != nil {
			customer = order.Customer.Name
		}
		for _, line := range order.Items {
			itemName := ""
			if line.Item != nil {
				itemName = line.Item.Name
			}
			err := writeRow(f, sheet, row,
				order.DeliveryDate.Format(dateLayout), customer, itemName, line.Amount.String())
			if err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (e *Exporter) writeProductionSheet(ctx context.Context, f *excelize.File, start, end *time.Time) error {
	batches, err := e.schedules.ProductionPlan(ctx, start, end)
	if err != nil {
		return err
	}

	sheet := "Production"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 1, "Date", "Item", "Amount", "Seed (g)", "Substrate", "Halbe"); err != nil {
		return err
	}
	for i, batch := range batches {
		substrate := ""
		if batch.Substrate != nil {
			substrate = *batch.Substrate
		}
		halbe := ""
		if batch.HalbeChannel {
			halbe = "x"
		}
		err := writeRow(f, sheet, i+2,
			batch.ProductionDate.Format(dateLayout), batch.ItemName,
			batch.TotalAmount.String(), batch.SeedGrams.String(), substrate, halbe)
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) writeTransferSheet(ctx context.Context, f *excelize.File, start, end *time.Time) error {
	batches, err := e.schedules.TransferSchedule(ctx, start, end)
	if err != nil {
		return err
	}

	sheet := "Transfer"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeRow(f, sheet, 1, "Date", "Item", "Amount"); err != nil {
		return err
	}
	for i, batch := range batches {
		err := writeRow(f, sheet, i+2,
			batch.TransferDate.Format(dateLayout), batch.ItemName, batch.TotalAmount.String())
		if err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...string) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}

// Filename is the conventional workbook name for a week.
func Filename(start time.Time) string {
	return fmt.Sprintf("schedules_%s.xlsx", start.Format("2006-01-02"))
}
