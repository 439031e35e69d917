// Package seed installs the producer's starting catalogue into an empty
// datastore: the crop types with their growth parameters and a set of
// example customers.
package seed

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"microgreens-ops/internal/model"
)

var customerNames = []string{
	"Augustenstüble",
	"Brick House GbR",
	"Feinkost Böhm GmbH",
	"Goldener Adler",
	"Keimgrün GmbH",
	"La Casa del Gusto",
	"Pier 51 Restaurant GmbH & Co. KG",
	"Schweizers Restaurant",
	"Weltcafé",
	"Wielandshöhe",
}

type itemRow struct {
	name            string
	seedQuantity    int
	soakingDays     int
	germinationDays int
	growthDays      int
	price           string
	substrate       string // empty = none
}

var itemCatalogue = []itemRow{
	{"Alfalfa", 15, 4, 3, 7, "22.90", "Hanf"},
	{"Basilikum", 15, 7, 6, 13, "22.90", "Hanf"},
	{"Brokkoli", 15, 4, 3, 7, "22.90", "Hanf"},
	{"Buchweizen", 45, 12, 5, 4, "22.90", "Hanf"},
	{"Dill", 10, 8, 4, 12, "22.90", "Hanf"},
	{"Erbse", 70, 12, 6, 7, "22.90", "Hanf"},
	{"Kapuzinerkresse", 65, 12, 8, 7, "22.90", "Cellulose"},
	{"Koriander", 25, 8, 6, 14, "22.90", "Cellulose"},
	{"Mais", 120, 12, 10, 0, "22.90", "Hanf"},
	{"Petersilie", 20, 9, 7, 16, "22.90", "Cellulose"},
	{"Radieschen", 15, 4, 3, 7, "15.90", "Hanf"},
	{"Rucola", 10, 4, 3, 7, "22.90", "Hanf"},
	{"Senf", 15, 3, 3, 6, "16.90", "Hanf"},
	{"Sonnenblume", 45, 12, 6, 5, "22.90", "Hanf"},
	{"Weizengras", 45, 4, 4, 8, "16.90", "Hanf"},
}

// Install writes the catalogue in one transaction. It is meant for a fresh
// datastore; rerunning it against existing data fails on the unique names.
func Install(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range customerNames {
			if err := tx.Create(&model.Customer{Name: name}).Error; err != nil {
				return err
			}
		}
		for _, row := range itemCatalogue {
			item := &model.Item{
				Name:            row.name,
				SeedQuantity:    row.seedQuantity,
				SoakingDays:     row.soakingDays,
				GerminationDays: row.germinationDays,
				GrowthDays:      row.growthDays,
				Price:           decimal.RequireFromString(row.price),
			}
			if row.substrate != "" {
				substrate := row.substrate
				item.Substrate = &substrate
			}
			if err := tx.Create(item).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
