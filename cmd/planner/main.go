package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"microgreens-ops/internal/client"
	"microgreens-ops/internal/config"
	"microgreens-ops/internal/export"
	"microgreens-ops/internal/importer"
	"microgreens-ops/internal/repository"
	"microgreens-ops/internal/seed"
	"microgreens-ops/internal/service"
)

const dateLayout = "02.01.2006"

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok outside development)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("parse config: %v", err)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	db, err := client.InitSqliteClient(cfg.DatabasePath)
	if err != nil {
		log.Fatal(err)
	}

	customerRepo := repository.NewCustomerRepository(db)
	itemRepo := repository.NewItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	seriesRepo := repository.NewSeriesRepository(db)

	orderService := service.NewOrderService(db, customerRepo, itemRepo, orderRepo, seriesRepo)
	scheduleService := service.NewScheduleService(orderRepo)

	ctx := context.Background()

	switch os.Args[1] {
	case "init":
		runInit(ctx, db)
	case "import":
		runImport(ctx, cfg, orderService)
	case "export":
		runExport(ctx, cfg, scheduleService)
	case "schedules":
		runSchedules(ctx, scheduleService)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: planner <command>

commands:
  init                      migrate the datastore and install the catalogue
  import <orders.csv>       import one-off orders from a CSV export
  export <DD.MM.YYYY>       write the schedule workbook for that week
  schedules [<from> <to>]   print the schedules (dates DD.MM.YYYY)`)
}

func runInit(ctx context.Context, db *gorm.DB) {
	if err := seed.Install(ctx, db); err != nil {
		log.Fatalf("install catalogue: %v", err)
	}
	log.Println("datastore initialized")
}

func runImport(ctx context.Context, cfg *config.Config, orders service.OrderService) {
	if len(os.Args) < 3 {
		usage()
		os.Exit(2)
	}
	f, err := os.Open(os.Args[2])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	im := importer.New(orders)
	im.AllowSunday = cfg.AllowSundayProduction
	created, err := im.Import(ctx, f)
	if err != nil {
		log.Fatalf("imported %d orders, then: %v", created, err)
	}
	log.Printf("imported %d orders", created)
}

func runExport(ctx context.Context, cfg *config.Config, schedules service.ScheduleService) {
	if len(os.Args) < 3 {
		usage()
		os.Exit(2)
	}
	ref, err := time.Parse(dateLayout, os.Args[2])
	if err != nil {
		log.Fatalf("week date %q: want DD.MM.YYYY", os.Args[2])
	}

	start, _ := export.WeekWindow(ref)
	path := filepath.Join(cfg.ExportDir, export.Filename(start))
	if err := export.New(schedules).WriteWeek(ctx, ref, path); err != nil {
		log.Fatalf("write workbook: %v", err)
	}
	log.Printf("wrote %s", path)
}

// scheduleRange parses the optional from/to pair after the schedules
// command. Either both dates are given or neither.
func scheduleRange(args []string) (*time.Time, *time.Time, error) {
	switch len(args) {
	case 0:
		return nil, nil, nil
	case 2:
		s, err := time.Parse(dateLayout, args[0])
		if err != nil {
			return nil, nil, fmt.Errorf("from date %q: want DD.MM.YYYY", args[0])
		}
		e, err := time.Parse(dateLayout, args[1])
		if err != nil {
			return nil, nil, fmt.Errorf("to date %q: want DD.MM.YYYY", args[1])
		}
		return &s, &e, nil
	default:
		return nil, nil, fmt.Errorf("schedules takes no dates or both <from> and <to>")
	}
}

func runSchedules(ctx context.Context, schedules service.ScheduleService) {
	start, end, err := scheduleRange(os.Args[2:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(2)
	}

	orders, err := schedules.DeliverySchedule(ctx, start, end)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Deliveries:")
	for _, order := range orders {
		customer := ""
		if order.Customer != nil {
			customer = order.Customer.Name
		}
		fmt.Printf("  %s  %s\n", order.DeliveryDate.Format(dateLayout), customer)
		for _, line := range order.Items {
			if line.Item != nil {
				fmt.Printf("      %s x %s\n", line.Item.Name, line.Amount.String())
			}
		}
	}

	production, err := schedules.ProductionPlan(ctx, start, end)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Production:")
	for _, batch := range production {
		fmt.Printf("  %s  %-20s %s (seed %s g)\n",
			batch.ProductionDate.Format(dateLayout), batch.ItemName,
			batch.TotalAmount.String(), batch.SeedGrams.String())
	}

	transfers, err := schedules.TransferSchedule(ctx, start, end)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Transfers:")
	for _, batch := range transfers {
		fmt.Printf("  %s  %-20s %s\n",
			batch.TransferDate.Format(dateLayout), batch.ItemName, batch.TotalAmount.String())
	}
}
