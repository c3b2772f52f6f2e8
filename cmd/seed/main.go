// Package main seeds the database with the bootstrap administrator and,
// on request, a small demo catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	appctx "essenceflow/internal/core/context"
	"essenceflow/internal/domain/auth"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/product"
	"essenceflow/internal/domain/catalogs/vendor"
	"essenceflow/internal/infrastructure/config"
	"essenceflow/internal/infrastructure/storage"
	"essenceflow/pkg/logger"
)

func main() {
	demo := flag.Bool("demo", os.Getenv("SEED_DEMO_DATA") == "true", "also create demo vendors, materials and products")
	configFile := flag.String("config", "", "path to config.toml")
	flag.Parse()

	var files []string
	if *configFile != "" {
		files = append(files, *configFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := appctx.WithTrace(context.Background(), appctx.NewTraceContext())

	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatal("seed requires database.driver=postgres")
	}

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer backend.Close()

	log.Info("connected to database")

	if err := seedAdminUser(ctx, backend, cfg.Admin, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if *demo {
		if err := seedDemoData(ctx, backend, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, backend *storage.Backend, admin config.AdminConfig, log *logger.Logger) error {
	if admin.Password == "" {
		return fmt.Errorf("admin.password (EF_ADMIN_PASSWORD) is required")
	}

	// Tokens are never issued here.
	svc := auth.NewService(backend.Users, backend.TxManager, auth.NewJWTService(auth.DefaultJWTConfig("seed")), auth.DefaultServiceConfig())

	exists, err := svc.Exists(ctx, admin.Email)
	if err != nil {
		return err
	}
	if exists {
		log.Infow("admin user already exists, skipping", "email", admin.Email)
		return nil
	}

	user, err := svc.CreateUser(ctx, auth.CreateUserRequest{
		Name:     admin.Name,
		Email:    admin.Email,
		Password: admin.Password,
		Role:     auth.RoleAdmin,
	})
	if err != nil {
		return err
	}
	log.Infow("admin user created", "email", user.Email, "id", user.ID)
	return nil
}

type demoItem struct {
	name, category string
	quantity, cost int64
	threshold      int64
	perUnit        int64
	packaging      bool
}

func seedDemoData(ctx context.Context, backend *storage.Backend, log *logger.Logger) error {
	vendors := vendor.NewService(backend.Vendors, backend.TxManager)
	items := inventory.NewService(backend.Inventory, backend.TxManager, product.NewFormulationLookup(backend.Products))
	products := product.NewService(backend.Products, backend.Inventory, backend.TxManager)

	return backend.TxManager.RunInTransaction(ctx, func(ctx context.Context) error {
		supplier := vendor.NewVendor("Grasse Naturals")
		supplier.Email = "orders@grasse-naturals.example"
		if err := vendors.Create(ctx, supplier); err != nil {
			return fmt.Errorf("create vendor: %w", err)
		}

		royale := product.NewProduct("EF-OUD-50", "Oud Royale 50ml")
		royale.SellingPrice = decimal.NewFromInt(120)

		for _, d := range []demoItem{
			{name: "Oud Oil", category: "Oil", quantity: 500, cost: 2, threshold: 100, perUnit: 30},
			{name: "Perfumer's Alcohol", category: "Alcohol", quantity: 5000, cost: 0, threshold: 1000, perUnit: 20},
			{name: "50ml Bottle", category: "Bottle", quantity: 200, cost: 3, threshold: 50, perUnit: 1, packaging: true},
			{name: "Gold Cap", category: "Cap", quantity: 200, cost: 1, threshold: 50, perUnit: 1, packaging: true},
		} {
			item := inventory.NewItem(d.name, d.category)
			item.Quantity = decimal.NewFromInt(d.quantity)
			item.CostPerUnit = decimal.NewFromInt(d.cost)
			item.MinThreshold = decimal.NewFromInt(d.threshold)
			item.VendorID = &supplier.ID
			if err := items.Create(ctx, item); err != nil {
				return fmt.Errorf("create item %s: %w", d.name, err)
			}

			line := product.Component{InventoryItemID: item.ID, AmountPerUnit: decimal.NewFromInt(d.perUnit)}
			if d.packaging {
				royale.Packaging = append(royale.Packaging, line)
			} else {
				royale.Ingredients = append(royale.Ingredients, line)
			}
		}

		if err := products.Create(ctx, royale); err != nil {
			return fmt.Errorf("create product: %w", err)
		}

		log.Infow("demo data created", "vendor", supplier.Name, "product", royale.Name)
		return nil
	})
}
