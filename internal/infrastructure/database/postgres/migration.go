// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/ventilation-store/internal/domain/inventory"
	"github.com/your-org/ventilation-store/internal/domain/order"
	"github.com/your-org/ventilation-store/internal/domain/product"
	"github.com/your-org/ventilation-store/internal/domain/profile"
	"github.com/your-org/ventilation-store/internal/domain/review"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log *logrus.Logger) *Migration {
	return &Migration{db: db, log: log}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&product.Product{},
		&profile.Profile{},
		&order.OrderRecord{},
		&order.OrderDetail{},
		&order.PaymentRecord{},
		&review.Review{},
		&inventory.Movement{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("running database auto-migrations")

	for _, model := range Models() {
		m.log.Debugf("migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("database auto-migrations completed")
	return nil
}

// CreateIndexes creates the composite indexes GORM tags cannot express
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_category_name ON products(LOWER(category), LOWER(name))",
		"CREATE INDEX IF NOT EXISTS idx_products_stock ON products(stock) WHERE deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_placed ON orders(status, placed_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_details_product ON order_details(product_id, order_id)",
		"CREATE INDEX IF NOT EXISTS idx_profiles_role ON profiles(role)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_movements_product_created ON inventory_movements(product_id, created_at DESC)",
	}

	for _, stmt := range indexes {
		if err := m.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	m.log.WithField("count", len(indexes)).Info("database indexes ensured")
	return nil
}

// SeedInitialData fills an empty catalog with sample products
func (m *Migration) SeedInitialData() error {
	var count int64
	if err := m.db.Model(&product.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		m.log.Debug("catalog already seeded")
		return nil
	}

	products := []product.Product{
		{Name: "Wall air extractor", Category: "Extractors", Model: "EX-150", Brand: "Airflow",
			Description: "Quiet wall-mounted extractor for kitchens and laundry rooms",
			Price: decimal.RequireFromString("450.00"), Stock: 12, ImageURL: "/products/wall-extractor.jpg"},
		{Name: "Smart bathroom extractor", Category: "Extractors", Model: "BX-100", Brand: "Airflow",
			Description: "Humidity sensing extractor with timer",
			Price: decimal.RequireFromString("350.00"), Stock: 20, ImageURL: "/products/bathroom-extractor.jpg"},
		{Name: "Wall fan heater", Category: "Heaters", Model: "TH-2000", Brand: "Calora",
			Description: "2000 W fan heater with thermostat",
			Price: decimal.RequireFromString("540.00"), Stock: 8, ImageURL: "/products/fan-heater.jpg"},
		{Name: "LED ceiling fan", Category: "Fans", Model: "CF-52", Brand: "Ventura",
			Description: "52 inch ceiling fan with dimmable LED light and remote",
			Price: decimal.RequireFromString("1200.00"), Stock: 5, ImageURL: "/products/ceiling-fan.jpg"},
		{Name: "Inverter mini split", Category: "Air conditioning", Model: "MS-12K", Brand: "Frio",
			Description: "12000 BTU inverter split air conditioner",
			Price: decimal.RequireFromString("2025.00"), Stock: 3, ImageURL: "/products/mini-split.jpg"},
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}

		movements := make([]inventory.Movement, 0, len(products))
		for _, p := range products {
			movements = append(movements, inventory.Adjustment(p.ID, p.Stock, inventory.ReasonInitial))
		}
		return inventory.Record(tx, movements...)
	})
	if err != nil {
		return err
	}

	m.log.WithField("count", len(products)).Info("seeded sample products")
	return nil
}

// DropAllTables drops every table, for development resets
func (m *Migration) DropAllTables() error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := m.db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", models[i], err)
		}
	}
	m.log.Warn("all tables dropped")
	return nil
}
