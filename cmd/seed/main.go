// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"garmentpos/internal/core/id"
	"garmentpos/internal/infrastructure/storage/postgres"
	"garmentpos/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminUsername := os.Getenv("ADMIN_USERNAME")
	if adminUsername == "" {
		adminUsername = "admin"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE username = $1`,
		adminUsername,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "username", adminUsername, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, full_name, role, is_active)
		VALUES ($1, $2, $3, 'Store Admin', 'admin', true)
	`, userID, adminUsername, string(passwordHash))
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "username", adminUsername, "user_id", userID)
	return nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	// 1. Brands
	type brandSeed struct {
		code string
		name string
	}

	brands := []brandSeed{
		{"BR-00001", "Allen Solly"},
		{"BR-00002", "Peter England"},
		{"BR-00003", "Biba"},
	}

	brandIDs := make(map[string]id.ID)

	for _, b := range brands {
		bid := id.New()
		commandTag, err := pool.Pool.Exec(ctx, `
			INSERT INTO brands (id, code, name, is_active, deletion_mark)
			VALUES ($1, $2, $3, true, false)
			ON CONFLICT (code) DO NOTHING
		`, bid, b.code, b.name)
		if err != nil {
			log.Warnw("failed to seed brand", "name", b.name, "error", err)
			continue
		}

		if commandTag.RowsAffected() == 0 {
			err = pool.Pool.QueryRow(ctx, `
				SELECT id FROM brands WHERE code = $1
			`, b.code).Scan(&bid)
			if err != nil {
				log.Warnw("failed to fetch existing brand id", "code", b.code, "error", err)
				continue
			}
		}

		brandIDs[b.code] = bid
	}

	// 2. Dealer
	dealerID := id.New()
	commandTag, err := pool.Pool.Exec(ctx, `
		INSERT INTO dealers (id, code, name, is_active, deletion_mark, contact_person, phone, gst_number)
		VALUES ($1, 'DL-00001', 'Sharma Textiles', true, false, 'R. Sharma', '+919800000001', '07AAACS1234A1Z5')
		ON CONFLICT (code) DO NOTHING
	`, dealerID)
	if err != nil {
		return fmt.Errorf("seed dealer: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		if err := pool.Pool.QueryRow(ctx,
			`SELECT id FROM dealers WHERE code = 'DL-00001'`,
		).Scan(&dealerID); err != nil {
			return fmt.Errorf("fetch existing dealer: %w", err)
		}
	}

	// 3. Products, one per brand/garment type
	type productSeed struct {
		code        string
		name        string
		brandCode   string
		garmentType string
		gstRate     string
	}

	products := []productSeed{
		{"PR-00001", "Allen Solly Shirt", "BR-00001", "Shirt", "5"},
		{"PR-00002", "Peter England Trousers", "BR-00002", "Trousers", "12"},
		{"PR-00003", "Biba Kurta", "BR-00003", "Kurta", "5"},
	}

	productIDs := make(map[string]id.ID)

	for _, p := range products {
		brandID, ok := brandIDs[p.brandCode]
		if !ok {
			log.Warnw("brand missing for product, skipping", "product", p.name)
			continue
		}

		pid := id.New()
		commandTag, err := pool.Pool.Exec(ctx, `
			INSERT INTO products (id, code, name, is_active, deletion_mark, brand_id, dealer_id, garment_type, gst_rate)
			VALUES ($1, $2, $3, true, false, $4, $5, $6, $7)
			ON CONFLICT (code) DO NOTHING
		`, pid, p.code, p.name, brandID, dealerID, p.garmentType, p.gstRate)
		if err != nil {
			log.Warnw("failed to seed product", "name", p.name, "error", err)
			continue
		}

		if commandTag.RowsAffected() == 0 {
			err = pool.Pool.QueryRow(ctx, `
				SELECT id FROM products WHERE code = $1
			`, p.code).Scan(&pid)
			if err != nil {
				log.Warnw("failed to fetch existing product id", "code", p.code, "error", err)
				continue
			}
		}

		productIDs[p.code] = pid
	}

	// 4. Inventory items
	type itemSeed struct {
		productCode  string
		barcode      string
		designNumber string
		size         string
		color        string
		costPrice    string
		mrp          string
		quantity     int
	}

	items := []itemSeed{
		{"PR-00001", "8901234500011", "AS-SH-101", "M", "White", "650", "1299", 10},
		{"PR-00001", "8901234500012", "AS-SH-101", "L", "White", "650", "1299", 8},
		{"PR-00002", "8901234500021", "PE-TR-202", "32", "Navy", "900", "1999", 6},
		{"PR-00003", "8901234500031", "BB-KU-303", "S", "Red", "550", "1149", 12},
	}

	for _, it := range items {
		productID, ok := productIDs[it.productCode]
		if !ok {
			log.Warnw("product missing for item, skipping", "barcode", it.barcode)
			continue
		}

		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO inventory_items (id, product_id, barcode, design_number, size, color, cost_price, mrp, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (barcode) DO NOTHING
		`, id.New(), productID, it.barcode, it.designNumber, it.size, it.color, it.costPrice, it.mrp, it.quantity)
		if err != nil {
			log.Warnw("failed to seed inventory item", "barcode", it.barcode, "error", err)
		}
	}

	// 5. Walk-in demo customer
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO customers (id, name, phone, email, loyalty_points, total_spent, total_orders)
		VALUES ($1, 'Demo Customer', '+919900000001', 'demo@example.com', 0, 0, 0)
		ON CONFLICT (phone) DO NOTHING
	`, id.New())
	if err != nil {
		log.Warnw("failed to seed demo customer", "error", err)
	}

	log.Info("demo data seeded")
	return nil
}
