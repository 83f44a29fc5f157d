package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/gestorly/catalog-api/config"
	"github.com/gestorly/catalog-api/internal/application"
	"github.com/gestorly/catalog-api/internal/domain/entity"
	"github.com/gestorly/catalog-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@gestorly.local"
	password := "password123"
	username := "demoUser"
	phone := "5555-0100"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID int64
	err = db.QueryRow(`
		INSERT INTO users (username, last_name, email, phone, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
		RETURNING id
	`, username, "Demo", email, "55550100", []byte(hash)).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d email=%s username=%s password=%s phone=%s\n", userID, email, username, password, phone)

	products := []struct {
		name     string
		stock    int
		active   bool
		supplier string
		options  []string
	}{
		{"Keyboard", 40, true, "Acme Supplies", []string{"Black", "White"}},
		{"Monitor 24\"", 12, true, "Acme Supplies", []string{"HDMI", "DisplayPort"}},
		{"Desk Lamp", 0, false, "Lumina Co", []string{"Warm", "Cold"}},
	}

	seeded := make([]entity.Product, 0, len(products))
	for _, p := range products {
		var productID int64
		err := db.QueryRow(`
			INSERT INTO products (name, stock, active, supplier_name)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO UPDATE SET stock = EXCLUDED.stock, active = EXCLUDED.active
			RETURNING id
		`, p.name, p.stock, p.active, p.supplier).Scan(&productID)
		if err != nil {
			log.Fatalf("failed to seed product %q: %v", p.name, err)
		}
		for _, opt := range p.options {
			if _, err := db.Exec(`
				INSERT INTO options (name, product_id, active)
				VALUES ($1, $2, true)
				ON CONFLICT (name, product_id) DO NOTHING
			`, opt, productID); err != nil {
				log.Fatalf("failed to seed option %q: %v", opt, err)
			}
		}
		seeded = append(seeded, entity.Product{ID: productID, Name: p.name, Active: p.active, SupplierName: p.supplier})
		fmt.Printf("seeded product: id=%d name=%s options=%d\n", productID, p.name, len(p.options))
	}

	// Push names into the suggestion index when Elasticsearch is around.
	if cfg.SuggestEnabled() {
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Printf("elasticsearch unavailable, skipping indexing: %v", err)
			return
		}
		logger := helpers.NewLogger(cfg.AppName, cfg.Env)
		svc := application.NewProductService(nil, logger, es, cfg.ESProductsIndex)
		ctx := context.Background()
		for i := range seeded {
			if err := svc.IndexProduct(ctx, &seeded[i]); err != nil {
				log.Printf("failed to index %q: %v", seeded[i].Name, err)
			}
		}
		fmt.Printf("indexed %d product names\n", len(seeded))
	}
}
