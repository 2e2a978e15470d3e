// Package main implements a standalone seed script that populates the
// storefront database with test data: an admin account, a set of categories,
// and a catalog of products. The admin account is written over HTTP so the
// first-user-becomes-admin rule applies; catalog rows go in with direct SQL
// so the script does not depend on an admin token being configured.
//
// Run: go run ./scripts/seed
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	productsPerCategory = 25
	adminEmail          = "admin@storefront.local"
	adminPassword       = "AdminPass123"
)

var categories = []string{
	"Electronics", "Books", "Home & Garden", "Clothing",
	"Sports & Outdoors", "Toys", "Beauty", "Groceries",
}

var productAdjectives = []string{
	"Classic", "Premium", "Compact", "Essential", "Deluxe",
	"Portable", "Wireless", "Eco", "Pro", "Everyday",
}

var productNouns = []string{
	"Speaker", "Notebook", "Lamp", "Backpack", "Bottle",
	"Charger", "Blanket", "Organizer", "Headphones", "Mug",
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	baseURL := strings.TrimRight(getEnv("STOREFRONT_BASE_URL", "http://localhost:8080"), "/")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("POSTGRES_USER", "storefront"),
		getEnv("POSTGRES_PASSWORD", "storefront_secret"),
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("POSTGRES_DB", "storefront"),
		getEnv("POSTGRES_SSL_MODE", "disable"),
	)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	if err := seedAdmin(baseURL); err != nil {
		return err
	}
	if err := seedCatalog(ctx, pool); err != nil {
		return err
	}

	log.Println("seed complete")
	return nil
}

// seedAdmin registers the admin account through the API. When the database is
// empty this is the first registration, so the account gets the admin role.
func seedAdmin(baseURL string) error {
	body, err := json.Marshal(map[string]string{
		"email":     adminEmail,
		"password":  adminPassword,
		"full_name": "Storefront Admin",
	})
	if err != nil {
		return fmt.Errorf("marshal admin body: %w", err)
	}

	resp, err := http.Post(baseURL+"/api/v1/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("register admin: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		log.Printf("registered admin account %s", adminEmail)
	case http.StatusConflict:
		log.Printf("admin account %s already exists, skipping", adminEmail)
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("register admin: status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	now := time.Now().UTC()

	for _, name := range categories {
		slug := slugify(name)

		// Upsert keyed on the lowercased-name unique index so reruns are safe.
		_, err := pool.Exec(ctx, `
			INSERT INTO categories (id, name, slug, status, created_at, updated_at)
			VALUES ($1, $2, $3, 'active', $4, $4)
			ON CONFLICT (LOWER(name)) DO NOTHING
		`, uuid.NewString(), name, slug, now)
		if err != nil {
			return fmt.Errorf("insert category %q: %w", name, err)
		}

		inserted := 0
		for i := 0; i < productsPerCategory; i++ {
			product := fmt.Sprintf("%s %s %d",
				productAdjectives[rand.Intn(len(productAdjectives))],
				productNouns[rand.Intn(len(productNouns))],
				rand.Intn(900)+100,
			)
			price := float64(rand.Intn(19000)+999) / 100

			_, err := pool.Exec(ctx, `
				INSERT INTO products (id, name, description, price, category, images, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, '[]', $6, $6)
			`, uuid.NewString(), product, "Seeded catalog item: "+product, price, name, now)
			if err != nil {
				return fmt.Errorf("insert product %q: %w", product, err)
			}
			inserted++
		}

		log.Printf("seeded category %q with %d products", name, inserted)
	}

	return nil
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
