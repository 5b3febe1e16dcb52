// ShopSignal - Storefront Merchandising Intelligence
// Copyright 2026 ShopSignal Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsignal/shopsignal

// Package duck implements the catalog and interaction stores on DuckDB.
// One process owns the database file; the merchandising core runs its
// time-windowed interaction scans as plain SQL against it.
package duck

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/shopsignal/shopsignal/internal/models"
	"github.com/shopsignal/shopsignal/internal/store"
)

// Config holds DuckDB connection settings.
type Config struct {
	// Path is the database file location.
	Path string

	// MaxMemory caps DuckDB's memory use, e.g. "1GB".
	MaxMemory string

	// Threads is the DuckDB thread count. 0 = runtime.NumCPU().
	Threads int
}

// DB wraps the DuckDB connection and exposes store views.
type DB struct {
	conn *sql.DB
}

// New opens (creating if needed) the DuckDB database and initializes the
// schema.
func New(cfg Config) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	if cfg.MaxMemory == "" {
		cfg.MaxMemory = "1GB"
	}

	// Ensure parent directory exists for the database file.
	dbDir := filepath.Dir(cfg.Path)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dbDir, err)
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	conn.SetMaxOpenConns(numThreads)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Catalog returns the catalog store view.
func (db *DB) Catalog() store.CatalogStore { return catalogView{db} }

// Interactions returns the interaction log view.
func (db *DB) Interactions() store.InteractionStore { return interactionView{db} }

func (db *DB) initSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY,
			name VARCHAR NOT NULL,
			description VARCHAR,
			category VARCHAR NOT NULL,
			price DOUBLE NOT NULL,
			old_price DOUBLE DEFAULT 0,
			cost_price DOUBLE DEFAULT 0,
			stock INTEGER NOT NULL DEFAULT 0,
			popularity INTEGER NOT NULL DEFAULT 1,
			rating DOUBLE NOT NULL DEFAULT 0,
			review_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			product_id INTEGER NOT NULL,
			user_id VARCHAR NOT NULL,
			type VARCHAR NOT NULL,
			ts TIMESTAMP NOT NULL,
			category VARCHAR,
			price DOUBLE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_product ON interactions (product_id, ts)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions (user_id, ts)`,
	}

	for _, q := range queries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}

type catalogView struct{ db *DB }

var _ store.CatalogStore = catalogView{}

const productColumns = `id, name, description, category, price, old_price,
	cost_price, stock, popularity, rating, review_count, created_at`

// Find returns products matching the filter, ordered by ascending id.
func (v catalogView) Find(ctx context.Context, filter store.ProductFilter) ([]models.Product, error) {
	where, args := buildProductWhere(filter)

	query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY id", productColumns, where)
	rows, err := v.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// FindOne returns the product with the given id or store.ErrNotFound.
func (v catalogView) FindOne(ctx context.Context, id int) (models.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = ?", productColumns)
	row := v.db.conn.QueryRowContext(ctx, query, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, store.ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("query product %d: %w", id, err)
	}
	return p, nil
}

// Save upserts a product record.
func (v catalogView) Save(ctx context.Context, p models.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			category = excluded.category,
			price = excluded.price,
			old_price = excluded.old_price,
			cost_price = excluded.cost_price,
			stock = excluded.stock,
			popularity = excluded.popularity,
			rating = excluded.rating,
			review_count = excluded.review_count,
			created_at = excluded.created_at`

	_, err := v.db.conn.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Category, p.Price, p.OldPrice,
		p.CostPrice, p.Stock, p.Popularity, p.Rating, p.ReviewCount, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("save product %d: %w", p.ID, err)
	}
	return nil
}

// Count returns the number of products matching the filter.
func (v catalogView) Count(ctx context.Context, filter store.ProductFilter) (int, error) {
	where, args := buildProductWhere(filter)

	var count int
	query := "SELECT COUNT(*) FROM products" + where
	if err := v.db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

type interactionView struct{ db *DB }

var _ store.InteractionStore = interactionView{}

// Append records an interaction. The table is append-only.
func (v interactionView) Append(ctx context.Context, in models.Interaction) error {
	query := `INSERT INTO interactions (product_id, user_id, type, ts, category, price)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := v.db.conn.ExecContext(ctx, query,
		in.ProductID, in.UserID, string(in.Type), in.Timestamp, in.Category, in.Price)
	if err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}
	return nil
}

// Find returns interactions matching the filter in timestamp order.
func (v interactionView) Find(ctx context.Context, filter store.InteractionFilter) ([]models.Interaction, error) {
	var conditions []string
	var args []interface{}

	if filter.ProductID != 0 {
		conditions = append(conditions, "product_id = ?")
		args = append(args, filter.ProductID)
	}
	if filter.UserID != "" {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, string(filter.Type))
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "ts >= ?")
		args = append(args, filter.Since)
	}
	if !filter.Until.IsZero() {
		conditions = append(conditions, "ts < ?")
		args = append(args, filter.Until)
	}

	query := `SELECT product_id, user_id, type, ts, category, price FROM interactions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY ts"

	rows, err := v.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var interactions []models.Interaction
	for rows.Next() {
		var in models.Interaction
		var typ string
		var category sql.NullString
		var price sql.NullFloat64
		if err := rows.Scan(&in.ProductID, &in.UserID, &typ, &in.Timestamp, &category, &price); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		in.Type = models.InteractionType(typ)
		in.Category = category.String
		in.Price = price.Float64
		interactions = append(interactions, in)
	}
	return interactions, rows.Err()
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan code.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row scanner) (models.Product, error) {
	var p models.Product
	var description sql.NullString
	err := row.Scan(&p.ID, &p.Name, &description, &p.Category, &p.Price,
		&p.OldPrice, &p.CostPrice, &p.Stock, &p.Popularity, &p.Rating,
		&p.ReviewCount, &p.CreatedAt)
	if err != nil {
		return models.Product{}, err
	}
	p.Description = description.String
	return p, nil
}

func buildProductWhere(filter store.ProductFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if len(filter.Categories) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.Categories)), ", ")
		conditions = append(conditions, "category IN ("+placeholders+")")
		for _, c := range filter.Categories {
			args = append(args, c)
		}
	}
	if filter.MinPrice > 0 {
		conditions = append(conditions, "price >= ?")
		args = append(args, filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		conditions = append(conditions, "price <= ?")
		args = append(args, filter.MaxPrice)
	}
	if len(filter.ExcludeIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.ExcludeIDs)), ", ")
		conditions = append(conditions, "id NOT IN ("+placeholders+")")
		for _, id := range filter.ExcludeIDs {
			args = append(args, id)
		}
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
