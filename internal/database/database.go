// Package database handles PostgreSQL connections and queries.
//
// Go Pattern: We use the `sqlx` package which extends Go's standard `database/sql`
// with convenient features like scanning rows into structs. You write raw SQL,
// which keeps every query visible and reviewable.
//
// Go's database/sql has built-in connection pooling: you create one *sqlx.DB
// at startup and share it across the entire application.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver; the underscore import runs its init()

	"github.com/autovendor/contract-flags/internal/models"
)

// ErrNotFound is returned when a lookup matches no rows.
var ErrNotFound = errors.New("not found")

// DB wraps the sqlx database connection with our application-specific methods.
// Go Pattern: Embedding (*sqlx.DB) gives us all of sqlx's methods automatically,
// plus we can add our own.
type DB struct {
	*sqlx.DB
}

// New creates a new database connection with connection pooling configured.
func New(databaseURL string) (*DB, error) {
	// sqlx.Connect both opens the connection and pings the database
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	return &DB{db}, nil
}

// HealthCheck verifies the database connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// --- Contract Operations ---

// CreateContract inserts a new contract analysis.
// The ID is generated by the caller; created_at comes from the database.
func (db *DB) CreateContract(ctx context.Context, c *models.Contract) error {
	query := `
		INSERT INTO contracts (id, file_name, raw_text, flags, page_count, word_count, model)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := db.QueryRowContext(ctx, query,
		c.ID, c.FileName, c.RawText, string(c.Flags),
		c.PageCount, c.WordCount, c.Model,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert contract: %w", err)
	}
	return nil
}

// GetContract retrieves a single contract by ID.
func (db *DB) GetContract(ctx context.Context, id string) (*models.Contract, error) {
	var c models.Contract
	err := db.GetContext(ctx, &c, `SELECT * FROM contracts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("contract %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return &c, nil
}

// ListContracts returns the most recent contracts, newest first.
// Raw text is left out; list views only need the flags.
func (db *DB) ListContracts(ctx context.Context, limit int) ([]models.Contract, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var contracts []models.Contract
	err := db.SelectContext(ctx, &contracts,
		`SELECT id, file_name, '' AS raw_text, flags, page_count, word_count, model, created_at
		 FROM contracts
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return contracts, nil
}
