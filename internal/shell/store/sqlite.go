package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/xcalota/panel/internal/core/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// =============================================================================
// Executor Interface - Shared by DB and Transaction
// =============================================================================

// executor abstracts database operations that can be performed on both
// a database connection and a transaction.
type executor interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on"
	}

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to open database", ErrConnectionFailed)
	}

	// Every connection to :memory: is a separate database.
	if strings.HasPrefix(dsn, MemoryDSN) {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRestaurant(ctx context.Context, r *domain.Restaurant) error {
	return createRestaurant(ctx, s.db, r, s.now())
}

func (s *SQLiteStore) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	return getRestaurant(ctx, s.db, id)
}

func (s *SQLiteStore) ListRestaurants(ctx context.Context, opts ListOptions) ([]domain.Restaurant, error) {
	return listRestaurants(ctx, s.db, opts)
}

func (s *SQLiteStore) CountRestaurants(ctx context.Context) (int, error) {
	return countRestaurants(ctx, s.db)
}

// WithTx runs fn inside a transaction. The transaction is rolled back if fn
// returns an error.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return NewStoreError("WithTx", "", "", "failed to begin transaction", ErrTxFailed)
	}

	txS := &txSQLiteStore{tx: tx, now: s.now}

	if err := fn(txS); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return NewStoreError("WithTx", "", "", fmt.Sprintf("rollback failed after error: %v", err), ErrTxFailed)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return NewStoreError("WithTx", "", "", "failed to commit transaction", ErrTxFailed)
	}

	return nil
}

// =============================================================================
// Transaction Store
// =============================================================================

// txSQLiteStore implements Store within a transaction.
type txSQLiteStore struct {
	tx  *sqlx.Tx
	now func() time.Time
}

func (s *txSQLiteStore) CreateRestaurant(ctx context.Context, r *domain.Restaurant) error {
	return createRestaurant(ctx, s.tx, r, s.now())
}

func (s *txSQLiteStore) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	return getRestaurant(ctx, s.tx, id)
}

func (s *txSQLiteStore) ListRestaurants(ctx context.Context, opts ListOptions) ([]domain.Restaurant, error) {
	return listRestaurants(ctx, s.tx, opts)
}

func (s *txSQLiteStore) CountRestaurants(ctx context.Context) (int, error) {
	return countRestaurants(ctx, s.tx)
}

func (s *txSQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	// Already in a transaction, just run the function
	return fn(s)
}

func (s *txSQLiteStore) Close() error {
	return nil
}

// =============================================================================
// Restaurant Operations
// =============================================================================

// restaurantRow represents a restaurant row in the database.
type restaurantRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Slug      string `db:"slug"`
	CreatedAt string `db:"created_at"`
}

func createRestaurant(ctx context.Context, exec executor, r *domain.Restaurant, now time.Time) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	query := `
		INSERT INTO restaurants (id, name, slug, created_at)
		VALUES (:id, :name, :slug, :created_at)`

	row := restaurantRow{
		ID:        r.ID,
		Name:      r.Name,
		Slug:      r.Slug,
		CreatedAt: now.UTC().Format(time.RFC3339Nano),
	}

	_, err := exec.NamedExecContext(ctx, query, row)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: restaurants.id") {
			return NewStoreError("CreateRestaurant", "restaurant", r.ID, "restaurant with this ID already exists", ErrDuplicateID)
		}
		return NewStoreError("CreateRestaurant", "restaurant", r.ID, err.Error(), err)
	}

	return nil
}

func getRestaurant(ctx context.Context, exec executor, id string) (*domain.Restaurant, error) {
	query := `SELECT * FROM restaurants WHERE id = ?`

	var row restaurantRow
	err := exec.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetRestaurant", "restaurant", id, "restaurant not found", ErrNotFound)
		}
		return nil, NewStoreError("GetRestaurant", "restaurant", id, err.Error(), err)
	}

	r := row.toDomain()
	return &r, nil
}

func listRestaurants(ctx context.Context, exec executor, opts ListOptions) ([]domain.Restaurant, error) {
	opts = opts.Normalize()
	query := `SELECT * FROM restaurants ORDER BY created_at, rowid LIMIT ? OFFSET ?`

	var rows []restaurantRow
	err := exec.SelectContext(ctx, &rows, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, NewStoreError("ListRestaurants", "restaurant", "", err.Error(), err)
	}

	restaurants := make([]domain.Restaurant, 0, len(rows))
	for _, row := range rows {
		restaurants = append(restaurants, row.toDomain())
	}

	return restaurants, nil
}

func countRestaurants(ctx context.Context, exec executor) (int, error) {
	var n int
	if err := exec.GetContext(ctx, &n, `SELECT COUNT(*) FROM restaurants`); err != nil {
		return 0, NewStoreError("CountRestaurants", "restaurant", "", err.Error(), err)
	}
	return n, nil
}

func (row restaurantRow) toDomain() domain.Restaurant {
	return domain.Restaurant{
		ID:   row.ID,
		Name: row.Name,
		Slug: row.Slug,
	}
}
