package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"gdp-pipeline/internal/model"
	"regexp"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// Store wraps a single SQLite connection
type Store struct {
	db     *sqlx.DB
	path   string
	logger *zap.Logger
}

// Open opens (creating if needed) the SQLite database at path and verifies it.
// The caller owns the returned Store and must Close it.
func Open(ctx context.Context, path string) (*Store, error) {
	logger := zap.L().Named("store")

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer, one reader path: keep a single connection so :memory: databases stay shared
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Debug("database opened", zap.String("path", path))
	return &Store{db: db, path: path, logger: logger}, nil
}

// Close releases the connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database location
func (s *Store) Path() string { return s.path }

// ValidateIdentifier rejects table names that are not plain SQL identifiers
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %q", name)
	}
	return nil
}

// QuoteIdentifier validates a table name and returns it double-quoted
func QuoteIdentifier(name string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", err
	}
	return `"` + name + `"`, nil
}

// ReplaceTable drops any table called name and recreates it with the rows of table,
// in order, inside one transaction.
func (s *Store) ReplaceTable(ctx context.Context, name string, table model.Table) error {
	quoted, err := QuoteIdentifier(name)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+quoted); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}

	createTable := fmt.Sprintf(`CREATE TABLE %s (
		"%s" TEXT,
		"%s" REAL
	)`, quoted, model.ColumnCountry, model.ColumnGDPBillions)
	if _, err := tx.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	insert, err := tx.PreparexContext(ctx, fmt.Sprintf(`INSERT INTO %s ("%s", "%s") VALUES (?, ?)`,
		quoted, model.ColumnCountry, model.ColumnGDPBillions))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer insert.Close()

	for i, rec := range table.Records {
		if _, err := insert.ExecContext(ctx, rec.Country, rec.GDP); err != nil {
			return fmt.Errorf("failed to insert row %d (%s): %w", i, rec.Country, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit table %s: %w", name, err)
	}

	s.logger.Debug("table replaced", zap.String("table", name), zap.Int("rows", table.Len()))
	return nil
}

// ListCountries returns the rows whose GDP is at least minGDP, in insertion order
func (s *Store) ListCountries(ctx context.Context, name string, minGDP float64) ([]model.Record, error) {
	quoted, err := QuoteIdentifier(name)
	if err != nil {
		return nil, err
	}

	var records []model.Record
	query := fmt.Sprintf(`SELECT "%s", "%s" FROM %s WHERE "%s" >= ? ORDER BY rowid`,
		model.ColumnCountry, model.ColumnGDPBillions, quoted, model.ColumnGDPBillions)
	if err := s.db.SelectContext(ctx, &records, query, minGDP); err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return records, nil
}

// GetCountry fetches a single country by exact name
func (s *Store) GetCountry(ctx context.Context, name, country string) (model.Record, error) {
	quoted, err := QuoteIdentifier(name)
	if err != nil {
		return model.Record{}, err
	}

	var rec model.Record
	query := fmt.Sprintf(`SELECT "%s", "%s" FROM %s WHERE "%s" = ? LIMIT 1`,
		model.ColumnCountry, model.ColumnGDPBillions, quoted, model.ColumnCountry)
	err = s.db.GetContext(ctx, &rec, query, country)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Record{}, ErrNotFound
	}
	if err != nil {
		return model.Record{}, fmt.Errorf("failed to get country: %w", err)
	}
	return rec, nil
}
