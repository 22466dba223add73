package repository

import (
	"context"
	"errors"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Global error declarations.
var (
	ErrInstrumentNotFound = errors.New("instrument not found in datasource")
	ErrNoInstruments      = errors.New("no instruments found in datasource")
)

// instrumentRow is an instruments table row.
type instrumentRow struct {
	ID     int32
	Symbol string
	Price  decimal.Decimal
}

type instrumentsRepository interface {
	GetInstruments(ctx context.Context) ([]instrumentRow, error)
	GetInstrumentBySymbol(ctx context.Context, symbol string) (instrumentRow, error)
}

// Database struct that holds the database connection and queries.
type Database struct {
	instruments instrumentsRepository
	conn        *pgxpool.Pool
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(dbURL string) (Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return Database{}, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return Database{}, err
	}
	// Ensure the connection is established.
	if err := conn.Ping(context.Background()); err != nil {
		return Database{}, err
	}

	return Database{
		instruments: &instrumentQueries{conn: conn},
		conn:        conn}, nil
}

// Close releases the underlying connection pool.
func (db *Database) Close() {
	if db.conn != nil {
		db.conn.Close()
	}
}
