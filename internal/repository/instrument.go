package repository

import (
	"context"
	"errors"
	"fmt"

	"rebalancer/types"

	"github.com/jackc/pgx/v5"
)

// GetInstruments retrieves the whole instrument universe in insertion
// order, ready to seed a registry.
func (db *Database) GetInstruments(ctx context.Context) ([]types.Instrument, error) {
	rows, err := db.instruments.GetInstruments(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoInstruments
	}

	instruments := make([]types.Instrument, 0, len(rows))
	for _, row := range rows {
		instruments = append(instruments, types.NewInstrument(row.Symbol, row.Price))
	}
	return instruments, nil
}

// GetInstrumentBySymbol retrieves a single types.Instrument by its symbol.
func (db *Database) GetInstrumentBySymbol(ctx context.Context, symbol string) (*types.Instrument, error) {
	row, err := db.instruments.GetInstrumentBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("symbol %s %w", symbol, ErrInstrumentNotFound)
		}
		return nil, err
	}
	inst := types.NewInstrument(row.Symbol, row.Price)
	return &inst, nil
}
