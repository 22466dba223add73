package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const getInstruments = `
SELECT id, symbol, price
FROM instruments
ORDER BY id
`

const getInstrumentBySymbol = `
SELECT id, symbol, price
FROM instruments
WHERE symbol = $1
`

// instrumentQueries runs the instruments SQL against a pgx pool.
type instrumentQueries struct {
	conn *pgxpool.Pool
}

func (q *instrumentQueries) GetInstruments(ctx context.Context) ([]instrumentRow, error) {
	rows, err := q.conn.Query(ctx, getInstruments)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []instrumentRow
	for rows.Next() {
		var row instrumentRow
		if err := rows.Scan(&row.ID, &row.Symbol, &row.Price); err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	return items, rows.Err()
}

func (q *instrumentQueries) GetInstrumentBySymbol(ctx context.Context, symbol string) (instrumentRow, error) {
	var row instrumentRow
	err := q.conn.QueryRow(ctx, getInstrumentBySymbol, symbol).Scan(&row.ID, &row.Symbol, &row.Price)
	return row, err
}
