package types

import (
	"github.com/shopspring/decimal"
)

// PositionReport is one held symbol in an allocation report.
type PositionReport struct {
	Symbol         string          `json:"symbol"`
	Shares         decimal.Decimal `json:"shares"`
	Value          decimal.Decimal `json:"value"`
	PercentOfTotal decimal.Decimal `json:"percentOfTotal"`
}

// AllocationReport is a valuation snapshot of the portfolio: total value
// plus every position with a non-zero share count, sorted by symbol.
type AllocationReport struct {
	TotalValue decimal.Decimal  `json:"totalValue"`
	Positions  []PositionReport `json:"positions"`
}
