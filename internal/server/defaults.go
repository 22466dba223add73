package server

import (
	"github.com/shopspring/decimal"

	"rebalancer/internal/engine"
	"rebalancer/types"
)

// DefaultUniverse is the demo investment universe used when no instrument
// datasource is configured.
func DefaultUniverse() []types.Instrument {
	return []types.Instrument{
		types.NewInstrument("AAPL", decimal.NewFromFloat(150.00)),
		types.NewInstrument("META", decimal.NewFromFloat(300.00)),
		types.NewInstrument("GOOG", decimal.NewFromFloat(135.00)),
		types.NewInstrument("MSFT", decimal.NewFromFloat(450.00)),
		types.NewInstrument("NVDA", decimal.NewFromFloat(130.00)),
	}
}

// DefaultTargets is the demo target allocation. "Reset" restores it.
func DefaultTargets() []engine.AllocationEntry {
	return []engine.AllocationEntry{
		{Symbol: "AAPL", Fraction: decimal.NewFromFloat(0.30)},
		{Symbol: "META", Fraction: decimal.NewFromFloat(0.20)},
		{Symbol: "GOOG", Fraction: decimal.NewFromFloat(0.20)},
		{Symbol: "MSFT", Fraction: decimal.NewFromFloat(0.20)},
		{Symbol: "NVDA", Fraction: decimal.NewFromFloat(0.10)},
	}
}

// DefaultHoldings is the demo starting position.
func DefaultHoldings() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"AAPL": decimal.NewFromFloat(10),
		"META": decimal.NewFromFloat(5),
	}
}
