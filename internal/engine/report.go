package engine

import (
	"sort"

	"rebalancer/types"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// AllocationReport builds a valuation snapshot: every position with a
// positive share count, sorted by symbol for deterministic display. When
// the portfolio is worth nothing the percentages are zero rather than a
// division failure.
func (p *Portfolio) AllocationReport() types.AllocationReport {
	report := types.AllocationReport{
		TotalValue: p.TotalValue(),
		Positions:  []types.PositionReport{},
	}

	for sym, shares := range p.holdings {
		if !shares.IsPositive() {
			continue
		}
		price, _ := p.registry.PriceOf(sym)
		value := shares.Mul(price)

		percent := decimal.Zero
		if report.TotalValue.IsPositive() {
			percent = value.Div(report.TotalValue).Mul(oneHundred)
		}

		report.Positions = append(report.Positions, types.PositionReport{
			Symbol:         sym,
			Shares:         shares,
			Value:          value,
			PercentOfTotal: percent,
		})
	}

	sort.Slice(report.Positions, func(i, j int) bool {
		return report.Positions[i].Symbol < report.Positions[j].Symbol
	})
	return report
}
