package engine

import (
	"encoding/csv"
	"fmt"
	"io"

	"rebalancer/types"
)

// WriteAllocationCSV writes an allocation report to any io.Writer as CSV.
// You can pass os.Stdout for debugging, or an HTTP response.
func WriteAllocationCSV(w io.Writer, report types.AllocationReport) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"symbol", "shares", "value", "percent_of_total"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, pos := range report.Positions {
		row := []string{
			pos.Symbol,
			pos.Shares.String(),
			pos.Value.StringFixed(2),
			pos.PercentOfTotal.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write position %s: %w", pos.Symbol, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WritePlanCSV writes a rebalance plan to any io.Writer as CSV, sells
// first to match execution order.
func WritePlanCSV(w io.Writer, plan types.RebalancePlan) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"side", "symbol", "amount"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	writeOrders := func(orders []types.Order) error {
		for _, o := range orders {
			row := []string{string(o.Side), o.Symbol, o.Amount.StringFixed(2)}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write order %s: %w", o.Symbol, err)
			}
		}
		return nil
	}

	if err := writeOrders(plan.Sell); err != nil {
		return err
	}
	if err := writeOrders(plan.Buy); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
