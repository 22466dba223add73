package engine

import (
	"errors"

	"github.com/shopspring/decimal"
)

var InvalidAllocationErr = errors.New("target allocation fractions must sum to 1.0")

// allocationSumTolerance absorbs floating-point noise in caller-supplied
// fractions; exact equality against 1.0 is too fragile.
var allocationSumTolerance = decimal.New(1, -9)

// AllocationEntry is a single symbol → target fraction pair.
type AllocationEntry struct {
	Symbol   string          `json:"symbol"`
	Fraction decimal.Decimal `json:"fraction"`
}

// TargetAllocation is the desired fraction of total portfolio value per
// symbol. Entry order is preserved: caller-supplied symbols first in their
// original order, then registry symbols backfilled at zero in registry
// order. The backfill happens here, at construction, so that planning is a
// pure read and zero-target instruments with holdings are still considered
// for liquidation.
type TargetAllocation struct {
	entries []AllocationEntry
	index   map[string]int
}

// NewTargetAllocation validates the supplied fractions against the
// registry and normalizes the result to cover the whole universe.
func NewTargetAllocation(registry *Registry, entries []AllocationEntry) (*TargetAllocation, error) {
	ta := &TargetAllocation{
		entries: make([]AllocationEntry, 0, registry.Len()),
		index:   make(map[string]int, registry.Len()),
	}

	sum := decimal.Zero
	for _, e := range entries {
		if !registry.Has(e.Symbol) {
			return nil, UnknownSymbolErr
		}
		if _, ok := ta.index[e.Symbol]; ok {
			return nil, InvalidAllocationErr
		}
		if e.Fraction.IsNegative() || e.Fraction.GreaterThan(decimal.NewFromInt(1)) {
			return nil, InvalidAllocationErr
		}
		ta.index[e.Symbol] = len(ta.entries)
		ta.entries = append(ta.entries, e)
		sum = sum.Add(e.Fraction)
	}

	if sum.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(allocationSumTolerance) {
		return nil, InvalidAllocationErr
	}

	// Backfill the rest of the universe at 0%.
	for _, sym := range registry.Symbols() {
		if _, ok := ta.index[sym]; ok {
			continue
		}
		ta.index[sym] = len(ta.entries)
		ta.entries = append(ta.entries, AllocationEntry{Symbol: sym, Fraction: decimal.Zero})
	}

	return ta, nil
}

// Fraction returns the target fraction for the symbol, zero if absent.
func (ta *TargetAllocation) Fraction(symbol string) decimal.Decimal {
	i, ok := ta.index[symbol]
	if !ok {
		return decimal.Zero
	}
	return ta.entries[i].Fraction
}

// Entries returns all entries in iteration order.
func (ta *TargetAllocation) Entries() []AllocationEntry {
	out := make([]AllocationEntry, len(ta.entries))
	copy(out, ta.entries)
	return out
}

func (ta *TargetAllocation) Len() int {
	return len(ta.entries)
}
