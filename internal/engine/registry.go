package engine

import (
	"errors"

	"rebalancer/types"

	"github.com/shopspring/decimal"
)

var UnknownSymbolErr = errors.New("symbol not in instrument registry")
var DuplicateSymbolErr = errors.New("duplicate symbol in instrument registry")
var InvalidInstrumentErr = errors.New("invalid instrument")

// Registry is the read-only catalog of every instrument the engine may
// reference. It is immutable after construction and safe to share across
// engine instances.
type Registry struct {
	instruments map[string]types.Instrument
	symbols     []string
}

// NewRegistry builds a registry from the instrument universe. Construction
// order is preserved; it determines the ordering of backfilled zero-target
// entries when planning.
func NewRegistry(instruments []types.Instrument) (*Registry, error) {
	r := &Registry{
		instruments: make(map[string]types.Instrument, len(instruments)),
		symbols:     make([]string, 0, len(instruments)),
	}
	for _, inst := range instruments {
		if inst.Symbol == "" {
			return nil, InvalidInstrumentErr
		}
		if inst.Price.IsNegative() {
			return nil, InvalidInstrumentErr
		}
		if _, ok := r.instruments[inst.Symbol]; ok {
			return nil, DuplicateSymbolErr
		}
		r.instruments[inst.Symbol] = inst
		r.symbols = append(r.symbols, inst.Symbol)
	}
	return r, nil
}

func (r *Registry) Has(symbol string) bool {
	_, ok := r.instruments[symbol]
	return ok
}

// PriceOf returns the current price for the symbol.
func (r *Registry) PriceOf(symbol string) (decimal.Decimal, error) {
	inst, ok := r.instruments[symbol]
	if !ok {
		return decimal.Zero, UnknownSymbolErr
	}
	return inst.Price, nil
}

// Symbols returns all symbols in construction order.
func (r *Registry) Symbols() []string {
	out := make([]string, len(r.symbols))
	copy(out, r.symbols)
	return out
}

// Instruments returns the full universe in construction order.
func (r *Registry) Instruments() []types.Instrument {
	out := make([]types.Instrument, 0, len(r.symbols))
	for _, sym := range r.symbols {
		out = append(out, r.instruments[sym])
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.symbols)
}
