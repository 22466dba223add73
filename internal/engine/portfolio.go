package engine

import (
	"errors"

	"rebalancer/types"

	"github.com/shopspring/decimal"
)

var NegativeSharesErr = errors.New("holdings share counts cannot be negative")

// deadBand is the value discrepancy, in currency units, below which a trade
// is not worth recommending. It absorbs floating-point noise and
// economically meaningless orders.
var deadBand = decimal.New(1, -2)

// Portfolio is the rebalancing engine: a read-only registry reference, the
// target allocation, and the holdings it exclusively owns. It is
// single-writer; callers must confine one instance to one session.
type Portfolio struct {
	registry *Registry
	target   *TargetAllocation
	holdings map[string]decimal.Decimal
}

// NewPortfolio constructs an engine over the given registry and target
// allocation. initialHoldings may be nil; when supplied it is copied, never
// aliased, so the caller keeps no handle on live engine state.
func NewPortfolio(registry *Registry, target *TargetAllocation, initialHoldings map[string]decimal.Decimal) (*Portfolio, error) {
	holdings, err := copyHoldings(registry, initialHoldings)
	if err != nil {
		return nil, err
	}
	return &Portfolio{
		registry: registry,
		target:   target,
		holdings: holdings,
	}, nil
}

func copyHoldings(registry *Registry, src map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(src))
	for sym, shares := range src {
		if !registry.Has(sym) {
			return nil, UnknownSymbolErr
		}
		if shares.IsNegative() {
			return nil, NegativeSharesErr
		}
		if shares.IsZero() {
			continue
		}
		out[sym] = shares
	}
	return out, nil
}

// Deposit adds shares to the holdings for symbol. Non-positive share counts
// are silently ignored; the only failure is an unknown symbol, in which
// case holdings are left untouched.
func (p *Portfolio) Deposit(symbol string, shares decimal.Decimal) error {
	if !p.registry.Has(symbol) {
		return UnknownSymbolErr
	}
	if !shares.IsPositive() {
		return nil
	}
	p.holdings[symbol] = p.holdings[symbol].Add(shares)
	return nil
}

// ReplaceHoldings swaps the engine's holdings for a validated copy of the
// supplied map. Zero-share entries are dropped. On error the existing
// holdings are untouched.
func (p *Portfolio) ReplaceHoldings(holdings map[string]decimal.Decimal) error {
	next, err := copyHoldings(p.registry, holdings)
	if err != nil {
		return err
	}
	p.holdings = next
	return nil
}

// SetTargetAllocation replaces the target allocation. The allocation must
// have been built against this engine's registry.
func (p *Portfolio) SetTargetAllocation(target *TargetAllocation) error {
	for _, e := range target.Entries() {
		if !p.registry.Has(e.Symbol) {
			return UnknownSymbolErr
		}
	}
	p.target = target
	return nil
}

// Holdings returns a copy of the current holdings.
func (p *Portfolio) Holdings() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.holdings))
	for sym, shares := range p.holdings {
		out[sym] = shares
	}
	return out
}

// Registry returns the shared instrument registry.
func (p *Portfolio) Registry() *Registry {
	return p.registry
}

// TargetAllocation returns the engine's current target allocation.
func (p *Portfolio) TargetAllocation() *TargetAllocation {
	return p.target
}

// TotalValue sums shares × current price over all holdings. Prices come
// from the registry on every call so the result tracks live registry state.
func (p *Portfolio) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for sym, shares := range p.holdings {
		// Holdings symbols are validated on entry, the lookup cannot fail.
		price, _ := p.registry.PriceOf(sym)
		total = total.Add(shares.Mul(price))
	}
	return total
}

// CreateRebalancePlan computes the buy/sell orders that move the portfolio
// toward the target allocation. It is a pure read: the target allocation
// was already normalized over the whole universe at construction, so
// zero-target instruments with holdings show up as full liquidations.
func (p *Portfolio) CreateRebalancePlan() types.RebalancePlan {
	plan := types.RebalancePlan{
		Buy:  []types.Order{},
		Sell: []types.Order{},
	}

	totalValue := p.TotalValue()
	if totalValue.IsZero() {
		return plan
	}

	for _, entry := range p.target.Entries() {
		price, _ := p.registry.PriceOf(entry.Symbol)
		targetValue := totalValue.Mul(entry.Fraction)
		currentValue := p.holdings[entry.Symbol].Mul(price)
		delta := targetValue.Sub(currentValue)

		switch {
		case delta.GreaterThan(deadBand):
			plan.Buy = append(plan.Buy, types.NewOrder(entry.Symbol, types.SideTypeBuy, delta.RoundBank(2)))
		case delta.LessThan(deadBand.Neg()):
			plan.Sell = append(plan.Sell, types.NewOrder(entry.Symbol, types.SideTypeSell, delta.Abs().RoundBank(2)))
		}
	}
	return plan
}

// ExecuteRebalancePlan applies the plan to the holdings at current registry
// prices. Sells run before buys so the caller never needs capital beyond
// the sale proceeds, modeling sequential broker execution. Orders for
// instruments priced at or below zero are skipped as a guard against a
// corrupt registry, and orders with non-positive amounts are skipped so an
// externally supplied plan cannot push holdings negative. The plan may be
// stale; sells that overshoot the position are clamped at zero.
func (p *Portfolio) ExecuteRebalancePlan(plan types.RebalancePlan) error {
	for _, order := range plan.Sell {
		if !p.registry.Has(order.Symbol) {
			return UnknownSymbolErr
		}
	}
	for _, order := range plan.Buy {
		if !p.registry.Has(order.Symbol) {
			return UnknownSymbolErr
		}
	}

	for _, order := range plan.Sell {
		price, _ := p.registry.PriceOf(order.Symbol)
		if !price.IsPositive() || !order.Amount.IsPositive() {
			continue
		}
		sharesToSell := order.Amount.Div(price)
		remaining := p.holdings[order.Symbol].Sub(sharesToSell)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		p.holdings[order.Symbol] = remaining
	}

	for _, order := range plan.Buy {
		price, _ := p.registry.PriceOf(order.Symbol)
		if !price.IsPositive() || !order.Amount.IsPositive() {
			continue
		}
		sharesToBuy := order.Amount.Div(price)
		p.holdings[order.Symbol] = p.holdings[order.Symbol].Add(sharesToBuy)
	}
	return nil
}
